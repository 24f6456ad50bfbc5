// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package calendar manages the per-day outfit occurrences of a user. Each
// day holds at most one occurrence, which is either planned (an outfit is
// bound for the day) or worn (the day's outcome is known).
package calendar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"outfitguru/internal/apperr"
	"outfitguru/internal/models"
)

const tracerName = "outfitguru/internal/calendar"

// Validation failures the caller can correct and retry.
var (
	ErrNoOutfitAvailable = apperr.ValidationReason("no_outfit_available",
		"No outfit available to plan. Request a recommendation first.")
	ErrReasonRequired = apperr.ValidationReason("reason_required",
		"Please choose a reason if you skipped this outfit.")
	ErrInvalidReason = apperr.ValidationReason("invalid_reason",
		"Unknown reason for skipping an outfit.")
	ErrInvalidMonth = apperr.ValidationReason("invalid_month",
		"Invalid year or month.")
)

// Repository stores occurrences with a unique (user, date) key.
type Repository interface {
	// FindByDate returns nil when the day has no occurrence.
	FindByDate(ctx context.Context, userID uuid.UUID, date models.Date) (*models.Occurrence, error)
	// ListRange returns occurrences between start and end inclusive, by date.
	ListRange(ctx context.Context, userID uuid.UUID, start, end models.Date) ([]models.Occurrence, error)
	// Create fails with apperr.ErrConflict when the day already has one.
	Create(ctx context.Context, occ *models.Occurrence) (*models.Occurrence, error)
	// Update returns nil when the occurrence no longer exists.
	Update(ctx context.Context, occ *models.Occurrence) (*models.Occurrence, error)
}

// OutfitSource returns the outfit most recently produced for a user, by
// date then creation time, or nil when there is none.
type OutfitSource interface {
	Latest(ctx context.Context, userID uuid.UUID) (*models.Outfit, error)
}

// MonthCache holds month views between writes. Implementations treat
// failures as misses.
type MonthCache interface {
	GetMonth(ctx context.Context, userID uuid.UUID, year int, month time.Month) ([]models.Occurrence, bool)
	SetMonth(ctx context.Context, userID uuid.UUID, year int, month time.Month, items []models.Occurrence)
	InvalidateMonth(ctx context.Context, userID uuid.UUID, year int, month time.Month, action string)
}

// Service drives the planned/worn lifecycle of calendar days.
type Service struct {
	occurrences Repository
	outfits     OutfitSource
	cache       MonthCache
	now         func() time.Time
	loc         *time.Location
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used to compute today.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the time zone that defines "today".
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.loc = loc }
}

// WithMonthCache caches Month results until a write touches the month.
func WithMonthCache(c MonthCache) Option {
	return func(s *Service) { s.cache = c }
}

// NewService creates a calendar service.
func NewService(occurrences Repository, outfits OutfitSource, opts ...Option) *Service {
	s := &Service{
		occurrences: occurrences,
		outfits:     outfits,
		now:         time.Now,
		loc:         time.UTC,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today returns the current calendar day in the service's time zone.
func (s *Service) Today() models.Date {
	return models.DateOf(s.now().In(s.loc))
}

// Day returns the user's occurrence on date, or nil.
func (s *Service) Day(ctx context.Context, userID uuid.UUID, date models.Date) (*models.Occurrence, error) {
	occ, err := s.occurrences.FindByDate(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("find occurrence: %w", err)
	}
	return occ, nil
}

// Range returns the user's occurrences from start to end inclusive,
// ordered by date.
func (s *Service) Range(ctx context.Context, userID uuid.UUID, start, end models.Date) ([]models.Occurrence, error) {
	if end.Before(start) {
		return nil, apperr.Validation("end date is before start date")
	}
	items, err := s.occurrences.ListRange(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list occurrences: %w", err)
	}
	return items, nil
}

// Month returns the user's occurrences in the given month.
func (s *Service) Month(ctx context.Context, userID uuid.UUID, year int, month time.Month) ([]models.Occurrence, error) {
	if month < time.January || month > time.December || year < 1 || year > 9999 {
		return nil, ErrInvalidMonth
	}
	if s.cache != nil {
		if items, ok := s.cache.GetMonth(ctx, userID, year, month); ok {
			return items, nil
		}
	}

	start, end := models.MonthBounds(year, month)
	items, err := s.Range(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetMonth(ctx, userID, year, month, items)
	}
	return items, nil
}

// Plan binds the user's latest outfit to date and marks the day planned,
// clearing any negative reason. Repeated calls converge on the same
// occurrence.
func (s *Service) Plan(ctx context.Context, userID uuid.UUID, date models.Date) (*models.Occurrence, error) {
	ctx, span := s.startSpan(ctx, "calendar.Plan", userID, date)
	defer span.End()

	latest, err := s.outfits.Latest(ctx, userID)
	if err != nil {
		return nil, spanError(span, fmt.Errorf("latest outfit: %w", err))
	}
	if latest == nil {
		return nil, ErrNoOutfitAvailable
	}

	occ, err := s.upsert(ctx, userID, date, func(o *models.Occurrence) {
		o.OutfitID = &latest.ID
		o.Status = models.StatusPlanned
		o.NegativeReason = nil
	})
	if err != nil {
		return nil, spanError(span, err)
	}
	if occ.Outfit == nil {
		occ.Outfit = latest
	}
	s.invalidate(ctx, userID, date, "plan")

	span.SetAttributes(attribute.String("outfit.id", latest.ID.String()))
	slog.Info("outfit planned", "user_id", userID, "date", date, "outfit_id", latest.ID, "occurrence_id", occ.ID)
	return occ, nil
}

// PlanTomorrow plans the day after today.
func (s *Service) PlanTomorrow(ctx context.Context, userID uuid.UUID) (*models.Occurrence, error) {
	return s.Plan(ctx, userID, s.Today().AddDays(1))
}

// Confirm records the outcome of date. The day always ends up worn; when
// the outfit was not actually worn a negative reason is required and
// stored, otherwise any previous reason is cleared. Days that were never
// planned are created on the fly.
func (s *Service) Confirm(ctx context.Context, userID uuid.UUID, date models.Date, worn bool, reason *models.NegativeReason) (*models.Occurrence, error) {
	ctx, span := s.startSpan(ctx, "calendar.Confirm", userID, date)
	defer span.End()
	span.SetAttributes(attribute.Bool("occurrence.worn", worn))

	var stored *models.NegativeReason
	if !worn {
		if reason == nil || *reason == "" {
			return nil, ErrReasonRequired
		}
		if !reason.Valid() {
			return nil, ErrInvalidReason
		}
		r := *reason
		stored = &r
	}

	occ, err := s.upsert(ctx, userID, date, func(o *models.Occurrence) {
		o.Status = models.StatusWorn
		o.NegativeReason = stored
	})
	if err != nil {
		return nil, spanError(span, err)
	}
	s.invalidate(ctx, userID, date, "confirm")

	slog.Info("occurrence confirmed", "user_id", userID, "date", date, "worn", worn, "occurrence_id", occ.ID)
	return occ, nil
}

// upsert applies mutate to the day's occurrence, creating it as planned
// with no outfit when absent. A create that loses a race against another
// writer for the same day is retried once as an update.
func (s *Service) upsert(ctx context.Context, userID uuid.UUID, date models.Date, mutate func(*models.Occurrence)) (*models.Occurrence, error) {
	existing, err := s.occurrences.FindByDate(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("find occurrence: %w", err)
	}

	if existing == nil {
		occ := &models.Occurrence{
			UserID: userID,
			Date:   date,
			Status: models.StatusPlanned,
		}
		mutate(occ)
		created, err := s.occurrences.Create(ctx, occ)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, apperr.ErrConflict) {
			return nil, fmt.Errorf("create occurrence: %w", err)
		}

		slog.Debug("occurrence create lost race, updating instead", "user_id", userID, "date", date)
		existing, err = s.occurrences.FindByDate(ctx, userID, date)
		if err != nil {
			return nil, fmt.Errorf("find occurrence: %w", err)
		}
		if existing == nil {
			return nil, fmt.Errorf("occurrence for %s vanished after conflict", date)
		}
	}

	mutate(existing)
	updated, err := s.occurrences.Update(ctx, existing)
	if err != nil {
		return nil, fmt.Errorf("update occurrence: %w", err)
	}
	if updated == nil {
		return nil, fmt.Errorf("occurrence %s vanished during update", existing.ID)
	}
	return updated, nil
}

func (s *Service) invalidate(ctx context.Context, userID uuid.UUID, date models.Date, action string) {
	if s.cache != nil {
		s.cache.InvalidateMonth(ctx, userID, date.Year(), date.Month(), action)
	}
}

func (s *Service) startSpan(ctx context.Context, name string, userID uuid.UUID, date models.Date) (context.Context, trace.Span) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, name)
	span.SetAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("occurrence.date", date.String()),
	)
	return ctx, span
}

func spanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
