// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package recommend

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"outfitguru/internal/models"
)

const tracerName = "outfitguru/internal/recommend"

// GarmentLister lists a user's garments of one category, oldest first.
type GarmentLister interface {
	ListByCategory(ctx context.Context, userID uuid.UUID, category models.Category) ([]models.Garment, error)
}

// OutfitStore reads outfit history and persists new outfits.
type OutfitStore interface {
	// ListByUser returns the user's outfits, newest created first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Outfit, error)
	Create(ctx context.Context, outfit *models.Outfit) (*models.Outfit, error)
}

// Result is the outcome of a recommendation request. Exactly one of Outfit
// and Missing is set.
type Result struct {
	Outfit  *models.Outfit
	Missing []models.Category
}

// Service produces and persists daily outfit recommendations.
type Service struct {
	garments GarmentLister
	outfits  OutfitStore
	now      func() time.Time
	loc      *time.Location
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used to date new outfits.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the time zone that defines "today".
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.loc = loc }
}

// NewService creates a recommendation service over the given stores.
func NewService(garments GarmentLister, outfits OutfitStore, opts ...Option) *Service {
	s := &Service{
		garments: garments,
		outfits:  outfits,
		now:      time.Now,
		loc:      time.UTC,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Recommend selects today's outfit for userID and stores it. When the
// wardrobe cannot support an outfit, the Result lists the missing categories
// and nothing is written. The returned error is only set for store failures.
func (s *Service) Recommend(ctx context.Context, userID uuid.UUID) (*Result, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "recommend.Recommend")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID.String()))

	history, err := s.outfits.ListByUser(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list outfit history")
		return nil, fmt.Errorf("list outfit history: %w", err)
	}

	pools := make(Pools, len(selectionCategories))
	for _, c := range selectionCategories {
		garments, err := s.garments.ListByCategory(ctx, userID, c)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "list garments")
			return nil, fmt.Errorf("list %s garments: %w", c, err)
		}
		pools[c] = garments
	}

	sel := Select(history, pools)
	if len(sel.Missing) > 0 {
		missing := make([]string, len(sel.Missing))
		for i, c := range sel.Missing {
			missing[i] = string(c)
		}
		span.SetAttributes(attribute.StringSlice("recommend.missing_categories", missing))
		slog.Debug("recommendation blocked", "user_id", userID, "missing", missing)
		return &Result{Missing: sel.Missing}, nil
	}

	outfit, err := s.outfits.Create(ctx, &models.Outfit{
		UserID:     userID,
		Date:       models.DateOf(s.now().In(s.loc)),
		GarmentIDs: sel.GarmentIDs,
		Feedback:   models.FeedbackNone,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create outfit")
		return nil, fmt.Errorf("create outfit: %w", err)
	}
	outfit.Reason = sel.Reason()

	span.SetAttributes(
		attribute.String("outfit.id", outfit.ID.String()),
		attribute.String("outfit.composition", string(sel.Composition)),
		attribute.Int("outfit.garments", len(outfit.GarmentIDs)),
	)
	if sel.Substituted != "" {
		span.SetAttributes(attribute.String("outfit.substituted", string(sel.Substituted)))
	}
	slog.Info("outfit recommended",
		"user_id", userID,
		"outfit_id", outfit.ID,
		"composition", sel.Composition,
		"garments", len(outfit.GarmentIDs),
	)

	return &Result{Outfit: outfit}, nil
}
