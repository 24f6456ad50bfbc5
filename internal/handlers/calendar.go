// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"outfitguru/internal/apperr"
	"outfitguru/internal/calendar"
	"outfitguru/internal/models"
	"outfitguru/internal/validation"
)

// CalendarService drives the planned/worn lifecycle of calendar days.
type CalendarService interface {
	Month(ctx context.Context, userID uuid.UUID, year int, month time.Month) ([]models.Occurrence, error)
	Day(ctx context.Context, userID uuid.UUID, date models.Date) (*models.Occurrence, error)
	PlanTomorrow(ctx context.Context, userID uuid.UUID) (*models.Occurrence, error)
	Confirm(ctx context.Context, userID uuid.UUID, date models.Date, worn bool, reason *models.NegativeReason) (*models.Occurrence, error)
}

// Calendar serves month and day views and the plan/confirm transitions.
type Calendar struct {
	svc       CalendarService
	validator *validation.Validator
}

// NewCalendar creates a Calendar handler group.
func NewCalendar(svc CalendarService, v *validation.Validator) *Calendar {
	return &Calendar{svc: svc, validator: v}
}

type confirmRequest struct {
	Date           *models.Date `json:"date" validate:"required"`
	Worn           *bool        `json:"worn"`
	NegativeReason *string      `json:"negative_reason"`
}

// Month returns the occurrences of ?year=&month=, ascending by date.
func (h *Calendar) Month(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	year, yerr := strconv.Atoi(q.Get("year"))
	month, merr := strconv.Atoi(q.Get("month"))
	if yerr != nil || merr != nil {
		writeError(w, r, calendar.ErrInvalidMonth)
		return
	}

	items, err := h.svc.Month(r.Context(), userID, year, time.Month(month))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if items == nil {
		items = []models.Occurrence{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"occurrences": items})
}

// Day returns the occurrence of ?date=YYYY-MM-DD, or null.
func (h *Calendar) Day(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	date, err := models.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, r, apperr.ValidationWithDetails("validation failed",
			map[string]string{"date": "must be a date in YYYY-MM-DD format"}))
		return
	}

	occ, err := h.svc.Day(r.Context(), userID, date)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"occurrence": occ})
}

// PlanTomorrow binds the latest outfit to tomorrow.
func (h *Calendar) PlanTomorrow(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	occ, err := h.svc.PlanTomorrow(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, occ)
}

// ConfirmWorn records whether the day's outfit was worn. worn defaults to
// true; a day not worn needs a negative_reason.
func (h *Calendar) ConfirmWorn(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req confirmRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		writeError(w, r, err)
		return
	}

	worn := req.Worn == nil || *req.Worn
	var reason *models.NegativeReason
	if req.NegativeReason != nil {
		nr := models.NegativeReason(*req.NegativeReason)
		reason = &nr
	}

	occ, err := h.svc.Confirm(r.Context(), userID, *req.Date, worn, reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, occ)
}
