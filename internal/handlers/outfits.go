package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"outfitguru/internal/apperr"
	"outfitguru/internal/models"
	"outfitguru/internal/recommend"
	"outfitguru/internal/validation"
)

// Recommender produces today's outfit for a user.
type Recommender interface {
	Recommend(ctx context.Context, userID uuid.UUID) (*recommend.Result, error)
}

// OutfitHistory reads past outfits and records feedback on them.
type OutfitHistory interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Outfit, error)
	SetFeedback(ctx context.Context, userID, id uuid.UUID, feedback models.Feedback) (*models.Outfit, error)
}

// UserCache drops every cached view of a user.
type UserCache interface {
	InvalidateUser(ctx context.Context, userID uuid.UUID, action string)
}

// Outfits serves recommendations, feedback and outfit history.
type Outfits struct {
	recommender Recommender
	history     OutfitHistory
	cache       UserCache
	validator   *validation.Validator
}

// NewOutfits creates an Outfits handler group. cache may be nil.
func NewOutfits(rec Recommender, history OutfitHistory, cache UserCache, v *validation.Validator) *Outfits {
	return &Outfits{recommender: rec, history: history, cache: cache, validator: v}
}

type missingResponse struct {
	MissingCategories []models.Category `json:"missing_categories"`
	Message           string            `json:"message"`
}

type feedbackRequest struct {
	Feedback string `json:"feedback" validate:"required,feedback"`
}

// Recommend selects and stores today's outfit. An incomplete wardrobe is
// answered with 200 and the categories the user still needs.
func (h *Outfits) Recommend(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.recommender.Recommend(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if len(res.Missing) > 0 {
		writeJSON(w, http.StatusOK, missingResponse{
			MissingCategories: res.Missing,
			Message:           missingMessage,
		})
		return
	}
	writeJSON(w, http.StatusCreated, res.Outfit)
}

const missingMessage = "Add at least one item in these categories to get a recommendation."

// Feedback records the user's reaction to one of their outfits.
func (h *Outfits) Feedback(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r, "Outfit")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req feedbackRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		writeError(w, r, err)
		return
	}

	outfit, err := h.history.SetFeedback(r.Context(), userID, id, models.Feedback(req.Feedback))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if outfit == nil {
		writeError(w, r, apperr.NotFound("Outfit not found"))
		return
	}

	// Calendar months embed outfits, feedback included.
	if h.cache != nil {
		h.cache.InvalidateUser(r.Context(), userID, "feedback")
	}
	slog.Debug("outfit feedback", "user_id", userID, "outfit_id", id, "feedback", req.Feedback)
	writeJSON(w, http.StatusOK, outfit)
}

// History returns the user's outfits, newest first.
func (h *Outfits) History(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	items, err := h.history.ListByUser(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if items == nil {
		items = []models.Outfit{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}
