package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"outfitguru/internal/apperr"
	"outfitguru/internal/models"
)

// PreferenceStore updates the free-form preferences document of a user.
type PreferenceStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdatePreferences(ctx context.Context, id uuid.UUID, prefs json.RawMessage) (*models.User, error)
}

// Profile serves the signed-in user's account.
type Profile struct {
	users PreferenceStore
}

// NewProfile creates a Profile handler group.
func NewProfile(users PreferenceStore) *Profile {
	return &Profile{users: users}
}

// Me returns the signed-in user.
func (p *Profile) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := p.users.FindByID(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if user == nil {
		// Session outlived the account.
		writeError(w, r, apperr.Unauthorized("Account no longer exists."))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

// UpdatePreferences replaces the preferences document. The body must be a
// JSON object.
func (p *Profile) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var prefs json.RawMessage
	if err := decodeJSON(w, r, &prefs); err != nil {
		writeError(w, r, err)
		return
	}
	if !bytes.HasPrefix(bytes.TrimSpace(prefs), []byte("{")) {
		writeError(w, r, apperr.Validation("Preferences must be a JSON object."))
		return
	}

	user, err := p.users.UpdatePreferences(r.Context(), userID, prefs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if user == nil {
		writeError(w, r, apperr.Unauthorized("Account no longer exists."))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}
