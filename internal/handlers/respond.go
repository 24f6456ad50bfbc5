// Package handlers implements the OutfitGuru JSON API: authentication,
// the wardrobe, outfit recommendations and the calendar.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"outfitguru/internal/apperr"
	"outfitguru/internal/middleware"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

type errorBody struct {
	Code    apperr.Code `json:"code"`
	Reason  string      `json:"reason,omitempty"`
	Message string      `json:"message"`
	Details any         `json:"details,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// writeError renders err as the API error envelope. Errors that are not
// *apperr.Error are logged and reported as a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		appErr = apperr.ErrInternal
	}
	if appErr.Code == apperr.CodeInternal {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}

	writeJSON(w, appErr.HTTPStatus(), map[string]errorBody{
		"error": {
			Code:    appErr.Code,
			Reason:  appErr.Reason,
			Message: appErr.Message,
			Details: appErr.Details,
		},
	})
}

// decodeJSON reads a JSON request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Validation("Request body is required.")
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperr.Validation("Request body is too large.")
		}
		return apperr.Validation("Malformed JSON body.").WithCause(err)
	}
	return nil
}

// currentUser returns the authenticated user's id. RequireAuth guarantees
// a session on every route that calls it.
func currentUser(r *http.Request) (uuid.UUID, error) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		return uuid.Nil, apperr.Unauthorized("Authentication required.")
	}
	return sess.UserID, nil
}

// pathID parses the {id} URL parameter. Malformed ids are reported as
// not found.
func pathID(r *http.Request, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, apperr.NotFound(what + " not found")
	}
	return id, nil
}
