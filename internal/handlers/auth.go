package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"outfitguru/internal/apperr"
	"outfitguru/internal/models"
	"outfitguru/internal/session"
	"outfitguru/internal/validation"
)

// Users is the account storage the auth and profile handlers need.
type Users interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Create(ctx context.Context, email, password, displayName string) (*models.User, error)
	CheckPassword(user *models.User, password string) bool
}

// Sessions issues and revokes API sessions.
type Sessions interface {
	Create(ctx context.Context, w http.ResponseWriter, data *session.Data) (string, error)
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	sessions  Sessions
	users     Users
	validator *validation.Validator
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions Sessions, users Users, v *validation.Validator) *Auth {
	return &Auth{sessions: sessions, users: users, validator: v}
}

type registerRequest struct {
	Email       string `json:"email" validate:"required,email,max=254"`
	Password    string `json:"password" validate:"required,min=8,max=1024"`
	DisplayName string `json:"display_name" validate:"max=100"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Register creates an account and signs it in.
func (a *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if err := a.validator.Validate(req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.DisplayName == "" {
		req.DisplayName, _, _ = strings.Cut(req.Email, "@")
	}

	user, err := a.users.Create(r.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		writeError(w, r, err)
		return
	}

	token, err := a.startSession(w, r, user)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("user registered", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, authResponse{User: user, Token: token})
}

// Login verifies credentials and issues a session token.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := a.validator.Validate(req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := a.users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if user == nil || !a.users.CheckPassword(user, req.Password) {
		writeError(w, r, apperr.Unauthorized("Invalid email or password."))
		return
	}

	token, err := a.startSession(w, r, user)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{User: user, Token: token})
}

// Logout destroys the current session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *Auth) startSession(w http.ResponseWriter, r *http.Request, user *models.User) (string, error) {
	token, err := a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	})
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return token, nil
}
