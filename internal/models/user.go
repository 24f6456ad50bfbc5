// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// User is an account owning a wardrobe, outfits and a calendar.
type User struct {
	ID           uuid.UUID       `json:"id"`
	Email        string          `json:"email"`
	PasswordHash string          `json:"-"` // Never serialize the hash
	DisplayName  string          `json:"display_name"`
	Preferences  json.RawMessage `json:"preferences"` // Nullable free-form object
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
