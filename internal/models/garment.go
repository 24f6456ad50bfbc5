// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Garment is a single clothing item in a user's wardrobe. The recommender
// only reads its ID, Category and CreatedAt.
type Garment struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Category    Category  `json:"category"`
	Subtype     string    `json:"subtype"`
	Color       string    `json:"color"`
	ColorFamily string    `json:"color_family"`
	Season      string    `json:"season"`
	ImageURL    *string   `json:"image_url"`
	Notes       *string   `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
