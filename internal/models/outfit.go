// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Feedback is the user's reaction to a recommended outfit.
type Feedback string

const (
	FeedbackNone    Feedback = "none"
	FeedbackLike    Feedback = "like"
	FeedbackDislike Feedback = "dislike"
	FeedbackSkip    Feedback = "skip"
)

// Valid reports whether f is a known feedback value.
func (f Feedback) Valid() bool {
	switch f {
	case FeedbackNone, FeedbackLike, FeedbackDislike, FeedbackSkip:
		return true
	}
	return false
}

// Outfit is a recommended set of garments. Outfits are created by the
// recommender and never modified afterwards except for Feedback.
type Outfit struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	Date       Date       `json:"date"`
	GarmentIDs GarmentIDs `json:"item_ids"`
	Feedback   Feedback   `json:"feedback"`
	CreatedAt  time.Time  `json:"created_at"`

	// Reason explains the recommendation. It is only populated on the
	// outfit returned by the recommender and is not persisted.
	Reason string `json:"reason,omitempty"`
}

// GarmentIDs is the ordered list of garments in an outfit, stored as a
// JSON array.
type GarmentIDs []uuid.UUID

// Set returns the ids as a set.
func (ids GarmentIDs) Set() map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// SameSet reports whether ids and other contain the same garments,
// ignoring order and duplicates.
func (ids GarmentIDs) SameSet(other GarmentIDs) bool {
	a, b := ids.Set(), other.Set()
	if len(a) != len(b) {
		return false
	}
	for id := range a {
		if _, ok := b[id]; !ok {
			return false
		}
	}
	return true
}

// Scan implements sql.Scanner for JSON columns.
func (ids *GarmentIDs) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	case nil:
		*ids = GarmentIDs{}
		return nil
	default:
		return fmt.Errorf("scan garment ids: unsupported type %T", src)
	}
	var out []uuid.UUID
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("scan garment ids: %w", err)
	}
	*ids = out
	return nil
}

// Value implements driver.Valuer.
func (ids GarmentIDs) Value() (driver.Value, error) {
	if ids == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]uuid.UUID(ids))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
