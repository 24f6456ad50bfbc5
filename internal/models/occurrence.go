// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// OccurrenceStatus is the lifecycle state of a calendar day.
type OccurrenceStatus string

const (
	StatusPlanned OccurrenceStatus = "planned"
	StatusWorn    OccurrenceStatus = "worn"
)

// NegativeReason explains why a day's outfit was not worn as planned.
type NegativeReason string

const (
	ReasonTooWarmCold  NegativeReason = "Too warm/cold"
	ReasonDidntLike    NegativeReason = "Didn't like it"
	ReasonPlansChanged NegativeReason = "Plans changed"
)

// NegativeReasons lists the accepted reasons in display order.
var NegativeReasons = []NegativeReason{ReasonTooWarmCold, ReasonDidntLike, ReasonPlansChanged}

// Valid reports whether r is one of the accepted reasons.
func (r NegativeReason) Valid() bool {
	switch r {
	case ReasonTooWarmCold, ReasonDidntLike, ReasonPlansChanged:
		return true
	}
	return false
}

// Occurrence records what is planned or was worn on one day. There is at
// most one Occurrence per (UserID, Date).
type Occurrence struct {
	ID             uuid.UUID        `json:"id"`
	UserID         uuid.UUID        `json:"user_id"`
	Date           Date             `json:"date"`
	OutfitID       *uuid.UUID       `json:"outfit_id"`
	Status         OccurrenceStatus `json:"status"`
	NegativeReason *NegativeReason  `json:"negative_reason"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`

	// Outfit is the bound outfit, populated by store reads.
	Outfit *Outfit `json:"outfit,omitempty"`
}
