// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"outfitguru/internal/models"
)

// OutfitStore handles outfit history persistence.
type OutfitStore struct {
	db *sql.DB
}

// NewOutfitStore creates a new OutfitStore.
func NewOutfitStore(db *sql.DB) *OutfitStore {
	return &OutfitStore{db: db}
}

const outfitColumns = `id, user_id, date, item_ids, feedback, created_at`

func scanOutfit(scanner interface{ Scan(...any) error }) (*models.Outfit, error) {
	var o models.Outfit
	if err := scanner.Scan(&o.ID, &o.UserID, &o.Date, &o.GarmentIDs, &o.Feedback, &o.CreatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

// Create inserts an outfit. The garment ids are stored in order.
func (s *OutfitStore) Create(ctx context.Context, o *models.Outfit) (*models.Outfit, error) {
	feedback := o.Feedback
	if feedback == "" {
		feedback = models.FeedbackNone
	}
	created, err := scanOutfit(s.db.QueryRowContext(ctx, `
		INSERT INTO outfits (user_id, date, item_ids, feedback)
		VALUES ($1, $2, $3, $4)
		RETURNING `+outfitColumns,
		o.UserID, o.Date, o.GarmentIDs, feedback,
	))
	if err != nil {
		return nil, fmt.Errorf("create outfit: %w", err)
	}
	return created, nil
}

// FindByID returns the user's outfit with id, or nil.
func (s *OutfitStore) FindByID(ctx context.Context, userID, id uuid.UUID) (*models.Outfit, error) {
	o, err := scanOutfit(s.db.QueryRowContext(ctx, `
		SELECT `+outfitColumns+` FROM outfits WHERE id = $1 AND user_id = $2
	`, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find outfit: %w", err)
	}
	return o, nil
}

// ListByUser returns the user's outfits, newest created first.
func (s *OutfitStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Outfit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+outfitColumns+` FROM outfits
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list outfits: %w", err)
	}
	defer rows.Close()

	var items []models.Outfit
	for rows.Next() {
		o, err := scanOutfit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan outfit: %w", err)
		}
		items = append(items, *o)
	}
	return items, rows.Err()
}

// Latest returns the user's most recent outfit by date, then creation
// time. Returns nil if the user has no outfits.
func (s *OutfitStore) Latest(ctx context.Context, userID uuid.UUID) (*models.Outfit, error) {
	o, err := scanOutfit(s.db.QueryRowContext(ctx, `
		SELECT `+outfitColumns+` FROM outfits
		WHERE user_id = $1
		ORDER BY date DESC, created_at DESC
		LIMIT 1
	`, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest outfit: %w", err)
	}
	return o, nil
}

// SetFeedback records the user's feedback on an outfit. Returns nil if the
// outfit does not belong to userID.
func (s *OutfitStore) SetFeedback(ctx context.Context, userID, id uuid.UUID, feedback models.Feedback) (*models.Outfit, error) {
	o, err := scanOutfit(s.db.QueryRowContext(ctx, `
		UPDATE outfits SET feedback = $1
		WHERE id = $2 AND user_id = $3
		RETURNING `+outfitColumns,
		feedback, id, userID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("set outfit feedback: %w", err)
	}
	return o, nil
}
