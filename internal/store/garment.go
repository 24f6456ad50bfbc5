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

// GarmentStore handles wardrobe item persistence.
type GarmentStore struct {
	db *sql.DB
}

// NewGarmentStore creates a new GarmentStore.
func NewGarmentStore(db *sql.DB) *GarmentStore {
	return &GarmentStore{db: db}
}

const garmentColumns = `id, user_id, name, category, subtype, color, color_family, season,
	image_url, notes, created_at, updated_at`

func scanGarment(scanner interface{ Scan(...any) error }) (*models.Garment, error) {
	var g models.Garment
	err := scanner.Scan(
		&g.ID, &g.UserID, &g.Name, &g.Category, &g.Subtype, &g.Color, &g.ColorFamily, &g.Season,
		&g.ImageURL, &g.Notes, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// Create inserts a garment and returns it with its id and timestamps.
func (s *GarmentStore) Create(ctx context.Context, g *models.Garment) (*models.Garment, error) {
	created, err := scanGarment(s.db.QueryRowContext(ctx, `
		INSERT INTO garments (user_id, name, category, subtype, color, color_family, season, image_url, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+garmentColumns,
		g.UserID, g.Name, g.Category, g.Subtype, g.Color, g.ColorFamily, g.Season, g.ImageURL, g.Notes,
	))
	if err != nil {
		return nil, fmt.Errorf("create garment: %w", err)
	}
	return created, nil
}

// FindByID returns the user's garment with id. Returns nil if not found or
// owned by someone else.
func (s *GarmentStore) FindByID(ctx context.Context, userID, id uuid.UUID) (*models.Garment, error) {
	g, err := scanGarment(s.db.QueryRowContext(ctx, `
		SELECT `+garmentColumns+` FROM garments WHERE id = $1 AND user_id = $2
	`, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find garment: %w", err)
	}
	return g, nil
}

// ListByUser returns all of the user's garments, newest first.
func (s *GarmentStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Garment, error) {
	return s.list(ctx, `
		SELECT `+garmentColumns+` FROM garments
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
}

// ListByCategory returns the user's garments in one category, oldest first.
func (s *GarmentStore) ListByCategory(ctx context.Context, userID uuid.UUID, category models.Category) ([]models.Garment, error) {
	return s.list(ctx, `
		SELECT `+garmentColumns+` FROM garments
		WHERE user_id = $1 AND category = $2
		ORDER BY created_at ASC, id ASC
	`, userID, category)
}

func (s *GarmentStore) list(ctx context.Context, query string, args ...any) ([]models.Garment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list garments: %w", err)
	}
	defer rows.Close()

	var items []models.Garment
	for rows.Next() {
		g, err := scanGarment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan garment: %w", err)
		}
		items = append(items, *g)
	}
	return items, rows.Err()
}

// Update replaces the mutable fields of a garment. Returns nil if the
// garment does not exist for g.UserID.
func (s *GarmentStore) Update(ctx context.Context, g *models.Garment) (*models.Garment, error) {
	updated, err := scanGarment(s.db.QueryRowContext(ctx, `
		UPDATE garments
		SET name = $1, category = $2, subtype = $3, color = $4, color_family = $5,
		    season = $6, image_url = $7, notes = $8, updated_at = NOW()
		WHERE id = $9 AND user_id = $10
		RETURNING `+garmentColumns,
		g.Name, g.Category, g.Subtype, g.Color, g.ColorFamily, g.Season, g.ImageURL, g.Notes,
		g.ID, g.UserID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update garment: %w", err)
	}
	return updated, nil
}

// Delete removes the user's garment. Reports whether a row was deleted.
func (s *GarmentStore) Delete(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM garments WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete garment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete garment: %w", err)
	}
	return n > 0, nil
}
