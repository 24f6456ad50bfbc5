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

	"outfitguru/internal/apperr"
	"outfitguru/internal/models"
)

// OccurrenceStore handles calendar persistence. The (user_id, date) pair
// is unique; a duplicate insert fails with apperr.ErrConflict.
type OccurrenceStore struct {
	db *sql.DB
}

// NewOccurrenceStore creates a new OccurrenceStore.
func NewOccurrenceStore(db *sql.DB) *OccurrenceStore {
	return &OccurrenceStore{db: db}
}

// occurrenceSelect joins the bound outfit so reads return it embedded.
const occurrenceSelect = `
	SELECT oc.id, oc.user_id, oc.date, oc.outfit_id, oc.status, oc.negative_reason,
	       oc.created_at, oc.updated_at,
	       o.id, o.date, o.item_ids, o.feedback, o.created_at
	FROM occurrences oc
	LEFT JOIN outfits o ON o.id = oc.outfit_id`

func scanOccurrence(scanner interface{ Scan(...any) error }) (*models.Occurrence, error) {
	var (
		occ      models.Occurrence
		reason   sql.NullString
		outfitID uuid.NullUUID
		oDate    models.Date
		oItems   models.GarmentIDs
		oFeed    sql.NullString
		oCreated sql.NullTime
	)
	err := scanner.Scan(
		&occ.ID, &occ.UserID, &occ.Date, &occ.OutfitID, &occ.Status, &reason,
		&occ.CreatedAt, &occ.UpdatedAt,
		&outfitID, &oDate, &oItems, &oFeed, &oCreated,
	)
	if err != nil {
		return nil, err
	}
	if reason.Valid {
		r := models.NegativeReason(reason.String)
		occ.NegativeReason = &r
	}
	if outfitID.Valid {
		occ.Outfit = &models.Outfit{
			ID:         outfitID.UUID,
			UserID:     occ.UserID,
			Date:       oDate,
			GarmentIDs: oItems,
			Feedback:   models.Feedback(oFeed.String),
			CreatedAt:  oCreated.Time,
		}
	}
	return &occ, nil
}

// FindByDate returns the user's occurrence on date. Returns nil if the day
// has none.
func (s *OccurrenceStore) FindByDate(ctx context.Context, userID uuid.UUID, date models.Date) (*models.Occurrence, error) {
	occ, err := scanOccurrence(s.db.QueryRowContext(ctx,
		occurrenceSelect+` WHERE oc.user_id = $1 AND oc.date = $2`, userID, date))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find occurrence: %w", err)
	}
	return occ, nil
}

// ListRange returns the user's occurrences from start to end inclusive,
// ordered by date.
func (s *OccurrenceStore) ListRange(ctx context.Context, userID uuid.UUID, start, end models.Date) ([]models.Occurrence, error) {
	rows, err := s.db.QueryContext(ctx, occurrenceSelect+`
		WHERE oc.user_id = $1 AND oc.date BETWEEN $2 AND $3
		ORDER BY oc.date ASC
	`, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list occurrences: %w", err)
	}
	defer rows.Close()

	var items []models.Occurrence
	for rows.Next() {
		occ, err := scanOccurrence(rows)
		if err != nil {
			return nil, fmt.Errorf("scan occurrence: %w", err)
		}
		items = append(items, *occ)
	}
	return items, rows.Err()
}

// Create inserts an occurrence. When the day already has one, it returns
// an error matching apperr.ErrConflict.
func (s *OccurrenceStore) Create(ctx context.Context, occ *models.Occurrence) (*models.Occurrence, error) {
	var id uuid.UUID
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO occurrences (user_id, date, outfit_id, status, negative_reason)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, occ.UserID, occ.Date, occ.OutfitID, occ.Status, reasonArg(occ.NegativeReason)).Scan(&id)
	if isUniqueViolation(err) {
		return nil, apperr.ErrConflict.WithCause(err)
	}
	if err != nil {
		return nil, fmt.Errorf("create occurrence: %w", err)
	}
	return s.findByID(ctx, id)
}

// Update saves the outfit binding, status and negative reason of an
// existing occurrence. Returns nil if it no longer exists.
func (s *OccurrenceStore) Update(ctx context.Context, occ *models.Occurrence) (*models.Occurrence, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE occurrences
		SET outfit_id = $1, status = $2, negative_reason = $3, updated_at = NOW()
		WHERE id = $4 AND user_id = $5
	`, occ.OutfitID, occ.Status, reasonArg(occ.NegativeReason), occ.ID, occ.UserID)
	if err != nil {
		return nil, fmt.Errorf("update occurrence: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("update occurrence: %w", err)
	} else if n == 0 {
		return nil, nil
	}
	return s.findByID(ctx, occ.ID)
}

func (s *OccurrenceStore) findByID(ctx context.Context, id uuid.UUID) (*models.Occurrence, error) {
	occ, err := scanOccurrence(s.db.QueryRowContext(ctx, occurrenceSelect+` WHERE oc.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find occurrence by id: %w", err)
	}
	return occ, nil
}

func reasonArg(r *models.NegativeReason) any {
	if r == nil {
		return nil
	}
	return string(*r)
}
