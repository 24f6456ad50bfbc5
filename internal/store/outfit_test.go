// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"outfitguru/internal/models"
)

func TestOutfitStoreCreateAndHistory(t *testing.T) {
	db := testDB(t)
	s := NewOutfitStore(db)
	ctx := context.Background()
	user := testUser(t, db, "test-outfit-history@store-test.local")

	ids := models.GarmentIDs{uuid.New(), uuid.New(), uuid.New()}
	first, err := s.Create(ctx, &models.Outfit{
		UserID:     user.ID,
		Date:       models.NewDate(2026, time.May, 1),
		GarmentIDs: ids,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if first.Feedback != models.FeedbackNone {
		t.Errorf("feedback: got %q, want none", first.Feedback)
	}
	if len(first.GarmentIDs) != 3 || first.GarmentIDs[2] != ids[2] {
		t.Errorf("garment ids not preserved in order: %v", first.GarmentIDs)
	}

	second, err := s.Create(ctx, &models.Outfit{
		UserID:     user.ID,
		Date:       models.NewDate(2026, time.May, 1),
		GarmentIDs: models.GarmentIDs{uuid.New()},
	})
	if err != nil {
		t.Fatalf("Create second: %v", err)
	}

	history, err := s.ListByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(history) != 2 || history[0].ID != second.ID {
		t.Fatalf("history must be newest first, got %+v", history)
	}

	found, err := s.FindByID(ctx, user.ID, first.ID)
	if err != nil || found == nil {
		t.Fatalf("FindByID: %v, %v", found, err)
	}
	if !found.Date.Equal(models.NewDate(2026, time.May, 1)) {
		t.Errorf("date: got %s", found.Date)
	}
}

func TestOutfitStoreLatest(t *testing.T) {
	db := testDB(t)
	s := NewOutfitStore(db)
	ctx := context.Background()
	user := testUser(t, db, "test-outfit-latest@store-test.local")

	latest, err := s.Latest(ctx, user.ID)
	if err != nil {
		t.Fatalf("Latest (empty): %v", err)
	}
	if latest != nil {
		t.Error("expected nil without outfits")
	}

	later, _ := s.Create(ctx, &models.Outfit{UserID: user.ID, Date: models.NewDate(2026, time.May, 9), GarmentIDs: models.GarmentIDs{uuid.New()}})
	s.Create(ctx, &models.Outfit{UserID: user.ID, Date: models.NewDate(2026, time.May, 2), GarmentIDs: models.GarmentIDs{uuid.New()}})

	latest, err = s.Latest(ctx, user.ID)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest == nil || latest.ID != later.ID {
		t.Errorf("Latest must order by date first, got %+v", latest)
	}
}

func TestOutfitStoreSetFeedback(t *testing.T) {
	db := testDB(t)
	s := NewOutfitStore(db)
	ctx := context.Background()
	user := testUser(t, db, "test-outfit-feedback@store-test.local")

	o, _ := s.Create(ctx, &models.Outfit{UserID: user.ID, Date: models.NewDate(2026, time.May, 3), GarmentIDs: models.GarmentIDs{uuid.New()}})

	updated, err := s.SetFeedback(ctx, user.ID, o.ID, models.FeedbackLike)
	if err != nil || updated == nil {
		t.Fatalf("SetFeedback: %v, %v", updated, err)
	}
	if updated.Feedback != models.FeedbackLike {
		t.Errorf("feedback: got %q, want like", updated.Feedback)
	}

	none, err := s.SetFeedback(ctx, uuid.New(), o.ID, models.FeedbackDislike)
	if err != nil {
		t.Fatalf("SetFeedback (other user): %v", err)
	}
	if none != nil {
		t.Error("other user must not set feedback")
	}
}
