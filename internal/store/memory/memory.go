// Package memory provides in-process implementations of the wardrobe,
// outfit, calendar and user stores for local development and tests. Data
// lives in maps guarded by a mutex and is lost when the process exits.
package memory

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"outfitguru/internal/apperr"
	"outfitguru/internal/models"
)

// Store holds every in-memory table. The per-entity views returned by
// Users, Garments, Outfits and Occurrences share its lock.
type Store struct {
	mu          sync.RWMutex
	users       map[uuid.UUID]*models.User
	garments    map[uuid.UUID]*models.Garment
	garmentSeq  map[uuid.UUID]uint64 // insertion order, breaks created_at ties
	seq         uint64
	outfits     []*models.Outfit // insertion order
	occurrences map[occurrenceKey]*models.Occurrence
	now         func() time.Time
}

type occurrenceKey struct {
	userID uuid.UUID
	date   string
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		users:       make(map[uuid.UUID]*models.User),
		garments:    make(map[uuid.UUID]*models.Garment),
		garmentSeq:  make(map[uuid.UUID]uint64),
		occurrences: make(map[occurrenceKey]*models.Occurrence),
		now:         time.Now,
	}
}

// SetClock overrides the time source used for created/updated timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Users returns the user table.
func (s *Store) Users() *Users { return &Users{s: s} }

// Garments returns the wardrobe table.
func (s *Store) Garments() *Garments { return &Garments{s: s} }

// Outfits returns the outfit history table.
func (s *Store) Outfits() *Outfits { return &Outfits{s: s} }

// Occurrences returns the calendar table.
func (s *Store) Occurrences() *Occurrences { return &Occurrences{s: s} }

// Users implements user storage.
type Users struct{ s *Store }

// FindByEmail returns the user with email, or nil.
func (u *Users) FindByEmail(_ context.Context, email string) (*models.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()
	for _, user := range u.s.users {
		if strings.EqualFold(user.Email, email) {
			c := *user
			return &c, nil
		}
	}
	return nil, nil
}

// FindByID returns the user with id, or nil.
func (u *Users) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()
	user, ok := u.s.users[id]
	if !ok {
		return nil, nil
	}
	c := *user
	return &c, nil
}

// Create inserts a user with a bcrypt-hashed password. Emails are unique.
func (u *Users) Create(_ context.Context, email, password, displayName string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	for _, existing := range u.s.users {
		if strings.EqualFold(existing.Email, email) {
			return nil, apperr.Conflict("email already registered")
		}
	}
	now := u.s.now()
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  displayName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	u.s.users[user.ID] = user
	c := *user
	return &c, nil
}

// UpdatePreferences replaces the user's preferences document.
func (u *Users) UpdatePreferences(_ context.Context, id uuid.UUID, prefs json.RawMessage) (*models.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	user, ok := u.s.users[id]
	if !ok {
		return nil, nil
	}
	user.Preferences = slices.Clone(prefs)
	user.UpdatedAt = u.s.now()
	c := *user
	return &c, nil
}

// CheckPassword verifies a plaintext password against the stored hash.
func (u *Users) CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// Garments implements wardrobe storage.
type Garments struct{ s *Store }

// Create inserts a garment and assigns its id and timestamps.
func (g *Garments) Create(_ context.Context, garment *models.Garment) (*models.Garment, error) {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	c := *garment
	c.ID = uuid.New()
	c.CreatedAt = g.s.now()
	c.UpdatedAt = c.CreatedAt
	g.s.garments[c.ID] = &c
	g.s.seq++
	g.s.garmentSeq[c.ID] = g.s.seq
	out := c
	return &out, nil
}

// FindByID returns the user's garment with id, or nil.
func (g *Garments) FindByID(_ context.Context, userID, id uuid.UUID) (*models.Garment, error) {
	g.s.mu.RLock()
	defer g.s.mu.RUnlock()
	garment, ok := g.s.garments[id]
	if !ok || garment.UserID != userID {
		return nil, nil
	}
	c := *garment
	return &c, nil
}

// ListByUser returns the user's garments, newest first.
func (g *Garments) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Garment, error) {
	items := g.collect(userID, func(*models.Garment) bool { return true })
	slices.Reverse(items)
	return items, nil
}

// ListByCategory returns the user's garments of category, oldest first.
func (g *Garments) ListByCategory(_ context.Context, userID uuid.UUID, category models.Category) ([]models.Garment, error) {
	return g.collect(userID, func(item *models.Garment) bool { return item.Category == category }), nil
}

// collect returns matching garments ordered by creation time ascending.
func (g *Garments) collect(userID uuid.UUID, keep func(*models.Garment) bool) []models.Garment {
	g.s.mu.RLock()
	defer g.s.mu.RUnlock()
	var items []models.Garment
	for _, item := range g.s.garments {
		if item.UserID == userID && keep(item) {
			items = append(items, *item)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return g.s.garmentSeq[items[i].ID] < g.s.garmentSeq[items[j].ID]
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items
}

// Update replaces the mutable fields of a garment. Returns nil if the
// garment does not exist for garment.UserID.
func (g *Garments) Update(_ context.Context, garment *models.Garment) (*models.Garment, error) {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	existing, ok := g.s.garments[garment.ID]
	if !ok || existing.UserID != garment.UserID {
		return nil, nil
	}
	c := *garment
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = g.s.now()
	g.s.garments[c.ID] = &c
	out := c
	return &out, nil
}

// Delete removes the user's garment. Reports whether it existed.
func (g *Garments) Delete(_ context.Context, userID, id uuid.UUID) (bool, error) {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	existing, ok := g.s.garments[id]
	if !ok || existing.UserID != userID {
		return false, nil
	}
	delete(g.s.garments, id)
	delete(g.s.garmentSeq, id)
	return true, nil
}

// Outfits implements outfit history storage.
type Outfits struct{ s *Store }

// Create inserts an outfit and assigns its id and creation time.
func (o *Outfits) Create(_ context.Context, outfit *models.Outfit) (*models.Outfit, error) {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	c := *outfit
	c.ID = uuid.New()
	c.GarmentIDs = slices.Clone(outfit.GarmentIDs)
	c.CreatedAt = o.s.now()
	c.Reason = ""
	o.s.outfits = append(o.s.outfits, &c)
	out := c
	return &out, nil
}

// FindByID returns the user's outfit with id, or nil.
func (o *Outfits) FindByID(_ context.Context, userID, id uuid.UUID) (*models.Outfit, error) {
	o.s.mu.RLock()
	defer o.s.mu.RUnlock()
	return o.s.findOutfit(userID, id), nil
}

// ListByUser returns the user's outfits, newest created first.
func (o *Outfits) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Outfit, error) {
	o.s.mu.RLock()
	defer o.s.mu.RUnlock()
	var items []models.Outfit
	for i := len(o.s.outfits) - 1; i >= 0; i-- {
		if o.s.outfits[i].UserID == userID {
			items = append(items, copyOutfit(o.s.outfits[i]))
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

// Latest returns the user's most recent outfit by date, then creation time.
func (o *Outfits) Latest(ctx context.Context, userID uuid.UUID) (*models.Outfit, error) {
	items, _ := o.ListByUser(ctx, userID)
	if len(items) == 0 {
		return nil, nil
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date.After(items[j].Date)
	})
	return &items[0], nil
}

// SetFeedback records the user's feedback on an outfit. Returns nil if the
// outfit does not belong to userID.
func (o *Outfits) SetFeedback(_ context.Context, userID, id uuid.UUID, feedback models.Feedback) (*models.Outfit, error) {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	for _, outfit := range o.s.outfits {
		if outfit.ID == id && outfit.UserID == userID {
			outfit.Feedback = feedback
			c := copyOutfit(outfit)
			return &c, nil
		}
	}
	return nil, nil
}

// findOutfit must be called with the lock held.
func (s *Store) findOutfit(userID, id uuid.UUID) *models.Outfit {
	for _, outfit := range s.outfits {
		if outfit.ID == id && outfit.UserID == userID {
			c := copyOutfit(outfit)
			return &c
		}
	}
	return nil
}

func copyOutfit(o *models.Outfit) models.Outfit {
	c := *o
	c.GarmentIDs = slices.Clone(o.GarmentIDs)
	return c
}

// Occurrences implements calendar storage with a unique (user, date) key.
type Occurrences struct{ s *Store }

// FindByDate returns the user's occurrence on date, or nil.
func (o *Occurrences) FindByDate(_ context.Context, userID uuid.UUID, date models.Date) (*models.Occurrence, error) {
	o.s.mu.RLock()
	defer o.s.mu.RUnlock()
	occ, ok := o.s.occurrences[occurrenceKey{userID, date.String()}]
	if !ok {
		return nil, nil
	}
	c := o.s.withOutfit(occ)
	return &c, nil
}

// ListRange returns the user's occurrences between start and end
// inclusive, ordered by date.
func (o *Occurrences) ListRange(_ context.Context, userID uuid.UUID, start, end models.Date) ([]models.Occurrence, error) {
	o.s.mu.RLock()
	defer o.s.mu.RUnlock()
	var items []models.Occurrence
	for key, occ := range o.s.occurrences {
		if key.userID != userID || occ.Date.Before(start) || occ.Date.After(end) {
			continue
		}
		items = append(items, o.s.withOutfit(occ))
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Date.Before(items[j].Date) })
	return items, nil
}

// Create inserts an occurrence. A second occurrence for the same user and
// date fails with apperr.ErrConflict.
func (o *Occurrences) Create(_ context.Context, occ *models.Occurrence) (*models.Occurrence, error) {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	key := occurrenceKey{occ.UserID, occ.Date.String()}
	if _, exists := o.s.occurrences[key]; exists {
		return nil, apperr.ErrConflict.WithCause(errDuplicateDay)
	}
	c := *occ
	c.ID = uuid.New()
	c.CreatedAt = o.s.now()
	c.UpdatedAt = c.CreatedAt
	c.Outfit = nil
	o.s.occurrences[key] = &c
	out := o.s.withOutfit(&c)
	return &out, nil
}

// Update saves the outfit binding, status and negative reason of an
// existing occurrence. Returns nil if it no longer exists.
func (o *Occurrences) Update(_ context.Context, occ *models.Occurrence) (*models.Occurrence, error) {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	key := occurrenceKey{occ.UserID, occ.Date.String()}
	existing, ok := o.s.occurrences[key]
	if !ok || existing.ID != occ.ID {
		return nil, nil
	}
	existing.OutfitID = occ.OutfitID
	existing.Status = occ.Status
	existing.NegativeReason = occ.NegativeReason
	existing.UpdatedAt = o.s.now()
	out := o.s.withOutfit(existing)
	return &out, nil
}

// withOutfit copies occ and attaches its bound outfit. Lock must be held.
func (s *Store) withOutfit(occ *models.Occurrence) models.Occurrence {
	c := *occ
	c.Outfit = nil
	if occ.OutfitID != nil {
		c.Outfit = s.findOutfit(occ.UserID, *occ.OutfitID)
	}
	return c
}

var errDuplicateDay = errors.New("occurrence already exists for this day")
