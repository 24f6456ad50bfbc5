// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"outfitguru/internal/apperr"
	"outfitguru/internal/catalog"
	"outfitguru/internal/models"
	"outfitguru/internal/validation"
)

// Garments is the wardrobe storage. Lookups are scoped to the owner and
// return nil for other users' items.
type Garments interface {
	Create(ctx context.Context, g *models.Garment) (*models.Garment, error)
	FindByID(ctx context.Context, userID, id uuid.UUID) (*models.Garment, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Garment, error)
	Update(ctx context.Context, g *models.Garment) (*models.Garment, error)
	Delete(ctx context.Context, userID, id uuid.UUID) (bool, error)
}

// Wardrobe serves the catalog and garment CRUD.
type Wardrobe struct {
	garments  Garments
	catalog   *catalog.Catalog
	validator *validation.Validator
}

// NewWardrobe creates a Wardrobe handler group.
func NewWardrobe(garments Garments, cat *catalog.Catalog, v *validation.Validator) *Wardrobe {
	return &Wardrobe{garments: garments, catalog: cat, validator: v}
}

type garmentRequest struct {
	Name        string  `json:"name" validate:"max=80"`
	Category    string  `json:"category" validate:"required,category"`
	Subtype     string  `json:"subtype" validate:"max=80"`
	Color       string  `json:"color" validate:"required,max=40"`
	ColorFamily string  `json:"color_family"`
	Season      string  `json:"season"`
	ImageURL    *string `json:"image_url" validate:"omitempty,url,max=2048"`
	Notes       *string `json:"notes" validate:"omitempty,max=1000"`
}

// normalize trims input and fills catalog defaults for empty fields.
func (req *garmentRequest) normalize() {
	req.Name = strings.TrimSpace(req.Name)
	req.Category = strings.TrimSpace(req.Category)
	req.Subtype = strings.TrimSpace(req.Subtype)
	req.Color = strings.TrimSpace(req.Color)
	req.ColorFamily = strings.TrimSpace(req.ColorFamily)
	req.Season = strings.TrimSpace(req.Season)

	if req.Name == "" {
		req.Name = catalog.DefaultName
	}
	if req.Subtype == "" {
		req.Subtype = catalog.DefaultSubtype
	}
	if req.ColorFamily == "" {
		req.ColorFamily = catalog.DefaultColorFamily
	}
	if req.Season == "" {
		req.Season = catalog.DefaultSeason
	}
	req.ImageURL = blankToNil(req.ImageURL)
	req.Notes = blankToNil(req.Notes)
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// decodeGarment reads, normalizes and validates a garment body.
func (h *Wardrobe) decodeGarment(w http.ResponseWriter, r *http.Request) (*garmentRequest, error) {
	var req garmentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return nil, err
	}
	req.normalize()
	if err := h.validator.Validate(req); err != nil {
		return nil, err
	}

	category := models.Category(req.Category)
	fields := map[string]string{}
	if !h.catalog.ValidSubtype(category, req.Subtype) {
		fields["subtype"] = "must be one of: " + strings.Join(h.catalog.Subtypes(category), ", ")
	}
	if !h.catalog.ValidColorFamily(req.ColorFamily) {
		fields["color_family"] = "must be one of: " + strings.Join(h.catalog.ColorFamilies, ", ")
	}
	if !h.catalog.ValidSeason(req.Season) {
		fields["season"] = "must be one of: " + strings.Join(h.catalog.Seasons, ", ")
	}
	if len(fields) > 0 {
		return nil, apperr.ValidationWithDetails("validation failed", fields)
	}
	return &req, nil
}

func (req *garmentRequest) apply(g *models.Garment) {
	g.Name = req.Name
	g.Category = models.Category(req.Category)
	g.Subtype = req.Subtype
	g.Color = req.Color
	g.ColorFamily = req.ColorFamily
	g.Season = req.Season
	g.ImageURL = req.ImageURL
	g.Notes = req.Notes
}

// Catalog returns the fixed wardrobe taxonomy.
func (h *Wardrobe) Catalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog)
}

// List returns the user's garments, newest first.
func (h *Wardrobe) List(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	items, err := h.garments.ListByUser(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if items == nil {
		items = []models.Garment{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// Create adds a garment to the user's wardrobe.
func (h *Wardrobe) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	req, err := h.decodeGarment(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	g := &models.Garment{UserID: userID}
	req.apply(g)
	created, err := h.garments.Create(r.Context(), g)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Get returns one of the user's garments.
func (h *Wardrobe) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r, "Item")
	if err != nil {
		writeError(w, r, err)
		return
	}

	g, err := h.garments.FindByID(r.Context(), userID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if g == nil {
		writeError(w, r, apperr.NotFound("Item not found"))
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// Update replaces the mutable fields of a garment.
func (h *Wardrobe) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r, "Item")
	if err != nil {
		writeError(w, r, err)
		return
	}
	req, err := h.decodeGarment(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	g := &models.Garment{ID: id, UserID: userID}
	req.apply(g)
	updated, err := h.garments.Update(r.Context(), g)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if updated == nil {
		writeError(w, r, apperr.NotFound("Item not found"))
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes a garment. Past outfits keep referencing its id.
func (h *Wardrobe) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r, "Item")
	if err != nil {
		writeError(w, r, err)
		return
	}

	ok, err := h.garments.Delete(r.Context(), userID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !ok {
		writeError(w, r, apperr.NotFound("Item not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
