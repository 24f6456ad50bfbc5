// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "fmt"

// Category is the fixed wardrobe taxonomy every garment belongs to.
type Category string

const (
	CategoryTop         Category = "top"
	CategoryBottom      Category = "bottom"
	CategoryOnePiece    Category = "one_piece"
	CategoryOuterwear   Category = "outerwear"
	CategoryFootwear    Category = "footwear"
	CategoryAccessories Category = "accessories"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryTop,
	CategoryBottom,
	CategoryOnePiece,
	CategoryOuterwear,
	CategoryFootwear,
	CategoryAccessories,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryTop, CategoryBottom, CategoryOnePiece, CategoryOuterwear, CategoryFootwear, CategoryAccessories:
		return true
	}
	return false
}

// ParseCategory converts a wire value into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// Composition is the class of garments covering torso and legs.
// Exactly one composition plus footwear makes a wearable outfit.
type Composition string

const (
	CompositionSeparates Composition = "separates"
	CompositionOnePiece  Composition = "one_piece"
)
