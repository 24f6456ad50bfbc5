// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog exposes the fixed wardrobe taxonomy: the subtypes allowed
// per category, the color families and the seasons. The data is embedded
// from catalog.yaml at compile time.
package catalog

import (
	_ "embed"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"outfitguru/internal/models"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Defaults applied to garments that leave a field empty.
const (
	DefaultName        = "Untitled"
	DefaultSubtype     = "General"
	DefaultColorFamily = "Other"
	DefaultSeason      = "All-season"
)

// Category describes one wardrobe category.
type Category struct {
	Slug     models.Category `yaml:"slug" json:"slug"`
	Label    string          `yaml:"label" json:"label"`
	Subtypes []string        `yaml:"subtypes" json:"subtypes"`
}

// Catalog is the full taxonomy.
type Catalog struct {
	Categories    []Category `yaml:"categories" json:"categories"`
	ColorFamilies []string   `yaml:"color_families" json:"color_families"`
	Seasons       []string   `yaml:"seasons" json:"seasons"`
}

// Load parses the embedded catalog and checks that it covers every
// category.
func Load() (*Catalog, error) {
	return parse(catalogYAML)
}

// MustLoad is like Load but panics on error.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

func parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	for _, want := range models.Categories {
		cat := c.category(want)
		if cat == nil {
			return nil, fmt.Errorf("catalog: missing category %q", want)
		}
		if !slices.Contains(cat.Subtypes, DefaultSubtype) {
			return nil, fmt.Errorf("catalog: category %q lacks %q subtype", want, DefaultSubtype)
		}
	}
	if !slices.Contains(c.ColorFamilies, DefaultColorFamily) {
		return nil, fmt.Errorf("catalog: missing color family %q", DefaultColorFamily)
	}
	if !slices.Contains(c.Seasons, DefaultSeason) {
		return nil, fmt.Errorf("catalog: missing season %q", DefaultSeason)
	}
	return &c, nil
}

func (c *Catalog) category(slug models.Category) *Category {
	for i := range c.Categories {
		if c.Categories[i].Slug == slug {
			return &c.Categories[i]
		}
	}
	return nil
}

// Subtypes returns the subtypes allowed for category, or nil.
func (c *Catalog) Subtypes(category models.Category) []string {
	if cat := c.category(category); cat != nil {
		return cat.Subtypes
	}
	return nil
}

// ValidSubtype reports whether subtype is allowed for category.
func (c *Catalog) ValidSubtype(category models.Category, subtype string) bool {
	return slices.Contains(c.Subtypes(category), subtype)
}

// ValidColorFamily reports whether family is a known color family.
func (c *Catalog) ValidColorFamily(family string) bool {
	return slices.Contains(c.ColorFamilies, family)
}

// ValidSeason reports whether season is a known season.
func (c *Catalog) ValidSeason(season string) bool {
	return slices.Contains(c.Seasons, season)
}
