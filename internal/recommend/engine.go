// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package recommend picks the day's outfit from a user's wardrobe. The
// selection is deterministic: garments are ranked least-recently-worn first
// within each category, a composition (separates or one-piece) is chosen,
// footwear and optional outerwear are added, and a single substitution is
// attempted when the result would repeat the previous outfit.
package recommend

import (
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"outfitguru/internal/models"
)

// selectionCategories are the categories the engine reads, in the order
// their candidate pools are populated.
var selectionCategories = []models.Category{
	models.CategoryTop,
	models.CategoryBottom,
	models.CategoryOnePiece,
	models.CategoryFootwear,
	models.CategoryOuterwear,
}

// Pools holds the candidate garments per category, each ordered oldest
// created first.
type Pools map[models.Category][]models.Garment

// Repetition describes how the anti-repetition pass ended.
type Repetition int

const (
	// RepetitionNoHistory means there was no previous outfit to compare to.
	RepetitionNoHistory Repetition = iota
	// RepetitionAvoided means the selection differs from the previous outfit.
	RepetitionAvoided
	// RepetitionUnavoidable means the inventory allowed no alternative.
	RepetitionUnavoidable
)

// Selection is the outcome of one run of the engine. When Missing is not
// empty, no outfit could be assembled and the other fields are zero.
type Selection struct {
	GarmentIDs  models.GarmentIDs
	Composition models.Composition
	Repetition  Repetition
	Substituted models.Category // category swapped by the anti-repetition pass, if any

	// Missing lists, sorted, the categories that need at least one garment
	// before an outfit can be recommended.
	Missing []models.Category
}

// slot is one chosen garment together with the ranked pool it came from.
type slot struct {
	category   models.Category
	candidates []models.Garment
}

// LastUsed maps each garment id to the creation time of the most recent
// outfit containing it. history must be ordered newest first.
func LastUsed(history []models.Outfit) map[uuid.UUID]time.Time {
	used := make(map[uuid.UUID]time.Time)
	for _, outfit := range history {
		for _, id := range outfit.GarmentIDs {
			if _, seen := used[id]; !seen {
				used[id] = outfit.CreatedAt
			}
		}
	}
	return used
}

// RankLRU orders garments least-recently-used first: never-worn garments
// lead, then worn ones by ascending last use. Ties keep the input order.
func RankLRU(garments []models.Garment, lastUsed map[uuid.UUID]time.Time) []models.Garment {
	ranked := slices.Clone(garments)
	sort.SliceStable(ranked, func(i, j int) bool {
		ti, usedI := lastUsed[ranked[i].ID]
		tj, usedJ := lastUsed[ranked[j].ID]
		if usedI != usedJ {
			return !usedI
		}
		return ti.Before(tj)
	})
	return ranked
}

// Select assembles an outfit from pools given the user's history, ordered
// newest first.
func Select(history []models.Outfit, pools Pools) *Selection {
	lastUsed := LastUsed(history)
	ranked := make(map[models.Category][]models.Garment, len(selectionCategories))
	for _, c := range selectionCategories {
		ranked[c] = RankLRU(pools[c], lastUsed)
	}

	tops := ranked[models.CategoryTop]
	bottoms := ranked[models.CategoryBottom]
	onePieces := ranked[models.CategoryOnePiece]
	footwear := ranked[models.CategoryFootwear]
	outerwear := ranked[models.CategoryOuterwear]

	var (
		slots       []slot
		composition models.Composition
		missing     []models.Category
	)
	switch {
	case len(tops) > 0 && len(bottoms) > 0:
		composition = models.CompositionSeparates
		slots = append(slots,
			slot{category: models.CategoryTop, candidates: tops},
			slot{category: models.CategoryBottom, candidates: bottoms},
		)
	case len(onePieces) > 0:
		composition = models.CompositionOnePiece
		slots = append(slots, slot{category: models.CategoryOnePiece, candidates: onePieces})
	default:
		if len(tops) == 0 {
			missing = append(missing, models.CategoryTop)
		}
		if len(bottoms) == 0 {
			missing = append(missing, models.CategoryBottom)
		}
		missing = append(missing, models.CategoryOnePiece)
	}
	if len(footwear) == 0 {
		missing = append(missing, models.CategoryFootwear)
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return &Selection{Missing: slices.Compact(missing)}
	}

	slots = append(slots, slot{category: models.CategoryFootwear, candidates: footwear})
	if len(outerwear) > 0 {
		slots = append(slots, slot{category: models.CategoryOuterwear, candidates: outerwear})
	}

	ids := make(models.GarmentIDs, len(slots))
	for i, s := range slots {
		ids[i] = s.candidates[0].ID
	}

	sel := &Selection{GarmentIDs: ids, Composition: composition}
	if len(history) == 0 {
		sel.Repetition = RepetitionNoHistory
		return sel
	}

	previous := history[0].GarmentIDs
	if !ids.SameSet(previous) {
		sel.Repetition = RepetitionAvoided
		return sel
	}

	sel.Repetition = RepetitionUnavoidable
	for i, s := range slots {
		if len(s.candidates) < 2 {
			continue
		}
		alt := slices.Clone(ids)
		alt[i] = s.candidates[1].ID
		if !alt.SameSet(previous) {
			sel.GarmentIDs = alt
			sel.Repetition = RepetitionAvoided
			sel.Substituted = s.category
			break
		}
	}
	return sel
}

// Reason summarizes the rules applied to build the selection.
func (s *Selection) Reason() string {
	if len(s.Missing) > 0 {
		return ""
	}

	var parts []string
	switch s.Composition {
	case models.CompositionSeparates:
		parts = append(parts, "kept a top and bottom together")
	case models.CompositionOnePiece:
		parts = append(parts, "kept a one-piece as the base")
	}
	parts = append(parts, "used your least-recently-worn items")
	switch s.Repetition {
	case RepetitionAvoided:
		parts = append(parts, "avoided repeating your last outfit")
	case RepetitionUnavoidable:
		parts = append(parts, "no alternative to avoid last outfit")
	}

	reason := strings.Join(parts, " and ")
	return strings.ToUpper(reason[:1]) + reason[1:]
}
