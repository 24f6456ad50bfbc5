// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createGarment posts a garment and returns its id.
func (e *testEnv) createGarment(t *testing.T, user uuid.UUID, category, color string) string {
	t.Helper()
	rr := request{method: http.MethodPost, target: "/api/wardrobe", user: user,
		body: fmt.Sprintf(`{"category":%q,"color":%q}`, category, color)}.do(e.Wardrobe.Create)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode(t, rr)["id"].(string)
}

func TestWardrobeCatalog(t *testing.T) {
	env := newTestEnv(t)

	rr := request{method: http.MethodGet, target: "/api/wardrobe/catalog"}.do(env.Wardrobe.Catalog)

	require.Equal(t, http.StatusOK, rr.Code)
	body := decode(t, rr)
	assert.Len(t, body["categories"], 6)
	assert.Contains(t, body["color_families"], "Beige")
	assert.Contains(t, body["seasons"], "Rain")
}

func TestWardrobeCreateAppliesDefaults(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, "ana@example.com")

	rr := request{method: http.MethodPost, target: "/api/wardrobe", user: user,
		body: `{"category":"top","color":"navy","notes":"  "}`}.do(env.Wardrobe.Create)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	g := decode(t, rr)
	assert.Equal(t, "Untitled", g["name"])
	assert.Equal(t, "General", g["subtype"])
	assert.Equal(t, "Other", g["color_family"])
	assert.Equal(t, "All-season", g["season"])
	assert.Nil(t, g["notes"])
	assert.Equal(t, user.String(), g["user_id"])
}

func TestWardrobeCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, "ana@example.com")

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"unknown category", `{"category":"hat","color":"red"}`, "category"},
		{"missing color", `{"category":"top"}`, "color"},
		{"subtype of another category", `{"category":"top","subtype":"Jeans","color":"blue"}`, "subtype"},
		{"unknown color family", `{"category":"top","color":"teal","color_family":"Teal"}`, "color_family"},
		{"unknown season", `{"category":"top","color":"red","season":"Monsoon"}`, "season"},
		{"bad image url", `{"category":"top","color":"red","image_url":"not a url"}`, "image_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := request{method: http.MethodPost, target: "/api/wardrobe", user: user, body: tt.body}.do(env.Wardrobe.Create)
			require.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
			details := decode(t, rr)["error"].(map[string]any)["details"].(map[string]any)
			assert.Contains(t, details, tt.field)
		})
	}
}

func TestWardrobeCRUD(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, "ana@example.com")
	first := env.createGarment(t, user, "top", "white")
	second := env.createGarment(t, user, "footwear", "black")

	t.Run("list newest first", func(t *testing.T) {
		rr := request{method: http.MethodGet, target: "/api/wardrobe", user: user}.do(env.Wardrobe.List)
		require.Equal(t, http.StatusOK, rr.Code)
		items := decode(t, rr)["items"].([]any)
		require.Len(t, items, 2)
		assert.Equal(t, second, items[0].(map[string]any)["id"])
		assert.Equal(t, first, items[1].(map[string]any)["id"])
	})

	t.Run("get", func(t *testing.T) {
		rr := request{method: http.MethodGet, target: "/api/wardrobe/" + first, user: user, id: first}.do(env.Wardrobe.Get)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "white", decode(t, rr)["color"])
	})

	t.Run("update replaces fields", func(t *testing.T) {
		rr := request{method: http.MethodPut, target: "/api/wardrobe/" + first, user: user, id: first,
			body: `{"name":"Linen shirt","category":"top","subtype":"Shirt","color":"ecru","color_family":"Beige","season":"Warm"}`}.do(env.Wardrobe.Update)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		g := decode(t, rr)
		assert.Equal(t, "Linen shirt", g["name"])
		assert.Equal(t, "Shirt", g["subtype"])
		assert.Equal(t, "Warm", g["season"])
	})

	t.Run("delete", func(t *testing.T) {
		rr := request{method: http.MethodDelete, target: "/api/wardrobe/" + second, user: user, id: second}.do(env.Wardrobe.Delete)
		assert.Equal(t, http.StatusNoContent, rr.Code)

		rr = request{method: http.MethodGet, target: "/api/wardrobe/" + second, user: user, id: second}.do(env.Wardrobe.Get)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestWardrobeOwnership(t *testing.T) {
	env := newTestEnv(t)
	owner := env.newUser(t, "ana@example.com")
	other := env.newUser(t, "bob@example.com")
	id := env.createGarment(t, owner, "top", "white")

	rr := request{method: http.MethodGet, target: "/api/wardrobe/" + id, user: other, id: id}.do(env.Wardrobe.Get)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = request{method: http.MethodPut, target: "/api/wardrobe/" + id, user: other, id: id,
		body: `{"category":"top","color":"red"}`}.do(env.Wardrobe.Update)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = request{method: http.MethodDelete, target: "/api/wardrobe/" + id, user: other, id: id}.do(env.Wardrobe.Delete)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = request{method: http.MethodGet, target: "/api/wardrobe", user: other}.do(env.Wardrobe.List)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode(t, rr)["items"])
}

func TestWardrobeMalformedID(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, "ana@example.com")

	rr := request{method: http.MethodGet, target: "/api/wardrobe/42", user: user, id: "42"}.do(env.Wardrobe.Get)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
