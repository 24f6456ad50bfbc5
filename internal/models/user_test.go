package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserJSONOmitsPasswordHash(t *testing.T) {
	u := User{
		ID:           uuid.New(),
		Email:        "ana@example.com",
		PasswordHash: "$2a$12$secret",
		DisplayName:  "Ana",
		Preferences:  json.RawMessage(`{"style":"casual"}`),
	}

	raw, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret")
	assert.NotContains(t, string(raw), "password")

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "ana@example.com", out["email"])
	assert.Equal(t, map[string]any{"style": "casual"}, out["preferences"])
}

func TestUserJSONNullPreferences(t *testing.T) {
	raw, err := json.Marshal(User{Email: "x@example.com"})
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	v, ok := out["preferences"]
	assert.True(t, ok)
	assert.Nil(t, v)
}
