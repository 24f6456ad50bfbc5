// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// Handlers run against the in-memory store and real services, so no
// external infrastructure is needed.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"outfitguru/internal/calendar"
	"outfitguru/internal/catalog"
	"outfitguru/internal/middleware"
	"outfitguru/internal/recommend"
	"outfitguru/internal/session"
	"outfitguru/internal/store/memory"
	"outfitguru/internal/validation"
)

// testNow is the fixed "now" of the services under test.
var testNow = time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC)

// fakeSessions records issued sessions instead of talking to Valkey.
type fakeSessions struct {
	created   []*session.Data
	destroyed int
}

func (f *fakeSessions) Create(_ context.Context, w http.ResponseWriter, data *session.Data) (string, error) {
	f.created = append(f.created, data)
	token := "token-" + data.UserID.String()
	http.SetCookie(w, &http.Cookie{Name: session.CookieName, Value: token})
	return token, nil
}

func (f *fakeSessions) Destroy(context.Context, http.ResponseWriter, *http.Request) error {
	f.destroyed++
	return nil
}

// fakeUserCache records user-wide invalidations.
type fakeUserCache struct {
	users   []uuid.UUID
	actions []string
}

func (c *fakeUserCache) InvalidateUser(_ context.Context, userID uuid.UUID, action string) {
	c.users = append(c.users, userID)
	c.actions = append(c.actions, action)
}

// testEnv holds all dependencies for handler tests.
type testEnv struct {
	Store    *memory.Store
	Sessions *fakeSessions
	Cache    *fakeUserCache
	Auth     *Auth
	Profile  *Profile
	Wardrobe *Wardrobe
	Outfits  *Outfits
	Calendar *Calendar
}

// newTestEnv creates a complete test environment with all handler
// dependencies.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st := memory.New()
	clock := testNow
	st.SetClock(func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	})
	now := func() time.Time { return testNow }

	v := validation.New()
	sessions := &fakeSessions{}
	userCache := &fakeUserCache{}

	rec := recommend.NewService(st.Garments(), st.Outfits(), recommend.WithClock(now))
	cal := calendar.NewService(st.Occurrences(), st.Outfits(), calendar.WithClock(now))

	return &testEnv{
		Store:    st,
		Sessions: sessions,
		Cache:    userCache,
		Auth:     NewAuth(sessions, st.Users(), v),
		Profile:  NewProfile(st.Users()),
		Wardrobe: NewWardrobe(st.Garments(), catalog.MustLoad(), v),
		Outfits:  NewOutfits(rec, st.Outfits(), userCache, v),
		Calendar: NewCalendar(cal, v),
	}
}

// newUser registers a user directly in the store and returns its id.
func (e *testEnv) newUser(t *testing.T, email string) uuid.UUID {
	t.Helper()
	user, err := e.Store.Users().Create(context.Background(), email, "password123", "Test User")
	require.NoError(t, err)
	return user.ID
}

// request builds a request with an optional JSON body, session and {id}
// URL parameter.
type request struct {
	method string
	target string
	body   string
	user   uuid.UUID
	id     string
}

func (rq request) do(h http.HandlerFunc) *httptest.ResponseRecorder {
	req := httptest.NewRequest(rq.method, rq.target, strings.NewReader(rq.body))
	req.Header.Set("Content-Type", "application/json")

	ctx := req.Context()
	if rq.user != uuid.Nil {
		ctx = middleware.ContextWithSession(ctx, &session.Data{UserID: rq.user, Email: "test@outfitguru.local"})
	}
	if rq.id != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", rq.id)
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}

	rr := httptest.NewRecorder()
	h(rr, req.WithContext(ctx))
	return rr
}

// decode unmarshals a response body into a generic map.
func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), "body: %s", rr.Body.String())
	return out
}

// errorCode extracts error.code and error.reason from an error response.
func errorCode(t *testing.T, rr *httptest.ResponseRecorder) (code, reason string) {
	t.Helper()
	body := decode(t, rr)
	errObj, ok := body["error"].(map[string]any)
	require.True(t, ok, "expected error envelope, got %s", rr.Body.String())
	code, _ = errObj["code"].(string)
	reason, _ = errObj["reason"].(string)
	return code, reason
}
