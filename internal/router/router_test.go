// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router tests verify the HTTP routing configuration, middleware
// chains, and the health endpoint.
package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"outfitguru/internal/calendar"
	"outfitguru/internal/catalog"
	"outfitguru/internal/handlers"
	"outfitguru/internal/middleware"
	"outfitguru/internal/recommend"
	"outfitguru/internal/session"
	"outfitguru/internal/store/memory"
	"outfitguru/internal/validation"
)

// tokenSessions keeps sessions in a map keyed by bearer token.
type tokenSessions struct {
	mu     sync.Mutex
	tokens map[string]*session.Data
}

func (s *tokenSessions) Create(_ context.Context, _ http.ResponseWriter, data *session.Data) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := uuid.NewString()
	s.tokens[token] = data
	return token, nil
}

func (s *tokenSessions) Get(_ context.Context, r *http.Request) (*session.Data, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens[session.Token(r)], nil
}

func (s *tokenSessions) Destroy(_ context.Context, _ http.ResponseWriter, r *http.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, session.Token(r))
	return nil
}

func newTestRouter(t *testing.T, limiter *middleware.RateLimiter) http.Handler {
	t.Helper()
	st := memory.New()
	sessions := &tokenSessions{tokens: map[string]*session.Data{}}
	v := validation.New()

	return New(Deps{
		Sessions:    sessions,
		AuthLimiter: limiter,
		Auth:        handlers.NewAuth(sessions, st.Users(), v),
		Profile:     handlers.NewProfile(st.Users()),
		Wardrobe:    handlers.NewWardrobe(st.Garments(), catalog.MustLoad(), v),
		Outfits:     handlers.NewOutfits(recommend.NewService(st.Garments(), st.Outfits()), st.Outfits(), nil, v),
		Calendar:    handlers.NewCalendar(calendar.NewService(st.Occurrences(), st.Outfits()), v),
	})
}

func call(t *testing.T, h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealthHandler(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/health", nil)

	healthHandler(w, r)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}

	ct := resp.Header.Get("Content-Type")
	if ct != "application/json" {
		t.Errorf("content-type: got %q, want %q", ct, "application/json")
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field: got %q, want %q", body["status"], "ok")
	}
}

func TestRouterHealthHasSecureHeaders(t *testing.T) {
	h := newTestRouter(t, nil)

	rr := call(t, h, http.MethodGet, "/health", "", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	if got := rr.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options: got %q", got)
	}
}

func TestRouterRequiresAuth(t *testing.T) {
	h := newTestRouter(t, nil)

	paths := []struct{ method, path string }{
		{http.MethodGet, "/api/users/me"},
		{http.MethodGet, "/api/wardrobe"},
		{http.MethodGet, "/api/wardrobe/catalog"},
		{http.MethodPost, "/api/outfits/recommendation"},
		{http.MethodGet, "/api/calendar/month?year=2026&month=3"},
		{http.MethodPost, "/api/calendar/plan-tomorrow"},
		{http.MethodPost, "/api/auth/logout"},
	}
	for _, p := range paths {
		rr := call(t, h, p.method, p.path, "", "")
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: got %d, want 401", p.method, p.path, rr.Code)
		}
	}

	if rr := call(t, h, http.MethodGet, "/api/wardrobe", "bogus-token", ""); rr.Code != http.StatusUnauthorized {
		t.Errorf("unknown token: got %d, want 401", rr.Code)
	}
}

func TestRouterNotFoundAndMethod(t *testing.T) {
	h := newTestRouter(t, nil)

	if rr := call(t, h, http.MethodGet, "/nope", "", ""); rr.Code != http.StatusNotFound {
		t.Errorf("unknown route: got %d, want 404", rr.Code)
	}
	if rr := call(t, h, http.MethodDelete, "/health", "", ""); rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("wrong method: got %d, want 405", rr.Code)
	}
}

// TestRouterEndToEnd walks a user from registration to a confirmed day.
func TestRouterEndToEnd(t *testing.T) {
	h := newTestRouter(t, nil)

	rr := call(t, h, http.MethodPost, "/api/auth/register", "", `{"email":"ana@example.com","password":"password123"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("register: got %d: %s", rr.Code, rr.Body.String())
	}
	var auth struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &auth); err != nil || auth.Token == "" {
		t.Fatalf("register body: %s", rr.Body.String())
	}
	token := auth.Token

	for _, body := range []string{
		`{"category":"top","color":"white"}`,
		`{"category":"bottom","color":"blue"}`,
		`{"category":"footwear","color":"black"}`,
	} {
		if rr := call(t, h, http.MethodPost, "/api/wardrobe", token, body); rr.Code != http.StatusCreated {
			t.Fatalf("create garment: got %d: %s", rr.Code, rr.Body.String())
		}
	}

	rr = call(t, h, http.MethodPost, "/api/outfits/recommendation", token, "")
	if rr.Code != http.StatusCreated {
		t.Fatalf("recommend: got %d: %s", rr.Code, rr.Body.String())
	}
	var outfit struct {
		ID string `json:"id"`
	}
	json.Unmarshal(rr.Body.Bytes(), &outfit)

	rr = call(t, h, http.MethodPost, "/api/outfits/"+outfit.ID+"/feedback", token, `{"feedback":"like"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("feedback: got %d: %s", rr.Code, rr.Body.String())
	}

	rr = call(t, h, http.MethodPost, "/api/calendar/plan-tomorrow", token, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("plan: got %d: %s", rr.Code, rr.Body.String())
	}
	var occ struct {
		Date     string `json:"date"`
		OutfitID string `json:"outfit_id"`
		Status   string `json:"status"`
	}
	json.Unmarshal(rr.Body.Bytes(), &occ)
	if occ.OutfitID != outfit.ID || occ.Status != "planned" {
		t.Fatalf("planned occurrence: %+v", occ)
	}

	rr = call(t, h, http.MethodPost, "/api/calendar/confirm-worn", token,
		`{"date":"`+occ.Date+`","worn":false,"negative_reason":"Too warm/cold"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("confirm: got %d: %s", rr.Code, rr.Body.String())
	}

	rr = call(t, h, http.MethodGet, "/api/calendar/day?date="+occ.Date, token, "")
	if !strings.Contains(rr.Body.String(), `"negative_reason":"Too warm/cold"`) {
		t.Errorf("day view: %s", rr.Body.String())
	}

	if rr := call(t, h, http.MethodPost, "/api/auth/logout", token, ""); rr.Code != http.StatusNoContent {
		t.Fatalf("logout: got %d", rr.Code)
	}
	if rr := call(t, h, http.MethodGet, "/api/users/me", token, ""); rr.Code != http.StatusUnauthorized {
		t.Errorf("after logout: got %d, want 401", rr.Code)
	}
}

func TestRouterRateLimitsAuth(t *testing.T) {
	limiter := middleware.NewRateLimiter(0.001, 2)
	defer limiter.Stop()
	h := newTestRouter(t, limiter)

	body := `{"email":"nobody@example.com","password":"password123"}`
	for i := 0; i < 2; i++ {
		if rr := call(t, h, http.MethodPost, "/api/auth/login", "", body); rr.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: got %d, want 401", i+1, rr.Code)
		}
	}
	if rr := call(t, h, http.MethodPost, "/api/auth/login", "", body); rr.Code != http.StatusTooManyRequests {
		t.Errorf("third attempt: got %d, want 429", rr.Code)
	}

	// Other endpoints are not throttled.
	if rr := call(t, h, http.MethodGet, "/health", "", ""); rr.Code != http.StatusOK {
		t.Errorf("health: got %d, want 200", rr.Code)
	}
}
