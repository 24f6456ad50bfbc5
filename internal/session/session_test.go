package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// testValkeyClient returns a Redis client connected to the test Valkey.
// Skips the test if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests to isolate from dev data.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		// Clean up test keys.
		keys, _ := client.Keys(ctx, "session:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatal("expected session cookie to be set")
	return nil
}

func TestSessionCreateAndGet(t *testing.T) {
	client := testValkeyClient(t)
	store := NewStore(client, time.Hour, false)

	w := httptest.NewRecorder()
	ctx := context.Background()

	data := &Data{
		UserID:      uuid.New(),
		Email:       "test@session.local",
		DisplayName: "Test User",
	}

	token, err := store.Create(ctx, w, data)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(token) != 2*idLength {
		t.Errorf("token length: got %d, want %d", len(token), 2*idLength)
	}

	cookie := sessionCookie(t, w)
	if !cookie.HttpOnly {
		t.Error("expected HttpOnly cookie")
	}
	if cookie.Secure {
		t.Error("expected Secure=false for non-secure store")
	}
	if cookie.MaxAge != 3600 {
		t.Errorf("MaxAge: got %d, want 3600", cookie.MaxAge)
	}

	ttl, err := client.TTL(ctx, keyPrefix+token).Result()
	if err != nil {
		t.Fatalf("TTL: %v", err)
	}
	if ttl <= 0 || ttl > time.Hour {
		t.Errorf("unexpected key TTL %v", ttl)
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(cookie)

	retrieved, err := store.Get(ctx, req)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if retrieved == nil {
		t.Fatal("expected session data, got nil")
	}
	if retrieved.Email != "test@session.local" {
		t.Errorf("email: got %q, want %q", retrieved.Email, "test@session.local")
	}
	if retrieved.UserID != data.UserID {
		t.Errorf("userID: got %s, want %s", retrieved.UserID, data.UserID)
	}
}

func TestSessionGetByBearerToken(t *testing.T) {
	client := testValkeyClient(t)
	store := NewStore(client, 0, false)
	ctx := context.Background()

	userID := uuid.New()
	token, err := store.Create(ctx, httptest.NewRecorder(), &Data{UserID: userID, Email: "bearer@session.local"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	retrieved, err := store.Get(ctx, req)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if retrieved == nil || retrieved.UserID != userID {
		t.Fatalf("expected session for %s, got %+v", userID, retrieved)
	}
}

func TestSessionGetNoToken(t *testing.T) {
	client := testValkeyClient(t)
	store := NewStore(client, 0, false)

	req := httptest.NewRequest("GET", "/", nil)
	data, err := store.Get(context.Background(), req)
	if err != nil {
		t.Fatalf("Get (no token): %v", err)
	}
	if data != nil {
		t.Error("expected nil for request without session token")
	}
}

func TestSessionGetExpired(t *testing.T) {
	client := testValkeyClient(t)
	store := NewStore(client, 0, false)

	// Request with a cookie pointing to a nonexistent session.
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "nonexistent-session-id"})

	data, err := store.Get(context.Background(), req)
	if err != nil {
		t.Fatalf("Get (expired): %v", err)
	}
	if data != nil {
		t.Error("expected nil for expired/nonexistent session")
	}
}

func TestSessionDestroy(t *testing.T) {
	client := testValkeyClient(t)
	store := NewStore(client, 0, false)

	w := httptest.NewRecorder()
	ctx := context.Background()

	store.Create(ctx, w, &Data{UserID: uuid.New(), Email: "destroy@session.local"})
	cookie := sessionCookie(t, w)

	w2 := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(cookie)

	if err := store.Destroy(ctx, w2, req); err != nil {
		t.Fatalf("Destroy: %v", err)
	}

	// Verify cookie is expired.
	for _, c := range w2.Result().Cookies() {
		if c.Name == CookieName && c.MaxAge != -1 {
			t.Error("expected MaxAge=-1 on destroyed cookie")
		}
	}

	retrieved, _ := store.Get(ctx, req)
	if retrieved != nil {
		t.Error("expected nil after destroy")
	}
}

func TestSessionDestroyNoToken(t *testing.T) {
	client := testValkeyClient(t)
	store := NewStore(client, 0, false)

	// Should not error even without a token.
	err := store.Destroy(context.Background(), httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Errorf("Destroy (no token): %v", err)
	}
}

func TestSessionSecureCookie(t *testing.T) {
	client := testValkeyClient(t)
	store := NewStore(client, 0, true)

	w := httptest.NewRecorder()
	store.Create(context.Background(), w, &Data{UserID: uuid.New(), Email: "secure@test.local"})

	if !sessionCookie(t, w).Secure {
		t.Error("expected Secure=true for secure store")
	}
}

func TestToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		cookie string
		want   string
	}{
		{name: "none"},
		{name: "bearer", header: "Bearer abc123", want: "abc123"},
		{name: "bearer lowercase scheme", header: "bearer abc123", want: "abc123"},
		{name: "cookie", cookie: "from-cookie", want: "from-cookie"},
		{name: "header wins over cookie", header: "Bearer from-header", cookie: "from-cookie", want: "from-header"},
		{name: "basic auth ignored", header: "Basic dXNlcjpwYXNz", cookie: "from-cookie", want: "from-cookie"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: CookieName, Value: tt.cookie})
			}
			if got := Token(req); got != tt.want {
				t.Errorf("Token() = %q, want %q", got, tt.want)
			}
		})
	}
}
