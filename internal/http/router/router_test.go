package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rogerio-castellano/retail-inventory/internal/auth"
	"github.com/rogerio-castellano/retail-inventory/internal/http/ban"
	"github.com/rogerio-castellano/retail-inventory/internal/http/handlers"
	rl "github.com/rogerio-castellano/retail-inventory/internal/http/rate_limiter"
	"github.com/rogerio-castellano/retail-inventory/internal/models"
	"github.com/rogerio-castellano/retail-inventory/internal/repo"
	"go.uber.org/zap"
)

func newTestRouter(limiter *rl.Limiter, bans *ban.Service) http.Handler {
	products := repo.NewInMemoryProductRepository()
	users := repo.NewInMemoryUserRepository()
	tokens := auth.NewTokenIssuer("secret", time.Hour)
	h := handlers.New(handlers.Deps{Products: products, Users: users, Tokens: tokens, Bans: bans})
	return NewRouter(Options{Handler: h, Tokens: tokens, Users: users, Limiter: limiter, Bans: bans})
}

func login(r http.Handler, remote string) int {
	req := httptest.NewRequest(http.MethodPost, "/api/users/login", bytes.NewBufferString(`{}`))
	req.RemoteAddr = remote
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRouter_RateLimitThenBan(t *testing.T) {
	bans := ban.NewService(ban.NewMemoryStore(), 2, time.Minute, zap.NewNop())
	limiter := rl.New(0.001, 1)
	limiter.OnLimitExceeded = StrikeOnLimit(bans, zap.NewNop())
	r := newTestRouter(limiter, bans)

	want := []int{
		http.StatusBadRequest,
		http.StatusTooManyRequests,
		http.StatusTooManyRequests,
		http.StatusForbidden,
	}
	for i, status := range want {
		if got := login(r, "203.0.113.7:1234"); got != status {
			t.Fatalf("request %d: expected %d, got %d", i+1, status, got)
		}
	}

	if got := login(r, "203.0.113.8:1234"); got != http.StatusBadRequest {
		t.Errorf("expected another client to be served, got %d", got)
	}

	events, _ := bans.Events(context.Background())
	if len(events) != 1 || events[0].Target != "203.0.113.7" || events[0].Route != "/api/users/login" {
		t.Errorf("unexpected ban log %+v", events)
	}
}

func TestRouter_ProductsAreNotRateLimited(t *testing.T) {
	limiter := rl.New(0.001, 1)
	r := newTestRouter(limiter, nil)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, w.Code)
		}
	}
}

func TestRecoverer(t *testing.T) {
	h := recoverer(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if body := w.Body.String(); body != "{\"message\":\"Server error\"}\n" {
		t.Errorf("unexpected body %q", body)
	}
}

func TestSwaggerIsServed(t *testing.T) {
	r := newTestRouter(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("/api/products/import-excel")) {
		t.Error("expected the import route to be documented")
	}
}

func TestRouter_NotFound(t *testing.T) {
	r := newTestRouter(nil, nil)

	for _, tt := range []struct{ method, path string }{
		{http.MethodGet, "/api/unknown"},
		{http.MethodPatch, "/api/products"},
	} {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusNotFound {
			t.Fatalf("%s %s: expected 404, got %d", tt.method, tt.path, w.Code)
		}
		if body := w.Body.String(); body != "{\"message\":\"Route not found\"}\n" {
			t.Errorf("%s %s: unexpected body %q", tt.method, tt.path, body)
		}
	}
}

func TestRouter_BanEvents(t *testing.T) {
	bans := ban.NewService(ban.NewMemoryStore(), 2, time.Minute, zap.NewNop())
	for i := 0; i < 2; i++ {
		if _, err := bans.Strike(context.Background(), "198.51.100.4", "/api/users/login"); err != nil {
			t.Fatalf("strike: %v", err)
		}
	}

	users := repo.NewInMemoryUserRepository()
	tokens := auth.NewTokenIssuer("secret", time.Hour)
	h := handlers.New(handlers.Deps{Products: repo.NewInMemoryProductRepository(), Users: users, Tokens: tokens, Bans: bans})
	r := NewRouter(Options{Handler: h, Tokens: tokens, Users: users, Bans: bans})

	tokenFor := func(id models.Identity) string {
		u, err := users.CreateUser(context.Background(), models.User{Name: "account", Identity: id})
		if err != nil {
			t.Fatalf("create user: %v", err)
		}
		token, err := tokens.GenerateToken(u.ID)
		if err != nil {
			t.Fatalf("token: %v", err)
		}
		return token
	}
	get := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/users/bans", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	if w := get(tokenFor(models.UserIdentity{PhoneNumber: "5550001111"})); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a non-admin, got %d", w.Code)
	}

	w := get(tokenFor(models.AdminIdentity{Email: "root@shop.com", PasswordHash: "x"}))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp handlers.BanEventsResult
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Count != 1 || resp.Data[0].Target != "198.51.100.4" || resp.Data[0].Strikes != 2 {
		t.Errorf("unexpected ban events %+v", resp)
	}
}
