package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rogerio-castellano/retail-inventory/internal/auth"
	"github.com/rogerio-castellano/retail-inventory/internal/models"
	"github.com/rogerio-castellano/retail-inventory/internal/repo"
)

func TestProtect(t *testing.T) {
	users := repo.NewInMemoryUserRepository()
	tokens := auth.NewTokenIssuer("secret", time.Hour)
	u, _ := users.CreateUser(context.Background(), models.User{Name: "a", Identity: models.UserIdentity{PhoneNumber: "1234567890"}})
	valid, _ := tokens.GenerateToken(u.ID)
	orphan, _ := tokens.GenerateToken("deleted-account")

	var seen models.User
	h := Protect(tokens, users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid", "Bearer " + valid, http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Token " + valid, http.StatusUnauthorized},
		{"invalid", "Bearer nope", http.StatusUnauthorized},
		{"unknown account", "Bearer " + orphan, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}

	if seen.ID != u.ID {
		t.Errorf("expected user %s in context, got %q", u.ID, seen.ID)
	}
}

func TestRequireAdmin(t *testing.T) {
	h := RequireAdmin("nope")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name string
		ctx  context.Context
		want int
	}{
		{"admin", WithUser(context.Background(), models.User{Identity: models.AdminIdentity{Email: "a@b.co"}}), http.StatusOK},
		{"user", WithUser(context.Background(), models.User{Identity: models.UserIdentity{PhoneNumber: "1234567890"}}), http.StatusForbidden},
		{"anonymous", context.Background(), http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(tt.ctx)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}
}
