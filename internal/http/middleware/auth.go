package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rogerio-castellano/retail-inventory/internal/auth"
	"github.com/rogerio-castellano/retail-inventory/internal/models"
	"github.com/rogerio-castellano/retail-inventory/internal/repo"
)

type contextKey string

const userKey = contextKey("user")

// Protect requires a valid bearer token and loads the account it was issued for.
func Protect(tokens *auth.TokenIssuer, users repo.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, ok := auth.BearerToken(r.Header.Get("Authorization"))
			if !ok {
				deny(w, http.StatusUnauthorized, "Not authorized, no token")
				return
			}

			userID, err := tokens.ParseToken(tokenStr)
			if err != nil {
				deny(w, http.StatusUnauthorized, "Not authorized, token failed")
				return
			}

			user, err := users.GetByID(r.Context(), userID)
			if err != nil {
				if errors.Is(err, repo.ErrUserNotFound) {
					deny(w, http.StatusUnauthorized, "Not authorized, user not found")
					return
				}
				deny(w, http.StatusInternalServerError, "Server error")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireAdmin rejects non-admin accounts with 403 and message. It must run after Protect.
func RequireAdmin(message string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok || user.Role() != models.RoleAdmin {
				deny(w, http.StatusForbidden, message)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func WithUser(ctx context.Context, u models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

func UserFromContext(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(userKey).(models.User)
	return u, ok
}

func deny(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": message})
}
