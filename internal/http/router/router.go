package router

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	_ "github.com/rogerio-castellano/retail-inventory/docs"
	"github.com/rogerio-castellano/retail-inventory/internal/auth"
	"github.com/rogerio-castellano/retail-inventory/internal/http/ban"
	"github.com/rogerio-castellano/retail-inventory/internal/http/handlers"
	mw "github.com/rogerio-castellano/retail-inventory/internal/http/middleware"
	rl "github.com/rogerio-castellano/retail-inventory/internal/http/rate_limiter"
	"github.com/rogerio-castellano/retail-inventory/internal/logging"
	"github.com/rogerio-castellano/retail-inventory/internal/repo"
)

type Options struct {
	Handler *handlers.Handler
	Tokens  *auth.TokenIssuer
	Users   repo.UserRepository
	Limiter *rl.Limiter
	Bans    *ban.Service
	Logger  *zap.Logger
}

func NewRouter(o Options) http.Handler {
	logger := o.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	h := o.Handler

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(logging.Middleware(logger))
	r.Use(recoverer(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "Route not found")
	})

	r.Get("/health", h.HealthHandler)
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.GetProductsHandler)
		r.Post("/", h.CreateProductHandler)
		r.Post("/import-excel", h.ImportProductsHandler)
		r.Get("/{id}", h.GetProductHandler)
		r.Put("/{id}", h.UpdateProductHandler)
		r.Delete("/{id}", h.DeleteProductHandler)
	})

	protect := mw.Protect(o.Tokens, o.Users)
	r.Route("/api/users", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if o.Bans != nil {
				r.Use(o.Bans.Middleware(rl.ClientIP))
			}
			if o.Limiter != nil {
				r.Use(o.Limiter.Middleware)
			}
			r.Post("/register", h.RegisterHandler)
			r.Post("/login", h.LoginHandler)
		})

		r.With(protect).Get("/profile", h.ProfileHandler)
		r.With(protect, mw.RequireAdmin("Not authorized to access this resource")).Get("/all", h.GetUsersHandler)
		r.With(protect, mw.RequireAdmin("Not authorized to access this resource")).Get("/bans", h.BanEventsHandler)
		r.With(protect, mw.RequireAdmin("Not authorized to delete users")).Delete("/{id}", h.DeleteUserHandler)
	})

	return r
}

// StrikeOnLimit records a ban strike for every request the limiter rejects.
func StrikeOnLimit(bans *ban.Service, logger *zap.Logger) func(*http.Request, string) {
	return func(r *http.Request, ip string) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), 2*time.Second)
		defer cancel()
		if _, err := bans.Strike(ctx, ip, r.URL.Path); err != nil {
			logger.Warn("failed to record strike", zap.String("ip", ip), zap.Error(err))
		}
	}
}

func recoverer(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					logging.FromContext(r.Context(), logger).Error("panic serving request",
						zap.Any("panic", rec),
						zap.String("path", r.URL.Path),
						zap.Stack("stack"),
					)
					writeMessage(w, http.StatusInternalServerError, "Server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
