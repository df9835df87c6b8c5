package ban

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type BanLogEntry struct {
	Target  string    `json:"target"`
	Route   string    `json:"route"`
	Strikes int       `json:"strikes"`
	Time    time.Time `json:"time"`
}

// Store keeps strike counters, active bans and the ban log.
type Store interface {
	// AddStrike increments the counter of target and returns the new value.
	// The counter expires window after its first strike.
	AddStrike(ctx context.Context, target string, window time.Duration) (int, error)
	ResetStrikes(ctx context.Context, target string) error
	Ban(ctx context.Context, target string, d time.Duration) error
	IsBanned(ctx context.Context, target string) (bool, error)
	AppendLog(ctx context.Context, entry BanLogEntry) error
	Log(ctx context.Context) ([]BanLogEntry, error)
}

type Service struct {
	store    Store
	strikes  int
	duration time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(store Store, strikes int, duration time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, strikes: strikes, duration: duration, logger: logger, now: time.Now}
}

// Strike records one rate-limit violation by target on route. Once the
// strike threshold is reached the target is banned and the event is logged.
func (s *Service) Strike(ctx context.Context, target, route string) (bool, error) {
	if s.strikes <= 0 {
		return false, nil
	}
	count, err := s.store.AddStrike(ctx, target, s.duration)
	if err != nil {
		return false, fmt.Errorf("add strike: %w", err)
	}
	if count < s.strikes {
		return false, nil
	}

	if err := s.store.Ban(ctx, target, s.duration); err != nil {
		return false, fmt.Errorf("ban %s: %w", target, err)
	}
	if err := s.store.ResetStrikes(ctx, target); err != nil {
		s.logger.Warn("failed to reset strikes", zap.String("target", target), zap.Error(err))
	}

	entry := BanLogEntry{Target: target, Route: route, Strikes: count, Time: s.now().UTC()}
	if err := s.store.AppendLog(ctx, entry); err != nil {
		s.logger.Warn("failed to append ban log", zap.String("target", target), zap.Error(err))
	}
	s.logger.Warn("client banned",
		zap.String("target", target),
		zap.String("route", route),
		zap.Int("strikes", count),
		zap.Duration("duration", s.duration),
	)
	return true, nil
}

func (s *Service) IsBanned(ctx context.Context, target string) (bool, error) {
	return s.store.IsBanned(ctx, target)
}

// Events returns the ban log, oldest first.
func (s *Service) Events(ctx context.Context) ([]BanLogEntry, error) {
	return s.store.Log(ctx)
}

// Middleware rejects requests from banned clients with 403. key extracts the
// client identity from the request.
func (s *Service) Middleware(key func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			banned, err := s.IsBanned(r.Context(), key(r))
			if err != nil {
				s.logger.Error("ban lookup failed", zap.Error(err))
			}
			if banned {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"success": false,
					"error":   "Access temporarily blocked due to repeated requests",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
