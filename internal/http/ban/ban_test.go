package ban

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestService(strikes int, d time.Duration) (*Service, *clock) {
	c := &clock{t: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	store := NewMemoryStore()
	store.now = c.now
	svc := NewService(store, strikes, d, nil)
	svc.now = c.now
	return svc, c
}

func TestService_BansAfterThreshold(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(3, time.Minute)

	for i := 1; i <= 2; i++ {
		banned, err := svc.Strike(ctx, "10.0.0.1", "/api/users/login")
		if err != nil || banned {
			t.Fatalf("strike %d: banned=%v err=%v", i, banned, err)
		}
	}
	banned, err := svc.Strike(ctx, "10.0.0.1", "/api/users/login")
	if err != nil || !banned {
		t.Fatalf("expected third strike to ban, banned=%v err=%v", banned, err)
	}

	if ok, _ := svc.IsBanned(ctx, "10.0.0.1"); !ok {
		t.Error("expected client to be banned")
	}
	if ok, _ := svc.IsBanned(ctx, "10.0.0.2"); ok {
		t.Error("expected other client to be unaffected")
	}

	events, err := svc.Events(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 1 || events[0].Target != "10.0.0.1" || events[0].Strikes != 3 || events[0].Route != "/api/users/login" {
		t.Errorf("unexpected ban log: %+v", events)
	}
}

func TestService_BanExpires(t *testing.T) {
	ctx := context.Background()
	svc, c := newTestService(1, time.Minute)

	if _, err := svc.Strike(ctx, "ip", "/"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.t = c.t.Add(61 * time.Second)

	if ok, _ := svc.IsBanned(ctx, "ip"); ok {
		t.Error("expected ban to have expired")
	}
}

func TestService_StrikeWindowResets(t *testing.T) {
	ctx := context.Background()
	svc, c := newTestService(2, time.Minute)

	_, _ = svc.Strike(ctx, "ip", "/")
	c.t = c.t.Add(2 * time.Minute)
	banned, _ := svc.Strike(ctx, "ip", "/")
	if banned {
		t.Error("expected strikes from an expired window to be forgotten")
	}
}

func TestService_DisabledWithZeroStrikes(t *testing.T) {
	svc, _ := newTestService(0, time.Minute)
	if banned, err := svc.Strike(context.Background(), "ip", "/"); banned || err != nil {
		t.Errorf("expected no ban, got banned=%v err=%v", banned, err)
	}
}

func TestMiddleware(t *testing.T) {
	svc, _ := newTestService(1, time.Minute)
	_, _ = svc.Strike(context.Background(), "banned", "/")

	h := svc.Middleware(func(r *http.Request) string { return r.Header.Get("X-Client") })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }),
	)

	tests := []struct {
		client string
		want   int
	}{
		{"banned", http.StatusForbidden},
		{"fine", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.client, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/users/login", nil)
			req.Header.Set("X-Client", tt.client)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}
}
