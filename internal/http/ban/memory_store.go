package ban

import (
	"context"
	"sync"
	"time"
)

type strikeCounter struct {
	count   int
	expires time.Time
}

// MemoryStore keeps ban state in process memory. It is used when no Redis
// address is configured.
type MemoryStore struct {
	mu      sync.Mutex
	strikes map[string]strikeCounter
	bans    map[string]time.Time
	log     []BanLogEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		strikes: map[string]strikeCounter{},
		bans:    map[string]time.Time{},
		now:     time.Now,
	}
}

func (s *MemoryStore) AddStrike(_ context.Context, target string, window time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	c, ok := s.strikes[target]
	if !ok || now.After(c.expires) {
		c = strikeCounter{expires: now.Add(window)}
	}
	c.count++
	s.strikes[target] = c
	return c.count, nil
}

func (s *MemoryStore) ResetStrikes(_ context.Context, target string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.strikes, target)
	return nil
}

func (s *MemoryStore) Ban(_ context.Context, target string, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bans[target] = s.now().Add(d)
	return nil
}

func (s *MemoryStore) IsBanned(_ context.Context, target string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	until, ok := s.bans[target]
	if !ok {
		return false, nil
	}
	if !s.now().Before(until) {
		delete(s.bans, target)
		return false, nil
	}
	return true, nil
}

func (s *MemoryStore) AppendLog(_ context.Context, entry BanLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log = append(s.log, entry)
	return nil
}

func (s *MemoryStore) Log(_ context.Context) ([]BanLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]BanLogEntry, len(s.log))
	copy(out, s.log)
	return out, nil
}
