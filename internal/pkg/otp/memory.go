package otp

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// MemoryStore keeps OTP records in a process-local map. It is the default
// store for single-instance deployments. A background sweeper removes
// abandoned records on a fixed interval so the map stays bounded.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]Record

	logger zerolog.Logger
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

// NewMemoryStore creates a memory store and starts its expiry sweeper.
func NewMemoryStore(sweepInterval time.Duration, logger zerolog.Logger) *MemoryStore {
	s := &MemoryStore{
		records: make(map[string]Record),
		logger:  logger,
		ticker:  time.NewTicker(sweepInterval),
		done:    make(chan struct{}),
	}

	go s.sweepLoop()

	return s
}

// Put stores or replaces the record for an email. The TTL is carried by the
// record's ExpiresAt; the sweeper enforces it.
func (s *MemoryStore) Put(_ context.Context, email string, rec Record, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[email] = rec
	return nil
}

// Get returns a copy of the record for an email, or nil if none exists.
func (s *MemoryStore) Get(_ context.Context, email string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[email]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// IncrementAttempts bumps the failed-attempt counter for an email.
func (s *MemoryStore) IncrementAttempts(_ context.Context, email string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[email]
	if !ok {
		return 0, nil
	}

	rec.Attempts++
	s.records[email] = rec
	return rec.Attempts, nil
}

// Delete removes the record for an email.
func (s *MemoryStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, email)
	return nil
}

// CompareAndDelete removes the record if its code matches, under the same
// lock as lookup, so a concurrent sweep can never expose a half-deleted
// record: the caller either consumes the record or sees it absent.
func (s *MemoryStore) CompareAndDelete(_ context.Context, email, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[email]
	if !ok || rec.Code != code {
		return false, nil
	}

	delete(s.records, email)
	return true, nil
}

// Close stops the sweeper.
func (s *MemoryStore) Close() error {
	s.once.Do(func() {
		s.ticker.Stop()
		close(s.done)
	})
	return nil
}

// sweepLoop deletes expired records on every tick. This is the only
// autonomous behavior in the system.
func (s *MemoryStore) sweepLoop() {
	for {
		select {
		case <-s.done:
			return
		case <-s.ticker.C:
			s.sweep(time.Now())
		}
	}
}

func (s *MemoryStore) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for email, rec := range s.records {
		if rec.Expired(now) {
			delete(s.records, email)
			removed++
		}
	}

	if removed > 0 {
		s.logger.Debug().Int("removed", removed).Msg("Swept expired OTP records")
	}
}
