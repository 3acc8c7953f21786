// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package job

import (
	"context"
	"sync"
	"time"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// sweepInterval is how often the memory store scans for expired records.
const sweepInterval = time.Minute

// MemoryStore keeps job records in process memory. Terminal records expire
// after the configured TTL; in-flight records never expire. This is the
// default backend.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]types.Job

	ttl  time.Duration
	stop chan struct{}
	once sync.Once
}

// NewMemoryStore creates a store and starts its eviction sweeper.
// A non-positive ttl falls back to DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &MemoryStore{
		jobs: make(map[string]types.Job),
		ttl:  ttl,
		stop: make(chan struct{}),
	}
	go s.sweepLoop()
	return s
}

func (s *MemoryStore) Create(_ context.Context, j types.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[j.ID] = j.Clone()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (types.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[id]
	if !ok {
		return types.Job{}, ErrNotFound
	}
	return j.Clone(), nil
}

func (s *MemoryStore) Update(_ context.Context, j types.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[j.ID]; !ok {
		return ErrNotFound
	}
	s.jobs[j.ID] = j.Clone()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, id)
	return nil
}

// Close stops the eviction sweeper.
func (s *MemoryStore) Close() error {
	s.once.Do(func() { close(s.stop) })
	return nil
}

func (s *MemoryStore) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			s.sweep(now)
		}
	}
}

// sweep evicts terminal records older than the TTL.
func (s *MemoryStore) sweep(now time.Time) {
	cutoff := now.Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, j := range s.jobs {
		if j.State.Terminal() && j.UpdatedAt.Before(cutoff) {
			delete(s.jobs, id)
		}
	}
}
