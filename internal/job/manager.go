// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package job

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// Executor runs one job to a terminal state. It receives a job-scoped
// context (cancelled by Cancel or manager shutdown) and a publish callback
// through which it commits each new job snapshot. Exactly one executor
// instance runs per job.
type Executor interface {
	Execute(ctx context.Context, j types.Job, publish func(types.Job))
}

// Manager owns job records for their full lifetime. Submission is
// non-blocking: the pipeline runs on its own goroutine and the caller polls
// Status with the returned id.
type Manager struct {
	store Store
	exec  Executor
	log   *slog.Logger

	baseCtx    context.Context
	baseCancel context.CancelFunc

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
	closed  bool
	wg      sync.WaitGroup
}

// NewManager wires a store and an executor.
func NewManager(store Store, exec Executor, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		store:      store,
		exec:       exec,
		log:        log,
		baseCtx:    ctx,
		baseCancel: cancel,
		cancels:    make(map[string]context.CancelFunc),
	}
}

// Submit validates the topic, creates a pending job record, hands it to the
// executor asynchronously, and returns the job id immediately.
func (m *Manager) Submit(ctx context.Context, topic string) (string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", ErrEmptyTopic
	}

	now := time.Now()
	j := types.Job{
		ID:        uuid.NewString(),
		Topic:     topic,
		State:     types.JobPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.store.Create(ctx, j); err != nil {
		return "", fmt.Errorf("creating job record: %w", err)
	}

	jobCtx, cancel := context.WithCancel(m.baseCtx)
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		cancel()
		return "", fmt.Errorf("manager is shut down")
	}
	m.cancels[j.ID] = cancel
	m.wg.Add(1)
	m.mu.Unlock()

	go func() {
		defer m.wg.Done()
		defer m.release(j.ID, cancel)
		m.exec.Execute(jobCtx, j, m.publisher())
	}()

	m.log.Info("job submitted", "job_id", j.ID, "topic", topic)
	return j.ID, nil
}

// Status returns the polling snapshot for id. It never blocks on pipeline
// progress; job failure is reported as data in the view, not as an error.
func (m *Manager) Status(ctx context.Context, id string) (types.JobStatusView, error) {
	j, err := m.store.Get(ctx, id)
	if err != nil {
		return types.JobStatusView{}, err
	}
	return types.StatusView(j), nil
}

// Cancel stops an in-progress job. The running executor observes the
// cancelled context, stops issuing new fetches, aborts in-flight ones, and
// publishes the cancelled terminal state.
func (m *Manager) Cancel(ctx context.Context, id string) error {
	m.mu.Lock()
	cancel, running := m.cancels[id]
	m.mu.Unlock()
	if running {
		cancel()
		m.log.Info("job cancelled", "job_id", id)
		return nil
	}

	// No worker attached: either unknown, already terminal, or a record
	// restored from a persistent store after a restart.
	j, err := m.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if j.State.Terminal() {
		return ErrNotCancelable
	}
	j.State = types.JobCancelled
	j.Error = "cancelled"
	j.UpdatedAt = time.Now()
	return m.store.Update(ctx, j)
}

// Close cancels all running jobs and waits for their executors to publish
// terminal states.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.baseCancel()
	m.wg.Wait()
}

// publisher commits job snapshots. It uses a background context so terminal
// states still land after the job context is cancelled.
func (m *Manager) publisher() func(types.Job) {
	return func(j types.Job) {
		j.UpdatedAt = time.Now()
		if err := m.store.Update(context.Background(), j); err != nil {
			m.log.Error("publishing job update failed", "job_id", j.ID, "error", err)
		}
	}
}

func (m *Manager) release(id string, cancel context.CancelFunc) {
	cancel()
	m.mu.Lock()
	delete(m.cancels, id)
	m.mu.Unlock()
}
