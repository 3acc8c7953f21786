// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package job

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// scriptedExecutor publishes a fixed terminal snapshot, optionally waiting
// for release first so tests can observe the in-flight window.
type scriptedExecutor struct {
	release chan struct{} // nil means finish immediately
	final   func(j types.Job) types.Job
}

func (e *scriptedExecutor) Execute(ctx context.Context, j types.Job, publish func(types.Job)) {
	j.State = types.JobInProgress
	j.Progress = "Starting to scrape..."
	publish(j)

	if e.release != nil {
		select {
		case <-e.release:
		case <-ctx.Done():
			j.State = types.JobCancelled
			j.Error = "job cancelled"
			publish(j)
			return
		}
	}
	publish(e.final(j))
}

func completeWith(papers []types.PaperResult) func(types.Job) types.Job {
	return func(j types.Job) types.Job {
		j.State = types.JobComplete
		j.Papers = papers
		return j
	}
}

func newTestManager(t *testing.T, exec Executor) *Manager {
	t.Helper()
	m := NewManager(NewMemoryStore(time.Hour), exec, nil)
	t.Cleanup(m.Close)
	return m
}

func TestManagerSubmitRejectsEmptyTopic(t *testing.T) {
	m := newTestManager(t, &scriptedExecutor{final: completeWith(nil)})

	for _, topic := range []string{"", "   ", "\t\n"} {
		_, err := m.Submit(context.Background(), topic)
		assert.ErrorIs(t, err, ErrEmptyTopic, "topic %q", topic)
	}
}

func TestManagerSubmitReturnsBeforeCompletion(t *testing.T) {
	release := make(chan struct{})
	exec := &scriptedExecutor{release: release, final: completeWith([]types.PaperResult{})}
	m := newTestManager(t, exec)

	id, err := m.Submit(context.Background(), "graph theory")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	// Pipeline is still held open, so the view must be pending.
	view, err := m.Status(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, types.StatusPending, view.Status)
	assert.Nil(t, view.Result)

	close(release)
	require.Eventually(t, func() bool {
		view, err := m.Status(context.Background(), id)
		return err == nil && view.Status == types.StatusReady
	}, 2*time.Second, 10*time.Millisecond)
}

func TestManagerSubmitAssignsUniqueIDs(t *testing.T) {
	m := newTestManager(t, &scriptedExecutor{final: completeWith(nil)})

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		id, err := m.Submit(context.Background(), "graphs")
		require.NoError(t, err)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestManagerStatusUnknownID(t *testing.T) {
	m := newTestManager(t, &scriptedExecutor{final: completeWith(nil)})

	_, err := m.Status(context.Background(), "nonexistent-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManagerStatusReportsFailureAsData(t *testing.T) {
	exec := &scriptedExecutor{final: func(j types.Job) types.Job {
		j.State = types.JobFailed
		j.Error = "HTTP 503"
		return j
	}}
	m := newTestManager(t, exec)

	id, err := m.Submit(context.Background(), "graphs")
	require.NoError(t, err)

	var view types.JobStatusView
	require.Eventually(t, func() bool {
		view, err = m.Status(context.Background(), id)
		return err == nil && view.Status == types.StatusReady
	}, 2*time.Second, 10*time.Millisecond)

	require.NotNil(t, view.Result)
	assert.Equal(t, "failure", view.Result.Status)
	assert.Equal(t, "HTTP 503", view.Result.Error)
	assert.Nil(t, view.Result.Papers)
}

func TestManagerCancelRunningJob(t *testing.T) {
	// Executor blocks until its context is cancelled, then publishes the
	// cancelled terminal state.
	exec := &scriptedExecutor{release: make(chan struct{}), final: completeWith(nil)}
	m := newTestManager(t, exec)

	id, err := m.Submit(context.Background(), "graphs")
	require.NoError(t, err)

	require.NoError(t, m.Cancel(context.Background(), id))

	var view types.JobStatusView
	require.Eventually(t, func() bool {
		view, err = m.Status(context.Background(), id)
		return err == nil && view.Status == types.StatusReady
	}, 2*time.Second, 10*time.Millisecond)

	require.NotNil(t, view.Result)
	assert.Equal(t, "cancelled", view.Result.Status)
}

func TestManagerCancelTerminalJob(t *testing.T) {
	m := newTestManager(t, &scriptedExecutor{final: completeWith([]types.PaperResult{})})

	id, err := m.Submit(context.Background(), "graphs")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		view, err := m.Status(context.Background(), id)
		return err == nil && view.Status == types.StatusReady
	}, 2*time.Second, 10*time.Millisecond)

	err = m.Cancel(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotCancelable)
}

func TestManagerCancelUnknownJob(t *testing.T) {
	m := newTestManager(t, &scriptedExecutor{final: completeWith(nil)})

	err := m.Cancel(context.Background(), "nonexistent-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManagerCancelRestoredRecord(t *testing.T) {
	// A record with no attached worker, as after a process restart with a
	// persistent store. Cancel marks it terminal directly.
	store := NewMemoryStore(time.Hour)
	m := NewManager(store, &scriptedExecutor{final: completeWith(nil)}, nil)
	defer m.Close()

	orphan := types.Job{
		ID:        "restored-1",
		Topic:     "graphs",
		State:     types.JobInProgress,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, store.Create(context.Background(), orphan))

	require.NoError(t, m.Cancel(context.Background(), orphan.ID))

	view, err := m.Status(context.Background(), orphan.ID)
	require.NoError(t, err)
	require.NotNil(t, view.Result)
	assert.Equal(t, "cancelled", view.Result.Status)
}

func TestManagerCloseWaitsForRunningJobs(t *testing.T) {
	exec := &scriptedExecutor{release: make(chan struct{}), final: completeWith(nil)}
	store := NewMemoryStore(time.Hour)
	m := NewManager(store, exec, nil)

	id, err := m.Submit(context.Background(), "graphs")
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		m.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not return after cancelling running jobs")
	}

	// Shutdown cancelled the job context; the executor published a terminal
	// state before Close returned.
	j, err := store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, j.State.Terminal())
}
