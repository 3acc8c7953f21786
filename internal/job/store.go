// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package job owns the job lifecycle: creation, progress snapshots, result
// storage, and status queries. Job records live in a pluggable Store; the
// manager is the only writer path, and every update replaces the whole
// record so readers never observe a partially applied change.
package job

import (
	"context"
	"errors"
	"time"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// Errors surfaced to the boundary layer.
var (
	// ErrEmptyTopic rejects submissions whose topic is empty after trimming.
	ErrEmptyTopic = errors.New("topic must not be empty")

	// ErrNotFound means the job id is unknown, expired, or never existed.
	ErrNotFound = errors.New("job not found")

	// ErrNotCancelable means the job already reached a terminal state.
	ErrNotCancelable = errors.New("job is not cancelable")
)

// DefaultTTL is how long terminal job records are retained before eviction.
const DefaultTTL = time.Hour

// Store persists job records keyed by id. Update replaces the stored record
// wholesale. Implementations must be safe for concurrent use; reads return
// snapshots that later writes cannot mutate.
type Store interface {
	Create(ctx context.Context, j types.Job) error
	Get(ctx context.Context, id string) (types.Job, error)
	Update(ctx context.Context, j types.Job) error
	Delete(ctx context.Context, id string) error
	Close() error
}
