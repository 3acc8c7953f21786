// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package job

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// SQLiteStore persists job records in a SQLite database so results survive
// process restarts. Terminal records past the TTL are purged opportunistically
// on reads and writes.
type SQLiteStore struct {
	db  *sql.DB
	ttl time.Duration
}

// NewSQLiteStore opens or creates the database at path and ensures the
// schema exists.
func NewSQLiteStore(path string, ttl time.Duration) (*SQLiteStore, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLiteStore{db: db, ttl: ttl}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS jobs (
		id TEXT PRIMARY KEY,
		topic TEXT NOT NULL,
		state TEXT NOT NULL,
		progress TEXT,
		papers TEXT,
		error TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Create(ctx context.Context, j types.Job) error {
	s.purgeExpired(ctx)

	papers, err := marshalPapers(j.Papers)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO jobs (id, topic, state, progress, papers, error, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		j.ID, j.Topic, string(j.State), j.Progress, papers, j.Error,
		j.CreatedAt.UTC().Format(time.RFC3339Nano),
		j.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting job: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (types.Job, error) {
	var (
		j                    types.Job
		state                string
		papers               sql.NullString
		createdAt, updatedAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, topic, state, progress, papers, error, created_at, updated_at
		 FROM jobs WHERE id = ?`, id,
	).Scan(&j.ID, &j.Topic, &state, &j.Progress, &papers, &j.Error, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Job{}, ErrNotFound
	}
	if err != nil {
		return types.Job{}, fmt.Errorf("querying job: %w", err)
	}

	j.State = types.JobState(state)
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		j.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
		j.UpdatedAt = t
	}
	if papers.Valid && papers.String != "" {
		if err := json.Unmarshal([]byte(papers.String), &j.Papers); err != nil {
			return types.Job{}, fmt.Errorf("decoding papers: %w", err)
		}
	}

	// Expired terminal records read as missing.
	if j.State.Terminal() && j.UpdatedAt.Before(time.Now().Add(-s.ttl)) {
		s.Delete(ctx, id)
		return types.Job{}, ErrNotFound
	}
	return j, nil
}

func (s *SQLiteStore) Update(ctx context.Context, j types.Job) error {
	papers, err := marshalPapers(j.Papers)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET topic = ?, state = ?, progress = ?, papers = ?, error = ?, updated_at = ?
		 WHERE id = ?`,
		j.Topic, string(j.State), j.Progress, papers, j.Error,
		j.UpdatedAt.UTC().Format(time.RFC3339Nano), j.ID,
	)
	if err != nil {
		return fmt.Errorf("updating job: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting job: %w", err)
	}
	return nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// purgeExpired removes terminal records past the TTL. Failures are ignored;
// the next write tries again.
func (s *SQLiteStore) purgeExpired(ctx context.Context) {
	cutoff := time.Now().Add(-s.ttl).UTC().Format(time.RFC3339Nano)
	s.db.ExecContext(ctx,
		`DELETE FROM jobs WHERE state IN (?, ?, ?) AND updated_at < ?`,
		string(types.JobComplete), string(types.JobFailed), string(types.JobCancelled), cutoff,
	)
}

func marshalPapers(papers []types.PaperResult) (string, error) {
	if papers == nil {
		return "", nil
	}
	data, err := json.Marshal(papers)
	if err != nil {
		return "", fmt.Errorf("encoding papers: %w", err)
	}
	return string(data), nil
}
