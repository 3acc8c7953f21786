// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// JobState is the lifecycle state of a digest job.
type JobState string

const (
	JobPending    JobState = "pending"
	JobInProgress JobState = "in_progress"
	JobComplete   JobState = "complete"
	JobFailed     JobState = "failed"
	JobCancelled  JobState = "cancelled"
)

// Terminal reports whether the state admits no further transitions.
func (s JobState) Terminal() bool {
	return s == JobComplete || s == JobFailed || s == JobCancelled
}

// Job is one topic-search-and-summarize request tracked as a unit of
// asynchronous work. A job record is owned by the manager that created it
// and written only by the single pipeline runner executing it; readers get
// whole-record snapshots, never partially applied updates.
type Job struct {
	// ID is the opaque identifier returned at submission and used for
	// all subsequent lookups.
	ID string `json:"id" yaml:"id"`

	// Topic is the user-supplied search topic, trimmed.
	Topic string `json:"topic" yaml:"topic"`

	// State is the current lifecycle state.
	State JobState `json:"state" yaml:"state"`

	// Progress is a free-text status message
	// (e.g. "Found 12 papers. Starting summarization...").
	Progress string `json:"progress,omitempty" yaml:"progress,omitempty"`

	// Papers holds the results; meaningful only once State is JobComplete.
	Papers []PaperResult `json:"papers,omitempty" yaml:"papers,omitempty"`

	// Error describes why the job failed; set only when State is JobFailed
	// or JobCancelled.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// Clone returns a deep copy so callers can hand out snapshots without
// exposing the stored record to mutation.
func (j Job) Clone() Job {
	c := j
	if j.Papers != nil {
		c.Papers = make([]PaperResult, len(j.Papers))
		copy(c.Papers, j.Papers)
	}
	return c
}

// Polling statuses reported to clients. The boundary collapses the internal
// state machine to "pending until terminal, then ready", matching the wire
// contract the polling front-end was built against.
const (
	StatusPending = "pending"
	StatusReady   = "ready"
)

// JobResult is the payload embedded in a terminal status response.
type JobResult struct {
	// Status is "complete", "failure", or "cancelled".
	Status string `json:"status" yaml:"status"`

	// Papers is present on completion, one entry per listing reference.
	Papers []PaperResult `json:"papers,omitempty" yaml:"papers,omitempty"`

	// Error is present on failure.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// JobStatusView is the snapshot returned to a polling client.
type JobStatusView struct {
	// Status is StatusPending or StatusReady.
	Status string `json:"status" yaml:"status"`

	// Progress is the latest progress message while pending.
	Progress string `json:"progress,omitempty" yaml:"progress,omitempty"`

	// Result is set only when Status is StatusReady.
	Result *JobResult `json:"result,omitempty" yaml:"result,omitempty"`
}

// StatusView collapses a job record into the polling representation.
func StatusView(j Job) JobStatusView {
	if !j.State.Terminal() {
		return JobStatusView{Status: StatusPending, Progress: j.Progress}
	}

	res := &JobResult{}
	switch j.State {
	case JobComplete:
		res.Status = "complete"
		res.Papers = j.Papers
		if res.Papers == nil {
			res.Papers = []PaperResult{}
		}
	case JobCancelled:
		res.Status = "cancelled"
		res.Error = j.Error
	default:
		res.Status = "failure"
		res.Error = j.Error
	}
	return JobStatusView{Status: StatusReady, Result: res}
}
