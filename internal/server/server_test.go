// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-digest/internal/job"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// stubExecutor publishes one terminal snapshot, optionally holding the job
// open until release closes.
type stubExecutor struct {
	release chan struct{}
	papers  []types.PaperResult
	failure string
}

func (e *stubExecutor) Execute(ctx context.Context, j types.Job, publish func(types.Job)) {
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

	if e.failure != "" {
		j.State = types.JobFailed
		j.Error = e.failure
	} else {
		j.State = types.JobComplete
		j.Papers = e.papers
	}
	publish(j)
}

func newTestServer(t *testing.T, exec job.Executor) *Server {
	t.Helper()
	m := job.NewManager(job.NewMemoryStore(time.Hour), exec, nil)
	t.Cleanup(m.Close)
	return New(m, nil)
}

func submitForm(t *testing.T, s *Server, topic string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"topic": {topic}}
	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func taskID(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		TaskID string `json:"task_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.TaskID)
	return resp.TaskID
}

func getStatus(s *Server, id string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/status/"+id, nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestSubmitAcceptsFormTopic(t *testing.T) {
	s := newTestServer(t, &stubExecutor{papers: []types.PaperResult{}})

	rec := submitForm(t, s, "graph theory")
	assert.Equal(t, http.StatusAccepted, rec.Code)
	taskID(t, rec)
}

func TestSubmitAcceptsJSONTopic(t *testing.T) {
	s := newTestServer(t, &stubExecutor{papers: []types.PaperResult{}})

	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(`{"topic":"graph theory"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	taskID(t, rec)
}

func TestSubmitRejectsEmptyTopic(t *testing.T) {
	s := newTestServer(t, &stubExecutor{})

	for _, topic := range []string{"", "   "} {
		rec := submitForm(t, s, topic)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "topic %q", topic)
		assert.Contains(t, rec.Body.String(), "topic")
	}
}

func TestStatusUnknownID(t *testing.T) {
	s := newTestServer(t, &stubExecutor{})

	rec := getStatus(s, "nonexistent-id")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatusPendingWhileRunning(t *testing.T) {
	release := make(chan struct{})
	s := newTestServer(t, &stubExecutor{release: release, papers: []types.PaperResult{}})
	defer close(release)

	id := taskID(t, submitForm(t, s, "graphs"))

	rec := getStatus(s, id)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	var view types.JobStatusView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, types.StatusPending, view.Status)
	assert.Nil(t, view.Result)
}

func TestStatusReadyWithPapers(t *testing.T) {
	papers := []types.PaperResult{
		{Title: "Paper A", Link: "http://papers/a", Summary: "First summary."},
		{Title: "Paper B", Link: "http://papers/b", Summary: "Could not generate summary: connection refused"},
	}
	s := newTestServer(t, &stubExecutor{papers: papers})

	id := taskID(t, submitForm(t, s, "graphs"))

	var rec *httptest.ResponseRecorder
	require.Eventually(t, func() bool {
		rec = getStatus(s, id)
		return rec.Code == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	var view types.JobStatusView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, types.StatusReady, view.Status)
	require.NotNil(t, view.Result)
	assert.Equal(t, "complete", view.Result.Status)
	require.Len(t, view.Result.Papers, 2)
	assert.Equal(t, "Paper A", view.Result.Papers[0].Title)
	assert.Contains(t, view.Result.Papers[1].Summary, "Could not generate summary")
}

func TestStatusPipelineFailureIsStillOK(t *testing.T) {
	s := newTestServer(t, &stubExecutor{failure: "HTTP 503"})

	id := taskID(t, submitForm(t, s, "graphs"))

	var rec *httptest.ResponseRecorder
	require.Eventually(t, func() bool {
		rec = getStatus(s, id)
		return rec.Code == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	var view types.JobStatusView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.NotNil(t, view.Result)
	assert.Equal(t, "failure", view.Result.Status)
	assert.Equal(t, "HTTP 503", view.Result.Error)
}

func TestCancelRunningJob(t *testing.T) {
	s := newTestServer(t, &stubExecutor{release: make(chan struct{})})

	id := taskID(t, submitForm(t, s, "graphs"))

	req := httptest.NewRequest(http.MethodDelete, "/jobs/"+id, nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	require.Eventually(t, func() bool {
		return getStatus(s, id).Code == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	var view types.JobStatusView
	require.NoError(t, json.Unmarshal(getStatus(s, id).Body.Bytes(), &view))
	require.NotNil(t, view.Result)
	assert.Equal(t, "cancelled", view.Result.Status)
}

func TestCancelFinishedJobConflicts(t *testing.T) {
	s := newTestServer(t, &stubExecutor{papers: []types.PaperResult{}})

	id := taskID(t, submitForm(t, s, "graphs"))
	require.Eventually(t, func() bool {
		return getStatus(s, id).Code == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	req := httptest.NewRequest(http.MethodDelete, "/jobs/"+id, nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCancelUnknownJob(t *testing.T) {
	s := newTestServer(t, &stubExecutor{})

	req := httptest.NewRequest(http.MethodDelete, "/jobs/nonexistent-id", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, &stubExecutor{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
