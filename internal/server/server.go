// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the digest job lifecycle over HTTP: submit a topic,
// poll for the result, cancel a running job.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/pdiddy/paper-digest/internal/job"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// Server wires the job manager into an echo router.
type Server struct {
	jobs *job.Manager
	log  *slog.Logger
	echo *echo.Echo
}

type submitRequest struct {
	Topic string `json:"topic" form:"topic" query:"topic"`
}

type submitResponse struct {
	TaskID string `json:"task_id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// New builds the router. Routes:
//
//	POST   /submit      accept a topic, return the job id
//	GET    /status/:id  poll a job
//	DELETE /jobs/:id    cancel a running job
//	GET    /healthz     liveness probe
func New(jobs *job.Manager, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{jobs: jobs, log: log}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	e.POST("/submit", s.handleSubmit)
	e.GET("/status/:id", s.handleStatus)
	e.DELETE("/jobs/:id", s.handleCancel)
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	s.echo = e
	return s
}

// Start blocks serving HTTP on addr until Shutdown.
func (s *Server) Start(addr string) error {
	s.log.Info("http server listening", "addr", addr)
	return s.echo.Start(addr)
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// ServeHTTP lets tests drive the router without a listener.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// handleSubmit accepts a topic as a form field or JSON body and answers 202
// with the id to poll.
func (s *Server) handleSubmit(c echo.Context) error {
	var req submitRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "malformed request body"})
	}

	id, err := s.jobs.Submit(c.Request().Context(), req.Topic)
	if errors.Is(err, job.ErrEmptyTopic) {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "topic must not be empty"})
	}
	if err != nil {
		s.log.Error("job submission failed", "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "could not create job"})
	}
	return c.JSON(http.StatusAccepted, submitResponse{TaskID: id})
}

// handleStatus answers 202 while the job is in flight and 200 once a result
// exists. A failed pipeline is still a 200: the failure is carried in the
// result body, not the HTTP status.
func (s *Server) handleStatus(c echo.Context) error {
	view, err := s.jobs.Status(c.Request().Context(), c.Param("id"))
	if errors.Is(err, job.ErrNotFound) {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "unknown task id"})
	}
	if err != nil {
		s.log.Error("status lookup failed", "task_id", c.Param("id"), "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "could not read job"})
	}

	if view.Status == types.StatusPending {
		return c.JSON(http.StatusAccepted, view)
	}
	return c.JSON(http.StatusOK, view)
}

func (s *Server) handleCancel(c echo.Context) error {
	err := s.jobs.Cancel(c.Request().Context(), c.Param("id"))
	switch {
	case errors.Is(err, job.ErrNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Error: "unknown task id"})
	case errors.Is(err, job.ErrNotCancelable):
		return c.JSON(http.StatusConflict, errorResponse{Error: "job already finished"})
	case err != nil:
		s.log.Error("job cancellation failed", "task_id", c.Param("id"), "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "could not cancel job"})
	}
	return c.JSON(http.StatusAccepted, map[string]string{"status": "cancelling"})
}
