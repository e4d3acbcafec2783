// Package server exposes the translation pipeline to the dashboard over HTTP.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/GeoFlow-core-poc-v1/server/internal/gis/graph"
	"github.com/GeoFlow-core-poc-v1/server/internal/gis/model"
)

type Service struct {
	runner graph.Runner
	repo   model.QueryRepository
}

func NewService(runner graph.Runner, repo model.QueryRepository) *Service {
	return &Service{runner: runner, repo: repo}
}

// Router builds the chi router for the API surface.
func (s *Service) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Post("/api/query", s.handleQuery)
	r.Post("/api/execute", s.handleExecute)
	r.Get("/api/status/{execution_id}", s.handleStatus)
	r.Get("/api/history", s.handleHistory)

	return r
}
