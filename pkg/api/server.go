/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package api exposes the gate trigger and its configuration over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/carverauto/gatekeeper/pkg/config"
	srHttp "github.com/carverauto/gatekeeper/pkg/http"
	"github.com/carverauto/gatekeeper/pkg/logger"
	"github.com/carverauto/gatekeeper/pkg/trigger"
	"github.com/carverauto/gatekeeper/pkg/version"
)

const (
	defaultReadTimeout  = 10 * time.Second
	defaultIdleTimeout  = 60 * time.Second
	defaultShutdownWait = 10 * time.Second
	maxBodyBytes        = 1 << 20
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// Server serves the gatekeeper HTTP API.
type Server struct {
	router  chi.Router
	trigger Triggerer
	prober  Prober
	store   config.Store
	cors    srHttp.CORSConfig
	logger  logger.Logger
	srv     *http.Server
}

// NewServer builds the router and registers every route.
func NewServer(t Triggerer, p Prober, store config.Store, cors srHttp.CORSConfig, log logger.Logger) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		trigger: t,
		prober:  p,
		store:   store,
		cors:    cors,
		logger:  log,
	}

	s.setupRoutes()

	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(srHttp.RequestLogger(s.logger))
	s.router.Use(func(next http.Handler) http.Handler {
		return srHttp.CommonMiddleware(next, s.cors)
	})

	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Post("/trigger", s.handleTrigger)
		r.Get("/trigger/ws", s.handleTriggerStream)

		r.Get("/endpoints", s.handleListEndpoints)
		r.Put("/endpoints", s.handleSaveEndpoint)
		r.Delete("/endpoints/{id}", s.handleDeleteEndpoint)

		r.Get("/broker", s.handleGetBroker)
		r.Put("/broker", s.handleSaveBroker)

		r.Get("/reachability-targets", s.handleGetTargets)
		r.Put("/reachability-targets", s.handleSaveTargets)

		r.Post("/probe", s.handleProbe)
	})
}

// Start serves on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.srv = &http.Server{
		Addr:        addr,
		Handler:     s.router,
		ReadTimeout: defaultReadTimeout,
		IdleTimeout: defaultIdleTimeout,
	}

	s.logger.Info().Str("addr", addr).Msg("Starting HTTP API")

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Shutdown stops the listener and waits for open requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultShutdownWait)
	defer cancel()

	return s.srv.Shutdown(ctx)
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string       `json:"status"`
	Build  version.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Build: version.Get()})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.trigger.Status())
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error().Err(err).Msg("Error encoding response")
	}
}

func writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errResponse := ErrorResponse{
		Message: message,
		Status:  statusCode,
	}

	if err := json.NewEncoder(w).Encode(errResponse); err != nil {
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, trigger.ErrOperationInProgress),
		errors.Is(err, config.ErrCredentialsUnowned):
		return http.StatusConflict
	case errors.Is(err, trigger.ErrConfigurationMissing):
		return http.StatusPreconditionFailed
	case errors.Is(err, config.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, config.ErrEndpointNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return false
	}

	return true
}
