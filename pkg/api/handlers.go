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

package api

import (
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/carverauto/gatekeeper/pkg/models"
	"github.com/carverauto/gatekeeper/pkg/reachability"
)

// ProbeResponse is the body returned by POST /api/v1/probe.
type ProbeResponse struct {
	AnyReachable bool                  `json:"any_reachable"`
	Results      []reachability.Result `json:"results"`
}

// ProbeRequest optionally names the targets to probe. An empty request probes
// the configured reachability targets, or the endpoints themselves when none
// are configured.
type ProbeRequest struct {
	Targets []models.PingTarget `json:"targets,omitempty"`
}

func (s *Server) handleListEndpoints(w http.ResponseWriter, r *http.Request) {
	endpoints, err := s.store.ListDeviceEndpoints(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list device endpoints")
		writeError(w, "Failed to list device endpoints", statusFor(err))

		return
	}

	if endpoints == nil {
		endpoints = []models.DeviceEndpoint{}
	}

	for i := range endpoints {
		if result, ok := s.prober.LastKnown(endpoints[i].PingTarget()); ok {
			reachable := result.Reachable
			endpoints[i].Reachable = &reachable
		}
	}

	s.writeJSON(w, http.StatusOK, endpoints)
}

func (s *Server) handleSaveEndpoint(w http.ResponseWriter, r *http.Request) {
	var endpoint models.DeviceEndpoint
	if !decodeBody(w, r, &endpoint) {
		return
	}

	endpoint.Reachable = nil

	saved, err := s.store.SaveDeviceEndpoint(r.Context(), endpoint)
	if err != nil {
		writeError(w, err.Error(), statusFor(err))
		return
	}

	s.logger.Info().
		Str("endpoint_id", saved.ID).
		Str("kind", string(saved.Kind)).
		Str("address", saved.Address()).
		Msg("Device endpoint saved")

	s.writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeleteEndpoint(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.store.DeleteDeviceEndpoint(r.Context(), id); err != nil {
		writeError(w, err.Error(), statusFor(err))
		return
	}

	s.logger.Info().Str("endpoint_id", id).Msg("Device endpoint deleted")

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetBroker(w http.ResponseWriter, r *http.Request) {
	creds, err := s.store.GetBrokerCredentials(r.Context())
	if err != nil {
		writeError(w, "Failed to load broker credentials", statusFor(err))
		return
	}

	if creds == nil {
		writeError(w, "Broker credentials not configured", http.StatusNotFound)
		return
	}

	s.writeJSON(w, http.StatusOK, creds.Redacted())
}

func (s *Server) handleSaveBroker(w http.ResponseWriter, r *http.Request) {
	var creds models.BrokerCredentials
	if !decodeBody(w, r, &creds) {
		return
	}

	if err := s.store.SaveBrokerCredentials(r.Context(), creds); err != nil {
		writeError(w, err.Error(), statusFor(err))
		return
	}

	s.logger.Info().
		Str("host", creds.Host).
		Int("port", creds.Port).
		Msg("Broker credentials saved")

	s.writeJSON(w, http.StatusOK, creds.Redacted())
}

func (s *Server) handleGetTargets(w http.ResponseWriter, r *http.Request) {
	targets, err := s.store.GetReachabilityTargets(r.Context())
	if err != nil {
		writeError(w, "Failed to load reachability targets", statusFor(err))
		return
	}

	if targets == nil {
		targets = []models.PingTarget{}
	}

	s.writeJSON(w, http.StatusOK, targets)
}

func (s *Server) handleSaveTargets(w http.ResponseWriter, r *http.Request) {
	var targets []models.PingTarget
	if !decodeBody(w, r, &targets) {
		return
	}

	if err := s.store.SaveReachabilityTargets(r.Context(), targets); err != nil {
		writeError(w, err.Error(), statusFor(err))
		return
	}

	saved, err := s.store.GetReachabilityTargets(r.Context())
	if err != nil {
		writeError(w, "Failed to load reachability targets", statusFor(err))
		return
	}

	if saved == nil {
		saved = []models.PingTarget{}
	}

	s.writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleProbe(w http.ResponseWriter, r *http.Request) {
	var req ProbeRequest

	if r.ContentLength > 0 && !decodeBody(w, r, &req) {
		return
	}

	targets := req.Targets
	if len(targets) == 0 {
		var err error

		if targets, err = s.defaultProbeTargets(r); err != nil {
			writeError(w, "Failed to load probe targets", statusFor(err))
			return
		}
	}

	batch, err := s.prober.CheckAll(r.Context(), targets)
	if err != nil {
		writeError(w, "Probe interrupted: "+err.Error(), http.StatusServiceUnavailable)
		return
	}

	resp := ProbeResponse{
		AnyReachable: batch.AnyReachable,
		Results:      make([]reachability.Result, 0, len(batch.Results)),
	}

	for _, result := range batch.Results {
		resp.Results = append(resp.Results, result)
	}

	sort.Slice(resp.Results, func(i, j int) bool {
		return resp.Results[i].Target.String() < resp.Results[j].Target.String()
	})

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) defaultProbeTargets(r *http.Request) ([]models.PingTarget, error) {
	targets, err := s.store.GetReachabilityTargets(r.Context())
	if err != nil || len(targets) > 0 {
		return targets, err
	}

	endpoints, err := s.store.ListDeviceEndpoints(r.Context())
	if err != nil {
		return nil, err
	}

	for i := range endpoints {
		targets = append(targets, endpoints[i].PingTarget())
	}

	return targets, nil
}
