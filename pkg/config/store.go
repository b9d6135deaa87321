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

package config

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/carverauto/gatekeeper/pkg/models"
)

//go:generate mockgen -destination=mock_config.go -package=config github.com/carverauto/gatekeeper/pkg/config Store

var (
	ErrInvalidInput       = errors.New("invalid configuration value")
	ErrEndpointNotFound   = errors.New("device endpoint not found")
	ErrCredentialsUnowned = errors.New("broker credentials must match exactly one broker endpoint")
)

// Store persists device endpoints, broker credentials and reachability
// targets. Unset values read as nil without error.
type Store interface {
	GetDeviceEndpoint(ctx context.Context, kind models.TransportKind) (*models.DeviceEndpoint, error)
	ListDeviceEndpoints(ctx context.Context) ([]models.DeviceEndpoint, error)
	SaveDeviceEndpoint(ctx context.Context, endpoint models.DeviceEndpoint) (models.DeviceEndpoint, error)
	DeleteDeviceEndpoint(ctx context.Context, id string) error
	GetBrokerCredentials(ctx context.Context) (*models.BrokerCredentials, error)
	SaveBrokerCredentials(ctx context.Context, creds models.BrokerCredentials) error
	GetReachabilityTargets(ctx context.Context) ([]models.PingTarget, error)
	SaveReachabilityTargets(ctx context.Context, targets []models.PingTarget) error
	Close() error
}

// document is the full stored state.
type document struct {
	Endpoints           []models.DeviceEndpoint   `json:"endpoints"`
	BrokerCredentials   *models.BrokerCredentials `json:"broker_credentials,omitempty"`
	ReachabilityTargets []models.PingTarget       `json:"reachability_targets"`
}

// backend reads and writes a whole document.
type backend interface {
	load(ctx context.Context) (*document, error)
	save(ctx context.Context, doc *document) error
}

// docStore implements Store over a backend. Writes are read-modify-write
// under a process-wide lock.
type docStore struct {
	mu      sync.Mutex
	backend backend
}

func (s *docStore) read(ctx context.Context) (*document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.backend.load(ctx)
}

func (s *docStore) update(ctx context.Context, fn func(doc *document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.backend.load(ctx)
	if err != nil {
		return err
	}

	if err := fn(doc); err != nil {
		return err
	}

	return s.backend.save(ctx, doc)
}

func (s *docStore) GetDeviceEndpoint(ctx context.Context, kind models.TransportKind) (*models.DeviceEndpoint, error) {
	doc, err := s.read(ctx)
	if err != nil {
		return nil, err
	}

	for i := range doc.Endpoints {
		if doc.Endpoints[i].Kind == kind {
			ep := doc.Endpoints[i]
			return &ep, nil
		}
	}

	return nil, nil
}

func (s *docStore) ListDeviceEndpoints(ctx context.Context) ([]models.DeviceEndpoint, error) {
	doc, err := s.read(ctx)
	if err != nil {
		return nil, err
	}

	return doc.Endpoints, nil
}

// SaveDeviceEndpoint inserts or replaces the endpoint by ID, assigning an ID
// when empty. New endpoints are appended, keeping configuration order.
func (s *docStore) SaveDeviceEndpoint(ctx context.Context, endpoint models.DeviceEndpoint) (models.DeviceEndpoint, error) {
	if err := endpoint.Validate(); err != nil {
		return models.DeviceEndpoint{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if endpoint.ID == "" {
		endpoint.ID = uuid.NewString()
	}

	endpoint.Reachable = nil

	err := s.update(ctx, func(doc *document) error {
		idx := slices.IndexFunc(doc.Endpoints, func(e models.DeviceEndpoint) bool { return e.ID == endpoint.ID })
		if idx >= 0 {
			doc.Endpoints[idx] = endpoint
		} else {
			doc.Endpoints = append(doc.Endpoints, endpoint)
		}

		return nil
	})

	return endpoint, err
}

// DeleteDeviceEndpoint removes the endpoint and any broker credentials it owned.
func (s *docStore) DeleteDeviceEndpoint(ctx context.Context, id string) error {
	return s.update(ctx, func(doc *document) error {
		idx := slices.IndexFunc(doc.Endpoints, func(e models.DeviceEndpoint) bool { return e.ID == id })
		if idx < 0 {
			return fmt.Errorf("%w: %s", ErrEndpointNotFound, id)
		}

		removed := doc.Endpoints[idx]
		doc.Endpoints = slices.Delete(doc.Endpoints, idx, idx+1)

		if doc.BrokerCredentials != nil && doc.BrokerCredentials.Matches(&removed) {
			doc.BrokerCredentials = nil
		}

		return nil
	})
}

func (s *docStore) GetBrokerCredentials(ctx context.Context) (*models.BrokerCredentials, error) {
	doc, err := s.read(ctx)
	if err != nil {
		return nil, err
	}

	return doc.BrokerCredentials, nil
}

// SaveBrokerCredentials stores credentials owned by exactly one broker endpoint.
func (s *docStore) SaveBrokerCredentials(ctx context.Context, creds models.BrokerCredentials) error {
	if err := creds.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	return s.update(ctx, func(doc *document) error {
		owners := 0

		for i := range doc.Endpoints {
			if creds.Matches(&doc.Endpoints[i]) {
				owners++
			}
		}

		if owners != 1 {
			return fmt.Errorf("%w: %d match %s:%d", ErrCredentialsUnowned, owners, creds.Host, creds.Port)
		}

		doc.BrokerCredentials = &creds

		return nil
	})
}

func (s *docStore) GetReachabilityTargets(ctx context.Context) ([]models.PingTarget, error) {
	doc, err := s.read(ctx)
	if err != nil {
		return nil, err
	}

	return doc.ReachabilityTargets, nil
}

// SaveReachabilityTargets replaces the target list; duplicates by (host, kind)
// keep the first entry.
func (s *docStore) SaveReachabilityTargets(ctx context.Context, targets []models.PingTarget) error {
	seen := make(map[models.TargetKey]struct{}, len(targets))
	clean := make([]models.PingTarget, 0, len(targets))

	for _, t := range targets {
		if strings.TrimSpace(t.Host) == "" || !t.Kind.Valid() {
			return fmt.Errorf("%w: reachability target %s", ErrInvalidInput, t)
		}

		if _, dup := seen[t.Key()]; dup {
			continue
		}

		seen[t.Key()] = struct{}{}
		clean = append(clean, t)
	}

	return s.update(ctx, func(doc *document) error {
		doc.ReachabilityTargets = clean
		return nil
	})
}
