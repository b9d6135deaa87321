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

// Package service assembles the store, prober, transport factory and
// orchestrator from a ServiceConfig.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/carverauto/gatekeeper/pkg/config"
	"github.com/carverauto/gatekeeper/pkg/logger"
	"github.com/carverauto/gatekeeper/pkg/natsutil"
	"github.com/carverauto/gatekeeper/pkg/reachability"
	"github.com/carverauto/gatekeeper/pkg/transport"
	"github.com/carverauto/gatekeeper/pkg/trigger"
)

// Service holds the wired components of a gatekeeper instance.
type Service struct {
	Config       *config.ServiceConfig
	Store        config.Store
	Prober       *reachability.Prober
	Factory      *transport.DefaultFactory
	Orchestrator *trigger.Orchestrator
	Events       *natsutil.EventPublisher

	events *nats.Conn
	logger logger.Logger
}

const eventsConnectTimeout = 5 * time.Second

// LoadConfig reads the service config at path. An empty path yields the defaults.
func LoadConfig(ctx context.Context, path string, log logger.Logger) (*config.ServiceConfig, error) {
	cfg := config.DefaultServiceConfig()

	if path == "" {
		return &cfg, nil
	}

	if err := config.NewConfig(log).LoadAndValidate(ctx, path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	return &cfg, nil
}

// New opens the configured store and builds the trigger pipeline on top of it.
func New(ctx context.Context, cfg *config.ServiceConfig, log logger.Logger) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store, err := config.OpenStore(ctx, cfg.Store, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Type, err)
	}

	timeout := cfg.Trigger.Timeout.Or(trigger.DefaultTimeout)
	connectTimeout := min(cfg.Trigger.ConnectTimeout.Or(config.DefaultConnectWait), timeout)

	svc := &Service{
		Config: cfg,
		Store:  store,
		logger: log,
	}

	opts := []trigger.Option{trigger.WithTimeout(timeout)}

	if cfg.Events.Enabled() {
		connectCtx, cancel := context.WithTimeout(ctx, eventsConnectTimeout)
		nc, err := natsutil.Connect(connectCtx, cfg.Events.NATSURL, log)

		cancel()

		if err != nil {
			_ = store.Close()
			return nil, err
		}

		svc.events = nc
		svc.Events = natsutil.NewEventPublisher(nc, cfg.Events.SubjectPrefix, log)
		opts = append(opts, trigger.WithObserver(svc.Events.Observe))
	}

	svc.Prober = reachability.NewProber(cfg.Reachability.ProberConfig(), log)
	svc.Factory = transport.NewFactory(store, connectTimeout, log)
	svc.Orchestrator = trigger.NewOrchestrator(store, svc.Prober, svc.Factory, log, opts...)

	log.Info().
		Str("store", cfg.Store.Type).
		Dur("timeout", timeout).
		Dur("connect_timeout", connectTimeout).
		Str("datagram_probe", cfg.Reachability.DatagramMethod).
		Str("broker_probe", cfg.Reachability.BrokerMethod).
		Bool("events", cfg.Events.Enabled()).
		Msg("Gatekeeper service assembled")

	return svc, nil
}

// Close releases the event connection and the store.
func (s *Service) Close() error {
	if s.events != nil {
		if err := s.events.Drain(); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to drain event connection")
		}
	}

	if s.Store == nil {
		return nil
	}

	if err := s.Store.Close(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to close store: %w", err)
	}

	return nil
}
