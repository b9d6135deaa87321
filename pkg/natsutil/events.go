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

// Package natsutil publishes live gate state changes to NATS.
package natsutil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/carverauto/gatekeeper/pkg/logger"
	"github.com/carverauto/gatekeeper/pkg/models"
)

const (
	DefaultSubjectPrefix = "gatekeeper.gate"

	eventSource  = "gatekeeper/orchestrator"
	eventType    = "io.gatekeeper.gate.state"
	eventVersion = "1.0"
)

var errNotConnected = errors.New("nats connection is closed")

// EventPublisher publishes gate updates as CloudEvents on core NATS subjects
// <prefix>.<state>. Nothing is retained by the server.
type EventPublisher struct {
	nc     *nats.Conn
	prefix string
	logger logger.Logger
}

// NewEventPublisher creates a publisher on an existing connection.
func NewEventPublisher(nc *nats.Conn, prefix string, log logger.Logger) *EventPublisher {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}

	return &EventPublisher{
		nc:     nc,
		prefix: prefix,
		logger: log,
	}
}

// Subject returns the subject an update with the given state is published on.
func (p *EventPublisher) Subject(state models.GateState) string {
	return p.prefix + "." + string(state)
}

// PublishGateUpdate publishes one update.
func (p *EventPublisher) PublishGateUpdate(update *models.GateUpdate) error {
	if p.nc == nil || p.nc.IsClosed() {
		return errNotConnected
	}

	ts := update.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	event := models.CloudEvent{
		SpecVersion:     eventVersion,
		ID:              uuid.New().String(),
		Source:          eventSource,
		Type:            eventType,
		DataContentType: "application/json",
		Subject:         p.Subject(update.State),
		Time:            &ts,
		Data:            update,
	}

	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal gate event: %w", err)
	}

	if err := p.nc.Publish(event.Subject, eventBytes); err != nil {
		return fmt.Errorf("failed to publish gate event: %w", err)
	}

	return nil
}

// Observe publishes update and logs failures. It matches the orchestrator
// observer signature.
func (p *EventPublisher) Observe(update models.GateUpdate) {
	if err := p.PublishGateUpdate(&update); err != nil {
		p.logger.Warn().
			Err(err).
			Str("session_id", update.SessionID).
			Str("state", string(update.State)).
			Msg("Failed to publish gate event")
	}
}

// Connect opens a NATS connection that logs its lifecycle through log.
func Connect(ctx context.Context, natsURL string, log logger.Logger, extraOpts ...nats.Option) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name("gatekeeper-events"),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
		nats.ConnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("Connected to NATS")
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}

	if deadline, ok := ctx.Deadline(); ok {
		opts = append(opts, nats.Timeout(time.Until(deadline)))
	}

	opts = append(opts, extraOpts...)

	nc, err := nats.Connect(natsURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return nc, nil
}
