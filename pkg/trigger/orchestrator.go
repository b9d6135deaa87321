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

// Package trigger runs gate trigger attempts: it picks a reachable endpoint,
// drives one transport adapter at a time through the relay handshake, and
// reports the resulting gate states in order.
package trigger

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/carverauto/gatekeeper/pkg/logger"
	"github.com/carverauto/gatekeeper/pkg/models"
	"github.com/carverauto/gatekeeper/pkg/transport"
)

const (
	DefaultTimeout = 5 * time.Second

	// Ready, CheckingNetwork, Triggering, WaitingForRelayClose and a terminal
	// state; failover never adds entries.
	updateBuffer = 8
	eventBuffer  = 4
)

// Status is a snapshot for status endpoints.
type Status struct {
	State    models.GateState   `json:"state"`
	InFlight bool               `json:"in_flight"`
	Last     *models.GateUpdate `json:"last,omitempty"`
}

// Orchestrator owns the single in-flight trigger session.
type Orchestrator struct {
	source  EndpointSource
	prober  Prober
	factory transport.Factory
	clock   Clock
	timeout time.Duration
	logger  logger.Logger

	observers []func(models.GateUpdate)

	inFlight atomic.Bool
	status   atomic.Pointer[Status]
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClock replaces the wall clock used for the attempt deadline.
func WithClock(c Clock) Option {
	return func(o *Orchestrator) {
		o.clock = c
	}
}

// WithTimeout sets the per-attempt deadline.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithObserver registers fn to receive a copy of every gate update. fn runs on
// the session goroutine and must not block.
func WithObserver(fn func(models.GateUpdate)) Option {
	return func(o *Orchestrator) {
		o.observers = append(o.observers, fn)
	}
}

func NewOrchestrator(
	source EndpointSource,
	prober Prober,
	factory transport.Factory,
	log logger.Logger,
	opts ...Option,
) *Orchestrator {
	o := &Orchestrator{
		source:  source,
		prober:  prober,
		factory: factory,
		clock:   systemClock{},
		timeout: DefaultTimeout,
		logger:  log,
	}

	for _, opt := range opts {
		opt(o)
	}

	o.status.Store(&Status{State: models.GateReady})

	return o
}

// Status returns the current gate state and the last terminal update.
func (o *Orchestrator) Status() Status {
	return *o.status.Load()
}

// Trigger starts an attempt and returns its ordered gate updates. The
// channel is closed after the update with Final set. ErrOperationInProgress
// and ErrConfigurationMissing are returned before any network activity.
func (o *Orchestrator) Trigger(ctx context.Context) (<-chan models.GateUpdate, error) {
	if !o.inFlight.CompareAndSwap(false, true) {
		recordOutcome(ctx, outcomeRejected, 0)

		return nil, ErrOperationInProgress
	}

	endpoints, err := o.loadEndpoints(ctx)
	if err != nil {
		o.inFlight.Store(false)

		if errors.Is(err, ErrConfigurationMissing) {
			recordOutcome(ctx, outcomeConfigMissing, 0)
		}

		return nil, err
	}

	targets, err := o.source.GetReachabilityTargets(ctx)
	if err != nil {
		o.logger.Warn().Err(err).Msg("Failed to load reachability targets, probing endpoints directly")

		targets = nil
	}

	id := uuid.NewString()

	s := &session{
		id:        id,
		endpoints: endpoints,
		targets:   targets,
		updates:   make(chan models.GateUpdate, updateBuffer),
		startedAt: o.clock.Now(),
		logger:    logger.New(o.logger.WithFields(map[string]interface{}{"session_id": id})),
	}

	go o.run(ctx, s)

	return s.updates, nil
}

func (o *Orchestrator) loadEndpoints(ctx context.Context) ([]models.DeviceEndpoint, error) {
	all, err := o.source.ListDeviceEndpoints(ctx)
	if err != nil {
		return nil, fmt.Errorf("load device endpoints: %w", err)
	}

	endpoints := make([]models.DeviceEndpoint, 0, len(all))

	for i := range all {
		if err := all[i].Validate(); err != nil {
			o.logger.Warn().Err(err).Str("endpoint", all[i].Key()).Msg("Skipping invalid device endpoint")
			continue
		}

		endpoints = append(endpoints, all[i])
	}

	if len(endpoints) == 0 {
		return nil, ErrConfigurationMissing
	}

	return endpoints, nil
}

// session is the state of one attempt. Only the run goroutine touches it.
type session struct {
	id        string
	endpoints []models.DeviceEndpoint
	targets   []models.PingTarget
	updates   chan models.GateUpdate
	startedAt time.Time
	state     models.GateState
	logger    logger.Logger
}

// outcome of awaiting one adapter.
type outcome int

const (
	outcomeReleased outcome = iota
	outcomeFailed
	outcomeDeadline
	outcomeCancelled
)

func (o *Orchestrator) run(ctx context.Context, s *session) {
	deadline := o.clock.After(o.timeout)

	o.emit(s, models.GateReady, nil)
	o.emit(s, models.GateCheckingNetwork, nil)

	eligible, err := o.reachableEndpoints(ctx, s, deadline)
	if err != nil {
		o.finishWithError(ctx, s, err)
		return
	}

	if len(eligible) == 0 {
		o.finish(ctx, s, models.GateNoNetwork, nil, ErrNoAdapterAvailable)
		return
	}

	o.emit(s, models.GateTriggering, &eligible[0])

	var lastErr error

	for i := range eligible {
		ep := &eligible[i]

		result, err := o.attempt(ctx, s, ep, deadline)

		switch result {
		case outcomeReleased:
			o.finish(ctx, s, models.GateReady, ep, nil)
			return
		case outcomeDeadline:
			o.finish(ctx, s, models.GateTimeout, ep, ErrOperationTimeout)
			return
		case outcomeCancelled:
			o.finish(ctx, s, models.GateError, ep, ctx.Err())
			return
		case outcomeFailed:
		}

		lastErr = err

		s.logger.Warn().Err(err).Str("endpoint", ep.Key()).Str("kind", string(ep.Kind)).Msg("Endpoint handshake failed")

		if i < len(eligible)-1 {
			recordFailover(ctx, ep.Kind)
		}
	}

	o.finish(ctx, s, models.GateError, nil, fmt.Errorf("%w: %w", ErrAllAdaptersFailed, lastErr))
}

// reachableEndpoints probes all endpoints and returns the reachable ones in
// selection order. The probe races the attempt deadline.
func (o *Orchestrator) reachableEndpoints(
	ctx context.Context,
	s *session,
	deadline <-chan time.Time,
) ([]models.DeviceEndpoint, error) {
	probeTargets := make(map[string][]models.PingTarget, len(s.endpoints))

	var all []models.PingTarget

	for i := range s.endpoints {
		ts := targetsFor(&s.endpoints[i], s.targets)
		probeTargets[s.endpoints[i].Key()] = ts
		all = append(all, ts...)
	}

	probeCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type probeResult struct {
		eligible []models.DeviceEndpoint
		err      error
	}

	done := make(chan probeResult, 1)

	go func() {
		batch, err := o.prober.CheckAll(probeCtx, all)
		if err != nil {
			done <- probeResult{err: err}
			return
		}

		var eligible []models.DeviceEndpoint

		for _, ep := range s.endpoints {
			if slices.ContainsFunc(probeTargets[ep.Key()], batch.Reachable) {
				eligible = append(eligible, ep)
			}
		}

		slices.SortStableFunc(eligible, func(a, b models.DeviceEndpoint) int {
			return a.Kind.Priority() - b.Kind.Priority()
		})

		done <- probeResult{eligible: eligible}
	}()

	select {
	case r := <-done:
		if r.err != nil && ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if r.err != nil {
			s.logger.Warn().Err(r.err).Msg("Reachability probe failed")
		}

		return r.eligible, nil
	case <-deadline:
		cancel()
		<-done

		return nil, ErrOperationTimeout
	case <-ctx.Done():
		<-done

		return nil, ctx.Err()
	}
}

// targetsFor returns the configured probe targets of the endpoint kind, or
// the endpoint itself when none are configured.
func targetsFor(ep *models.DeviceEndpoint, configured []models.PingTarget) []models.PingTarget {
	var out []models.PingTarget

	for _, t := range configured {
		if t.Kind != ep.Kind {
			continue
		}

		if t.Port == 0 {
			t.Port = ep.Port
		}

		out = append(out, t)
	}

	if len(out) == 0 {
		out = append(out, ep.PingTarget())
	}

	return out
}

// attempt runs one adapter to completion and stops it exactly once.
func (o *Orchestrator) attempt(
	ctx context.Context,
	s *session,
	ep *models.DeviceEndpoint,
	deadline <-chan time.Time,
) (outcome, error) {
	adapter, err := o.factory.NewAdapter(ctx, *ep)
	if err != nil {
		return outcomeFailed, err
	}

	defer func() {
		if err := adapter.Stop(); err != nil {
			s.logger.Debug().Err(err).Str("endpoint", ep.Key()).Msg("Adapter stop returned an error")
		}
	}()

	events := make(chan transport.Event, eventBuffer)

	if err := adapter.Start(ctx, events); err != nil {
		return outcomeFailed, err
	}

	s.logger.Info().Str("endpoint", ep.Key()).Str("kind", string(ep.Kind)).Str("addr", ep.Address()).Msg("Trigger sent")

	for {
		select {
		case <-deadline:
			return outcomeDeadline, ErrOperationTimeout
		case <-ctx.Done():
			return outcomeCancelled, ctx.Err()
		case ev := <-events:
			if ev.Type == transport.EventFailure {
				return outcomeFailed, ev.Err
			}

			switch ev.State {
			case models.RelayActivated:
				// a replacement adapter after failover reports Activated again
				if s.state != models.GateWaitingForRelayClose {
					o.emit(s, models.GateWaitingForRelayClose, ep)
				}
			case models.RelayReleased:
				if s.state != models.GateWaitingForRelayClose {
					return outcomeFailed, fmt.Errorf("%w: released before activated", transport.ErrInvalidResponse)
				}

				return outcomeReleased, nil
			}
		}
	}
}

func (o *Orchestrator) emit(s *session, state models.GateState, ep *models.DeviceEndpoint) {
	s.state = state

	update := models.GateUpdate{
		SessionID: s.id,
		State:     state,
		Endpoint:  ep,
		Timestamp: o.clock.Now(),
	}

	o.status.Store(&Status{State: state, InFlight: true, Last: o.status.Load().Last})

	s.logger.Debug().Str("state", string(state)).Msg("Gate state")

	s.updates <- update

	o.notify(update)
}

func (o *Orchestrator) notify(update models.GateUpdate) {
	for _, fn := range o.observers {
		fn(update)
	}
}

func (o *Orchestrator) finishWithError(ctx context.Context, s *session, err error) {
	if errors.Is(err, ErrOperationTimeout) {
		o.finish(ctx, s, models.GateTimeout, nil, err)
		return
	}

	o.finish(ctx, s, models.GateError, nil, err)
}

// finish emits the terminal update, releases the single-flight slot and
// closes the update channel.
func (o *Orchestrator) finish(ctx context.Context, s *session, state models.GateState, ep *models.DeviceEndpoint, err error) {
	now := o.clock.Now()
	elapsed := now.Sub(s.startedAt)

	update := models.GateUpdate{
		SessionID: s.id,
		State:     state,
		Endpoint:  ep,
		Err:       err,
		Final:     true,
		Timestamp: now,
	}

	if err != nil {
		update.Error = err.Error()
	}

	s.state = state
	o.status.Store(&Status{State: state, Last: &update})

	event := s.logger.Info()
	if err != nil {
		event = s.logger.Warn().Err(err)
	}

	event.Str("state", string(state)).Dur("elapsed", elapsed).Msg("Gate trigger finished")

	recordOutcome(context.WithoutCancel(ctx), outcomeFor(state), elapsed)

	o.inFlight.Store(false)

	s.updates <- update
	close(s.updates)

	o.notify(update)
}
