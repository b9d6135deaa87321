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

package transport

import (
	"context"
	"fmt"
	"sync"

	"github.com/carverauto/gatekeeper/pkg/models"
	"github.com/carverauto/gatekeeper/pkg/relay"
)

// session carries the start/stop lifecycle shared by both adapters.
type session struct {
	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func (s *session) start(ctx context.Context, run func(ctx context.Context)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrAdapterStarted
	}

	s.started = true

	sessionCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		defer cancel()

		run(sessionCtx)
	}()

	return nil
}

func (s *session) stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	<-done
}

// reporter pushes events while the session context is alive and applies
// the relay sequencing rules.
type reporter struct {
	events chan<- Event
	seq    relay.Sequencer
}

func (r *reporter) send(ctx context.Context, ev Event) bool {
	select {
	case r.events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

func (r *reporter) fail(ctx context.Context, err error) {
	r.send(ctx, Event{Type: EventFailure, Err: err})
}

// relayState reports state unless it is a duplicate. It returns false when
// the session must end: Released was seen, the order was violated, or the
// context ended.
func (r *reporter) relayState(ctx context.Context, state models.RelayState) bool {
	emit, err := r.seq.Observe(state)
	if err != nil {
		r.fail(ctx, fmt.Errorf("%w: %w", ErrInvalidResponse, err))
		return false
	}

	if emit && !r.send(ctx, Event{Type: EventRelay, State: state}) {
		return false
	}

	return !r.seq.Done()
}
