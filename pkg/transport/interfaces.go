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

//go:generate mockgen -destination=mock_transport.go -package=transport github.com/carverauto/gatekeeper/pkg/transport Adapter,BrokerClient,Factory

// Package transport runs the gate handshake over a datagram socket or a
// publish/subscribe broker.
package transport

import (
	"context"
	"net"

	"github.com/carverauto/gatekeeper/pkg/models"
)

// EventType distinguishes relay reports from failures.
type EventType int

const (
	EventRelay EventType = iota
	EventFailure
)

func (t EventType) String() string {
	if t == EventFailure {
		return "failure"
	}

	return "relay"
}

// Event is pushed by an adapter onto the channel it was started with.
// A failure is always the last event of a session, and so is Released.
type Event struct {
	Type  EventType
	State models.RelayState
	Err   error
}

// Adapter owns one transport session against one endpoint.
//
// Start returns immediately; the handshake runs in the background and
// reports through events. Stop cancels the session, releases the
// connection and waits for the session goroutine to exit. Stop is safe
// to call at any time and more than once.
type Adapter interface {
	Start(ctx context.Context, events chan<- Event) error
	Stop() error
	Endpoint() models.DeviceEndpoint
}

// Factory builds the adapter variant matching an endpoint.
type Factory interface {
	NewAdapter(ctx context.Context, endpoint models.DeviceEndpoint) (Adapter, error)
}

// BrokerClient is the publish/subscribe session used by BrokerAdapter.
// Handlers are invoked sequentially in arrival order.
type BrokerClient interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context, topic string, handler func(payload []byte)) error
	Publish(ctx context.Context, topic string, payload []byte) error
	// Lost delivers at most one error when the session drops after Connect.
	Lost() <-chan error
	Close() error
}

// Dialer opens the datagram socket.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}
