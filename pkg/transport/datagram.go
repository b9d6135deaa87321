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
	"net"
	"sync"

	"github.com/carverauto/gatekeeper/pkg/logger"
	"github.com/carverauto/gatekeeper/pkg/models"
	"github.com/carverauto/gatekeeper/pkg/relay"
)

const datagramReadBuffer = 64

// DatagramAdapter runs the handshake over UDP.
type DatagramAdapter struct {
	endpoint models.DeviceEndpoint
	dialer   Dialer
	logger   logger.Logger
	session  session
}

var _ Adapter = (*DatagramAdapter)(nil)

func NewDatagramAdapter(endpoint models.DeviceEndpoint, dialer Dialer, log logger.Logger) *DatagramAdapter {
	if dialer == nil {
		dialer = &net.Dialer{}
	}

	return &DatagramAdapter{
		endpoint: endpoint,
		dialer:   dialer,
		logger:   log,
	}
}

func (a *DatagramAdapter) Endpoint() models.DeviceEndpoint {
	return a.endpoint
}

func (a *DatagramAdapter) Start(ctx context.Context, events chan<- Event) error {
	return a.session.start(ctx, func(ctx context.Context) {
		a.run(ctx, &reporter{events: events})
	})
}

func (a *DatagramAdapter) Stop() error {
	a.session.stop()

	return nil
}

func (a *DatagramAdapter) run(ctx context.Context, rep *reporter) {
	addr := a.endpoint.Address()

	conn, err := a.dialer.DialContext(ctx, "udp", addr)
	if err != nil {
		rep.fail(ctx, fmt.Errorf("%w: dial %s: %w", ErrConnectionFailed, addr, err))
		return
	}

	var closeOnce sync.Once

	closeConn := func() {
		closeOnce.Do(func() {
			if err := conn.Close(); err != nil {
				a.logger.Debug().Err(err).Str("addr", addr).Msg("Failed to close datagram socket")
			}
		})
	}

	// Closing the socket is what unblocks a pending Read on cancellation.
	stopAfter := context.AfterFunc(ctx, closeConn)
	defer func() {
		stopAfter()
		closeConn()
	}()

	if _, err := conn.Write(relay.Encode(models.TransportDatagram)); err != nil {
		rep.fail(ctx, fmt.Errorf("%w: send to %s: %w", ErrConnectionFailed, addr, err))
		return
	}

	a.logger.Debug().Str("addr", addr).Msg("Trigger sent")

	buf := make([]byte, datagramReadBuffer)

	for {
		n, err := conn.Read(buf)
		if err != nil {
			if ctx.Err() != nil {
				return
			}

			rep.fail(ctx, fmt.Errorf("%w: receive from %s: %w", ErrConnectionFailed, addr, err))

			return
		}

		for _, b := range buf[:n] {
			state, err := relay.Decode(b)
			if err != nil {
				rep.fail(ctx, fmt.Errorf("%w: %w", ErrInvalidResponse, err))
				return
			}

			if !rep.relayState(ctx, state) {
				return
			}
		}
	}
}
