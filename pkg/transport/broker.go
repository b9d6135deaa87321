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
	"errors"
	"fmt"

	"github.com/carverauto/gatekeeper/pkg/logger"
	"github.com/carverauto/gatekeeper/pkg/models"
	"github.com/carverauto/gatekeeper/pkg/relay"
)

const brokerMessageBuffer = 8

// BrokerAdapter runs the handshake over a publish/subscribe broker.
type BrokerAdapter struct {
	endpoint models.DeviceEndpoint
	client   BrokerClient
	logger   logger.Logger
	session  session
}

var _ Adapter = (*BrokerAdapter)(nil)

func NewBrokerAdapter(endpoint models.DeviceEndpoint, client BrokerClient, log logger.Logger) *BrokerAdapter {
	return &BrokerAdapter{
		endpoint: endpoint,
		client:   client,
		logger:   log,
	}
}

func (a *BrokerAdapter) Endpoint() models.DeviceEndpoint {
	return a.endpoint
}

func (a *BrokerAdapter) Start(ctx context.Context, events chan<- Event) error {
	return a.session.start(ctx, func(ctx context.Context) {
		a.run(ctx, &reporter{events: events})
	})
}

func (a *BrokerAdapter) Stop() error {
	a.session.stop()

	return nil
}

func (a *BrokerAdapter) run(ctx context.Context, rep *reporter) {
	requestTopic, stateTopic := a.endpoint.Topics()
	addr := a.endpoint.Address()

	// Close runs on every exit path, including a connect cut short by Stop.
	defer func() {
		if err := a.client.Close(); err != nil {
			a.logger.Debug().Err(err).Str("addr", addr).Msg("Failed to close broker session")
		}
	}()

	if err := a.client.Connect(ctx); err != nil {
		if errors.Is(err, ErrBrokerAuth) {
			rep.fail(ctx, fmt.Errorf("%w: %w", ErrPublishFailed, err))
		} else {
			rep.fail(ctx, fmt.Errorf("%w: broker %s: %w", ErrConnectionFailed, addr, err))
		}

		return
	}

	messages := make(chan []byte, brokerMessageBuffer)

	// Subscribe before publishing so a fast reply is not missed.
	err := a.client.Subscribe(ctx, stateTopic, func(payload []byte) {
		msg := append([]byte(nil), payload...)

		select {
		case messages <- msg:
		case <-ctx.Done():
		}
	})
	if err != nil {
		rep.fail(ctx, fmt.Errorf("%w: subscribe %s: %w", ErrConnectionFailed, stateTopic, err))
		return
	}

	if err := a.client.Publish(ctx, requestTopic, relay.Encode(models.TransportBroker)); err != nil {
		rep.fail(ctx, fmt.Errorf("%w: %s: %w", ErrPublishFailed, requestTopic, err))
		return
	}

	a.logger.Debug().
		Str("addr", addr).
		Str("request_topic", requestTopic).
		Str("state_topic", stateTopic).
		Msg("Trigger published")

	for {
		select {
		case <-ctx.Done():
			return
		case err := <-a.client.Lost():
			rep.fail(ctx, fmt.Errorf("%w: broker %s: %w", ErrConnectionFailed, addr, err))
			return
		case payload := <-messages:
			state, err := relay.DecodePayload(payload)
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
