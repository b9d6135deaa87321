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

package simulator

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/carverauto/gatekeeper/pkg/logger"
	"github.com/carverauto/gatekeeper/pkg/relay"
	"github.com/carverauto/gatekeeper/pkg/transport"
)

var errUnknownBehavior = errors.New("unknown behavior")

// BrokerDevice answers triggers published on a request topic.
type BrokerDevice struct {
	client       transport.BrokerClient
	requestTopic string
	stateTopic   string
	behavior     Behavior
	releaseDelay time.Duration
	logger       logger.Logger

	triggers atomic.Int64
	wg       sync.WaitGroup
	ready    chan struct{}
}

func NewBrokerDevice(
	client transport.BrokerClient,
	requestTopic, stateTopic string,
	behavior Behavior,
	releaseDelay time.Duration,
	log logger.Logger,
) *BrokerDevice {
	return &BrokerDevice{
		client:       client,
		requestTopic: requestTopic,
		stateTopic:   stateTopic,
		behavior:     behavior,
		releaseDelay: releaseDelay,
		logger:       log,
		ready:        make(chan struct{}),
	}
}

// Ready is closed once the request subscription is active.
func (d *BrokerDevice) Ready() <-chan struct{} {
	return d.ready
}

func (d *BrokerDevice) Triggers() int {
	return int(d.triggers.Load())
}

// Serve connects, subscribes and answers until ctx ends.
func (d *BrokerDevice) Serve(ctx context.Context) error {
	if err := d.client.Connect(ctx); err != nil {
		return err
	}

	defer func() {
		_ = d.client.Close()
		d.wg.Wait()
	}()

	err := d.client.Subscribe(ctx, d.requestTopic, func(payload []byte) {
		if len(payload) != 1 || payload[0] != relay.ByteTrigger {
			d.logger.Warn().Int("bytes", len(payload)).Msg("Ignoring non-trigger message")
			return
		}

		d.triggers.Add(1)
		d.logger.Info().Str("topic", d.requestTopic).Msg("Trigger received")

		d.wg.Add(1)

		go func() {
			defer d.wg.Done()

			d.reply(ctx)
		}()
	})
	if err != nil {
		return err
	}

	close(d.ready)

	d.logger.Info().
		Str("request_topic", d.requestTopic).
		Str("state_topic", d.stateTopic).
		Str("behavior", string(d.behavior)).
		Msg("Broker device listening")

	select {
	case <-ctx.Done():
		return nil
	case err := <-d.client.Lost():
		return err
	}
}

func (d *BrokerDevice) reply(ctx context.Context) {
	for _, step := range d.behavior.Script(d.releaseDelay) {
		if !sleep(ctx, step.Delay) {
			return
		}

		if err := d.client.Publish(ctx, d.stateTopic, []byte{step.Byte}); err != nil {
			d.logger.Error().Err(err).Msg("Failed to publish reply")
			return
		}
	}
}
