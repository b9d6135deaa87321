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
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/eclipse/paho.mqtt.golang/packets"
	"github.com/google/uuid"

	"github.com/carverauto/gatekeeper/pkg/models"
)

const (
	mqttQoS             = 1
	mqttDisconnectQuiet = 250 // milliseconds
	defaultConnectWait  = 3 * time.Second
)

// MQTTClient is a BrokerClient backed by paho.
type MQTTClient struct {
	client mqtt.Client
	lost   chan error
}

var _ BrokerClient = (*MQTTClient)(nil)

func NewMQTTClient(endpoint models.DeviceEndpoint, creds *models.BrokerCredentials, connectTimeout time.Duration) *MQTTClient {
	if connectTimeout <= 0 {
		connectTimeout = defaultConnectWait
	}

	c := &MQTTClient{lost: make(chan error, 1)}

	opts := mqtt.NewClientOptions().
		AddBroker("tcp://" + endpoint.Address()).
		SetClientID("gatekeeper-" + uuid.NewString()).
		SetCleanSession(true).
		SetAutoReconnect(false).
		SetConnectRetry(false).
		SetConnectTimeout(connectTimeout).
		SetOrderMatters(true).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			select {
			case c.lost <- err:
			default:
			}
		})

	if creds != nil {
		opts.SetUsername(creds.Username)
		opts.SetPassword(creds.Password)
	}

	c.client = mqtt.NewClient(opts)

	return c
}

// Connect waits for the CONNACK. When ctx ends first the pending connect is
// abandoned: paho closes the socket as soon as the attempt settles.
func (c *MQTTClient) Connect(ctx context.Context) error {
	tok := c.client.Connect()

	var err error

	select {
	case <-tok.Done():
		err = tok.Error()
	case <-ctx.Done():
		c.client.Disconnect(0)
		return ctx.Err()
	}

	if err == nil {
		return nil
	}

	if errors.Is(err, packets.ErrorRefusedBadUsernameOrPassword) || errors.Is(err, packets.ErrorRefusedNotAuthorised) {
		return fmt.Errorf("%w: %w", ErrBrokerAuth, err)
	}

	return err
}

func (c *MQTTClient) Subscribe(ctx context.Context, topic string, handler func(payload []byte)) error {
	return waitToken(ctx, c.client.Subscribe(topic, mqttQoS, func(_ mqtt.Client, m mqtt.Message) {
		handler(m.Payload())
	}))
}

func (c *MQTTClient) Publish(ctx context.Context, topic string, payload []byte) error {
	return waitToken(ctx, c.client.Publish(topic, mqttQoS, false, payload))
}

func (c *MQTTClient) Lost() <-chan error {
	return c.lost
}

func (c *MQTTClient) Close() error {
	if c.client.IsConnected() {
		c.client.Disconnect(mqttDisconnectQuiet)
	}

	return nil
}

func waitToken(ctx context.Context, tok mqtt.Token) error {
	select {
	case <-tok.Done():
		return tok.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}
