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

	"github.com/nats-io/nats.go"

	"github.com/carverauto/gatekeeper/pkg/models"
)

// NATSClient is a BrokerClient backed by a core NATS connection.
type NATSClient struct {
	url            string
	creds          *models.BrokerCredentials
	connectTimeout time.Duration

	conn *nats.Conn
	sub  *nats.Subscription
	lost chan error
}

var _ BrokerClient = (*NATSClient)(nil)

func NewNATSClient(endpoint models.DeviceEndpoint, creds *models.BrokerCredentials, connectTimeout time.Duration) *NATSClient {
	if connectTimeout <= 0 {
		connectTimeout = defaultConnectWait
	}

	return &NATSClient{
		url:            "nats://" + endpoint.Address(),
		creds:          creds,
		connectTimeout: connectTimeout,
		lost:           make(chan error, 1),
	}
}

func (c *NATSClient) Connect(ctx context.Context) error {
	timeout := c.connectTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	opts := []nats.Option{
		nats.Name("gatekeeper"),
		nats.NoReconnect(),
		nats.Timeout(timeout),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err == nil {
				return
			}

			select {
			case c.lost <- err:
			default:
			}
		}),
	}

	if c.creds != nil && c.creds.Username != "" {
		opts = append(opts, nats.UserInfo(c.creds.Username, c.creds.Password))
	}

	type dialResult struct {
		conn *nats.Conn
		err  error
	}

	// nats.Connect does not take a context; a late connection is closed by
	// the dialing goroutine.
	results := make(chan dialResult)
	abandoned := make(chan struct{})

	go func() {
		conn, err := nats.Connect(c.url, opts...)

		select {
		case results <- dialResult{conn: conn, err: err}:
		case <-abandoned:
			if conn != nil {
				conn.Close()
			}
		}
	}()

	var res dialResult

	select {
	case res = <-results:
	case <-ctx.Done():
		close(abandoned)
		return ctx.Err()
	}

	if res.err != nil {
		if errors.Is(res.err, nats.ErrAuthorization) {
			return fmt.Errorf("%w: %w", ErrBrokerAuth, res.err)
		}

		return res.err
	}

	c.conn = res.conn

	return nil
}

func (c *NATSClient) Subscribe(ctx context.Context, topic string, handler func(payload []byte)) error {
	sub, err := c.conn.Subscribe(topic, func(m *nats.Msg) {
		handler(m.Data)
	})
	if err != nil {
		return err
	}

	c.sub = sub

	return c.conn.FlushWithContext(ctx)
}

func (c *NATSClient) Publish(ctx context.Context, topic string, payload []byte) error {
	if err := c.conn.Publish(topic, payload); err != nil {
		return err
	}

	return c.conn.FlushWithContext(ctx)
}

func (c *NATSClient) Lost() <-chan error {
	return c.lost
}

func (c *NATSClient) Close() error {
	if c.conn == nil {
		return nil
	}

	if c.sub != nil {
		_ = c.sub.Unsubscribe()
	}

	c.conn.Close()

	return nil
}
