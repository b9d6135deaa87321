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
	"time"

	"github.com/carverauto/gatekeeper/pkg/logger"
	"github.com/carverauto/gatekeeper/pkg/models"
)

// CredentialSource supplies broker credentials.
type CredentialSource interface {
	GetBrokerCredentials(ctx context.Context) (*models.BrokerCredentials, error)
}

// DefaultFactory builds DatagramAdapter or BrokerAdapter instances.
type DefaultFactory struct {
	credentials    CredentialSource
	connectTimeout time.Duration
	dialer         Dialer
	logger         logger.Logger
}

var _ Factory = (*DefaultFactory)(nil)

func NewFactory(credentials CredentialSource, connectTimeout time.Duration, log logger.Logger) *DefaultFactory {
	return &DefaultFactory{
		credentials:    credentials,
		connectTimeout: connectTimeout,
		logger:         log,
	}
}

// WithDialer overrides the datagram dialer.
func (f *DefaultFactory) WithDialer(d Dialer) *DefaultFactory {
	f.dialer = d

	return f
}

func (f *DefaultFactory) NewAdapter(ctx context.Context, endpoint models.DeviceEndpoint) (Adapter, error) {
	switch endpoint.Kind {
	case models.TransportDatagram:
		return NewDatagramAdapter(endpoint, f.dialer, f.logger), nil
	case models.TransportBroker:
		creds, err := f.brokerCredentials(ctx, &endpoint)
		if err != nil {
			return nil, err
		}

		var client BrokerClient

		switch endpoint.BrokerProtocolOrDefault() {
		case models.BrokerNATS:
			client = NewNATSClient(endpoint, creds, f.connectTimeout)
		case models.BrokerMQTT:
			client = NewMQTTClient(endpoint, creds, f.connectTimeout)
		default:
			return nil, fmt.Errorf("%w: broker protocol %q", ErrUnsupportedKind, endpoint.Protocol)
		}

		return NewBrokerAdapter(endpoint, client, f.logger), nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, endpoint.Kind)
}

func (f *DefaultFactory) brokerCredentials(ctx context.Context, endpoint *models.DeviceEndpoint) (*models.BrokerCredentials, error) {
	if f.credentials == nil {
		return nil, nil
	}

	creds, err := f.credentials.GetBrokerCredentials(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading broker credentials: %w", err)
	}

	if creds == nil {
		return nil, nil
	}

	if !creds.Matches(endpoint) {
		f.logger.Warn().
			Str("endpoint", endpoint.Key()).
			Str("credentials_host", creds.Host).
			Int("credentials_port", creds.Port).
			Msg("Broker credentials belong to another endpoint, connecting anonymously")

		return nil, nil
	}

	return creds, nil
}
