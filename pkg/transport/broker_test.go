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
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/gatekeeper/pkg/logger"
	"github.com/carverauto/gatekeeper/pkg/models"
)

var (
	errDial    = errors.New("dial tcp: connection refused")
	errBackend = errors.New("broker backend unavailable")
)

func brokerEndpoint() models.DeviceEndpoint {
	return models.DeviceEndpoint{
		ID:   "mqtt-test",
		Kind: models.TransportBroker,
		Host: "broker.local",
		Port: models.DefaultMQTTPort,
	}
}

func waitEvent(t *testing.T, events <-chan Event) Event {
	t.Helper()

	select {
	case ev := <-events:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for adapter event")
	}

	return Event{}
}

// deviceReplies wires Subscribe/Publish so that publishing the trigger
// delivers replies to the subscribed handler.
func deviceReplies(client *MockBrokerClient, replies ...[]byte) {
	var handler func([]byte)

	client.EXPECT().Subscribe(gomock.Any(), "gate/state", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, h func([]byte)) error {
			handler = h
			return nil
		})

	client.EXPECT().Publish(gomock.Any(), "gate/trigger", []byte{0x01}).
		DoAndReturn(func(context.Context, string, []byte) error {
			go func() {
				for _, r := range replies {
					handler(r)
				}
			}()

			return nil
		})
}

func TestBrokerAdapterHandshake(t *testing.T) {
	ctrl := gomock.NewController(t)

	client := NewMockBrokerClient(ctrl)
	client.EXPECT().Connect(gomock.Any()).Return(nil)
	client.EXPECT().Lost().Return(make(chan error)).AnyTimes()
	client.EXPECT().Close().Return(nil)
	deviceReplies(client, []byte{0x01}, []byte{0x01}, []byte{0x00})

	adapter := NewBrokerAdapter(brokerEndpoint(), client, logger.NewTestLogger())
	events := make(chan Event, 4)

	require.NoError(t, adapter.Start(context.Background(), events))

	assert.Equal(t, Event{Type: EventRelay, State: models.RelayActivated}, waitEvent(t, events))
	assert.Equal(t, Event{Type: EventRelay, State: models.RelayReleased}, waitEvent(t, events))

	require.NoError(t, adapter.Stop())
	assert.Empty(t, events)
}

func TestBrokerAdapterFailures(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(client *MockBrokerClient)
		wantErr error
	}{
		{
			name: "connect refused",
			setup: func(client *MockBrokerClient) {
				client.EXPECT().Connect(gomock.Any()).Return(errDial)
				client.EXPECT().Close().Return(nil)
			},
			wantErr: ErrConnectionFailed,
		},
		{
			name: "credentials rejected",
			setup: func(client *MockBrokerClient) {
				client.EXPECT().Connect(gomock.Any()).Return(ErrBrokerAuth)
				client.EXPECT().Close().Return(nil)
			},
			wantErr: ErrPublishFailed,
		},
		{
			name: "subscribe fails",
			setup: func(client *MockBrokerClient) {
				client.EXPECT().Connect(gomock.Any()).Return(nil)
				client.EXPECT().Subscribe(gomock.Any(), gomock.Any(), gomock.Any()).Return(errBackend)
				client.EXPECT().Close().Return(nil)
			},
			wantErr: ErrConnectionFailed,
		},
		{
			name: "publish fails",
			setup: func(client *MockBrokerClient) {
				client.EXPECT().Connect(gomock.Any()).Return(nil)
				client.EXPECT().Subscribe(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				client.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(errBackend)
				client.EXPECT().Close().Return(nil)
			},
			wantErr: ErrPublishFailed,
		},
		{
			name: "released before activated",
			setup: func(client *MockBrokerClient) {
				client.EXPECT().Connect(gomock.Any()).Return(nil)
				client.EXPECT().Lost().Return(make(chan error)).AnyTimes()
				client.EXPECT().Close().Return(nil)
				deviceReplies(client, []byte{0x00})
			},
			wantErr: ErrInvalidResponse,
		},
		{
			name: "multi-byte payload",
			setup: func(client *MockBrokerClient) {
				client.EXPECT().Connect(gomock.Any()).Return(nil)
				client.EXPECT().Lost().Return(make(chan error)).AnyTimes()
				client.EXPECT().Close().Return(nil)
				deviceReplies(client, []byte{0x01, 0x00})
			},
			wantErr: ErrInvalidResponse,
		},
		{
			name: "session lost",
			setup: func(client *MockBrokerClient) {
				lost := make(chan error, 1)
				lost <- errBackend

				client.EXPECT().Connect(gomock.Any()).Return(nil)
				client.EXPECT().Lost().Return(lost).AnyTimes()
				client.EXPECT().Close().Return(nil)
				deviceReplies(client)
			},
			wantErr: ErrConnectionFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			client := NewMockBrokerClient(ctrl)
			tt.setup(client)

			adapter := NewBrokerAdapter(brokerEndpoint(), client, logger.NewTestLogger())
			events := make(chan Event, 4)

			require.NoError(t, adapter.Start(context.Background(), events))

			ev := waitEvent(t, events)
			assert.Equal(t, EventFailure, ev.Type)
			require.ErrorIs(t, ev.Err, tt.wantErr)

			require.NoError(t, adapter.Stop())
		})
	}
}

func TestBrokerAdapterStopWhileWaiting(t *testing.T) {
	ctrl := gomock.NewController(t)

	client := NewMockBrokerClient(ctrl)
	client.EXPECT().Connect(gomock.Any()).Return(nil)
	client.EXPECT().Lost().Return(make(chan error)).AnyTimes()
	client.EXPECT().Close().Return(nil).Times(1)
	deviceReplies(client, []byte{0x01})

	adapter := NewBrokerAdapter(brokerEndpoint(), client, logger.NewTestLogger())
	events := make(chan Event, 4)

	require.NoError(t, adapter.Start(context.Background(), events))
	assert.Equal(t, models.RelayActivated, waitEvent(t, events).State)

	require.NoError(t, adapter.Stop())
	require.NoError(t, adapter.Stop())
}

// slowMQTTBroker accepts one client and answers its CONNECT after delay.
// The returned channel is closed once the client hangs up.
func slowMQTTBroker(t *testing.T, delay time.Duration) (models.DeviceEndpoint, <-chan struct{}) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	hungUp := make(chan struct{})

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}

		defer func() { _ = conn.Close() }()
		defer close(hungUp)

		time.Sleep(delay)

		// CONNACK, session not present, accepted.
		if _, err := conn.Write([]byte{0x20, 0x02, 0x00, 0x00}); err != nil {
			return
		}

		_, _ = io.Copy(io.Discard, conn)
	}()

	addr, ok := ln.Addr().(*net.TCPAddr)
	require.True(t, ok)

	ep := brokerEndpoint()
	ep.Host = "127.0.0.1"
	ep.Port = addr.Port

	return ep, hungUp
}

func TestMQTTStopDuringConnectReleasesSession(t *testing.T) {
	ep, hungUp := slowMQTTBroker(t, 300*time.Millisecond)

	client := NewMQTTClient(ep, nil, 2*time.Second)
	adapter := NewBrokerAdapter(ep, client, logger.NewTestLogger())
	events := make(chan Event, 1)

	require.NoError(t, adapter.Start(context.Background(), events))

	time.Sleep(50 * time.Millisecond)

	started := time.Now()
	require.NoError(t, adapter.Stop())
	assert.Less(t, time.Since(started), 250*time.Millisecond, "Stop waited for the broker")

	select {
	case <-hungUp:
	case <-time.After(2 * time.Second):
		t.Fatal("MQTT session outlived Stop")
	}

	assert.Eventually(t, func() bool { return !client.client.IsConnectionOpen() },
		time.Second, 10*time.Millisecond)
}

func TestFactorySelectsVariant(t *testing.T) {
	f := NewFactory(nil, time.Second, logger.NewTestLogger())

	a, err := f.NewAdapter(context.Background(), models.DeviceEndpoint{Kind: models.TransportDatagram, Host: "10.0.0.2", Port: 8050})
	require.NoError(t, err)
	assert.IsType(t, &DatagramAdapter{}, a)

	a, err = f.NewAdapter(context.Background(), brokerEndpoint())
	require.NoError(t, err)
	require.IsType(t, &BrokerAdapter{}, a)
	assert.IsType(t, &MQTTClient{}, a.(*BrokerAdapter).client)

	nats := brokerEndpoint()
	nats.Protocol = models.BrokerNATS
	a, err = f.NewAdapter(context.Background(), nats)
	require.NoError(t, err)
	assert.IsType(t, &NATSClient{}, a.(*BrokerAdapter).client)

	_, err = f.NewAdapter(context.Background(), models.DeviceEndpoint{Kind: "carrier-pigeon"})
	require.ErrorIs(t, err, ErrUnsupportedKind)
}

type staticCredentials struct {
	creds *models.BrokerCredentials
}

func (s staticCredentials) GetBrokerCredentials(context.Context) (*models.BrokerCredentials, error) {
	return s.creds, nil
}

func TestFactoryUsesMatchingCredentialsOnly(t *testing.T) {
	ep := brokerEndpoint()
	ep.Protocol = models.BrokerNATS

	f := NewFactory(staticCredentials{creds: &models.BrokerCredentials{
		Host: "broker.local", Port: models.DefaultMQTTPort, Username: "gate", Password: "secret",
	}}, time.Second, logger.NewTestLogger())

	a, err := f.NewAdapter(context.Background(), ep)
	require.NoError(t, err)
	assert.Equal(t, "gate", a.(*BrokerAdapter).client.(*NATSClient).creds.Username)

	f = NewFactory(staticCredentials{creds: &models.BrokerCredentials{
		Host: "other.local", Port: models.DefaultMQTTPort, Username: "gate",
	}}, time.Second, logger.NewTestLogger())

	a, err = f.NewAdapter(context.Background(), ep)
	require.NoError(t, err)
	assert.Nil(t, a.(*BrokerAdapter).client.(*NATSClient).creds)
}
