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

package transport_test

import (
	"bufio"
	"context"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/gatekeeper/pkg/logger"
	"github.com/carverauto/gatekeeper/pkg/models"
	"github.com/carverauto/gatekeeper/pkg/simulator"
	"github.com/carverauto/gatekeeper/pkg/transport"
)

func runNATSServer(t *testing.T, opts *server.Options) models.DeviceEndpoint {
	t.Helper()

	srv, err := server.NewServer(opts)
	require.NoError(t, err)

	go srv.Start()

	require.True(t, srv.ReadyForConnections(5*time.Second), "embedded NATS server not ready")
	t.Cleanup(srv.Shutdown)

	addr, ok := srv.Addr().(*net.TCPAddr)
	require.True(t, ok, "expected TCP address from embedded NATS server")

	return models.DeviceEndpoint{
		ID:       "nats-test",
		Kind:     models.TransportBroker,
		Protocol: models.BrokerNATS,
		Host:     "127.0.0.1",
		Port:     addr.Port,
	}
}

func TestNATSBrokerHandshake(t *testing.T) {
	ep := runNATSServer(t, &server.Options{Host: "127.0.0.1", Port: -1})
	request, state := ep.Topics()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	device := simulator.NewBrokerDevice(
		transport.NewNATSClient(ep, nil, time.Second),
		request, state, simulator.DuplicateActivation, testReleaseDelay, logger.NewTestLogger(),
	)

	served := make(chan error, 1)

	go func() { served <- device.Serve(ctx) }()

	select {
	case <-device.Ready():
	case err := <-served:
		t.Fatalf("device stopped early: %v", err)
	case <-time.After(eventWait):
		t.Fatal("device never subscribed")
	}

	adapter := transport.NewBrokerAdapter(ep, transport.NewNATSClient(ep, nil, time.Second), logger.NewTestLogger())
	events := make(chan transport.Event, 4)

	require.NoError(t, adapter.Start(ctx, events))
	defer func() { _ = adapter.Stop() }()

	got := drain(events, 300*time.Millisecond)
	require.Len(t, got, 2)
	assert.Equal(t, models.RelayActivated, got[0].State)
	assert.Equal(t, models.RelayReleased, got[1].State)
	assert.Equal(t, 1, device.Triggers())

	cancel()
	require.NoError(t, <-served)
}

func TestNATSBrokerRejectedCredentials(t *testing.T) {
	ep := runNATSServer(t, &server.Options{
		Host:     "127.0.0.1",
		Port:     -1,
		Username: "gate",
		Password: "correct",
	})

	creds := &models.BrokerCredentials{Host: ep.Host, Port: ep.Port, Username: "gate", Password: "wrong"}
	adapter := transport.NewBrokerAdapter(ep, transport.NewNATSClient(ep, creds, time.Second), logger.NewTestLogger())
	events := make(chan transport.Event, 1)

	require.NoError(t, adapter.Start(context.Background(), events))
	defer func() { _ = adapter.Stop() }()

	select {
	case ev := <-events:
		assert.Equal(t, transport.EventFailure, ev.Type)
		require.ErrorIs(t, ev.Err, transport.ErrPublishFailed)
	case <-time.After(eventWait):
		t.Fatal("no failure reported for rejected credentials")
	}
}

func TestNATSBrokerUnreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	ep := models.DeviceEndpoint{Kind: models.TransportBroker, Protocol: models.BrokerNATS, Host: "127.0.0.1", Port: port}
	adapter := transport.NewBrokerAdapter(ep, transport.NewNATSClient(ep, nil, 500*time.Millisecond), logger.NewTestLogger())
	events := make(chan transport.Event, 1)

	require.NoError(t, adapter.Start(context.Background(), events))
	defer func() { _ = adapter.Stop() }()

	select {
	case ev := <-events:
		require.ErrorIs(t, ev.Err, transport.ErrConnectionFailed)
	case <-time.After(eventWait):
		t.Fatal("no failure reported for unreachable broker")
	}
}

const slowNATSInfo = `INFO {"server_id":"slow","version":"2.12.0","proto":1,"max_payload":1048576}` + "\r\n"

// slowNATSBroker accepts one client. When answer is set it speaks the NATS
// handshake after delay, otherwise it stays silent. The returned channel is
// closed once the client hangs up.
func slowNATSBroker(t *testing.T, delay time.Duration, answer bool) (models.DeviceEndpoint, <-chan struct{}) {
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

		if !answer {
			_, _ = io.Copy(io.Discard, conn)
			return
		}

		time.Sleep(delay)

		if _, err := conn.Write([]byte(slowNATSInfo)); err != nil {
			return
		}

		r := bufio.NewReader(conn)

		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}

			if strings.HasPrefix(line, "PING") {
				if _, err := conn.Write([]byte("PONG\r\n")); err != nil {
					return
				}
			}
		}
	}()

	addr, ok := ln.Addr().(*net.TCPAddr)
	require.True(t, ok)

	return models.DeviceEndpoint{
		ID:       "nats-slow",
		Kind:     models.TransportBroker,
		Protocol: models.BrokerNATS,
		Host:     "127.0.0.1",
		Port:     addr.Port,
	}, hungUp
}

func TestNATSStopDuringConnectReleasesSession(t *testing.T) {
	tests := []struct {
		name   string
		answer bool
	}{
		{name: "broker never answers", answer: false},
		{name: "broker answers after stop", answer: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ep, hungUp := slowNATSBroker(t, 300*time.Millisecond, tt.answer)

			client := transport.NewNATSClient(ep, nil, time.Second)
			adapter := transport.NewBrokerAdapter(ep, client, logger.NewTestLogger())
			events := make(chan transport.Event, 1)

			require.NoError(t, adapter.Start(context.Background(), events))

			time.Sleep(50 * time.Millisecond)

			started := time.Now()
			require.NoError(t, adapter.Stop())
			assert.Less(t, time.Since(started), 250*time.Millisecond, "Stop waited for the broker")

			select {
			case <-hungUp:
			case <-time.After(3 * time.Second):
				t.Fatal("NATS connection outlived Stop")
			}
		})
	}
}
