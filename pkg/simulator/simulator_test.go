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
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/gatekeeper/pkg/logger"
	"github.com/carverauto/gatekeeper/pkg/transport"
)

func TestParseBehavior(t *testing.T) {
	b, err := ParseBehavior("")
	require.NoError(t, err)
	assert.Equal(t, Normal, b)

	b, err = ParseBehavior("release-first")
	require.NoError(t, err)
	assert.Equal(t, ReleaseFirst, b)

	_, err = ParseBehavior("explode")
	require.ErrorIs(t, err, errUnknownBehavior)
}

func TestScriptBytes(t *testing.T) {
	tests := []struct {
		behavior Behavior
		want     []byte
	}{
		{Normal, []byte{0x01, 0x00}},
		{DuplicateActivation, []byte{0x01, 0x01, 0x00}},
		{ReleaseFirst, []byte{0x00}},
		{ActivateOnly, []byte{0x01}},
		{Silent, nil},
		{Garbage, []byte{0x07}},
	}

	for _, tt := range tests {
		t.Run(string(tt.behavior), func(t *testing.T) {
			var got []byte
			for _, s := range tt.behavior.Script(time.Second) {
				got = append(got, s.Byte)
			}

			assert.Equal(t, tt.want, got)
		})
	}

	steps := Normal.Script(250 * time.Millisecond)
	assert.Equal(t, 250*time.Millisecond, steps[1].Delay)
}

func TestUDPDeviceRepliesToSender(t *testing.T) {
	dev, err := ListenUDP("127.0.0.1:0", Normal, 10*time.Millisecond, logger.NewTestLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)

	go func() { served <- dev.Serve(ctx) }()

	conn, err := net.DialUDP("udp", nil, dev.Addr())
	require.NoError(t, err)

	defer func() { _ = conn.Close() }()

	_, err = conn.Write([]byte{0x42})
	require.NoError(t, err)
	_, err = conn.Write([]byte{0x01})
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var got []byte

	buf := make([]byte, 8)
	for len(got) < 2 {
		n, err := conn.Read(buf)
		require.NoError(t, err)

		got = append(got, buf[:n]...)
	}

	assert.Equal(t, []byte{0x01, 0x00}, got)
	assert.Equal(t, 1, dev.Triggers())

	cancel()
	require.NoError(t, <-served)
}

func TestBrokerDeviceAnswersTriggers(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := transport.NewMockBrokerClient(ctrl)

	var handler func([]byte)

	published := make(chan byte, 4)

	client.EXPECT().Connect(gomock.Any()).Return(nil)
	client.EXPECT().Subscribe(gomock.Any(), "gate/trigger", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, h func([]byte)) error {
			handler = h
			return nil
		})
	client.EXPECT().Publish(gomock.Any(), "gate/state", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, p []byte) error {
			published <- p[0]
			return nil
		}).Times(2)
	client.EXPECT().Lost().Return(make(chan error))
	client.EXPECT().Close().Return(nil)

	dev := NewBrokerDevice(client, "gate/trigger", "gate/state", Normal, 0, logger.NewTestLogger())

	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)

	go func() { served <- dev.Serve(ctx) }()

	<-dev.Ready()

	handler([]byte{0x00, 0x01})
	handler([]byte{0x01})

	for _, want := range []byte{0x01, 0x00} {
		select {
		case b := <-published:
			assert.Equal(t, want, b)
		case <-time.After(2 * time.Second):
			t.Fatal("device did not reply")
		}
	}

	assert.Equal(t, 1, dev.Triggers())

	cancel()
	require.NoError(t, <-served)
}
