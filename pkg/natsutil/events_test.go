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

package natsutil

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/gatekeeper/pkg/logger"
	"github.com/carverauto/gatekeeper/pkg/models"
)

func runServer(t *testing.T) string {
	t.Helper()

	srv, err := server.NewServer(&server.Options{Host: "127.0.0.1", Port: -1, NoSigs: true})
	require.NoError(t, err)

	go srv.Start()

	require.True(t, srv.ReadyForConnections(5*time.Second), "embedded NATS server not ready")
	t.Cleanup(srv.Shutdown)

	return srv.ClientURL()
}

func TestSubject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		state  models.GateState
		want   string
	}{
		{"default prefix", "", models.GateTriggering, "gatekeeper.gate.triggering"},
		{"custom prefix", "site1.gate", models.GateTimeout, "site1.gate.timeout"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			p := NewEventPublisher(nil, tc.prefix, logger.NewTestLogger())
			assert.Equal(t, tc.want, p.Subject(tc.state))
		})
	}
}

func TestPublishGateUpdate(t *testing.T) {
	url := runServer(t)
	log := logger.NewTestLogger()

	nc, err := Connect(t.Context(), url, log)
	require.NoError(t, err)
	t.Cleanup(nc.Close)

	sub, err := nc.SubscribeSync(DefaultSubjectPrefix + ".>")
	require.NoError(t, err)
	require.NoError(t, nc.Flush())

	p := NewEventPublisher(nc, "", log)
	p.Observe(models.GateUpdate{
		SessionID: "s-1",
		State:     models.GateTimeout,
		Err:       errors.New("no relay close"),
		Final:     true,
		Timestamp: time.Now(),
	})

	msg, err := sub.NextMsg(2 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, "gatekeeper.gate.timeout", msg.Subject)

	var event struct {
		models.CloudEvent
		Data models.GateUpdate `json:"data"`
	}

	require.NoError(t, json.Unmarshal(msg.Data, &event))
	assert.Equal(t, "1.0", event.SpecVersion)
	assert.Equal(t, eventType, event.Type)
	assert.Equal(t, "s-1", event.Data.SessionID)
	assert.Equal(t, "no relay close", event.Data.Error)
	assert.True(t, event.Data.Final)
}

func TestPublishOnClosedConnection(t *testing.T) {
	url := runServer(t)

	nc, err := nats.Connect(url)
	require.NoError(t, err)
	nc.Close()

	p := NewEventPublisher(nc, "", logger.NewTestLogger())
	require.ErrorIs(t, p.PublishGateUpdate(&models.GateUpdate{State: models.GateReady}), errNotConnected)
}
