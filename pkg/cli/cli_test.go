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

package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/gatekeeper/pkg/config"
	"github.com/carverauto/gatekeeper/pkg/models"
	"github.com/carverauto/gatekeeper/pkg/reachability"
	"github.com/carverauto/gatekeeper/pkg/trigger"
)

type fakeTrigger struct {
	states []models.GateState
	err    error
	calls  int
}

func (f *fakeTrigger) Trigger(context.Context) (<-chan models.GateUpdate, error) {
	f.calls++

	if f.err != nil {
		return nil, f.err
	}

	ch := make(chan models.GateUpdate, len(f.states))
	for i, s := range f.states {
		ch <- models.GateUpdate{State: s, Final: i == len(f.states)-1, Timestamp: time.Now()}
	}

	close(ch)

	return ch, nil
}

type fakeProber struct {
	reachable map[string]bool
	got       []models.PingTarget
}

func (f *fakeProber) CheckAll(_ context.Context, targets []models.PingTarget) (reachability.BatchResult, error) {
	f.got = targets

	batch := reachability.BatchResult{Results: make(map[models.TargetKey]reachability.Result)}

	for _, t := range targets {
		ok := f.reachable[t.Host]
		batch.Results[t.Key()] = reachability.Result{Target: t, Reachable: ok}
		batch.AnyReachable = batch.AnyReachable || ok
	}

	return batch, nil
}

func newEnv() (*Env, *bytes.Buffer) {
	out := &bytes.Buffer{}

	return &Env{Store: config.NewMemoryStore(), Out: out}, out
}

func TestParseFlags(t *testing.T) {
	cfg, err := ParseFlags(nil)
	require.NoError(t, err)
	assert.True(t, cfg.Help)

	cfg, err = ParseFlags([]string{"-config", "/etc/gatekeeper.json", "trigger", "-tui"})
	require.NoError(t, err)
	assert.Equal(t, "trigger", cfg.SubCmd)
	assert.Equal(t, "/etc/gatekeeper.json", cfg.ConfigFile)
	assert.True(t, cfg.TUI)

	cfg, err = ParseFlags([]string{"endpoint", "add", "-kind", "broker", "-host", "broker.local", "-protocol", "nats"})
	require.NoError(t, err)
	assert.Equal(t, "add", cfg.Action)
	assert.Equal(t, "broker", cfg.Kind)
	assert.Equal(t, "broker.local", cfg.Host)
	assert.Equal(t, "nats", cfg.Protocol)

	cfg, err = ParseFlags([]string{"probe", "datagram:10.0.0.5"})
	require.NoError(t, err)
	assert.Equal(t, []string{"datagram:10.0.0.5"}, cfg.Args)
}

func TestParseFlagsErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{name: "unknown command", args: []string{"open"}, want: errUnknownCommand},
		{name: "endpoint without action", args: []string{"endpoint"}, want: errMissingAction},
		{name: "endpoint bad action", args: []string{"endpoint", "rename"}, want: errUnknownAction},
		{name: "remove without id", args: []string{"endpoint", "remove"}, want: errMissingID},
		{name: "add without host", args: []string{"endpoint", "add", "-kind", "datagram"}, want: errMissingHost},
		{name: "broker without set", args: []string{"broker"}, want: errMissingAction},
		{name: "bad target", args: []string{"targets", "set", "icmp:10.0.0.1"}, want: errBadTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFlags(tt.args)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseTarget(t *testing.T) {
	target, err := parseTarget("broker:broker.local:1883")
	require.NoError(t, err)
	assert.Equal(t, models.PingTarget{Host: "broker.local", Kind: models.TransportBroker, Port: 1883}, target)

	target, err = parseTarget("datagram:192.168.4.1")
	require.NoError(t, err)
	assert.Equal(t, models.PingTarget{Host: "192.168.4.1", Kind: models.TransportDatagram}, target)

	for _, raw := range []string{"", "datagram", "datagram:", "x:host", "datagram:host:0", "datagram:host:80x", "datagram::80"} {
		_, err := parseTarget(raw)
		assert.ErrorIs(t, err, errBadTarget, raw)
	}
}

func TestEndpointCommands(t *testing.T) {
	env, out := newEnv()
	ctx := t.Context()

	cfg, err := ParseFlags([]string{"endpoint", "add", "-kind", "datagram", "-host", "192.168.4.1"})
	require.NoError(t, err)
	require.NoError(t, Run(ctx, cfg, env))
	assert.Contains(t, out.String(), "192.168.4.1:8050")

	cfg, err = ParseFlags([]string{"endpoint", "add", "-kind", "broker", "-host", "broker.local", "-protocol", "nats"})
	require.NoError(t, err)
	require.NoError(t, Run(ctx, cfg, env))

	endpoints, err := env.Store.ListDeviceEndpoints(ctx)
	require.NoError(t, err)
	require.Len(t, endpoints, 2)
	assert.Equal(t, models.DefaultNATSPort, endpoints[1].Port)

	out.Reset()

	cfg, err = ParseFlags([]string{"endpoint", "list"})
	require.NoError(t, err)
	require.NoError(t, Run(ctx, cfg, env))
	assert.Contains(t, out.String(), "broker.local:4222")
	assert.Contains(t, out.String(), "nats")

	cfg, err = ParseFlags([]string{"endpoint", "remove", "-id", endpoints[0].ID})
	require.NoError(t, err)
	require.NoError(t, Run(ctx, cfg, env))

	endpoints, err = env.Store.ListDeviceEndpoints(ctx)
	require.NoError(t, err)
	assert.Len(t, endpoints, 1)

	cfg.EndpointID = "missing"
	require.ErrorIs(t, Run(ctx, cfg, env), config.ErrEndpointNotFound)
}

func TestBrokerSetRequiresOwner(t *testing.T) {
	env, out := newEnv()
	ctx := t.Context()

	cfg, err := ParseFlags([]string{"broker", "set", "-host", "broker.local", "-username", "gate", "-password", "pw"})
	require.NoError(t, err)
	require.ErrorIs(t, Run(ctx, cfg, env), config.ErrCredentialsUnowned)

	_, err = env.Store.SaveDeviceEndpoint(ctx, models.DeviceEndpoint{
		Kind: models.TransportBroker,
		Host: "broker.local",
		Port: models.DefaultMQTTPort,
	})
	require.NoError(t, err)

	require.NoError(t, Run(ctx, cfg, env))
	assert.Contains(t, out.String(), "broker.local:1883")

	creds, err := env.Store.GetBrokerCredentials(ctx)
	require.NoError(t, err)
	require.NotNil(t, creds)
	assert.Equal(t, "gate", creds.Username)
}

func TestTargetsCommands(t *testing.T) {
	env, out := newEnv()

	cfg, err := ParseFlags([]string{"targets", "set", "datagram:192.168.4.1", "broker:broker.local:1883"})
	require.NoError(t, err)
	require.NoError(t, Run(t.Context(), cfg, env))

	assert.Equal(t, "datagram/192.168.4.1\nbroker/broker.local\n", out.String())
}

func TestTriggerPlain(t *testing.T) {
	env, out := newEnv()
	env.Trigger = &fakeTrigger{states: []models.GateState{
		models.GateReady,
		models.GateCheckingNetwork,
		models.GateTriggering,
		models.GateWaitingForRelayClose,
		models.GateReady,
	}}

	require.NoError(t, Run(t.Context(), &CmdConfig{SubCmd: "trigger"}, env))
	assert.Contains(t, out.String(), "waiting_for_relay_close")
}

func TestTriggerFailures(t *testing.T) {
	env, _ := newEnv()
	env.Trigger = &fakeTrigger{states: []models.GateState{
		models.GateReady,
		models.GateCheckingNetwork,
		models.GateTriggering,
		models.GateTimeout,
	}}

	err := Run(t.Context(), &CmdConfig{SubCmd: "trigger", JSON: true}, env)
	require.ErrorIs(t, err, errTriggerFailed)

	env.Trigger = &fakeTrigger{err: trigger.ErrConfigurationMissing}

	err = Run(t.Context(), &CmdConfig{SubCmd: "trigger"}, env)
	require.ErrorIs(t, err, trigger.ErrConfigurationMissing)
}

func TestProbeUsesEndpointsWhenNoTargets(t *testing.T) {
	env, out := newEnv()
	prober := &fakeProber{reachable: map[string]bool{"192.168.4.1": true}}
	env.Prober = prober

	cfg := &CmdConfig{SubCmd: "probe"}
	require.ErrorIs(t, Run(t.Context(), cfg, env), errNoTargets)

	_, err := env.Store.SaveDeviceEndpoint(t.Context(), models.DeviceEndpoint{
		Kind: models.TransportDatagram,
		Host: "192.168.4.1",
		Port: models.DefaultDatagramPort,
	})
	require.NoError(t, err)

	require.NoError(t, Run(t.Context(), cfg, env))
	require.Len(t, prober.got, 1)
	assert.Contains(t, out.String(), "192.168.4.1")
	assert.Contains(t, out.String(), "yes")

	cfg.Args = []string{"broker:10.9.9.9"}
	require.ErrorIs(t, Run(t.Context(), cfg, env), errNothingReachable)
}

func TestTriggerModel(t *testing.T) {
	trig := &fakeTrigger{states: []models.GateState{
		models.GateReady,
		models.GateCheckingNetwork,
		models.GateTriggering,
		models.GateWaitingForRelayClose,
		models.GateReady,
	}}

	m := newTriggerModel(t.Context(), trig)
	require.NotNil(t, m.Init())

	msg := m.start()()
	_, cmd := m.Update(msg)
	require.NotNil(t, cmd)

	for cmd != nil {
		msg := cmd()
		if _, closed := msg.(streamClosedMsg); closed {
			_, cmd = m.Update(msg)
			break
		}

		_, cmd = m.Update(msg)
	}

	assert.Nil(t, cmd)
	assert.True(t, m.succeeded())
	assert.False(t, m.running)
	assert.Contains(t, m.View(), "relay released")
	assert.Contains(t, m.View(), "Enter to trigger again")

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, m.running)
	assert.Nil(t, m.final)

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestTriggerModelRejected(t *testing.T) {
	m := newTriggerModel(t.Context(), &fakeTrigger{err: trigger.ErrOperationInProgress})
	m.Init()

	_, _ = m.Update(m.start()())

	assert.False(t, m.running)
	assert.True(t, errors.Is(m.err, trigger.ErrOperationInProgress))
	assert.Contains(t, m.View(), "operation")
}

func TestParseFlagsVersion(t *testing.T) {
	cfg, err := ParseFlags([]string{"-version"})
	require.NoError(t, err)
	assert.True(t, cfg.Version)
	assert.Empty(t, cfg.SubCmd)
}
