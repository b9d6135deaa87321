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

package reachability

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/gatekeeper/pkg/logger"
	"github.com/carverauto/gatekeeper/pkg/models"
)

var errUnreachable = errors.New("host unreachable")

// hostProbe answers per host: true reachable, false unreachable, missing hangs.
func hostProbe(answers map[string]bool) ProbeFunc {
	return func(ctx context.Context, target models.PingTarget) error {
		up, ok := answers[target.Host]
		if !ok {
			<-ctx.Done()
			return ctx.Err()
		}

		if !up {
			return errUnreachable
		}

		return nil
	}
}

func newTestProber(t *testing.T, cfg Config, probe Probe) *Prober {
	t.Helper()

	return NewProber(cfg, logger.NewTestLogger()).
		WithProbe(MethodICMP, probe).
		WithProbe(MethodTCP, probe)
}

func TestCheckAllAggregates(t *testing.T) {
	p := newTestProber(t, Config{Timeout: 50 * time.Millisecond}, hostProbe(map[string]bool{
		"10.0.0.2": true,
		"10.0.0.3": false,
	}))

	targets := []models.PingTarget{
		{Host: "10.0.0.2", Kind: models.TransportDatagram},
		{Host: "10.0.0.3", Kind: models.TransportBroker, Port: 1883},
		{Host: "10.0.0.4", Kind: models.TransportDatagram},
	}

	batch, err := p.CheckAll(context.Background(), targets)
	require.NoError(t, err)

	assert.True(t, batch.AnyReachable)
	assert.True(t, batch.Reachable(targets[0]))
	assert.False(t, batch.Reachable(targets[1]))
	require.ErrorIs(t, batch.Results[targets[1].Key()].Err, errUnreachable)

	hung := batch.Results[targets[2].Key()]
	assert.False(t, hung.Reachable, "an undetermined probe counts as unreachable")
	require.ErrorIs(t, hung.Err, context.DeadlineExceeded)
}

func TestCheckAllNoneReachable(t *testing.T) {
	p := newTestProber(t, Config{}, hostProbe(map[string]bool{"10.0.0.2": false}))

	batch, err := p.CheckAll(context.Background(), []models.PingTarget{{Host: "10.0.0.2", Kind: models.TransportDatagram}})
	require.NoError(t, err)
	assert.False(t, batch.AnyReachable)
}

func TestCheckAllIdentityIsHostAndKind(t *testing.T) {
	var calls atomic.Int32

	p := newTestProber(t, Config{}, ProbeFunc(func(context.Context, models.PingTarget) error {
		calls.Add(1)
		return nil
	}))

	batch, err := p.CheckAll(context.Background(), []models.PingTarget{
		{Host: "Gate.local", Kind: models.TransportDatagram},
		{Host: "gate.local", Kind: models.TransportDatagram, Port: 9},
		{Host: "gate.local", Kind: models.TransportBroker, Port: 1883},
	})
	require.NoError(t, err)

	assert.Len(t, batch.Results, 2)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCheckAllCancelledReportsNothing(t *testing.T) {
	p := newTestProber(t, Config{Timeout: time.Minute}, hostProbe(nil))

	ctx, cancel := context.WithCancel(context.Background())
	target := models.PingTarget{Host: "10.0.0.9", Kind: models.TransportDatagram}

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	batch, err := p.CheckAll(ctx, []models.PingTarget{target})
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, batch.Results)

	_, ok := p.LastKnown(target)
	assert.False(t, ok, "cancelled probes must not be recorded")
}

func TestLastKnownTracksLatestResult(t *testing.T) {
	answers := map[string]bool{"10.0.0.2": true}
	p := newTestProber(t, Config{}, hostProbe(answers))
	target := models.PingTarget{Host: "10.0.0.2", Kind: models.TransportDatagram}

	assert.True(t, p.Check(context.Background(), target).Reachable)

	last, ok := p.LastKnown(target)
	require.True(t, ok)
	assert.True(t, last.Reachable)

	answers["10.0.0.2"] = false

	assert.False(t, p.Check(context.Background(), target).Reachable)

	last, _ = p.LastKnown(target)
	assert.False(t, last.Reachable)
	assert.Equal(t, errUnreachable.Error(), last.Error)
}

func TestLinkCheck(t *testing.T) {
	remote := models.PingTarget{Host: "10.0.0.2", Kind: models.TransportDatagram}
	local := models.PingTarget{Host: "127.0.0.1", Kind: models.TransportDatagram}
	always := hostProbe(map[string]bool{"10.0.0.2": true, "127.0.0.1": true})

	t.Run("link down short-circuits remote targets", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		link := NewMockLinkChecker(ctrl)
		link.EXPECT().LinkUp(gomock.Any()).Return(false, nil)

		p := newTestProber(t, Config{LinkCheck: true}, always).WithLinkChecker(link)

		r := p.Check(context.Background(), remote)
		assert.False(t, r.Reachable)
		require.ErrorIs(t, r.Err, ErrLinkDown)
	})

	t.Run("loopback skips the link check", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		link := NewMockLinkChecker(ctrl)

		p := newTestProber(t, Config{LinkCheck: true}, always).WithLinkChecker(link)

		assert.True(t, p.Check(context.Background(), local).Reachable)
	})

	t.Run("link check errors are ignored", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		link := NewMockLinkChecker(ctrl)
		link.EXPECT().LinkUp(gomock.Any()).Return(false, errors.New("netlink: permission denied"))

		p := newTestProber(t, Config{LinkCheck: true}, always).WithLinkChecker(link)

		assert.True(t, p.Check(context.Background(), remote).Reachable)
	})

	t.Run("one link check per batch", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		link := NewMockLinkChecker(ctrl)
		link.EXPECT().LinkUp(gomock.Any()).Return(true, nil).Times(1)

		p := newTestProber(t, Config{LinkCheck: true}, always).WithLinkChecker(link)

		batch, err := p.CheckAll(context.Background(), []models.PingTarget{remote, local})
		require.NoError(t, err)
		assert.True(t, batch.Reachable(remote))
		assert.True(t, batch.Reachable(local))
	})
}

func TestMethodSelection(t *testing.T) {
	var used []Method

	record := func(m Method) ProbeFunc {
		return func(context.Context, models.PingTarget) error {
			used = append(used, m)
			return nil
		}
	}

	p := NewProber(Config{Concurrency: 1, DatagramMethod: MethodTCP, BrokerMethod: MethodNone}, logger.NewTestLogger()).
		WithProbe(MethodTCP, record(MethodTCP)).
		WithProbe(MethodNone, record(MethodNone))

	p.Check(context.Background(), models.PingTarget{Host: "10.0.0.2", Kind: models.TransportDatagram, Port: 8050})
	p.Check(context.Background(), models.PingTarget{Host: "10.0.0.2", Kind: models.TransportBroker, Port: 1883})

	assert.Equal(t, []Method{MethodTCP, MethodNone}, used)

	p = NewProber(Config{DatagramMethod: "smoke-signal"}, logger.NewTestLogger())
	r := p.Check(context.Background(), models.PingTarget{Host: "127.0.0.1", Kind: models.TransportDatagram})
	require.ErrorIs(t, r.Err, ErrUnknownMethod)
}
