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
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/carverauto/gatekeeper/pkg/logger"
	"github.com/carverauto/gatekeeper/pkg/relay"
)

const udpReadBuffer = 1024

// UDPDevice replies to the exact sender of each trigger datagram.
type UDPDevice struct {
	conn         *net.UDPConn
	behavior     Behavior
	releaseDelay time.Duration
	logger       logger.Logger

	triggers atomic.Int64
	wg       sync.WaitGroup
}

// ListenUDP binds addr, e.g. "127.0.0.1:0" or ":8050".
func ListenUDP(addr string, behavior Behavior, releaseDelay time.Duration, log logger.Logger) (*UDPDevice, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}

	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return nil, err
	}

	return &UDPDevice{
		conn:         conn,
		behavior:     behavior,
		releaseDelay: releaseDelay,
		logger:       log,
	}, nil
}

func (d *UDPDevice) Addr() *net.UDPAddr {
	return d.conn.LocalAddr().(*net.UDPAddr)
}

// Triggers returns how many trigger datagrams were received.
func (d *UDPDevice) Triggers() int {
	return int(d.triggers.Load())
}

// Serve answers triggers until ctx ends.
func (d *UDPDevice) Serve(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { _ = d.conn.Close() })
	defer stop()

	d.logger.Info().Str("addr", d.Addr().String()).Str("behavior", string(d.behavior)).Msg("UDP device listening")

	buf := make([]byte, udpReadBuffer)

	for {
		n, from, err := d.conn.ReadFromUDP(buf)
		if err != nil {
			d.wg.Wait()

			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}

			return err
		}

		if n == 0 || buf[0] != relay.ByteTrigger {
			d.logger.Warn().Str("from", from.String()).Int("bytes", n).Msg("Ignoring non-trigger datagram")
			continue
		}

		d.triggers.Add(1)
		d.logger.Info().Str("from", from.String()).Msg("Trigger received")

		d.wg.Add(1)

		go func(to *net.UDPAddr) {
			defer d.wg.Done()

			d.reply(ctx, to)
		}(from)
	}
}

func (d *UDPDevice) reply(ctx context.Context, to *net.UDPAddr) {
	for _, step := range d.behavior.Script(d.releaseDelay) {
		if !sleep(ctx, step.Delay) {
			return
		}

		if _, err := d.conn.WriteToUDP([]byte{step.Byte}, to); err != nil {
			d.logger.Error().Err(err).Str("to", to.String()).Msg("Failed to send reply")
			return
		}

		d.logger.Debug().Str("to", to.String()).Uint8("byte", step.Byte).Msg("Reply sent")
	}
}

func (d *UDPDevice) Close() error {
	return d.conn.Close()
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
