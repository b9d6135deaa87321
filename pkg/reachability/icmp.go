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
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"

	"github.com/carverauto/gatekeeper/pkg/models"
)

const (
	protocolICMP   = 1
	icmpReadBuffer = 1500
)

var errNotEchoReply = errors.New("not an echo reply")

// ICMPProbe sends one echo request and waits for the matching reply. The
// unprivileged variant uses datagram ICMP sockets (net.ipv4.ping_group_range).
type ICMPProbe struct {
	privileged bool
	id         int
	seq        atomic.Uint32
}

func NewICMPProbe(privileged bool) *ICMPProbe {
	return &ICMPProbe{
		privileged: privileged,
		id:         os.Getpid() & 0xffff,
	}
}

func (p *ICMPProbe) Probe(ctx context.Context, target models.PingTarget) error {
	ip, err := resolveIPv4(ctx, target.Host)
	if err != nil {
		return err
	}

	network, dst := "udp4", net.Addr(&net.UDPAddr{IP: ip})
	if p.privileged {
		network, dst = "ip4:icmp", &net.IPAddr{IP: ip}
	}

	conn, err := icmp.ListenPacket(network, "0.0.0.0")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrICMPUnavailable, err)
	}

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer func() {
		stop()
		_ = conn.Close()
	}()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	seq := int(p.seq.Add(1) & 0xffff)
	payload := []byte(fmt.Sprintf("gatekeeper-%d", time.Now().UnixNano()))

	msg := icmp.Message{
		Type: ipv4.ICMPTypeEcho,
		Body: &icmp.Echo{ID: p.id, Seq: seq, Data: payload},
	}

	wb, err := msg.Marshal(nil)
	if err != nil {
		return err
	}

	if _, err := conn.WriteTo(wb, dst); err != nil {
		return p.ctxErr(ctx, err)
	}

	rb := make([]byte, icmpReadBuffer)

	for {
		n, peer, err := conn.ReadFrom(rb)
		if err != nil {
			return p.ctxErr(ctx, err)
		}

		if p.matches(rb[:n], peer, ip, seq, payload) == nil {
			return nil
		}
	}
}

func (p *ICMPProbe) matches(b []byte, peer net.Addr, ip net.IP, seq int, payload []byte) error {
	reply, err := icmp.ParseMessage(protocolICMP, b)
	if err != nil {
		return err
	}

	echo, ok := reply.Body.(*icmp.Echo)
	if reply.Type != ipv4.ICMPTypeEchoReply || !ok {
		return errNotEchoReply
	}

	if !peerIP(peer).Equal(ip) || echo.Seq != seq || !bytes.Equal(echo.Data, payload) {
		return errNotEchoReply
	}

	// the kernel rewrites the identifier on datagram sockets
	if p.privileged && echo.ID != p.id {
		return errNotEchoReply
	}

	return nil
}

func (*ICMPProbe) ctxErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	return err
}

func peerIP(addr net.Addr) net.IP {
	switch a := addr.(type) {
	case *net.UDPAddr:
		return a.IP
	case *net.IPAddr:
		return a.IP
	}

	return nil
}

func resolveIPv4(ctx context.Context, host string) (net.IP, error) {
	if ip := net.ParseIP(host); ip != nil {
		if v4 := ip.To4(); v4 != nil {
			return v4, nil
		}

		return nil, fmt.Errorf("%w: %s", ErrNoAddress, host)
	}

	ips, err := net.DefaultResolver.LookupIP(ctx, "ip4", host)
	if err != nil {
		return nil, err
	}

	if len(ips) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoAddress, host)
	}

	return ips[0], nil
}
