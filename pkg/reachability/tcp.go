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
	"fmt"
	"net"
	"strconv"

	"github.com/carverauto/gatekeeper/pkg/models"
)

// TCPProbe succeeds when a TCP connection to the target port opens.
type TCPProbe struct {
	Dialer net.Dialer
}

func (p *TCPProbe) Probe(ctx context.Context, target models.PingTarget) error {
	if target.Port <= 0 {
		return fmt.Errorf("%w: %s", ErrNoPort, target)
	}

	conn, err := p.Dialer.DialContext(ctx, "tcp", net.JoinHostPort(target.Host, strconv.Itoa(target.Port)))
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		return err
	}

	return conn.Close()
}
