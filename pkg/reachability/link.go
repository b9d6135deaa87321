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
	"slices"

	psnet "github.com/shirou/gopsutil/v3/net"
)

//go:generate mockgen -destination=mock_reachability.go -package=reachability github.com/carverauto/gatekeeper/pkg/reachability LinkChecker

// LinkChecker reports whether the host has a usable network link.
type LinkChecker interface {
	LinkUp(ctx context.Context) (bool, error)
}

// InterfaceLinkChecker looks for an interface that is up and not loopback.
type InterfaceLinkChecker struct {
	list func(ctx context.Context) (psnet.InterfaceStatList, error)
}

func NewInterfaceLinkChecker() *InterfaceLinkChecker {
	return &InterfaceLinkChecker{list: psnet.InterfacesWithContext}
}

func (c *InterfaceLinkChecker) LinkUp(ctx context.Context) (bool, error) {
	ifaces, err := c.list(ctx)
	if err != nil {
		return false, err
	}

	for _, iface := range ifaces {
		if slices.Contains(iface.Flags, "loopback") {
			continue
		}

		if slices.Contains(iface.Flags, "up") && len(iface.Addrs) > 0 {
			return true, nil
		}
	}

	return false, nil
}
