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

// Package simulator imitates the gate controller so the transports can be
// exercised without hardware.
package simulator

import (
	"fmt"
	"time"

	"github.com/carverauto/gatekeeper/pkg/relay"
)

const DefaultReleaseDelay = 500 * time.Millisecond

// Behavior selects the reply script of a simulated device.
type Behavior string

const (
	Normal              Behavior = "normal"
	DuplicateActivation Behavior = "duplicate"
	ReleaseFirst        Behavior = "release-first"
	ActivateOnly        Behavior = "activate-only"
	Silent              Behavior = "silent"
	Garbage             Behavior = "garbage"
)

// Step is one reply byte sent after Delay.
type Step struct {
	Byte  byte
	Delay time.Duration
}

// ParseBehavior accepts the names above.
func ParseBehavior(s string) (Behavior, error) {
	switch b := Behavior(s); b {
	case Normal, DuplicateActivation, ReleaseFirst, ActivateOnly, Silent, Garbage:
		return b, nil
	case "":
		return Normal, nil
	}

	return "", fmt.Errorf("%w: %q", errUnknownBehavior, s)
}

// Script returns the replies for one trigger.
func (b Behavior) Script(releaseDelay time.Duration) []Step {
	switch b {
	case DuplicateActivation:
		return []Step{
			{Byte: relay.ByteActivated},
			{Byte: relay.ByteActivated},
			{Byte: relay.ByteReleased, Delay: releaseDelay},
		}
	case ReleaseFirst:
		return []Step{{Byte: relay.ByteReleased}}
	case ActivateOnly:
		return []Step{{Byte: relay.ByteActivated}}
	case Silent:
		return nil
	case Garbage:
		return []Step{{Byte: 0x07}}
	case Normal:
	}

	return []Step{
		{Byte: relay.ByteActivated},
		{Byte: relay.ByteReleased, Delay: releaseDelay},
	}
}
