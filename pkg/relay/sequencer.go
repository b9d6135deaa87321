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

package relay

import "github.com/carverauto/gatekeeper/pkg/models"

// Sequencer enforces activated-before-released ordering for one session
// and drops repeated activations. It is not safe for concurrent use.
type Sequencer struct {
	activated bool
	released  bool
}

// Observe returns whether state should be reported. Released before any
// Activated is an error. Anything after Released is ignored.
func (s *Sequencer) Observe(state models.RelayState) (bool, error) {
	if s.released {
		return false, nil
	}

	switch state {
	case models.RelayActivated:
		if s.activated {
			return false, nil
		}

		s.activated = true

		return true, nil
	case models.RelayReleased:
		if !s.activated {
			return false, ErrReleasedBeforeActivated
		}

		s.released = true

		return true, nil
	}

	return false, ErrUnknownByte
}

// Done reports whether the terminal Released state was observed.
func (s *Sequencer) Done() bool {
	return s.released
}
