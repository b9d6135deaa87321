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

package models

import (
	"encoding/json"
	"time"
)

// RelayState is the relay condition reported by the device.
type RelayState string

const (
	RelayActivated RelayState = "activated"
	RelayReleased  RelayState = "released"
)

// GateState is the public status of a trigger attempt.
type GateState string

const (
	GateReady                GateState = "ready"
	GateCheckingNetwork      GateState = "checking_network"
	GateNoNetwork            GateState = "no_network"
	GateTriggering           GateState = "triggering"
	GateWaitingForRelayClose GateState = "waiting_for_relay_close"
	GateTimeout              GateState = "timeout"
	GateError                GateState = "error"
)

// GateUpdate is one entry in the ordered gate-state sequence of an attempt.
type GateUpdate struct {
	SessionID string          `json:"session_id"`
	State     GateState       `json:"state"`
	Endpoint  *DeviceEndpoint `json:"endpoint,omitempty"`
	Err       error           `json:"-"`
	Error     string          `json:"error,omitempty"`
	Final     bool            `json:"final"`
	Timestamp time.Time       `json:"timestamp"`
}

// MarshalJSON fills Error from Err.
func (u GateUpdate) MarshalJSON() ([]byte, error) {
	type alias GateUpdate

	if u.Err != nil && u.Error == "" {
		u.Error = u.Err.Error()
	}

	return json.Marshal(alias(u))
}

// Duration is a time.Duration that reads and writes JSON strings like "5s".
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}

		*d = Duration(parsed)
	default:
		return errInvalidDuration
	}

	return nil
}

// Or returns d, or fallback when d is zero.
func (d Duration) Or(fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}

	return time.Duration(d)
}
