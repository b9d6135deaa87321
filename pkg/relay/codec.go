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

// Package relay encodes and decodes the single-byte gate handshake.
package relay

import (
	"errors"
	"fmt"

	"github.com/carverauto/gatekeeper/pkg/models"
)

const (
	ByteTrigger   byte = 0x01
	ByteActivated byte = 0x01
	ByteReleased  byte = 0x00
)

var (
	ErrUnknownByte             = errors.New("unknown relay byte")
	ErrEmptyPayload            = errors.New("empty relay payload")
	ErrOversizedPayload        = errors.New("relay payload longer than one byte")
	ErrReleasedBeforeActivated = errors.New("relay released before activation")
)

// TriggerPayload returns a fresh copy of the trigger request.
func TriggerPayload() []byte {
	return []byte{ByteTrigger}
}

// Encode returns the trigger payload for the given transport. Both
// transports carry the same byte.
func Encode(_ models.TransportKind) []byte {
	return TriggerPayload()
}

// Decode maps one inbound byte to a relay state.
func Decode(b byte) (models.RelayState, error) {
	switch b {
	case ByteActivated:
		return models.RelayActivated, nil
	case ByteReleased:
		return models.RelayReleased, nil
	default:
		return "", fmt.Errorf("%w: 0x%02x", ErrUnknownByte, b)
	}
}

// DecodePayload decodes a broker message, which must hold exactly one byte.
func DecodePayload(payload []byte) (models.RelayState, error) {
	switch len(payload) {
	case 0:
		return "", ErrEmptyPayload
	case 1:
		return Decode(payload[0])
	default:
		return "", fmt.Errorf("%w: %d bytes", ErrOversizedPayload, len(payload))
	}
}
