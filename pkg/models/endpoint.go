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
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
)

// TransportKind identifies how the gate device is reached.
type TransportKind string

const (
	TransportDatagram TransportKind = "datagram"
	TransportBroker   TransportKind = "broker"
)

// Priority orders transports for selection: lower goes first.
func (k TransportKind) Priority() int {
	switch k {
	case TransportDatagram:
		return 0
	case TransportBroker:
		return 1
	default:
		return 2
	}
}

// Valid reports whether k is a known transport kind.
func (k TransportKind) Valid() bool {
	return k == TransportDatagram || k == TransportBroker
}

// BrokerProtocol selects the publish/subscribe client used by a broker endpoint.
type BrokerProtocol string

const (
	BrokerMQTT BrokerProtocol = "mqtt"
	BrokerNATS BrokerProtocol = "nats"
)

const (
	DefaultDatagramPort = 8050
	DefaultMQTTPort     = 1883
	DefaultNATSPort     = 4222
	maxPort             = 65535
)

var (
	errEmptyHost       = errors.New("host must not be empty")
	errInvalidPort     = errors.New("port out of range")
	errUnknownKind     = errors.New("unknown transport kind")
	errUnknownProtocol = errors.New("unknown broker protocol")
	errInvalidDuration = errors.New("invalid duration")
)

// DeviceEndpoint is a transport target for the gate device.
type DeviceEndpoint struct {
	ID           string         `json:"id"`
	Kind         TransportKind  `json:"kind"`
	Host         string         `json:"host"`
	Port         int            `json:"port"`
	Protocol     BrokerProtocol `json:"protocol,omitempty"`
	RequestTopic string         `json:"request_topic,omitempty"`
	StateTopic   string         `json:"state_topic,omitempty"`

	// Reachable is the last-known probe outcome, nil until probed.
	Reachable *bool `json:"reachable,omitempty"`
}

// Address returns host:port.
func (e *DeviceEndpoint) Address() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// Key returns the ID, or a stable key derived from kind and address.
func (e *DeviceEndpoint) Key() string {
	if e.ID != "" {
		return e.ID
	}

	return fmt.Sprintf("%s-%s", e.Kind, e.Address())
}

// BrokerProtocolOrDefault returns the endpoint protocol, MQTT when unset.
func (e *DeviceEndpoint) BrokerProtocolOrDefault() BrokerProtocol {
	if e.Protocol == "" {
		return BrokerMQTT
	}

	return e.Protocol
}

// Topics returns the request and state topics, falling back to protocol defaults.
func (e *DeviceEndpoint) Topics() (request, state string) {
	request, state = e.RequestTopic, e.StateTopic

	sep := "/"
	if e.BrokerProtocolOrDefault() == BrokerNATS {
		sep = "."
	}

	if request == "" {
		request = strings.Join([]string{"gate", "trigger"}, sep)
	}

	if state == "" {
		state = strings.Join([]string{"gate", "state"}, sep)
	}

	return request, state
}

// PingTarget returns the reachability target for this endpoint.
func (e *DeviceEndpoint) PingTarget() PingTarget {
	return PingTarget{Host: e.Host, Kind: e.Kind, Port: e.Port}
}

// Validate checks the endpoint invariants.
func (e *DeviceEndpoint) Validate() error {
	if strings.TrimSpace(e.Host) == "" {
		return errEmptyHost
	}

	if e.Port < 1 || e.Port > maxPort {
		return fmt.Errorf("%w: %d", errInvalidPort, e.Port)
	}

	if !e.Kind.Valid() {
		return fmt.Errorf("%w: %q", errUnknownKind, e.Kind)
	}

	if e.Kind == TransportBroker {
		switch e.BrokerProtocolOrDefault() {
		case BrokerMQTT, BrokerNATS:
		default:
			return fmt.Errorf("%w: %q", errUnknownProtocol, e.Protocol)
		}
	}

	return nil
}

// BrokerCredentials authenticate the broker session of a broker endpoint.
type BrokerCredentials struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password" sensitive:"true"`
}

// Validate checks host and port.
func (c *BrokerCredentials) Validate() error {
	if strings.TrimSpace(c.Host) == "" {
		return errEmptyHost
	}

	if c.Port < 1 || c.Port > maxPort {
		return fmt.Errorf("%w: %d", errInvalidPort, c.Port)
	}

	return nil
}

// Matches reports whether the credentials belong to the given endpoint.
func (c *BrokerCredentials) Matches(e *DeviceEndpoint) bool {
	return e.Kind == TransportBroker && strings.EqualFold(c.Host, e.Host) && c.Port == e.Port
}

// Redacted returns a copy with the password masked.
func (c BrokerCredentials) Redacted() BrokerCredentials {
	if c.Password != "" {
		c.Password = "********"
	}

	return c
}

// PingTarget is a unit of reachability probing. Identity is (host, kind);
// Port is only used by probes that need one.
type PingTarget struct {
	Host string        `json:"host"`
	Kind TransportKind `json:"kind"`
	Port int           `json:"port,omitempty"`
}

// TargetKey identifies a PingTarget.
type TargetKey struct {
	Host string
	Kind TransportKind
}

// Key returns the identity of the target.
func (t PingTarget) Key() TargetKey {
	return TargetKey{Host: strings.ToLower(t.Host), Kind: t.Kind}
}

func (t PingTarget) String() string {
	return fmt.Sprintf("%s/%s", t.Kind, t.Host)
}
