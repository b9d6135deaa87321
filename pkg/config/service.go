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

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/carverauto/gatekeeper/pkg/logger"
	"github.com/carverauto/gatekeeper/pkg/models"
	"github.com/carverauto/gatekeeper/pkg/reachability"
)

const (
	StoreFile   = "file"
	StoreKV     = "kv"
	StoreMemory = "memory"

	DefaultListenAddr    = ":8090"
	DefaultStorePath     = "/var/lib/gatekeeper/store.json"
	DefaultBucket        = "gatekeeper"
	DefaultNATSURL       = "nats://127.0.0.1:4222"
	DefaultTriggerWait   = 5 * time.Second
	DefaultConnectWait   = 2 * time.Second
	DefaultProbeTimeout  = time.Second
	DefaultProbeParallel = 4
)

var (
	errUnknownStore  = errors.New("unknown store type")
	errMissingPath   = errors.New("store path is required")
	errMissingBucket = errors.New("kv bucket is required")
	errBadMethod     = errors.New("unknown probe method")
	errBadTimeout    = errors.New("timeout must not be negative")
)

// ServiceConfig is the gatekeeper daemon and CLI configuration.
type ServiceConfig struct {
	ListenAddr     string             `json:"listen_addr"`
	AllowedOrigins []string           `json:"allowed_origins"`
	Store          StoreConfig        `json:"store"`
	Trigger        TriggerConfig      `json:"trigger"`
	Reachability   ReachabilityConfig `json:"reachability"`
	Events         *EventsConfig      `json:"events,omitempty"`
	Logging        *logger.Config     `json:"logging"`
}

// StoreConfig selects the configuration store backend.
type StoreConfig struct {
	Type    string `json:"type"`
	Path    string `json:"path"`
	NATSURL string `json:"nats_url"`
	Bucket  string `json:"bucket"`
}

type TriggerConfig struct {
	Timeout        models.Duration `json:"timeout"`
	// ConnectTimeout bounds broker connection setup within an attempt.
	ConnectTimeout models.Duration `json:"connect_timeout"`
}

type ReachabilityConfig struct {
	Timeout        models.Duration `json:"timeout"`
	Concurrency    int             `json:"concurrency"`
	LinkCheck      *bool           `json:"link_check"`
	PrivilegedICMP bool            `json:"privileged_icmp"`
	DatagramMethod string          `json:"datagram_method"`
	BrokerMethod   string          `json:"broker_method"`
}

// EventsConfig enables live gate state notifications on NATS.
type EventsConfig struct {
	NATSURL       string `json:"nats_url"`
	SubjectPrefix string `json:"subject_prefix"`
}

// Enabled reports whether events should be published.
func (e *EventsConfig) Enabled() bool {
	return e != nil && e.NATSURL != ""
}

// DefaultServiceConfig returns a config with every default filled in.
func DefaultServiceConfig() ServiceConfig {
	cfg := ServiceConfig{}
	cfg.ApplyDefaults()

	return cfg
}

// ApplyDefaults fills unset fields.
func (c *ServiceConfig) ApplyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}

	if c.Store.Type == "" {
		c.Store.Type = StoreFile
	}

	if c.Store.Type == StoreFile && c.Store.Path == "" {
		c.Store.Path = DefaultStorePath
	}

	if c.Store.Type == StoreKV {
		if c.Store.Bucket == "" {
			c.Store.Bucket = DefaultBucket
		}

		if c.Store.NATSURL == "" {
			c.Store.NATSURL = DefaultNATSURL
		}
	}

	if c.Trigger.Timeout == 0 {
		c.Trigger.Timeout = models.Duration(DefaultTriggerWait)
	}

	if c.Trigger.ConnectTimeout == 0 {
		c.Trigger.ConnectTimeout = models.Duration(DefaultConnectWait)
	}

	r := &c.Reachability

	if r.Timeout == 0 {
		r.Timeout = models.Duration(DefaultProbeTimeout)
	}

	if r.Concurrency <= 0 {
		r.Concurrency = DefaultProbeParallel
	}

	if r.LinkCheck == nil {
		enabled := true
		r.LinkCheck = &enabled
	}

	if r.DatagramMethod == "" {
		r.DatagramMethod = string(reachability.MethodICMP)
	}

	if r.BrokerMethod == "" {
		r.BrokerMethod = string(reachability.MethodTCP)
	}
}

// Validate applies defaults and checks the result.
func (c *ServiceConfig) Validate() error {
	c.ApplyDefaults()

	switch c.Store.Type {
	case StoreFile:
		if c.Store.Path == "" {
			return errMissingPath
		}
	case StoreKV:
		if c.Store.Bucket == "" {
			return errMissingBucket
		}
	case StoreMemory:
	default:
		return fmt.Errorf("%w: %q", errUnknownStore, c.Store.Type)
	}

	if c.Trigger.Timeout < 0 || c.Trigger.ConnectTimeout < 0 || c.Reachability.Timeout < 0 {
		return errBadTimeout
	}

	for _, m := range []string{c.Reachability.DatagramMethod, c.Reachability.BrokerMethod} {
		switch reachability.Method(m) {
		case reachability.MethodICMP, reachability.MethodTCP, reachability.MethodNone:
		default:
			return fmt.Errorf("%w: %q", errBadMethod, m)
		}
	}

	return nil
}

// ProberConfig converts the reachability section.
func (r *ReachabilityConfig) ProberConfig() reachability.Config {
	return reachability.Config{
		Timeout:        r.Timeout.Or(DefaultProbeTimeout),
		Concurrency:    r.Concurrency,
		LinkCheck:      r.LinkCheck == nil || *r.LinkCheck,
		Privileged:     r.PrivilegedICMP,
		DatagramMethod: reachability.Method(r.DatagramMethod),
		BrokerMethod:   reachability.Method(r.BrokerMethod),
	}
}
