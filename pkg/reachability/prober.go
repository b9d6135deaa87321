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

// Package reachability decides whether gate endpoints can be reached before
// a transport session is opened.
package reachability

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/carverauto/gatekeeper/pkg/logger"
	"github.com/carverauto/gatekeeper/pkg/models"
)

const (
	defaultTimeout     = time.Second
	defaultConcurrency = 4
)

// Method names a probe technique.
type Method string

const (
	MethodICMP Method = "icmp"
	MethodTCP  Method = "tcp"
	MethodNone Method = "none"
)

// Probe reports nil when target answered within ctx.
type Probe interface {
	Probe(ctx context.Context, target models.PingTarget) error
}

// ProbeFunc adapts a function to Probe.
type ProbeFunc func(ctx context.Context, target models.PingTarget) error

func (f ProbeFunc) Probe(ctx context.Context, target models.PingTarget) error {
	return f(ctx, target)
}

// Config tunes the prober.
type Config struct {
	Timeout        time.Duration
	Concurrency    int
	LinkCheck      bool
	Privileged     bool
	DatagramMethod Method
	BrokerMethod   Method
}

// Result is the outcome of probing one target.
type Result struct {
	Target    models.PingTarget `json:"target"`
	Reachable bool              `json:"reachable"`
	RTT       time.Duration     `json:"rtt"`
	Err       error             `json:"-"`
	Error     string            `json:"error,omitempty"`
	CheckedAt time.Time         `json:"checked_at"`
}

// BatchResult holds per-target outcomes of CheckAll.
type BatchResult struct {
	Results      map[models.TargetKey]Result
	AnyReachable bool
}

// Reachable reports the result for target, false if it was not checked.
func (b BatchResult) Reachable(target models.PingTarget) bool {
	return b.Results[target.Key()].Reachable
}

// Prober checks targets with a per-kind probe and an optional link check.
type Prober struct {
	cfg    Config
	probes map[Method]Probe
	link   LinkChecker
	logger logger.Logger

	mu   sync.RWMutex
	last map[models.TargetKey]Result
}

func NewProber(cfg Config, log logger.Logger) *Prober {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}

	if cfg.DatagramMethod == "" {
		cfg.DatagramMethod = MethodICMP
	}

	if cfg.BrokerMethod == "" {
		cfg.BrokerMethod = MethodTCP
	}

	return &Prober{
		cfg: cfg,
		probes: map[Method]Probe{
			MethodICMP: NewICMPProbe(cfg.Privileged),
			MethodTCP:  &TCPProbe{},
			MethodNone: ProbeFunc(func(context.Context, models.PingTarget) error { return nil }),
		},
		link:   NewInterfaceLinkChecker(),
		logger: log,
		last:   make(map[models.TargetKey]Result),
	}
}

// WithProbe replaces the probe used for method m.
func (p *Prober) WithProbe(m Method, probe Probe) *Prober {
	p.probes[m] = probe

	return p
}

// WithLinkChecker replaces the interface-level link check.
func (p *Prober) WithLinkChecker(l LinkChecker) *Prober {
	p.link = l

	return p
}

// Check probes a single target.
func (p *Prober) Check(ctx context.Context, target models.PingTarget) Result {
	linkUp := p.linkUp(ctx, []models.PingTarget{target})

	return p.check(ctx, target, linkUp)
}

// CheckAll probes targets concurrently. When ctx ends first it returns
// ctx.Err() and no results.
func (p *Prober) CheckAll(ctx context.Context, targets []models.PingTarget) (BatchResult, error) {
	unique := dedupe(targets)
	linkUp := p.linkUp(ctx, unique)
	results := make([]Result, len(unique))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Concurrency)

	for i, t := range unique {
		g.Go(func() error {
			results[i] = p.check(gctx, t, linkUp)

			return nil
		})
	}

	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return BatchResult{}, err
	}

	batch := BatchResult{Results: make(map[models.TargetKey]Result, len(results))}

	for _, r := range results {
		batch.Results[r.Target.Key()] = r
		batch.AnyReachable = batch.AnyReachable || r.Reachable
	}

	return batch, nil
}

// LastKnown returns the most recent completed result for target.
func (p *Prober) LastKnown(target models.PingTarget) (Result, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	r, ok := p.last[target.Key()]

	return r, ok
}

func (p *Prober) check(ctx context.Context, target models.PingTarget, linkUp bool) Result {
	result := Result{Target: target}

	if !linkUp && !isLoopback(target.Host) {
		result.Err = ErrLinkDown
	} else {
		result.Err = p.probe(ctx, target, &result)
	}

	result.Reachable = result.Err == nil
	result.CheckedAt = time.Now()

	if result.Err != nil {
		result.Error = result.Err.Error()
	}

	// a cancelled caller no longer cares; do not let it overwrite fresher data
	if ctx.Err() != nil {
		return result
	}

	p.mu.Lock()
	p.last[target.Key()] = result
	p.mu.Unlock()

	p.logger.Debug().
		Str("target", target.String()).
		Bool("reachable", result.Reachable).
		Dur("rtt", result.RTT).
		Err(result.Err).
		Msg("Probe finished")

	return result
}

func (p *Prober) probe(ctx context.Context, target models.PingTarget, result *Result) error {
	method := p.methodFor(target.Kind)

	probe, ok := p.probes[method]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}

	probeCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	start := time.Now()
	err := probe.Probe(probeCtx, target)
	result.RTT = time.Since(start)

	return err
}

func (p *Prober) methodFor(kind models.TransportKind) Method {
	if kind == models.TransportBroker {
		return p.cfg.BrokerMethod
	}

	return p.cfg.DatagramMethod
}

// linkUp runs the link check once per batch. Errors count as up.
func (p *Prober) linkUp(ctx context.Context, targets []models.PingTarget) bool {
	if !p.cfg.LinkCheck || p.link == nil {
		return true
	}

	needed := false

	for _, t := range targets {
		if !isLoopback(t.Host) {
			needed = true
			break
		}
	}

	if !needed {
		return true
	}

	up, err := p.link.LinkUp(ctx)
	if err != nil {
		p.logger.Warn().Err(err).Msg("Link check failed, continuing with probes")
		return true
	}

	return up
}

func dedupe(targets []models.PingTarget) []models.PingTarget {
	seen := make(map[models.TargetKey]struct{}, len(targets))
	out := make([]models.PingTarget, 0, len(targets))

	for _, t := range targets {
		if _, ok := seen[t.Key()]; ok {
			continue
		}

		seen[t.Key()] = struct{}{}
		out = append(out, t)
	}

	return out
}

func isLoopback(host string) bool {
	if strings.EqualFold(host, "localhost") {
		return true
	}

	ip := net.ParseIP(host)

	return ip != nil && ip.IsLoopback()
}
