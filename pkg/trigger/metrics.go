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

package trigger

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/carverauto/gatekeeper/pkg/models"
)

const (
	meterName             = "gatekeeper.trigger"
	metricTriggerTotal    = "gatekeeper_trigger_total"
	metricTriggerDuration = "gatekeeper_trigger_duration_seconds"
	metricFailoverTotal   = "gatekeeper_failover_total"
)

const (
	outcomeRejected      = "rejected"
	outcomeSuccess       = "success"
	outcomeConfigMissing = "configuration_missing"
	outcomeNoNetwork     = "no_network"
	outcomeTimeout       = "timeout"
	outcomeError         = "error"
)

var (
	//nolint:gochecknoglobals // metrics instruments are shared across the process intentionally
	meterOnce sync.Once
	//nolint:gochecknoglobals // metrics instruments are shared across the process intentionally
	triggerCounter metric.Int64Counter
	//nolint:gochecknoglobals // metrics instruments are shared across the process intentionally
	durationHistogram metric.Float64Histogram
	//nolint:gochecknoglobals // metrics instruments are shared across the process intentionally
	failoverCounter metric.Int64Counter
)

func initMeter() {
	meter := otel.Meter(meterName)

	counter, err := meter.Int64Counter(
		metricTriggerTotal,
		metric.WithDescription("Gate trigger attempts by outcome"),
	)
	if err != nil {
		otel.Handle(err)
	}
	triggerCounter = counter

	hist, err := meter.Float64Histogram(
		metricTriggerDuration,
		metric.WithDescription("Time from trigger request to terminal gate state"),
		metric.WithUnit("s"),
	)
	if err != nil {
		otel.Handle(err)
	}
	durationHistogram = hist

	failover, err := meter.Int64Counter(
		metricFailoverTotal,
		metric.WithDescription("Endpoint handshakes abandoned in favour of the next endpoint"),
	)
	if err != nil {
		otel.Handle(err)
	}
	failoverCounter = failover
}

func recordOutcome(ctx context.Context, outcome string, elapsed time.Duration) {
	meterOnce.Do(initMeter)

	attrs := metric.WithAttributes(attribute.String("outcome", outcome))

	if triggerCounter != nil {
		triggerCounter.Add(ctx, 1, attrs)
	}

	if durationHistogram != nil && elapsed > 0 {
		durationHistogram.Record(ctx, elapsed.Seconds(), attrs)
	}
}

func recordFailover(ctx context.Context, kind models.TransportKind) {
	meterOnce.Do(initMeter)
	if failoverCounter == nil {
		return
	}

	failoverCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", string(kind))))
}

func outcomeFor(state models.GateState) string {
	switch state {
	case models.GateReady:
		return outcomeSuccess
	case models.GateNoNetwork:
		return outcomeNoNetwork
	case models.GateTimeout:
		return outcomeTimeout
	case models.GateCheckingNetwork, models.GateTriggering, models.GateWaitingForRelayClose, models.GateError:
	}

	return outcomeError
}
