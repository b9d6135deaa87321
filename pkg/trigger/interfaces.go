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
	"time"

	"github.com/carverauto/gatekeeper/pkg/models"
	"github.com/carverauto/gatekeeper/pkg/reachability"
)

//go:generate mockgen -destination=mock_trigger.go -package=trigger github.com/carverauto/gatekeeper/pkg/trigger Prober,Clock,EndpointSource

// Prober answers which targets are reachable right now.
type Prober interface {
	CheckAll(ctx context.Context, targets []models.PingTarget) (reachability.BatchResult, error)
}

// Clock supplies the attempt deadline.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

// EndpointSource is the read side of the configuration store used per attempt.
type EndpointSource interface {
	ListDeviceEndpoints(ctx context.Context) ([]models.DeviceEndpoint, error)
	GetReachabilityTargets(ctx context.Context) ([]models.PingTarget, error)
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }
