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

package api

import (
	"context"

	"github.com/carverauto/gatekeeper/pkg/models"
	"github.com/carverauto/gatekeeper/pkg/reachability"
	"github.com/carverauto/gatekeeper/pkg/trigger"
)

//go:generate mockgen -destination=mock_api.go -package=api github.com/carverauto/gatekeeper/pkg/api Triggerer,Prober

// Triggerer starts gate trigger sessions.
type Triggerer interface {
	Trigger(ctx context.Context) (<-chan models.GateUpdate, error)
	Status() trigger.Status
}

// Prober checks reachability targets on demand and remembers the last outcome.
type Prober interface {
	CheckAll(ctx context.Context, targets []models.PingTarget) (reachability.BatchResult, error)
	LastKnown(target models.PingTarget) (reachability.Result, bool)
}
