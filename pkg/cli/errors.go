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

package cli

import "errors"

var (
	errUnknownCommand   = errors.New("unknown command")
	errUnknownAction    = errors.New("unknown action")
	errMissingAction    = errors.New("missing action")
	errMissingID        = errors.New("-id is required")
	errMissingHost      = errors.New("-host is required")
	errBadTarget        = errors.New("target must be kind:host[:port]")
	errNoTargets        = errors.New("no reachability targets or endpoints configured")
	errTriggerFailed    = errors.New("gate trigger did not complete")
	errNothingReachable = errors.New("no target reachable")
)
