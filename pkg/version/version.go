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

// Package version reports the gatekeeper build.
package version

// Set via -ldflags "-X github.com/carverauto/gatekeeper/pkg/version.version=..." at build time.
//
//nolint:gochecknoglobals // ldflags injection
var (
	version = "dev"
	buildID = "dev"
)

// Info is the build identification served by /healthz and gatectl -version.
type Info struct {
	Version string `json:"version"`
	BuildID string `json:"build_id"`
}

// Get returns the current build information.
func Get() Info {
	return Info{Version: version, BuildID: buildID}
}

// String formats the version with its build ID.
func (i Info) String() string {
	return i.Version + " (build: " + i.BuildID + ")"
}
