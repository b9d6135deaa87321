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

import (
	"context"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/carverauto/gatekeeper/pkg/config"
	"github.com/carverauto/gatekeeper/pkg/models"
	"github.com/carverauto/gatekeeper/pkg/reachability"
)

// CmdConfig holds the parsed command line.
type CmdConfig struct {
	Help       bool
	Version    bool
	SubCmd     string
	Action     string
	ConfigFile string
	TUI        bool
	JSON       bool
	Args       []string

	// endpoint add/remove
	EndpointID   string
	Kind         string
	Host         string
	Port         int
	Protocol     string
	RequestTopic string
	StateTopic   string

	// broker set
	Username string
	Password string
}

// Triggerer starts a gate trigger session.
type Triggerer interface {
	Trigger(ctx context.Context) (<-chan models.GateUpdate, error)
}

// Prober checks reachability targets.
type Prober interface {
	CheckAll(ctx context.Context, targets []models.PingTarget) (reachability.BatchResult, error)
}

// Env is what the subcommands operate on.
type Env struct {
	Store   config.Store
	Prober  Prober
	Trigger Triggerer
	Out     io.Writer
}

// logStyles defines styles for plain-mode output.
type logStyles struct {
	info, success, warning, error lipgloss.Style
}

type tuiStyles struct {
	title, state, done, pending, help, success, warning, error, app lipgloss.Style
}
