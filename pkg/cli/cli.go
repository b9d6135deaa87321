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

// Package cli implements the gatectl subcommands.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/carverauto/gatekeeper/pkg/models"
)

// Dracula theme colors.
const (
	draculaForeground = "#F8F8F2"
	draculaCyan       = "#8BE9FD"
	draculaGreen      = "#50FA7B"
	draculaOrange     = "#FFB86C"
	draculaPink       = "#FF79C6"
	draculaPurple     = "#BD93F9"
	draculaRed        = "#FF5555"
	draculaYellow     = "#F1FA8C"
	draculaComment    = "#6272A4"
)

const (
	appPadding = 2
	maxPort    = 65535
)

func newLogStyles() logStyles {
	return logStyles{
		info:    lipgloss.NewStyle().Foreground(lipgloss.Color(draculaCyan)),
		success: lipgloss.NewStyle().Foreground(lipgloss.Color(draculaGreen)).Bold(true),
		warning: lipgloss.NewStyle().Foreground(lipgloss.Color(draculaOrange)),
		error:   lipgloss.NewStyle().Foreground(lipgloss.Color(draculaRed)).Bold(true),
	}
}

func newTUIStyles() tuiStyles {
	return tuiStyles{
		title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaPink)).
			Bold(true),
		state: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaYellow)),
		done: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaForeground)),
		pending: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaComment)),
		help: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaComment)),
		success: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaGreen)).
			Bold(true),
		warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaOrange)).
			Bold(true),
		error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaRed)).
			Bold(true),
		app: lipgloss.NewStyle().
			Padding(1, appPadding).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color(draculaPurple)).
			Foreground(lipgloss.Color(draculaForeground)),
	}
}

// SubcommandHandler defines the interface for parsing subcommand flags.
type SubcommandHandler interface {
	Parse(args []string, cfg *CmdConfig) error
}

// TriggerHandler handles flags for the trigger subcommand.
type TriggerHandler struct{}

// Parse processes the command-line arguments for the trigger subcommand.
func (TriggerHandler) Parse(args []string, cfg *CmdConfig) error {
	fs := newFlagSet("trigger")
	tui := fs.Bool("tui", false, "show progress in an interactive terminal UI")
	asJSON := fs.Bool("json", false, "print updates as JSON lines")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parsing trigger flags: %w", err)
	}

	cfg.TUI = *tui
	cfg.JSON = *asJSON

	return nil
}

// ProbeHandler handles flags for the probe subcommand.
type ProbeHandler struct{}

// Parse processes the command-line arguments for the probe subcommand. Any
// positional arguments are kind:host[:port] targets.
func (ProbeHandler) Parse(args []string, cfg *CmdConfig) error {
	fs := newFlagSet("probe")
	asJSON := fs.Bool("json", false, "print results as JSON")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parsing probe flags: %w", err)
	}

	cfg.JSON = *asJSON
	cfg.Args = fs.Args()

	return nil
}

// EndpointHandler handles endpoint list|add|remove.
type EndpointHandler struct{}

// Parse processes the command-line arguments for the endpoint subcommand.
func (EndpointHandler) Parse(args []string, cfg *CmdConfig) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: endpoint list|add|remove", errMissingAction)
	}

	cfg.Action = args[0]

	fs := newFlagSet("endpoint " + cfg.Action)

	switch cfg.Action {
	case "list":
	case "add":
		fs.StringVar(&cfg.EndpointID, "id", "", "endpoint ID to replace (optional)")
		fs.StringVar(&cfg.Kind, "kind", string(models.TransportDatagram), "transport kind: datagram or broker")
		fs.StringVar(&cfg.Host, "host", "", "device or broker host")
		fs.IntVar(&cfg.Port, "port", 0, "port (defaults per kind)")
		fs.StringVar(&cfg.Protocol, "protocol", "", "broker protocol: mqtt or nats")
		fs.StringVar(&cfg.RequestTopic, "request-topic", "", "broker request topic")
		fs.StringVar(&cfg.StateTopic, "state-topic", "", "broker relay state topic")
	case "remove":
		fs.StringVar(&cfg.EndpointID, "id", "", "endpoint ID")
	default:
		return fmt.Errorf("%w: endpoint %s", errUnknownAction, cfg.Action)
	}

	if err := fs.Parse(args[1:]); err != nil {
		return fmt.Errorf("parsing endpoint flags: %w", err)
	}

	if cfg.Action == "add" && cfg.Host == "" {
		return errMissingHost
	}

	if cfg.Action == "remove" && cfg.EndpointID == "" {
		return errMissingID
	}

	return nil
}

// BrokerHandler handles broker set.
type BrokerHandler struct{}

// Parse processes the command-line arguments for the broker subcommand.
func (BrokerHandler) Parse(args []string, cfg *CmdConfig) error {
	if len(args) == 0 || args[0] != "set" {
		return fmt.Errorf("%w: broker set", errMissingAction)
	}

	cfg.Action = args[0]

	fs := newFlagSet("broker set")
	fs.StringVar(&cfg.Host, "host", "", "broker host")
	fs.IntVar(&cfg.Port, "port", models.DefaultMQTTPort, "broker port")
	fs.StringVar(&cfg.Username, "username", "", "broker username")
	fs.StringVar(&cfg.Password, "password", "", "broker password")

	if err := fs.Parse(args[1:]); err != nil {
		return fmt.Errorf("parsing broker flags: %w", err)
	}

	if cfg.Host == "" {
		return errMissingHost
	}

	return nil
}

// TargetsHandler handles targets list|set.
type TargetsHandler struct{}

// Parse processes the command-line arguments for the targets subcommand.
func (TargetsHandler) Parse(args []string, cfg *CmdConfig) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: targets list|set", errMissingAction)
	}

	cfg.Action = args[0]

	switch cfg.Action {
	case "list":
	case "set":
		cfg.Args = args[1:]

		for _, raw := range cfg.Args {
			if _, err := parseTarget(raw); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%w: targets %s", errUnknownAction, cfg.Action)
	}

	return nil
}

// ParseFlags parses the global flags and the subcommand in args (without the program name).
func ParseFlags(args []string) (*CmdConfig, error) {
	fs := newFlagSet("gatectl")
	help := fs.Bool("help", false, "show help message")
	showVersion := fs.Bool("version", false, "print the version and exit")
	configFile := fs.String("config", "", "path to the gatekeeper service config (JSON)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := &CmdConfig{
		Help:       *help,
		Version:    *showVersion,
		ConfigFile: *configFile,
	}

	if cfg.Version {
		return cfg, nil
	}

	rest := fs.Args()
	if cfg.Help || len(rest) == 0 {
		cfg.Help = true
		return cfg, nil
	}

	cfg.SubCmd = rest[0]

	subcommands := map[string]SubcommandHandler{
		"trigger":  TriggerHandler{},
		"probe":    ProbeHandler{},
		"endpoint": EndpointHandler{},
		"broker":   BrokerHandler{},
		"targets":  TargetsHandler{},
	}

	handler, exists := subcommands[cfg.SubCmd]
	if !exists {
		return cfg, fmt.Errorf("%w: %s", errUnknownCommand, cfg.SubCmd)
	}

	if err := handler.Parse(rest[1:], cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	return fs
}

// parseTarget parses kind:host[:port].
func parseTarget(raw string) (models.PingTarget, error) {
	kind, rest, ok := strings.Cut(raw, ":")
	if !ok || rest == "" || !models.TransportKind(kind).Valid() {
		return models.PingTarget{}, fmt.Errorf("%w: %q", errBadTarget, raw)
	}

	target := models.PingTarget{Host: rest, Kind: models.TransportKind(kind)}

	if host, port, ok := strings.Cut(rest, ":"); ok {
		p, err := strconv.Atoi(port)
		if err != nil || p < 1 || p > maxPort || host == "" {
			return models.PingTarget{}, fmt.Errorf("%w: %q", errBadTarget, raw)
		}

		target.Host = host
		target.Port = p
	}

	return target, nil
}
