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
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/carverauto/gatekeeper/pkg/models"
	"github.com/carverauto/gatekeeper/pkg/reachability"
)

const timeLayout = "15:04:05.000"

// Run executes the parsed subcommand against env.
func Run(ctx context.Context, cfg *CmdConfig, env *Env) error {
	switch cfg.SubCmd {
	case "trigger":
		if cfg.TUI {
			return RunTriggerTUI(ctx, env.Trigger)
		}

		return runTrigger(ctx, cfg, env)
	case "probe":
		return runProbe(ctx, cfg, env)
	case "endpoint":
		return runEndpoint(ctx, cfg, env)
	case "broker":
		return runBroker(ctx, cfg, env)
	case "targets":
		return runTargets(ctx, cfg, env)
	}

	return fmt.Errorf("%w: %s", errUnknownCommand, cfg.SubCmd)
}

func runTrigger(ctx context.Context, cfg *CmdConfig, env *Env) error {
	updates, err := env.Trigger.Trigger(ctx)
	if err != nil {
		return err
	}

	styles := newLogStyles()
	enc := json.NewEncoder(env.Out)

	var last models.GateUpdate

	for update := range updates {
		last = update

		if cfg.JSON {
			if err := enc.Encode(update); err != nil {
				return err
			}

			continue
		}

		fmt.Fprintln(env.Out, formatUpdate(&update, &styles))
	}

	if !last.Final || last.State != models.GateReady {
		return fmt.Errorf("%w: %s", errTriggerFailed, last.State)
	}

	return nil
}

func formatUpdate(u *models.GateUpdate, styles *logStyles) string {
	var b strings.Builder

	b.WriteString(u.Timestamp.Format(timeLayout))
	b.WriteString("  ")

	state := string(u.State)

	switch {
	case u.Final && u.State == models.GateReady:
		state = styles.success.Render(state)
	case u.State == models.GateTimeout || u.State == models.GateNoNetwork:
		state = styles.warning.Render(state)
	case u.State == models.GateError:
		state = styles.error.Render(state)
	default:
		state = styles.info.Render(state)
	}

	b.WriteString(state)

	if u.Endpoint != nil {
		fmt.Fprintf(&b, "  %s %s", u.Endpoint.Kind, u.Endpoint.Address())
	}

	if u.Error != "" {
		fmt.Fprintf(&b, "  %s", u.Error)
	} else if u.Err != nil {
		fmt.Fprintf(&b, "  %s", u.Err)
	}

	return b.String()
}

func runProbe(ctx context.Context, cfg *CmdConfig, env *Env) error {
	targets, err := probeTargets(ctx, cfg, env)
	if err != nil {
		return err
	}

	batch, err := env.Prober.CheckAll(ctx, targets)
	if err != nil {
		return err
	}

	keys := make([]models.TargetKey, 0, len(batch.Results))
	for k := range batch.Results {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Kind != keys[j].Kind {
			return keys[i].Kind < keys[j].Kind
		}

		return keys[i].Host < keys[j].Host
	})

	if cfg.JSON {
		ordered := make([]reachability.Result, 0, len(keys))
		for _, k := range keys {
			ordered = append(ordered, batch.Results[k])
		}

		if err := json.NewEncoder(env.Out).Encode(map[string]interface{}{
			"any_reachable": batch.AnyReachable,
			"results":       ordered,
		}); err != nil {
			return err
		}
	} else {
		styles := newLogStyles()
		tw := tabwriter.NewWriter(env.Out, 0, 0, 2, ' ', 0)

		fmt.Fprintln(tw, "KIND\tHOST\tREACHABLE\tRTT\tERROR")

		for _, k := range keys {
			r := batch.Results[k]

			status := styles.error.Render("no")
			if r.Reachable {
				status = styles.success.Render("yes")
			}

			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", k.Kind, k.Host, status, r.RTT.Round(time.Microsecond), r.Error)
		}

		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if !batch.AnyReachable {
		return errNothingReachable
	}

	return nil
}

func probeTargets(ctx context.Context, cfg *CmdConfig, env *Env) ([]models.PingTarget, error) {
	if len(cfg.Args) > 0 {
		targets := make([]models.PingTarget, 0, len(cfg.Args))

		for _, raw := range cfg.Args {
			t, err := parseTarget(raw)
			if err != nil {
				return nil, err
			}

			targets = append(targets, t)
		}

		return targets, nil
	}

	targets, err := env.Store.GetReachabilityTargets(ctx)
	if err != nil {
		return nil, err
	}

	if len(targets) > 0 {
		return targets, nil
	}

	endpoints, err := env.Store.ListDeviceEndpoints(ctx)
	if err != nil {
		return nil, err
	}

	for i := range endpoints {
		targets = append(targets, endpoints[i].PingTarget())
	}

	if len(targets) == 0 {
		return nil, errNoTargets
	}

	return targets, nil
}

func runEndpoint(ctx context.Context, cfg *CmdConfig, env *Env) error {
	switch cfg.Action {
	case "list":
		endpoints, err := env.Store.ListDeviceEndpoints(ctx)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(env.Out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tKIND\tADDRESS\tPROTOCOL\tTOPICS")

		for i := range endpoints {
			ep := &endpoints[i]

			protocol, topics := "-", "-"
			if ep.Kind == models.TransportBroker {
				request, state := ep.Topics()
				protocol = string(ep.BrokerProtocolOrDefault())
				topics = request + " " + state
			}

			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", ep.ID, ep.Kind, ep.Address(), protocol, topics)
		}

		return tw.Flush()
	case "add":
		ep := models.DeviceEndpoint{
			ID:           cfg.EndpointID,
			Kind:         models.TransportKind(cfg.Kind),
			Host:         cfg.Host,
			Port:         cfg.Port,
			Protocol:     models.BrokerProtocol(cfg.Protocol),
			RequestTopic: cfg.RequestTopic,
			StateTopic:   cfg.StateTopic,
		}

		if ep.Port == 0 {
			ep.Port = defaultPort(&ep)
		}

		saved, err := env.Store.SaveDeviceEndpoint(ctx, ep)
		if err != nil {
			return err
		}

		fmt.Fprintf(env.Out, "Saved %s endpoint %s (%s)\n", saved.Kind, saved.Address(), saved.ID)

		return nil
	case "remove":
		if err := env.Store.DeleteDeviceEndpoint(ctx, cfg.EndpointID); err != nil {
			return err
		}

		fmt.Fprintf(env.Out, "Removed endpoint %s\n", cfg.EndpointID)

		return nil
	}

	return fmt.Errorf("%w: endpoint %s", errUnknownAction, cfg.Action)
}

func defaultPort(ep *models.DeviceEndpoint) int {
	switch {
	case ep.Kind == models.TransportDatagram:
		return models.DefaultDatagramPort
	case ep.BrokerProtocolOrDefault() == models.BrokerNATS:
		return models.DefaultNATSPort
	default:
		return models.DefaultMQTTPort
	}
}

func runBroker(ctx context.Context, cfg *CmdConfig, env *Env) error {
	creds := models.BrokerCredentials{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
	}

	if err := env.Store.SaveBrokerCredentials(ctx, creds); err != nil {
		return err
	}

	fmt.Fprintf(env.Out, "Saved broker credentials for %s:%d\n", creds.Host, creds.Port)

	return nil
}

func runTargets(ctx context.Context, cfg *CmdConfig, env *Env) error {
	if cfg.Action == "set" {
		targets := make([]models.PingTarget, 0, len(cfg.Args))

		for _, raw := range cfg.Args {
			t, err := parseTarget(raw)
			if err != nil {
				return err
			}

			targets = append(targets, t)
		}

		if err := env.Store.SaveReachabilityTargets(ctx, targets); err != nil {
			return err
		}
	}

	targets, err := env.Store.GetReachabilityTargets(ctx)
	if err != nil {
		return err
	}

	for _, t := range targets {
		fmt.Fprintln(env.Out, t.String())
	}

	return nil
}
