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

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/carverauto/gatekeeper/pkg/cli"
	"github.com/carverauto/gatekeeper/pkg/lifecycle"
	"github.com/carverauto/gatekeeper/pkg/logger"
	"github.com/carverauto/gatekeeper/pkg/service"
	"github.com/carverauto/gatekeeper/pkg/version"
)

func main() {
	cfg, err := cli.ParseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		cli.ShowHelp(os.Stderr)
		os.Exit(2)
	}

	if cfg.Version {
		fmt.Println("gatectl", version.Get())
		return
	}

	if cfg.Help {
		cli.ShowHelp(os.Stdout)
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)

	if err := run(ctx, cfg); err != nil {
		cancel()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cancel()
}

func run(ctx context.Context, cfg *cli.CmdConfig) error {
	svcCfg, err := service.LoadConfig(ctx, cfg.ConfigFile, nil)
	if err != nil {
		return err
	}

	// Keep stdout for command output and the TUI.
	logCfg := &logger.Config{Level: "warn", Output: "stderr"}
	if svcCfg.Logging != nil {
		logCfg = svcCfg.Logging
		logCfg.Output = "stderr"
	}

	log, err := lifecycle.CreateComponentLogger("gatectl", logCfg)
	if err != nil {
		return err
	}

	svc, err := service.New(ctx, svcCfg, log)
	if err != nil {
		return err
	}

	defer func() {
		_ = svc.Close()
	}()

	return cli.Run(ctx, cfg, &cli.Env{
		Store:   svc.Store,
		Prober:  svc.Prober,
		Trigger: svc.Orchestrator,
		Out:     os.Stdout,
	})
}
