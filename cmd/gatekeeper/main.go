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
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/carverauto/gatekeeper/pkg/api"
	srHttp "github.com/carverauto/gatekeeper/pkg/http"
	"github.com/carverauto/gatekeeper/pkg/lifecycle"
	"github.com/carverauto/gatekeeper/pkg/service"
	"github.com/carverauto/gatekeeper/pkg/version"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", "/etc/gatekeeper/gatekeeper.json", "Path to gatekeeper config file")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	cfg, err := service.LoadConfig(ctx, *configPath, nil)
	if err != nil {
		return err
	}

	mainLogger, err := lifecycle.CreateComponentLogger("gatekeeper", cfg.Logging)
	if err != nil {
		return err
	}

	mainLogger.Info().Str("version", version.Get().String()).Msg("Starting gatekeeper")

	svc, err := service.New(ctx, cfg, mainLogger)
	if err != nil {
		return err
	}

	defer func() {
		if err := svc.Close(); err != nil {
			mainLogger.Error().Err(err).Msg("Failed to close service")
		}
	}()

	server := api.NewServer(
		svc.Orchestrator,
		svc.Prober,
		svc.Store,
		srHttp.CORSConfig{AllowedOrigins: cfg.AllowedOrigins},
		mainLogger,
	)

	errCh := make(chan error, 1)

	go func() {
		errCh <- server.Start(cfg.ListenAddr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	mainLogger.Info().Msg("Shutting down gatekeeper")

	return server.Shutdown(context.Background())
}
