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
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"golang.org/x/sync/errgroup"

	"github.com/carverauto/gatekeeper/pkg/lifecycle"
	"github.com/carverauto/gatekeeper/pkg/logger"
	"github.com/carverauto/gatekeeper/pkg/models"
	"github.com/carverauto/gatekeeper/pkg/simulator"
	"github.com/carverauto/gatekeeper/pkg/transport"
)

const (
	natsReadyWait  = 5 * time.Second
	connectTimeout = 5 * time.Second
)

var errNATSNotReady = errors.New("embedded NATS server not ready")

type options struct {
	udpAddr      string
	behavior     string
	releaseDelay time.Duration
	brokerHost   string
	brokerPort   int
	protocol     string
	requestTopic string
	stateTopic   string
	username     string
	password     string
	embeddedNATS bool
	logLevel     string
}

func main() {
	opts := parseFlags()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)

	if err := run(ctx, opts); err != nil && !errors.Is(err, context.Canceled) {
		cancel()
		log.Fatalf("Fatal error: %v", err) //nolint:gocritic // cancel is explicitly called before Fatalf
	}

	cancel()
}

func parseFlags() options {
	var opts options

	flag.StringVar(&opts.udpAddr, "udp", fmt.Sprintf(":%d", models.DefaultDatagramPort), "UDP listen address; empty disables the datagram device")
	flag.StringVar(&opts.behavior, "behavior", string(simulator.Normal),
		"reply behavior: normal, duplicate, release-first, activate-only, silent, garbage")
	flag.DurationVar(&opts.releaseDelay, "release-delay", simulator.DefaultReleaseDelay, "delay between activation and release")
	flag.StringVar(&opts.brokerHost, "broker-host", "", "broker host; empty disables the broker device")
	flag.IntVar(&opts.brokerPort, "broker-port", 0, "broker port (defaults per protocol)")
	flag.StringVar(&opts.protocol, "protocol", string(models.BrokerNATS), "broker protocol: mqtt or nats")
	flag.StringVar(&opts.requestTopic, "request-topic", "", "request topic (default per protocol)")
	flag.StringVar(&opts.stateTopic, "state-topic", "", "relay state topic (default per protocol)")
	flag.StringVar(&opts.username, "username", "", "broker username")
	flag.StringVar(&opts.password, "password", "", "broker password")
	flag.BoolVar(&opts.embeddedNATS, "embedded-nats", false, "start an in-process NATS server on -broker-port")
	flag.StringVar(&opts.logLevel, "log-level", "info", "log level")
	flag.Parse()

	return opts
}

func run(ctx context.Context, opts options) error {
	simLogger, err := lifecycle.CreateComponentLogger("device-sim", &logger.Config{Level: opts.logLevel, Output: "stdout"})
	if err != nil {
		return err
	}

	behavior, err := simulator.ParseBehavior(opts.behavior)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	if opts.udpAddr != "" {
		device, err := simulator.ListenUDP(opts.udpAddr, behavior, opts.releaseDelay, simLogger)
		if err != nil {
			return err
		}

		g.Go(func() error {
			return device.Serve(ctx)
		})
	}

	if opts.embeddedNATS {
		if opts.brokerHost == "" {
			opts.brokerHost = "127.0.0.1"
		}

		opts.protocol = string(models.BrokerNATS)

		srv, err := startNATS(opts, simLogger)
		if err != nil {
			return err
		}

		defer srv.Shutdown()
	}

	if opts.brokerHost != "" {
		ep := models.DeviceEndpoint{
			Kind:         models.TransportBroker,
			Host:         opts.brokerHost,
			Port:         opts.brokerPort,
			Protocol:     models.BrokerProtocol(opts.protocol),
			RequestTopic: opts.requestTopic,
			StateTopic:   opts.stateTopic,
		}

		if ep.Port == 0 {
			ep.Port = defaultBrokerPort(ep.BrokerProtocolOrDefault())
		}

		if err := ep.Validate(); err != nil {
			return err
		}

		var creds *models.BrokerCredentials
		if opts.username != "" {
			creds = &models.BrokerCredentials{Host: ep.Host, Port: ep.Port, Username: opts.username, Password: opts.password}
		}

		var client transport.BrokerClient
		if ep.BrokerProtocolOrDefault() == models.BrokerNATS {
			client = transport.NewNATSClient(ep, creds, connectTimeout)
		} else {
			client = transport.NewMQTTClient(ep, creds, connectTimeout)
		}

		request, state := ep.Topics()
		device := simulator.NewBrokerDevice(client, request, state, behavior, opts.releaseDelay, simLogger)

		g.Go(func() error {
			return device.Serve(ctx)
		})
	}

	return g.Wait()
}

func defaultBrokerPort(p models.BrokerProtocol) int {
	if p == models.BrokerNATS {
		return models.DefaultNATSPort
	}

	return models.DefaultMQTTPort
}

func startNATS(opts options, simLogger logger.Logger) (*server.Server, error) {
	port := opts.brokerPort
	if port == 0 {
		port = models.DefaultNATSPort
	}

	srvOpts := &server.Options{
		Host:     opts.brokerHost,
		Port:     port,
		Username: opts.username,
		Password: opts.password,
		NoSigs:   true,
	}

	srv, err := server.NewServer(srvOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create NATS server: %w", err)
	}

	go srv.Start()

	if !srv.ReadyForConnections(natsReadyWait) {
		srv.Shutdown()
		return nil, errNATSNotReady
	}

	addr := srv.Addr()
	if tcp, ok := addr.(*net.TCPAddr); ok {
		simLogger.Info().Str("host", tcp.IP.String()).Int("port", tcp.Port).Msg("Embedded NATS server ready")
	}

	return srv, nil
}
