// Command neon-client-demo connects a single Project Neon client to a
// session, logs the events it receives, and auto-pings the host until
// interrupted.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KohanMathers/ProjectNeon/config"
	"github.com/KohanMathers/ProjectNeon/internal/core/client"
	"github.com/KohanMathers/ProjectNeon/internal/transport/udp"
	"github.com/KohanMathers/ProjectNeon/internal/util/logger"
	"github.com/KohanMathers/ProjectNeon/pkg/wire"
)

var log = logger.Logger("cmd.neon-client-demo")

const tickInterval = 100 * time.Millisecond

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "neon-client-demo: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to a JSON config file (optional)")
	relayAddr := flag.String("relay", "", "relay UDP address, overrides config")
	sessionID := flag.Uint("session", 0, "session id, overrides config")
	name := flag.String("name", "", "desired display name, overrides config")
	flag.Parse()

	cfg, err := loadClientConfig(*configPath)
	if err != nil {
		return err
	}
	if *relayAddr != "" {
		cfg.RelayAddr = *relayAddr
	}
	if *sessionID != 0 {
		cfg.SessionID = uint32(*sessionID)
	}
	if *name != "" {
		cfg.Name = *name
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	relayUDPAddr, err := net.ResolveUDPAddr("udp", cfg.RelayAddr)
	if err != nil {
		return fmt.Errorf("resolve relay addr: %w", err)
	}

	socket, err := udp.Listen(cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("bind %s: %w", cfg.ListenAddr, err)
	}

	opts := []client.Option{
		client.WithClientVersion(cfg.ClientVersion),
		client.WithGameIdentifier(cfg.GameIdentifier),
		client.WithAutoPing(cfg.AutoPing),
		client.WithHandler(client.Handler{
			OnPong: func(rttMillis int64, nowMillis uint64) {
				log.Info("pong", "rtt_ms", rttMillis)
			},
			OnSessionConfig: func(version uint8, tickRate, maxPacketSize uint16) {
				log.Info("session config", "version", version, "tick_rate", tickRate, "max_packet_size", maxPacketSize)
			},
			OnPacketTypeRegistry: func(entries []wire.PacketTypeEntry) {
				log.Info("packet type registry", "entries", len(entries))
			},
			OnUnhandledPacket: func(packetType wire.PacketType, fromClientID uint8) {
				log.Debug("unhandled packet", "type", packetType, "from", fromClientID)
			},
			OnWrongDestination: func(ownID, destinationID uint8) {
				log.Warn("wrong destination packet discarded", "own_id", ownID, "destination_id", destinationID)
			},
		}),
	}
	if cfg.Retry != nil {
		opts = append(opts, client.WithRetryPolicy(client.RetryPolicy{
			MaxAttempts: cfg.Retry.MaxAttempts,
			Backoff:     cfg.Retry.Backoff.Duration(),
		}))
	}

	cl, err := client.New(cfg.Name, opts...)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	connectTimeout := cfg.ConnectTimeout.Duration()
	var connectErr error
	if cfg.Retry != nil {
		connectErr = cl.ConnectWithRetry(socket, cfg.SessionID, relayUDPAddr, connectTimeout)
	} else {
		connectErr = cl.Connect(socket, cfg.SessionID, relayUDPAddr, connectTimeout)
	}
	if connectErr != nil {
		return fmt.Errorf("connect: %w", connectErr)
	}
	log.Info("connected", "client_id", cl.OwnID(), "session", cl.SessionID())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-signalCh
		log.Info("received signal, shutting down", "signal", sig)
		cancel()
	}()

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			if err := cl.Free(); err != nil {
				log.Warn("free error", "err", err)
			}
			return nil
		case <-ticker.C:
			cl.ProcessPackets()
		}
	}
}

func loadClientConfig(path string) (config.ClientConfig, error) {
	if path == "" {
		return config.DefaultClientConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return config.ClientConfig{}, fmt.Errorf("read config: %w", err)
	}
	cfg := config.DefaultClientConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return config.ClientConfig{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
