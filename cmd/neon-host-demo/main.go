// Command neon-host-demo runs a standalone Project Neon host: it
// registers itself as client_id 1 with a relay, accepts connecting
// clients, assigns them IDs, and answers their pings.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/KohanMathers/ProjectNeon/config"
	"github.com/KohanMathers/ProjectNeon/internal/core/host"
	"github.com/KohanMathers/ProjectNeon/internal/transport/udp"
	"github.com/KohanMathers/ProjectNeon/internal/util/logger"
	"github.com/KohanMathers/ProjectNeon/pkg/wire"
)

var log = logger.Logger("cmd.neon-host-demo")

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "neon-host-demo: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to a JSON config file (optional)")
	relayAddr := flag.String("relay", "", "relay UDP address, overrides config")
	sessionID := flag.Uint("session", 0, "session id, overrides config")
	flag.Parse()

	cfg, err := loadHostConfig(*configPath)
	if err != nil {
		return err
	}
	if *relayAddr != "" {
		cfg.RelayAddr = *relayAddr
	}
	if *sessionID != 0 {
		cfg.SessionID = uint32(*sessionID)
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

	registry := prometheus.NewRegistry()
	opts := []host.Option{
		host.WithMetricsRegisterer(registry),
		host.WithHandler(host.Handler{
			OnClientConnect: func(clientID uint8, name string, sessionID uint32) {
				log.Info("client connected", "client_id", clientID, "name", name)
			},
			OnClientDeny: func(name, reason string) {
				log.Info("client denied", "name", name, "reason", reason)
			},
		}),
	}
	if cfg.SessionTickRate > 0 {
		opts = append(opts, host.WithSessionConfig(wire.SessionConfig{
			Version:       cfg.SessionConfigVersion,
			TickRate:      cfg.SessionTickRate,
			MaxPacketSize: cfg.MaxPacketSize,
		}))
	}

	h, err := host.New(socket, cfg.SessionID, relayUDPAddr, opts...)
	if err != nil {
		return fmt.Errorf("create host: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-signalCh
		log.Info("received signal, shutting down", "signal", sig)
		cancel()
	}()

	h.Start()
	log.Info("host registered", "session", cfg.SessionID, "relay", cfg.RelayAddr)

	g, gctx := errgroup.WithContext(ctx)

	if cfg.StatsInterval > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(cfg.StatsInterval.Duration())
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					log.Info("host stats", "clients", h.ClientCount())
				}
			}
		})
	}

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		metricsSrv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux}
		g.Go(func() error {
			log.Info("metrics listening", "addr", cfg.MetricsAddr)
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return metricsSrv.Shutdown(shutdownCtx)
		})
	}

	<-ctx.Done()
	if err := h.Close(); err != nil {
		log.Warn("close error", "err", err)
	}

	return g.Wait()
}

func loadHostConfig(path string) (config.HostConfig, error) {
	if path == "" {
		return config.DefaultHostConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return config.HostConfig{}, fmt.Errorf("read config: %w", err)
	}
	cfg := config.DefaultHostConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return config.HostConfig{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
