// Command neon-relay runs a standalone Project Neon relay: it binds a UDP
// port and forwards datagrams between each session's host and clients
// without ever parsing their payloads.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/KohanMathers/ProjectNeon/config"
	"github.com/KohanMathers/ProjectNeon/internal/core/relay"
	"github.com/KohanMathers/ProjectNeon/internal/transport/udp"
	"github.com/KohanMathers/ProjectNeon/internal/util/logger"
)

var log = logger.Logger("cmd.neon-relay")

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "neon-relay: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to a JSON config file (optional)")
	listenAddr := flag.String("listen", "", "UDP address to bind, overrides config")
	metricsAddr := flag.String("metrics", "", "HTTP address for /metrics, overrides config")
	flag.Parse()

	cfg, err := loadRelayConfig(*configPath)
	if err != nil {
		return err
	}
	if *listenAddr != "" {
		cfg.ListenAddr = *listenAddr
	}
	if *metricsAddr != "" {
		cfg.MetricsAddr = *metricsAddr
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	socket, err := udp.Listen(cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("bind %s: %w", cfg.ListenAddr, err)
	}

	registry := prometheus.NewRegistry()
	server, err := relay.NewServer(socket, relay.WithMetricsRegisterer(registry))
	if err != nil {
		return err
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

	server.Run()
	log.Info("relay listening", "addr", cfg.ListenAddr)

	g, gctx := errgroup.WithContext(ctx)

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

	if cfg.StatsInterval > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(cfg.StatsInterval.Duration())
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					log.Info("relay stats", "sessions", server.SessionCount())
				}
			}
		})
	}

	<-ctx.Done()
	if err := server.Close(); err != nil {
		log.Warn("close error", "err", err)
	}

	return g.Wait()
}

func loadRelayConfig(path string) (config.RelayConfig, error) {
	if path == "" {
		return config.DefaultRelayConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return config.RelayConfig{}, fmt.Errorf("read config: %w", err)
	}
	cfg := config.DefaultRelayConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return config.RelayConfig{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
