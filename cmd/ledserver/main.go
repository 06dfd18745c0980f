package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	flag "github.com/spf13/pflag"

	"github.com/fcurrie/serpentine-led-golang/internal/admin"
	"github.com/fcurrie/serpentine-led-golang/internal/config"
	"github.com/fcurrie/serpentine-led-golang/internal/display"
	"github.com/fcurrie/serpentine-led-golang/internal/metrics"
	"github.com/fcurrie/serpentine-led-golang/internal/server"
	"github.com/fcurrie/serpentine-led-golang/pkg/strip"
)

func main() {
	configPath := flag.StringP("config", "c", "", "path to config file (.json, .jsonc, .yaml)")
	host := flag.String("host", "", "listen host, overrides config")
	port := flag.IntP("port", "p", 0, "listen port, overrides config")
	adminAddr := flag.String("admin", "", "admin HTTP address for /health, /status and /metrics")
	driverKind := flag.String("driver", "", "element driver: ws281x, spi or memory")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn, error")
	flag.Parse()

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *adminAddr != "" {
		cfg.Admin.Addr = *adminAddr
	}
	if *driverKind != "" {
		cfg.Driver.Kind = *driverKind
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if err := run(cfg); err != nil {
		log.Fatal(err)
	}
}

func run(cfg *config.Config) error {
	logger := cfg.NewLogger()

	open, err := strip.NewFactory(cfg.Driver, logger)
	if err != nil {
		return fmt.Errorf("failed to set up driver: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	srv := server.New(server.Config{
		ReadTimeout: cfg.ReadTimeout(),
		MaxElements: cfg.Server.MaxElements,
		Patterns: display.Options{
			HoldDelay:  cfg.HoldDelay(),
			SweepDelay: cfg.SweepDelay(),
		},
	}, open, server.WithLogger(logger), server.WithMetrics(metrics.New(reg)))

	ln, err := net.Listen("tcp", cfg.ListenAddr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.ListenAddr(), err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var adminSrv *http.Server
	if cfg.Admin.Addr != "" {
		adminSrv = &http.Server{
			Addr:              cfg.Admin.Addr,
			Handler:           admin.NewRouter(srv, reg),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("admin listening", "addr", cfg.Admin.Addr)
			if err := adminSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("admin server failed", "error", err)
			}
		}()
	}

	serveErr := srv.Serve(ctx, ln)
	logger.Info("shutting down")

	if adminSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := adminSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shut down admin server", "error", err)
		}
	}

	if err := srv.Close(); err != nil {
		logger.Error("failed to release matrix", "error", err)
	}
	return serveErr
}
