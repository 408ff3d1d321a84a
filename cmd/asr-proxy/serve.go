package main

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/kbukum/asr-proxy/bootstrap"
	"github.com/kbukum/asr-proxy/config"
	"github.com/kbukum/asr-proxy/logger"
	"github.com/kbukum/asr-proxy/metrics"
	"github.com/kbukum/asr-proxy/observability"
	"github.com/kbukum/asr-proxy/proxy"
	"github.com/kbukum/asr-proxy/server"
	"github.com/kbukum/asr-proxy/transcription"
	"github.com/kbukum/asr-proxy/transcription/whisperasr"
	"github.com/kbukum/asr-proxy/version"
)

func newServeCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the proxy (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadProxy(f.loaderOptions()...)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if f.port != 0 {
				cfg.Server.Port = f.port
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.ProxyConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Version == "" {
		cfg.Version = version.Short()
	}

	app, err := bootstrap.NewApp(cfg, bootstrap.WithGracefulTimeout(gracefulTimeout(cfg)))
	if err != nil {
		return err
	}

	shutdownTelemetry, err := observability.Init(ctx, cfg.Telemetry, cfg.Name, cfg.Version, cfg.Environment)
	if err != nil {
		return err
	}
	app.OnStop(bootstrap.Hook(shutdownTelemetry))

	if _, err := wire(app, prometheus.NewRegistry()); err != nil {
		return err
	}
	return app.Run(ctx)
}

// gracefulTimeout leaves room for the other components after the HTTP
// server has used its own shutdown window.
func gracefulTimeout(cfg *config.ProxyConfig) time.Duration {
	return time.Duration(cfg.Server.ShutdownTimeout)*time.Second + 5*time.Second
}

// wire builds the backend, the HTTP server and the handlers, and registers
// them on app. The backend is registered first so it stops last.
func wire(app *bootstrap.App[*config.ProxyConfig], reg *prometheus.Registry) (*server.Server, error) {
	cfg := app.Cfg

	backends := transcription.NewRegistry()
	whisperasr.Register(backends)
	backend, err := backends.Create(cfg.Whisper.Backend, map[string]any{
		"url":     cfg.Whisper.URL,
		"timeout": cfg.RequestTimeout(),
	})
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	telemetry, err := observability.NewMetrics(observability.Meter(cfg.Name))
	if err != nil {
		return nil, err
	}

	srv := server.New(cfg.Server, app.Logger)
	srv.ApplyMiddleware()

	handler := proxy.NewHandler(backend,
		proxy.WithMetrics(metrics.New(reg)),
		proxy.WithTelemetry(telemetry),
		proxy.WithLogger(app.Logger),
		proxy.WithDebug(cfg.Debug),
	)
	handler.RegisterRoutes(srv.GinEngine())
	srv.RegisterDefaultEndpoints(cfg.Name, app.Components.HealthAll, reg, map[string]string{
		"backend":     backend.Name(),
		"backend_url": cfg.Whisper.URL,
	})

	app.OnReady(func(ctx context.Context) error {
		app.Logger.Info("Accepting transcription requests", logger.Fields(
			"addr", srv.Addr(),
			logger.FieldBackend, backend.Name(),
			"backend_url", cfg.Whisper.URL,
		))
		return nil
	})

	if err := app.RegisterComponent(backend); err != nil {
		return nil, err
	}
	if err := app.RegisterComponent(server.NewComponent(srv)); err != nil {
		return nil, err
	}
	return srv, nil
}
