// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"
	"io"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/holomush/examplemodule/internal/config"
	"github.com/holomush/examplemodule/internal/console"
	"github.com/holomush/examplemodule/internal/example"
	"github.com/holomush/examplemodule/internal/logging"
	"github.com/holomush/examplemodule/internal/observability"
	"github.com/holomush/examplemodule/internal/region"
	"github.com/holomush/examplemodule/internal/script"
	"github.com/holomush/examplemodule/internal/xdg"
	"github.com/holomush/examplemodule/pkg/errutil"
)

const shutdownTimeout = 5 * time.Second

// ObservabilityServer is the subset of observability.Server used by run.
type ObservabilityServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
	Metrics() *observability.Metrics
}

// RunDeps holds the injectable pieces of the run command.
// Nil fields get defaults.
type RunDeps struct {
	Stdin                      io.Reader
	Stdout                     io.Writer
	LogWriter                  io.Writer
	ObservabilityServerFactory func(addr string, ready observability.ReadinessChecker) ObservabilityServer
}

// NewRunCmd creates the run subcommand.
func NewRunCmd() *cobra.Command {
	var prompt string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the region host and its console",
		Long: `Load the example module, create the configured regions, and read
console commands from standard input until quit or end of input.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithDeps(cmd.Context(), cmd, prompt, &RunDeps{
				Stdin:     cmd.InOrStdin(),
				Stdout:    cmd.OutOrStdout(),
				LogWriter: cmd.ErrOrStderr(),
			})
		},
	}

	config.BindFlags(cmd.Flags())
	cmd.Flags().StringVar(&prompt, "prompt", console.DefaultPrompt, "console prompt (empty = none)")

	return cmd
}

// runWithDeps runs the host and console with injectable dependencies.
func runWithDeps(ctx context.Context, cmd *cobra.Command, prompt string, deps *RunDeps) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if deps.ObservabilityServerFactory == nil {
		deps.ObservabilityServerFactory = func(addr string, ready observability.ReadinessChecker) ObservabilityServer {
			return observability.NewServer(addr, ready)
		}
	}

	path, required, err := resolveConfigPath()
	if err != nil {
		return err
	}
	cfg, err := config.Load(config.LoadOptions{Path: path, Required: required, Flags: cmd.Flags()})
	if err != nil {
		return oops.Wrapf(err, "load configuration")
	}

	logger := logging.SetDefault(logging.Options{
		Service: "examplemodule",
		Version: version,
		Format:  cfg.LogFormat,
		Level:   logging.ParseLevel(cfg.LogLevel),
		Writer:  deps.LogWriter,
	})
	logger.Info("starting region host",
		"config", cfg.Path(),
		"host_version", cfg.HostVersion,
		"strict_arguments", cfg.StrictArguments)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	host, err := region.NewHost(cfg.HostVersion)
	if err != nil {
		return err
	}

	var metrics *observability.Metrics
	var obsServer ObservabilityServer
	if cfg.MetricsAddr != "" {
		obsServer = deps.ObservabilityServerFactory(cfg.MetricsAddr, host.Ready)
		errCh, err := obsServer.Start()
		if err != nil {
			return oops.Wrapf(err, "start observability server")
		}
		go monitorServerErrors(ctx, cancel, errCh, "observability")
		metrics = obsServer.Metrics()
	}

	shutdown := func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if err := host.Close(shutdownCtx); err != nil {
			errutil.LogError(shutdownCtx, logger, "error closing region host", err)
		}
		if obsServer != nil {
			if err := obsServer.Stop(shutdownCtx); err != nil {
				errutil.LogError(shutdownCtx, logger, "error stopping observability server", err)
			}
		}
		logger.Info("shutdown complete")
	}
	defer shutdown()

	module := example.New(example.WithLogger(logger))
	manifest, err := example.Manifest()
	if err != nil {
		return err
	}
	if err := host.Load(ctx, module, manifest, cfg.Koanf()); err != nil {
		return err
	}

	for _, r := range cfg.Regions {
		if _, err := host.AddScene(ctx, r.Name); err != nil {
			return err
		}
	}
	if metrics != nil {
		metrics.RegionsActive.Set(float64(len(host.Scenes())))
	}

	opts := []console.Option{
		console.WithPrompt(prompt),
		console.WithStrictArguments(cfg.StrictArguments),
		console.WithLogger(logger),
	}
	if metrics != nil {
		opts = append(opts, console.WithConnectHook(func(region string) {
			metrics.ClientsTotal.WithLabelValues(region).Inc()
		}))
	}
	con, err := console.New(host, opts...)
	if err != nil {
		return err
	}

	if err := loadScripts(ctx, logger, cfg, con); err != nil {
		return err
	}

	return con.Run(ctx, deps.Stdin, deps.Stdout)
}

// loadScripts registers each configured Lua script as a root console command.
func loadScripts(ctx context.Context, logger *slog.Logger, cfg *config.Config, con *console.Console) error {
	if len(cfg.Scripts) == 0 {
		return nil
	}
	base, err := xdg.ScriptsDir()
	if err != nil {
		return err
	}
	factory := script.NewStateFactory(logger)
	for _, sc := range cfg.Scripts {
		path := cfg.ResolvePath(sc.File, base)
		s, err := script.Load(ctx, factory, sc.Name, path)
		if err != nil {
			return err
		}
		if err := con.AddCommand(s.Command(sc.Help, sc.ArgumentSpecs())); err != nil {
			return err
		}
		logger.Info("loaded script command", "command", sc.Name, "path", path)
	}
	return nil
}

// monitorServerErrors cancels ctx when a background server fails.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case <-ctx.Done():
	case err, ok := <-errCh:
		if ok && err != nil {
			slog.Error("server error, triggering shutdown", "server", serverName, "error", err)
			cancel()
		}
	}
}
