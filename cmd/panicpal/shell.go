// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PanicPal Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/panicpal/panicpal/internal/catalog"
	"github.com/panicpal/panicpal/internal/config"
	"github.com/panicpal/panicpal/internal/directory"
	"github.com/panicpal/panicpal/internal/logging"
	"github.com/panicpal/panicpal/internal/observability"
)

// shutdownTimeout bounds the observability server shutdown.
const shutdownTimeout = 5 * time.Second

// NewShellCmd creates the shell subcommand.
func NewShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive dashboard",
		Long: `Start an interactive session: register, log in, browse support
resources and keep a history of support interactions.
Type "help" at the prompt for the list of commands.`,
		Args: cobra.NoArgs,
		RunE: runShell,
	}
}

func runShell(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		cmd.PrintErrf("invalid configuration: %v\n", err)
		return err
	}

	logger := logging.SetDefault("panicpal", version, cfg.LogFormat, cmd.ErrOrStderr())
	ctx := cmd.Context()

	hasher, err := cfg.Hasher()
	if err != nil {
		return err
	}

	store := directory.NewMemoryStore()
	svc, err := directory.NewService(store, store, hasher,
		directory.WithLogger(logger),
		directory.WithLockout(cfg.Lockout))
	if err != nil {
		return oops.With("operation", "create directory service").Wrap(err)
	}

	var seeded atomic.Bool
	var metrics *observability.Metrics
	if cfg.MetricsAddr != "" {
		server := observability.NewServer(cfg.MetricsAddr, seeded.Load)
		errCh, startErr := server.Start()
		if startErr != nil {
			return oops.With("operation", "start observability server").Wrap(startErr)
		}
		go func() {
			for serveErr := range errCh {
				logger.Error("observability server failed", "error", serveErr)
			}
		}()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer cancel()
			if stopErr := server.Stop(stopCtx); stopErr != nil {
				logger.Warn("observability server shutdown failed", "error", stopErr)
			}
		}()
		metrics = server.Metrics()
	}

	cat, err := loadCatalog(cfg.Catalog)
	if err != nil {
		cmd.PrintErrf("invalid catalog: %s\n", catalog.FormatSchemaError(err))
		return err
	}
	if _, err := catalog.Seed(ctx, svc, cat); err != nil {
		return oops.With("operation", "seed catalog").Wrap(err)
	}
	seeded.Store(true)

	sh := newShell(svc, cfg.Password, cat, metrics, logger, cmd.InOrStdin(), cmd.OutOrStdout())
	return sh.run(ctx)
}

func loadCatalog(path string) (*catalog.File, error) {
	if path == "" {
		return catalog.Default()
	}
	slog.Debug("loading catalog", "path", path)
	return catalog.Load(path)
}

// stdinFd returns the file descriptor behind r, or -1 if r is not a file.
func stdinFd(r any) int {
	if f, ok := r.(*os.File); ok {
		return int(f.Fd())
	}
	return -1
}
