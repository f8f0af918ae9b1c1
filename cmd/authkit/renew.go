// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wazo Platform Contributors

package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wazo-platform/authkit/internal/authclient"
	"github.com/wazo-platform/authkit/internal/logging"
	"github.com/wazo-platform/authkit/internal/observability"
	"github.com/wazo-platform/authkit/internal/renewer"
	"github.com/wazo-platform/authkit/pkg/errutil"
)

const shutdownTimeout = 5 * time.Second

// NewRenewCmd creates the renew subcommand.
func NewRenewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "renew",
		Short: "Keep a service token renewed",
		Long: `Mints a service token against the authentication service and renews it
before expiration, until interrupted. When metrics are enabled, serves
Prometheus metrics and health probes; readiness reports whether a
current token exists.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return runRenew(cmd)
		},
	}

	registerOverrideFlags(cmd.Flags())

	return cmd
}

func runRenew(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}

	logging.SetDefault(cfg.Service, cmd.Root().Version, cfg.LogFormat)
	logger := slog.Default()

	client := authclient.New(cfg.AuthClientConfig(), logger)
	r := renewer.New(client, cfg.TokenExpirationDuration(), logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Enabled {
		obs := observability.NewServer(cfg.Metrics.ListenAddr, func() bool {
			return r.CurrentToken() != ""
		})

		errCh, err := obs.Start()
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if stopErr := obs.Stop(shutdownCtx); stopErr != nil {
				errutil.LogWarn(logger, "observability shutdown failed", stopErr)
			}
		}()

		go func() {
			if serveErr := <-errCh; serveErr != nil {
				errutil.LogError(logger, "observability server failed", serveErr)
			}
		}()
	}

	logger.Info("token renewal started",
		"auth_host", cfg.Auth.Host,
		"auth_port", cfg.Auth.Port,
		"expiration", cfg.TokenExpirationDuration().String())

	if err := r.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}

	logger.Info("token renewal stopped")
	return nil
}
