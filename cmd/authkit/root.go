// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wazo Platform Contributors

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/wazo-platform/authkit/internal/config"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the authkit CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "authkit",
		Short: "Wazo authentication toolkit",
		Long: `Authkit verifies tokens and tenants against the Wazo authentication
service, evaluates ACL patterns, and keeps service tokens renewed.`,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(NewACLCmd())
	cmd.AddCommand(NewConfigCmd())
	cmd.AddCommand(NewRenewCmd())

	return cmd
}

// registerOverrideFlags declares the flags that overlay file configuration.
// Flag names mirror koanf keys and defaults mirror config.Default(), so an
// unset flag never masks a value from the file.
func registerOverrideFlags(flags *pflag.FlagSet) {
	def := config.Default()

	flags.String("service", def.Service, "service name reported in logs and metrics")
	flags.String("log_format", def.LogFormat, "log format (json or text)")
	flags.Int("token_expiration", def.TokenExpiration, "service token lifetime in seconds")
	flags.String("auth.host", def.Auth.Host, "authentication service host")
	flags.Int("auth.port", def.Auth.Port, "authentication service port")
	flags.Bool("auth.https", def.Auth.HTTPS, "use HTTPS towards the authentication service")
	flags.String("auth.prefix", def.Auth.Prefix, "URL prefix of the authentication service")
	flags.Bool("auth.verify_certificate", def.Auth.VerifyCertificate, "verify the authentication service certificate")
	flags.Bool("metrics.enabled", def.Metrics.Enabled, "serve metrics and health endpoints")
	flags.String("metrics.listen_addr", def.Metrics.ListenAddr, "metrics listen address")
}

func loadConfig(flags *pflag.FlagSet) (config.Config, error) {
	return config.Load(configFile, flags)
}
