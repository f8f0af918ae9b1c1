// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wazo Platform Contributors

package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/wazo-platform/authkit/internal/config"
)

// NewConfigCmd creates the config subcommand group.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and validate the service configuration",
	}

	cmd.AddCommand(newConfigValidateCmd())
	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file against its schema",
		Long: `Loads the configuration file given with --config, validates it against
the JSON Schema, and exits non-zero on any error. Useful in CI and
packaging pipelines:
  authkit --config /etc/authkit/config.yml config validate`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true

			if configFile == "" {
				return oops.In("config").Errorf("--config is required")
			}
			if _, err := config.Load(configFile, nil); err != nil {
				return err
			}

			cmd.Printf("%s: valid\n", configFile)
			return nil
		},
	}
}

func newConfigShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Long: `Prints the configuration that results from layering defaults, the
--config file, and flag overrides.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true

			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}

			out, err := yaml.Marshal(cfg)
			if err != nil {
				return oops.In("config").Code("CONFIG_ENCODE_FAILED").Wrap(err)
			}

			cmd.Print(string(out))
			return nil
		},
	}

	registerOverrideFlags(cmd.Flags())

	return cmd
}
