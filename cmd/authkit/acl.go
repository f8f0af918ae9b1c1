// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wazo Platform Contributors

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wazo-platform/authkit/internal/acl"
)

// aclCheckConfig holds flags for the acl check subcommand.
type aclCheckConfig struct {
	acls      []string
	principal string
	session   string
}

// NewACLCmd creates the acl subcommand group.
func NewACLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "acl",
		Short: "Evaluate ACL patterns",
	}

	cmd.AddCommand(newACLCheckCmd())

	return cmd
}

func newACLCheckCmd() *cobra.Command {
	cfg := &aclCheckConfig{}

	cmd := &cobra.Command{
		Use:   "check <required-access>",
		Short: "Check a required access against a set of ACL patterns",
		Long: `Compiles the given ACL patterns for a principal and reports whether
they grant the required access. Exits with code 0 when access is
granted, non-zero when it is denied.

Example:
  authkit acl check confd.users.123.read \
    --acl 'confd.users.me.read' --acl '!confd.users.*.delete' \
    --principal 123`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runACLCheck(cmd, cfg, args[0])
		},
	}

	cmd.Flags().StringArrayVar(&cfg.acls, "acl", nil, "ACL pattern granted to the principal (repeatable)")
	cmd.Flags().StringVar(&cfg.principal, "principal", "", "principal UUID substituted for 'me'")
	cmd.Flags().StringVar(&cfg.session, "session", "", "session UUID substituted for 'my_session'")

	return cmd
}

func runACLCheck(cmd *cobra.Command, cfg *aclCheckConfig, required string) error {
	check, err := acl.NewAccessCheck(cfg.principal, cfg.session, cfg.acls)
	if err != nil {
		return err
	}

	if !check.MatchesRequiredAccess(required) {
		cmd.SilenceUsage = true
		return fmt.Errorf("denied: no ACL grants %q", required)
	}

	cmd.Printf("granted: %s\n", required)
	return nil
}
