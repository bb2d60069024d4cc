// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PanicPal Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/panicpal/panicpal/internal/config"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the PanicPal CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "panicpal",
		Short: "PanicPal - anxiety support dashboard",
		Long: `PanicPal keeps a directory of support resources (coping strategies,
hotlines and therapist referrals) and a private log of support interactions
for each registered user.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(NewShellCmd())
	cmd.AddCommand(NewCatalogCmd())

	return cmd
}
