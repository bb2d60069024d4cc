// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PanicPal Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/panicpal/panicpal/internal/catalog"
)

// NewCatalogCmd creates the catalog command group.
func NewCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Work with resource catalog files",
	}
	cmd.AddCommand(newCatalogValidateCmd())
	cmd.AddCommand(newCatalogSchemaCmd())
	cmd.AddCommand(newCatalogDefaultCmd())
	return cmd
}

func newCatalogValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a catalog file against the catalog schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := catalog.Load(args[0])
			if err != nil {
				cmd.PrintErrf("%s: %s\n", args[0], catalog.FormatSchemaError(err))
				return err
			}
			cmd.Printf("%s: ok (version %s, %d resources, %d coping tips)\n",
				args[0], f.Version, len(f.Resources), len(f.CopingTips))
			return nil
		},
	}
}

func newCatalogSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the catalog JSON Schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := catalog.GenerateSchema()
			if err != nil {
				return err
			}
			cmd.Println(string(data))
			return nil
		},
	}
}

func newCatalogDefaultCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "default",
		Short: "Print the built-in catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.Print(string(catalog.DefaultData()))
			return nil
		},
	}
}
