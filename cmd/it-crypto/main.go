// Copyright (c) 2025 Justin Cranford

// Package main provides the it-crypto command-line entry point.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "it-crypto",
		Short: "Generate identities, sign, share, and open end-to-end encrypted access logs",
	}

	cmd.AddCommand(newGenerateUserCommand())
	cmd.AddCommand(newSignCommand())
	cmd.AddCommand(newShareCommand())
	cmd.AddCommand(newOpenCommand())

	return cmd
}
