// Copyright (c) 2025 Justin Cranford

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	itcryptoResolver "github.com/haggj/go-it-crypto/resolver"
)

func newOpenCommand() *cobra.Command {
	var keyDir string
	var receiverID string
	var tokenPath string
	var knownUsers string
	var monitorUsers string

	cmd := &cobra.Command{
		Use:   "open",
		Short: "Decrypt and verify a shared access log token",
		RunE: func(_ *cobra.Command, _ []string) error {
			receiver, err := loadAuthenticatedUser(keyDir, receiverID, false)
			if err != nil {
				return err
			}

			token, err := os.ReadFile(tokenPath)
			if err != nil {
				return fmt.Errorf("cannot read token: %w", err)
			}

			monitorSet := make(map[string]bool)
			for _, id := range splitNonEmpty(monitorUsers) {
				monitorSet[id] = true
			}

			users := make(itcryptoResolver.Map)

			for _, id := range splitNonEmpty(knownUsers) {
				remote, err := loadRemoteUser(keyDir, id, monitorSet[id])
				if err != nil {
					return err
				}

				users[id] = remote
			}

			opened, err := receiver.DecryptLog(context.Background(), strings.TrimSpace(string(token)), users)
			if err != nil {
				return fmt.Errorf("cannot open token: %w", err)
			}

			log, err := opened.Extract()
			if err != nil {
				return fmt.Errorf("cannot extract access log: %w", err)
			}

			raw, err := log.ToJSON()
			if err != nil {
				return err
			}

			fmt.Println(raw)

			return nil
		},
	}

	cmd.Flags().StringVar(&keyDir, "key-dir", ".", "directory holding key files")
	cmd.Flags().StringVar(&receiverID, "receiver", "", "user id opening the token (required)")
	cmd.Flags().StringVar(&tokenPath, "token", filepath.Join(".", "shared-log.jwe"), "path to the encrypted token produced by share")
	cmd.Flags().StringVar(&knownUsers, "known-users", "", "comma-separated ids the resolver can look up")
	cmd.Flags().StringVar(&monitorUsers, "monitor-users", "", "comma-separated subset of known-users authorised as monitors")

	return cmd
}
