// Copyright (c) 2025 Justin Cranford

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	itcryptoJose "github.com/haggj/go-it-crypto/jose"
	itcryptoModel "github.com/haggj/go-it-crypto/model"
)

func newShareCommand() *cobra.Command {
	var keyDir string
	var senderID string
	var senderIsMonitor bool
	var accessLogPath string
	var receivers string
	var out string

	cmd := &cobra.Command{
		Use:   "share",
		Short: "Encrypt a signed access log to one or more receivers",
		RunE: func(_ *cobra.Command, _ []string) error {
			receiverIDs := splitNonEmpty(receivers)
			if len(receiverIDs) == 0 {
				return fmt.Errorf("--receivers must list at least one user id")
			}

			sender, err := loadAuthenticatedUser(keyDir, senderID, senderIsMonitor)
			if err != nil {
				return err
			}

			compact, err := os.ReadFile(accessLogPath)
			if err != nil {
				return fmt.Errorf("cannot read access log JWS: %w", err)
			}

			jws, err := itcryptoJose.ParseCompact(strings.TrimSpace(string(compact)))
			if err != nil {
				return fmt.Errorf("access log is not a valid compact JWS: %w", err)
			}

			signed := itcryptoModel.NewSignedLog(jws)

			receiverUsers := make([]itcryptoModel.RemoteUser, 0, len(receiverIDs))

			for _, id := range receiverIDs {
				remote, err := loadRemoteUser(keyDir, id, false)
				if err != nil {
					return err
				}

				receiverUsers = append(receiverUsers, remote)
			}

			token, err := sender.EncryptLog(signed, receiverUsers)
			if err != nil {
				return fmt.Errorf("cannot encrypt shared log: %w", err)
			}

			return os.WriteFile(out, []byte(token), 0o644)
		},
	}

	cmd.Flags().StringVar(&keyDir, "key-dir", ".", "directory holding key files")
	cmd.Flags().StringVar(&senderID, "sender", "", "user id performing the share (required)")
	cmd.Flags().BoolVar(&senderIsMonitor, "sender-is-monitor", false, "whether the sender is a monitor identity")
	cmd.Flags().StringVar(&accessLogPath, "access-log", "access-log.jws", "path to the signed access log JWS produced by sign")
	cmd.Flags().StringVar(&receivers, "receivers", "", "comma-separated receiver user ids (required)")
	cmd.Flags().StringVar(&out, "out", "shared-log.jwe", "file to write the encrypted token to")

	return cmd
}
