// Copyright (c) 2025 Justin Cranford

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	itcryptoModel "github.com/haggj/go-it-crypto/model"
)

func newSignCommand() *cobra.Command {
	var keyDir string
	var monitorID string
	var ownerID string
	var tool string
	var justification string
	var timestamp int64
	var accessKind string
	var dataTypes string
	var logID string
	var out string

	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign an access log as its originating monitor",
		RunE: func(_ *cobra.Command, _ []string) error {
			monitor, err := loadAuthenticatedUser(keyDir, monitorID, true)
			if err != nil {
				return err
			}

			log := itcryptoModel.AccessLog{
				Monitor:       monitorID,
				Owner:         ownerID,
				Tool:          tool,
				Justification: justification,
				Timestamp:     timestamp,
				AccessKind:    accessKind,
				DataTypes:     splitNonEmpty(dataTypes),
				ID:            logID,
			}

			signed, err := monitor.SignAccessLog(log)
			if err != nil {
				return fmt.Errorf("cannot sign access log: %w", err)
			}

			return os.WriteFile(out, []byte(signed.JWS().Compact()), 0o644)
		},
	}

	cmd.Flags().StringVar(&keyDir, "key-dir", ".", "directory holding the monitor's key files")
	cmd.Flags().StringVar(&monitorID, "monitor", "", "monitor user id (required, signs as this user)")
	cmd.Flags().StringVar(&ownerID, "owner", "", "data owner user id (required)")
	cmd.Flags().StringVar(&tool, "tool", "", "tool that performed the access")
	cmd.Flags().StringVar(&justification, "justification", "", "reason for the access")
	cmd.Flags().Int64Var(&timestamp, "timestamp", 0, "unix timestamp of the access")
	cmd.Flags().StringVar(&accessKind, "access-kind", "READ", "kind of access performed")
	cmd.Flags().StringVar(&dataTypes, "data-types", "", "comma-separated data types accessed")
	cmd.Flags().StringVar(&logID, "log-id", "", "unique id for this access log entry")
	cmd.Flags().StringVar(&out, "out", "access-log.jws", "file to write the signed access log JWS to")

	return cmd
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))

	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
