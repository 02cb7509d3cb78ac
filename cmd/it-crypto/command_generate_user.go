// Copyright (c) 2025 Justin Cranford

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	itcryptoConfig "github.com/haggj/go-it-crypto/config"
	itcryptoUser "github.com/haggj/go-it-crypto/user"
)

func newGenerateUserCommand() *cobra.Command {
	var id string
	var monitor bool
	var outDir string
	var certValidity time.Duration

	cmd := &cobra.Command{
		Use:   "generate-user",
		Short: "Generate a fresh signing/encryption identity for a user id",
		RunE: func(_ *cobra.Command, _ []string) error {
			if id == "" {
				return fmt.Errorf("--id is required")
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("cannot create output directory: %w", err)
			}

			authUser, err := itcryptoUser.GenerateAuthenticatedUser(id, monitor, certValidity, nil)
			if err != nil {
				return fmt.Errorf("cannot generate user: %w", err)
			}

			if err := writePrivateKeyPEM(authUser.SigningKey(), signingKeyPath(outDir, id)); err != nil {
				return err
			}

			if err := writePrivateKeyPEM(authUser.DecryptionKey(), decryptionKeyPath(outDir, id)); err != nil {
				return err
			}

			if err := writeCertificatePEM(authUser.VerificationCertificate, verifyCertPath(outDir, id)); err != nil {
				return err
			}

			if err := writeCertificatePEM(authUser.EncryptionCertificate, encryptCertPath(outDir, id)); err != nil {
				return err
			}

			fmt.Printf("generated user %q (monitor=%v) under %s\n", id, monitor, outDir)

			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "user id (required)")
	cmd.Flags().BoolVar(&monitor, "monitor", false, "mark this user authorised to originate access logs")
	cmd.Flags().StringVar(&outDir, "out-dir", ".", "directory to write the generated key/certificate files into")
	cmd.Flags().DurationVar(&certValidity, "cert-validity", itcryptoConfig.DefaultDemoCertValidity, "validity window for the generated self-signed certificates")

	return cmd
}
