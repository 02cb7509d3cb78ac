// Copyright (c) 2025 Justin Cranford

package main

import (
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"

	joseJwk "github.com/lestrrat-go/jwx/v3/jwk"

	itcryptoModel "github.com/haggj/go-it-crypto/model"
	itcryptoUser "github.com/haggj/go-it-crypto/user"
)

// writePrivateKeyPEM extracts the raw private key behind jwkKey and writes
// it as a PKCS8 PEM file at path.
func writePrivateKeyPEM(jwkKey joseJwk.Key, path string) error {
	var raw any
	if err := jwkKey.Raw(&raw); err != nil {
		return fmt.Errorf("cannot extract raw key: %w", err)
	}

	der, err := x509.MarshalPKCS8PrivateKey(raw)
	if err != nil {
		return fmt.Errorf("cannot marshal PKCS8 private key: %w", err)
	}

	return os.WriteFile(path, pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), 0o600)
}

// writeCertificatePEM writes cert as a PEM-encoded X.509 certificate file at
// path, the form user records carry verification/encryption certificates in.
func writeCertificatePEM(cert *x509.Certificate, path string) error {
	return os.WriteFile(path, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: cert.Raw}), 0o644)
}

// signingKeyPath and decryptionKeyPath are the conventional private-key file
// names this CLI reads/writes for a user id under a keystore directory;
// verifyCertPath and encryptCertPath are the matching X.509 certificate
// files.
func signingKeyPath(dir, id string) string    { return filepath.Join(dir, id+".sign.pem") }
func decryptionKeyPath(dir, id string) string { return filepath.Join(dir, id+".enc.pem") }
func verifyCertPath(dir, id string) string    { return filepath.Join(dir, id+".sign.cert.pem") }
func encryptCertPath(dir, id string) string   { return filepath.Join(dir, id+".enc.cert.pem") }

// loadRemoteUser reads only the public certificates for id, the shape a
// resolver directory holds for parties other than the caller.
func loadRemoteUser(dir, id string, isMonitor bool) (itcryptoModel.RemoteUser, error) {
	verificationCertPEM, err := os.ReadFile(verifyCertPath(dir, id))
	if err != nil {
		return itcryptoModel.RemoteUser{}, fmt.Errorf("cannot read verification certificate for %s: %w", id, err)
	}

	encryptionCertPEM, err := os.ReadFile(encryptCertPath(dir, id))
	if err != nil {
		return itcryptoModel.RemoteUser{}, fmt.Errorf("cannot read encryption certificate for %s: %w", id, err)
	}

	return itcryptoUser.ImportRemoteUser(id, isMonitor, verificationCertPEM, encryptionCertPEM)
}

// loadAuthenticatedUser reads both private keys and both certificates for
// id, the shape the caller holds for its own identity.
func loadAuthenticatedUser(dir, id string, isMonitor bool) (itcryptoUser.AuthenticatedUser, error) {
	signingPEM, err := os.ReadFile(signingKeyPath(dir, id))
	if err != nil {
		return itcryptoUser.AuthenticatedUser{}, fmt.Errorf("cannot read signing key for %s: %w", id, err)
	}

	verificationCertPEM, err := os.ReadFile(verifyCertPath(dir, id))
	if err != nil {
		return itcryptoUser.AuthenticatedUser{}, fmt.Errorf("cannot read verification certificate for %s: %w", id, err)
	}

	decryptionPEM, err := os.ReadFile(decryptionKeyPath(dir, id))
	if err != nil {
		return itcryptoUser.AuthenticatedUser{}, fmt.Errorf("cannot read decryption key for %s: %w", id, err)
	}

	encryptionCertPEM, err := os.ReadFile(encryptCertPath(dir, id))
	if err != nil {
		return itcryptoUser.AuthenticatedUser{}, fmt.Errorf("cannot read encryption certificate for %s: %w", id, err)
	}

	return itcryptoUser.ImportAuthenticatedUser(id, isMonitor, signingPEM, verificationCertPEM, decryptionPEM, encryptionCertPEM, nil)
}
