// Copyright (c) 2025 Justin Cranford

package jose

import (
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"time"

	joseJwk "github.com/lestrrat-go/jwx/v3/jwk"

	itcryptoApperr "github.com/haggj/go-it-crypto/apperr"
)

// GeneratedIdentity is the keypair-plus-certificate pair produced by
// GenerateSelfSignedIdentity: a signing keypair wrapped as a JWK private key
// handle with its self-signed verification certificate, and an encryption
// keypair with its certificate, issued by the signing key.
type GeneratedIdentity struct {
	SigningKey              joseJwk.Key
	VerificationCertificate *x509.Certificate
	DecryptionKey           joseJwk.Key
	EncryptionCertificate   *x509.Certificate
}

// GenerateSelfSignedIdentity creates a fresh ECDSA-P256 signing keypair and
// ECDH-P256 encryption keypair, then issues one end-entity certificate for
// each: CN set to id, serial number from crypto/rand, valid for the given
// window (see config.Settings.DemoCertValidity). The verification
// certificate is genuinely self-signed -- its own key signs it. The
// encryption certificate cannot be self-signed the same way, since an ECDH
// key has no Sign method, so the signing key issues it instead; both
// certificates still root back to the same user identity.
func GenerateSelfSignedIdentity(id string, validity time.Duration) (GeneratedIdentity, error) {
	signingPriv, err := generateECDSAP256()
	if err != nil {
		return GeneratedIdentity{}, itcryptoApperr.Wrap(itcryptoApperr.ErrBadKey, fmt.Sprintf("ECDSA P-256 key generation failed: %v", err))
	}

	decryptionPriv, err := generateECDHP256()
	if err != nil {
		return GeneratedIdentity{}, itcryptoApperr.Wrap(itcryptoApperr.ErrBadKey, fmt.Sprintf("ECDH P-256 key generation failed: %v", err))
	}

	verificationCert, err := issueCertificate(id, &signingPriv.PublicKey, signingPriv, x509.KeyUsageDigitalSignature, validity)
	if err != nil {
		return GeneratedIdentity{}, err
	}

	encryptionCert, err := issueCertificate(id, decryptionPriv.PublicKey(), signingPriv, x509.KeyUsageKeyAgreement, validity)
	if err != nil {
		return GeneratedIdentity{}, err
	}

	signingJWK, err := joseJwk.Import(signingPriv)
	if err != nil {
		return GeneratedIdentity{}, itcryptoApperr.Wrap(itcryptoApperr.ErrBadKey, fmt.Sprintf("cannot import ECDSA private key: %v", err))
	}

	decryptionJWK, err := joseJwk.Import(decryptionPriv)
	if err != nil {
		return GeneratedIdentity{}, itcryptoApperr.Wrap(itcryptoApperr.ErrBadKey, fmt.Sprintf("cannot import ECDH private key: %v", err))
	}

	return GeneratedIdentity{
		SigningKey:              signingJWK,
		VerificationCertificate: verificationCert,
		DecryptionKey:           decryptionJWK,
		EncryptionCertificate:   encryptionCert,
	}, nil
}

// issueCertificate signs a self-signed-shaped end-entity certificate
// (CN = id, one subject key, not a CA) for pub using signer.
func issueCertificate(id string, pub any, signer any, keyUsage x509.KeyUsage, validity time.Duration) (*x509.Certificate, error) {
	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, itcryptoApperr.Wrap(itcryptoApperr.ErrBadKey, fmt.Sprintf("cannot generate certificate serial: %v", err))
	}

	now := time.Now()
	template := &x509.Certificate{
		SerialNumber: serial,
		Subject:      pkix.Name{CommonName: id},
		NotBefore:    now,
		NotAfter:     now.Add(validity),
		KeyUsage:     keyUsage,
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, pub, signer)
	if err != nil {
		return nil, itcryptoApperr.Wrap(itcryptoApperr.ErrBadKey, fmt.Sprintf("cannot issue certificate for %s: %v", id, err))
	}

	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, itcryptoApperr.Wrap(itcryptoApperr.ErrBadKey, fmt.Sprintf("cannot parse issued certificate for %s: %v", id, err))
	}

	return cert, nil
}

// PublicKeyFromCertificate wraps cert's public key as a jwk.Key handle, the
// form this package's JWS/JWE helpers operate on.
func PublicKeyFromCertificate(cert *x509.Certificate) (joseJwk.Key, error) {
	if cert == nil {
		return nil, itcryptoApperr.Wrap(itcryptoApperr.ErrBadKey, "certificate is nil")
	}

	key, err := joseJwk.Import(cert.PublicKey)
	if err != nil {
		return nil, itcryptoApperr.Wrap(itcryptoApperr.ErrBadKey, fmt.Sprintf("cannot import certificate public key: %v", err))
	}

	return key, nil
}

// ImportCertificatePEM parses a PEM-encoded X.509 certificate, the form
// user records carry verification/encryption certificates in.
func ImportCertificatePEM(data []byte) (*x509.Certificate, error) {
	block, _ := pem.Decode(data)
	if block == nil || block.Type != "CERTIFICATE" {
		return nil, itcryptoApperr.Wrap(itcryptoApperr.ErrBadKey, "not a valid PEM certificate block")
	}

	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, itcryptoApperr.Wrap(itcryptoApperr.ErrBadKey, fmt.Sprintf("cannot parse certificate: %v", err))
	}

	return cert, nil
}
