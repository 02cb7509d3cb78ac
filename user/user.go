// Copyright (c) 2025 Justin Cranford

// Package user is the top-level API surface of this module:
// AuthenticatedUser wraps the sign/encrypt/decrypt operations of the
// service package behind the identity that owns the private keys.
package user

import (
	"context"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"time"

	joseJwk "github.com/lestrrat-go/jwx/v3/jwk"

	itcryptoApperr "github.com/haggj/go-it-crypto/apperr"
	itcryptoJose "github.com/haggj/go-it-crypto/jose"
	itcryptoModel "github.com/haggj/go-it-crypto/model"
	itcryptoResolver "github.com/haggj/go-it-crypto/resolver"
	itcryptoService "github.com/haggj/go-it-crypto/service"
	itcryptoTelemetry "github.com/haggj/go-it-crypto/telemetry"
)

// AuthenticatedUser is a RemoteUser plus the private halves of its
// signing and encryption keypairs, able to act as a protocol participant:
// sign logs, share (encrypt) them, and open (decrypt) tokens addressed to
// it.
type AuthenticatedUser struct {
	itcryptoModel.RemoteUser
	signingKey    joseJwk.Key // private ES256 key
	decryptionKey joseJwk.Key // private ECDH key
	telemetry     *itcryptoTelemetry.Service
}

// GenerateAuthenticatedUser creates a fresh signing and encryption keypair
// for a new user id, each backed by an X.509 certificate valid for
// certValidity (see config.Settings.DemoCertValidity): the verification
// certificate is self-signed, the encryption certificate is issued by the
// same user's signing key. isMonitor marks
// whether this user is authorised to originate AccessLogs as a monitor.
func GenerateAuthenticatedUser(id string, isMonitor bool, certValidity time.Duration, telemetry *itcryptoTelemetry.Service) (AuthenticatedUser, error) {
	identity, err := itcryptoJose.GenerateSelfSignedIdentity(id, certValidity)
	if err != nil {
		return AuthenticatedUser{}, err
	}

	return AuthenticatedUser{
		RemoteUser: itcryptoModel.RemoteUser{
			ID:                      id,
			VerificationCertificate: identity.VerificationCertificate,
			EncryptionCertificate:   identity.EncryptionCertificate,
			IsMonitor:               isMonitor,
		},
		signingKey:    identity.SigningKey,
		decryptionKey: identity.DecryptionKey,
		telemetry:     telemetry,
	}, nil
}

// ImportRemoteUser builds a RemoteUser from PEM-encoded X.509 certificates,
// the shape a directory lookup (resolver.UserResolver) typically returns.
func ImportRemoteUser(id string, isMonitor bool, verificationCertPEM, encryptionCertPEM []byte) (itcryptoModel.RemoteUser, error) {
	verificationCert, err := itcryptoJose.ImportCertificatePEM(verificationCertPEM)
	if err != nil {
		return itcryptoModel.RemoteUser{}, err
	}

	encryptionCert, err := itcryptoJose.ImportCertificatePEM(encryptionCertPEM)
	if err != nil {
		return itcryptoModel.RemoteUser{}, err
	}

	return itcryptoModel.RemoteUser{
		ID:                      id,
		VerificationCertificate: verificationCert,
		EncryptionCertificate:   encryptionCert,
		IsMonitor:               isMonitor,
	}, nil
}

// ImportAuthenticatedUser builds an AuthenticatedUser from PEM-encoded
// private keys and their matching X.509 certificates, the shape a user
// loads its own long-term identity from.
func ImportAuthenticatedUser(id string, isMonitor bool, signingKeyPEM, verificationCertPEM, decryptionKeyPEM, encryptionCertPEM []byte, telemetry *itcryptoTelemetry.Service) (AuthenticatedUser, error) {
	signingRaw, err := parsePrivatePEM(signingKeyPEM)
	if err != nil {
		return AuthenticatedUser{}, err
	}

	signingKey, err := itcryptoJose.ImportSignatureJWK(signingRaw)
	if err != nil {
		return AuthenticatedUser{}, err
	}

	verificationCert, err := itcryptoJose.ImportCertificatePEM(verificationCertPEM)
	if err != nil {
		return AuthenticatedUser{}, err
	}

	decryptionRaw, err := parsePrivatePEM(decryptionKeyPEM)
	if err != nil {
		return AuthenticatedUser{}, err
	}

	decryptionKey, err := itcryptoJose.ImportEncryptionJWK(decryptionRaw)
	if err != nil {
		return AuthenticatedUser{}, err
	}

	encryptionCert, err := itcryptoJose.ImportCertificatePEM(encryptionCertPEM)
	if err != nil {
		return AuthenticatedUser{}, err
	}

	return AuthenticatedUser{
		RemoteUser: itcryptoModel.RemoteUser{
			ID:                      id,
			VerificationCertificate: verificationCert,
			EncryptionCertificate:   encryptionCert,
			IsMonitor:               isMonitor,
		},
		signingKey:    signingKey,
		decryptionKey: decryptionKey,
		telemetry:     telemetry,
	}, nil
}

// SigningKey returns the private ES256 key, e.g. for PEM export.
func (u AuthenticatedUser) SigningKey() joseJwk.Key { return u.signingKey }

// DecryptionKey returns the private ECDH key, e.g. for PEM export.
func (u AuthenticatedUser) DecryptionKey() joseJwk.Key { return u.decryptionKey }

// SignAccessLog signs log as the final AccessLog JWS layer.
func (u AuthenticatedUser) SignAccessLog(log itcryptoModel.AccessLog) (itcryptoModel.SignedLog, error) {
	bytes, err := log.ToBytes()
	if err != nil {
		return itcryptoModel.SignedLog{}, err
	}

	jws, err := itcryptoJose.SignFlattened(u.signingKey, bytes)
	if err != nil {
		return itcryptoModel.SignedLog{}, err
	}

	return itcryptoModel.NewSignedLog(jws), nil
}

// EncryptLog shares signedLog with receivers, signing the
// SharedLog wrapper as u.
func (u AuthenticatedUser) EncryptLog(signedLog itcryptoModel.SignedLog, receivers []itcryptoModel.RemoteUser) (string, error) {
	svc := itcryptoService.EncryptionService{Telemetry: u.telemetry}

	return svc.Encrypt(signedLog, u.ID, u.signingKey, receivers)
}

// DecryptLog opens token addressed to u, resolving claimed
// creator/monitor identities through users.
func (u AuthenticatedUser) DecryptLog(ctx context.Context, token string, users itcryptoResolver.UserResolver) (itcryptoModel.SignedLog, error) {
	svc := itcryptoService.DecryptionService{Telemetry: u.telemetry}

	return svc.Decrypt(ctx, token, u.ID, u.decryptionKey, users)
}

func parsePrivatePEM(data []byte) (any, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, itcryptoApperr.Wrap(itcryptoApperr.ErrBadKey, "not a valid PEM block")
	}

	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, itcryptoApperr.Wrap(itcryptoApperr.ErrBadKey, fmt.Sprintf("cannot parse private key: %v", err))
	}

	return key, nil
}
