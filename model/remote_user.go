// Copyright (c) 2025 Justin Cranford

package model

import (
	"crypto/x509"

	joseJwk "github.com/lestrrat-go/jwx/v3/jwk"

	itcryptoJose "github.com/haggj/go-it-crypto/jose"
)

// RemoteUser is the identity + certificate view of a party other than the
// caller: an id, its verification and encryption certificates (see
// user.GenerateAuthenticatedUser), and whether it is authorised to
// originate AccessLogs. RemoteUser lives in model rather than user so that
// resolver (which must return RemoteUser) and user (which must accept a
// resolver) don't import each other.
type RemoteUser struct {
	ID                      string
	VerificationCertificate *x509.Certificate // self-signed ES256 end-entity cert; its public key verifies this user's JWS signatures
	EncryptionCertificate   *x509.Certificate // end-entity cert issued by the same identity's signing key; its public key (ECDH) is used to encrypt to this user
	IsMonitor               bool
}

// VerificationKey returns the ES256 public key carried by
// VerificationCertificate, wrapped as a jwk.Key handle.
func (u RemoteUser) VerificationKey() (joseJwk.Key, error) {
	return itcryptoJose.PublicKeyFromCertificate(u.VerificationCertificate)
}

// EncryptionKey returns the ECDH public key carried by
// EncryptionCertificate, wrapped as a jwk.Key handle.
func (u RemoteUser) EncryptionKey() (joseJwk.Key, error) {
	return itcryptoJose.PublicKeyFromCertificate(u.EncryptionCertificate)
}
