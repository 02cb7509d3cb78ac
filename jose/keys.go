// Copyright (c) 2025 Justin Cranford

package jose

import (
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"fmt"

	joseJwk "github.com/lestrrat-go/jwx/v3/jwk"

	itcryptoApperr "github.com/haggj/go-it-crypto/apperr"
)

func generateECDSAP256() (*ecdsa.PrivateKey, error) {
	return ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
}

func generateECDHP256() (*ecdh.PrivateKey, error) {
	return ecdh.P256().GenerateKey(rand.Reader)
}

// GenerateECDHJWK wraps a fresh P-256 ECDH keypair (decryption + encryption
// halves) as jwk.Key handles.
func GenerateECDHJWK() (privateJWK joseJwk.Key, publicJWK joseJwk.Key, err error) {
	priv, err := generateECDHP256()
	if err != nil {
		return nil, nil, itcryptoApperr.Wrap(itcryptoApperr.ErrBadKey, fmt.Sprintf("ECDH P-256 key generation failed: %v", err))
	}

	privateJWK, err = joseJwk.Import(priv)
	if err != nil {
		return nil, nil, itcryptoApperr.Wrap(itcryptoApperr.ErrBadKey, fmt.Sprintf("cannot import ECDH private key: %v", err))
	}

	publicJWK, err = joseJwk.PublicKeyOf(privateJWK)
	if err != nil {
		return nil, nil, itcryptoApperr.Wrap(itcryptoApperr.ErrBadKey, fmt.Sprintf("cannot derive ECDH public key: %v", err))
	}

	return privateJWK, publicJWK, nil
}

// ImportEncryptionJWK wraps a PEM-decoded ECDH key as a jwk.Key for
// ECDH-ES+A256KW use.
func ImportEncryptionJWK(rawKey any) (joseJwk.Key, error) {
	key, err := joseJwk.Import(rawKey)
	if err != nil {
		return nil, itcryptoApperr.Wrap(itcryptoApperr.ErrBadKey, fmt.Sprintf("cannot import encryption key: %v", err))
	}

	return key, nil
}
