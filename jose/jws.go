// Copyright (c) 2025 Justin Cranford

package jose

import (
	"fmt"

	joseJwa "github.com/lestrrat-go/jwx/v3/jwa"
	joseJwk "github.com/lestrrat-go/jwx/v3/jwk"
	joseJws "github.com/lestrrat-go/jwx/v3/jws"

	itcryptoApperr "github.com/haggj/go-it-crypto/apperr"
)

// AlgES256 is the single JWS signature algorithm this protocol uses for all
// three nested signatures (shared header, SharedLog, AccessLog).
var AlgES256 = joseJwa.ES256()

// SignFlattened produces a flattened JWS over payload using signingKey and
// ES256, the only signature algorithm this protocol accepts for any signed layer.
func SignFlattened(signingKey joseJwk.Key, payload []byte) (FlattenedJWS, error) {
	if signingKey == nil {
		return FlattenedJWS{}, itcryptoApperr.Wrap(itcryptoApperr.ErrSigningFailed, "signing key is nil")
	}

	compact, err := joseJws.Sign(payload, joseJws.WithKey(AlgES256, signingKey))
	if err != nil {
		return FlattenedJWS{}, itcryptoApperr.Wrap(itcryptoApperr.ErrSigningFailed, fmt.Sprintf("ES256 sign failed: %v", err))
	}

	return fromCompact(string(compact))
}

// VerifyFlattened verifies a flattened JWS against verifyKey and ES256,
// returning the decoded payload on success.
func VerifyFlattened(jws FlattenedJWS, verifyKey joseJwk.Key) ([]byte, error) {
	if verifyKey == nil {
		return nil, itcryptoApperr.Wrap(itcryptoApperr.ErrAccessLogSignatureInvalid, "verification key is nil")
	}

	payload, err := joseJws.Verify([]byte(jws.Compact()), joseJws.WithKey(AlgES256, verifyKey))
	if err != nil {
		return nil, fmt.Errorf("ES256 signature verification failed: %w", err)
	}

	return payload, nil
}

// GenerateECDSAJWK wraps a fresh P-256 ECDSA keypair (signing + verification
// halves) as jwk.Key handles.
func GenerateECDSAJWK() (privateJWK joseJwk.Key, publicJWK joseJwk.Key, err error) {
	priv, err := generateECDSAP256()
	if err != nil {
		return nil, nil, itcryptoApperr.Wrap(itcryptoApperr.ErrBadKey, fmt.Sprintf("ECDSA P-256 key generation failed: %v", err))
	}

	privateJWK, err = joseJwk.Import(priv)
	if err != nil {
		return nil, nil, itcryptoApperr.Wrap(itcryptoApperr.ErrBadKey, fmt.Sprintf("cannot import ECDSA private key: %v", err))
	}

	publicJWK, err = joseJwk.PublicKeyOf(privateJWK)
	if err != nil {
		return nil, nil, itcryptoApperr.Wrap(itcryptoApperr.ErrBadKey, fmt.Sprintf("cannot derive ECDSA public key: %v", err))
	}

	return privateJWK, publicJWK, nil
}

// ImportSignatureJWK wraps a PEM-decoded public/private key as a jwk.Key for
// ES256 use, used when importing caller-provided signing keys.
func ImportSignatureJWK(rawKey any) (joseJwk.Key, error) {
	key, err := joseJwk.Import(rawKey)
	if err != nil {
		return nil, itcryptoApperr.Wrap(itcryptoApperr.ErrBadKey, fmt.Sprintf("cannot import signature key: %v", err))
	}

	return key, nil
}
