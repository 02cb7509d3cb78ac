// Copyright (c) 2025 Justin Cranford

package model

import (
	itcryptoJose "github.com/haggj/go-it-crypto/jose"
)

// SignedLog is an opaque handle holding a signed AccessLog: a flattened JWS
// whose payload is the AccessLog's canonical JSON. Construction already
// verified (or produced) the signature; Extract never re-verifies.
type SignedLog struct {
	jws itcryptoJose.FlattenedJWS
}

// NewSignedLog wraps an already-signed (or already-verified) flattened JWS
// as a SignedLog.
func NewSignedLog(jws itcryptoJose.FlattenedJWS) SignedLog {
	return SignedLog{jws: jws}
}

// JWS returns the underlying flattened JWS, e.g. to embed as the `log` field
// of a SharedLog.
func (s SignedLog) JWS() itcryptoJose.FlattenedJWS {
	return s.jws
}

// Extract base64url-decodes the JWS payload and parses it as an AccessLog.
// It performs no signature verification: that already happened either when
// this SignedLog was produced (AuthenticatedUser.SignAccessLog) or when it
// was recovered from a verified token (DecryptionService.Decrypt).
func (s SignedLog) Extract() (AccessLog, error) {
	payload, err := s.jws.DecodePayload()
	if err != nil {
		return AccessLog{}, err
	}

	return AccessLogFromBytes(payload)
}
