// Copyright (c) 2025 Justin Cranford

// Package jose wraps lestrrat-go/jwx/v3 with the small, typed surface this
// protocol needs: flattened JWS sign/verify and general-JSON multi-recipient
// JWE encrypt/decrypt. Production code never walks general-purpose JSON at
// this layer — every wire value is a tagged Go
// struct with a parse function that returns a typed error.
package jose

import (
	"encoding/base64"

	itcryptoApperr "github.com/haggj/go-it-crypto/apperr"
)

// FlattenedJWS is the three-field flattened JWS object used throughout this
// protocol for AccessLog, SharedLog, and shared-header signatures.
type FlattenedJWS struct {
	Payload   string `json:"payload"`
	Protected string `json:"protected"`
	Signature string `json:"signature"`
}

// Compact renders the flattened object as RFC 7515 compact serialisation
// (protected.payload.signature), the form jwx's jws package signs/verifies.
func (f FlattenedJWS) Compact() string {
	return f.Protected + "." + f.Payload + "." + f.Signature
}

// DecodePayload base64url-decodes the payload without verifying the
// signature. Used both by SignedLog.Extract (verification already done) and
// by the decrypt state machine's claimed-creator/claimed-monitor lookups
// (verification not yet done, by design: the signer's identity must be read
// before the signature can be checked against the right key).
func (f FlattenedJWS) DecodePayload() ([]byte, error) {
	decoded, err := base64.RawURLEncoding.DecodeString(f.Payload)
	if err != nil {
		return nil, itcryptoApperr.Wrap(itcryptoApperr.ErrMalformedData, "JWS payload is not valid base64url: "+err.Error())
	}

	return decoded, nil
}

// ParseCompact parses RFC 7515 compact serialisation back into a
// FlattenedJWS, the inverse of Compact.
func ParseCompact(compact string) (FlattenedJWS, error) {
	return fromCompact(compact)
}

func fromCompact(compact string) (FlattenedJWS, error) {
	protected, payload, signature, ok := splitCompact(compact)
	if !ok {
		return FlattenedJWS{}, itcryptoApperr.Wrap(itcryptoApperr.ErrMalformedData, "JWS compact serialisation must have 3 segments")
	}

	return FlattenedJWS{Protected: protected, Payload: payload, Signature: signature}, nil
}

func splitCompact(compact string) (protected, payload, signature string, ok bool) {
	first := -1
	second := -1

	for i, c := range compact {
		if c == '.' {
			if first == -1 {
				first = i
			} else if second == -1 {
				second = i
			} else {
				return "", "", "", false
			}
		}
	}

	if first == -1 || second == -1 {
		return "", "", "", false
	}

	return compact[:first], compact[first+1 : second], compact[second+1:], true
}
