// Copyright (c) 2025 Justin Cranford

// Package compat implements the sole wire-shape accommodation required for
// interoperability with sibling log-sharing implementations:
// a one-recipient JWE may arrive as a flattened JSON object (encrypted_key/
// header at the top level, no recipients array) instead of general form.
// This is the only place that special-case is handled; every other
// component only ever sees the canonical general-form envelope.
package compat

import (
	"encoding/json"
	"fmt"

	joseJwxV2Jwe "github.com/lestrrat-go/jwx/v2/jwe"

	itcryptoApperr "github.com/haggj/go-it-crypto/apperr"
	itcryptoJose "github.com/haggj/go-it-crypto/jose"
)

// Normalize parses raw JWE JSON bytes and, if the "recipients" array is
// absent, synthesises a single-entry one from the flattened top-level
// encrypted_key/header fields — unconditionally, regardless of which
// sibling implementation produced the token.
func Normalize(raw []byte) (itcryptoJose.JWEEnvelope, error) {
	var envelope itcryptoJose.JWEEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return itcryptoJose.JWEEnvelope{}, itcryptoApperr.Wrap(itcryptoApperr.ErrMalformedJWE, fmt.Sprintf("not a valid JWE JSON object: %v", err))
	}

	if envelope.Protected == "" || envelope.IV == "" || envelope.Ciphertext == "" || envelope.Tag == "" {
		return itcryptoJose.JWEEnvelope{}, itcryptoApperr.Wrap(itcryptoApperr.ErrMalformedJWE, "missing protected/iv/ciphertext/tag")
	}

	if len(envelope.Recipients) == 0 {
		if envelope.Header == nil || envelope.EncryptedKey == "" {
			return itcryptoJose.JWEEnvelope{}, itcryptoApperr.Wrap(itcryptoApperr.ErrMalformedJWE, "no recipients array and no flattened encrypted_key/header to synthesise from")
		}

		envelope.Recipients = []itcryptoJose.JWERecipient{{
			Header:       *envelope.Header,
			EncryptedKey: envelope.EncryptedKey,
		}}
		envelope.EncryptedKey = ""
		envelope.Header = nil
	}

	if err := validateWithV2(envelope); err != nil {
		return itcryptoJose.JWEEnvelope{}, err
	}

	return envelope, nil
}

// validateWithV2 re-parses the canonicalised envelope with jwx's v2 JWE
// parser, the looser and longer-lived implementation of RFC 7516 JSON
// serialisation, so a token it still refuses to parse after normalisation
// is a genuine structural defect rather than a v3-specific strictness quirk.
func validateWithV2(envelope itcryptoJose.JWEEnvelope) error {
	canonical, err := json.Marshal(envelope)
	if err != nil {
		return itcryptoApperr.Wrap(itcryptoApperr.ErrMalformedJWE, fmt.Sprintf("cannot canonicalise envelope: %v", err))
	}

	if _, err := joseJwxV2Jwe.Parse(canonical); err != nil {
		return itcryptoApperr.Wrap(itcryptoApperr.ErrMalformedJWE, fmt.Sprintf("envelope failed RFC 7516 structural validation: %v", err))
	}

	return nil
}
