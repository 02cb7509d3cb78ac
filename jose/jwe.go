// Copyright (c) 2025 Justin Cranford

package jose

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	joseJwe "github.com/lestrrat-go/jwx/v3/jwe"
	joseJwk "github.com/lestrrat-go/jwx/v3/jwk"

	itcryptoApperr "github.com/haggj/go-it-crypto/apperr"
)

// RecipientHeader is the per-recipient JWE header: the key
// encryption algorithm and, for ECDH-ES+A256KW, the sender's ephemeral
// public key for that recipient.
type RecipientHeader struct {
	Alg string          `json:"alg"`
	Epk json.RawMessage `json:"epk,omitempty"`
}

// JWERecipient is one entry of a general-form JWE's "recipients" array.
type JWERecipient struct {
	Header       RecipientHeader `json:"header"`
	EncryptedKey string          `json:"encrypted_key"`
}

// JWEEnvelope is the on-wire token shape, covering both the
// general multi-recipient form (Recipients populated) and the sibling
// single-recipient flattened form (EncryptedKey/Header populated instead).
// compat.Normalize produces one canonical (general-form) JWEEnvelope from
// either wire shape before it reaches DecryptGeneral.
type JWEEnvelope struct {
	Protected    string           `json:"protected"`
	Recipients   []JWERecipient   `json:"recipients,omitempty"`
	EncryptedKey string           `json:"encrypted_key,omitempty"`
	Header       *RecipientHeader `json:"header,omitempty"`
	IV           string           `json:"iv"`
	Ciphertext   string           `json:"ciphertext"`
	Tag          string           `json:"tag"`
}

// IsFlattened reports whether this envelope uses the sibling single-
// recipient flattened shape (no top-level "recipients" array).
func (e JWEEnvelope) IsFlattened() bool {
	return len(e.Recipients) == 0
}

// ProtectedHeader is the typed view of the base64url-encoded JWE protected
// header this protocol emits: the AEAD-authenticated, cleartext-readable
// shared metadata.
type ProtectedHeader struct {
	Enc string `json:"enc"`
	// SharedHeader binds the recipient list to the JWE via the AEAD tag;
	// its own ES256 signature is deliberately not re-verified by the
	// decrypt path (redundant verification is
	// optional hardening").
	SharedHeader FlattenedJWS `json:"sharedHeader"`
	Owner        string       `json:"owner"`
	Recipients   []string     `json:"recipients"`
}

// DecodeProtectedHeader base64url-decodes and parses envelope.Protected.
func DecodeProtectedHeader(envelope JWEEnvelope) (ProtectedHeader, error) {
	raw, err := base64.RawURLEncoding.DecodeString(envelope.Protected)
	if err != nil {
		return ProtectedHeader{}, itcryptoApperr.Wrap(itcryptoApperr.ErrMalformedJWE, fmt.Sprintf("protected header is not valid base64url: %v", err))
	}

	var hdr ProtectedHeader
	if err := json.Unmarshal(raw, &hdr); err != nil {
		return ProtectedHeader{}, itcryptoApperr.Wrap(itcryptoApperr.ErrMalformedJWE, fmt.Sprintf("protected header is not valid JSON: %v", err))
	}

	return hdr, nil
}

// EncryptGeneral builds a general-form JWE: A256GCM
// content encryption, one ECDH-ES+A256KW wrapped key per recipient, and a
// protected header carrying the AEAD-authenticated shared header/owner/
// recipients cleartext metadata.
func EncryptGeneral(plaintext []byte, sharedHeader FlattenedJWS, owner string, recipientIDs []string, recipientKeys []joseJwk.Key) (JWEEnvelope, error) {
	if len(recipientKeys) == 0 {
		return JWEEnvelope{}, itcryptoApperr.ErrNoRecipients
	}

	headers := joseJwe.NewHeaders()
	if err := headers.Set("sharedHeader", sharedHeader); err != nil {
		return JWEEnvelope{}, itcryptoApperr.Wrap(itcryptoApperr.ErrSigningFailed, fmt.Sprintf("cannot set sharedHeader: %v", err))
	}

	if err := headers.Set("owner", owner); err != nil {
		return JWEEnvelope{}, itcryptoApperr.Wrap(itcryptoApperr.ErrSigningFailed, fmt.Sprintf("cannot set owner header: %v", err))
	}

	if err := headers.Set("recipients", recipientIDs); err != nil {
		return JWEEnvelope{}, itcryptoApperr.Wrap(itcryptoApperr.ErrSigningFailed, fmt.Sprintf("cannot set recipients header: %v", err))
	}

	options := []joseJwe.EncryptOption{
		joseJwe.WithJSON(),
		joseJwe.WithContentEncryption(EncA256GCM),
		joseJwe.WithProtectedHeaders(headers),
	}

	for _, key := range recipientKeys {
		if key == nil {
			return JWEEnvelope{}, itcryptoApperr.ErrKeyUnavailable
		}

		options = append(options, joseJwe.WithKey(AlgECDHESA256KW, key))
	}

	raw, err := joseJwe.Encrypt(plaintext, options...)
	if err != nil {
		return JWEEnvelope{}, itcryptoApperr.Wrap(itcryptoApperr.ErrSigningFailed, fmt.Sprintf("JWE encryption failed: %v", err))
	}

	var envelope JWEEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return JWEEnvelope{}, itcryptoApperr.Wrap(itcryptoApperr.ErrSigningFailed, fmt.Sprintf("cannot decode produced JWE: %v", err))
	}

	return envelope, nil
}

// DecryptGeneral AEAD-decrypts a canonicalised (general-form) envelope with
// receiverKey, returning the plaintext and the authenticated protected
// header.
func DecryptGeneral(envelope JWEEnvelope, receiverKey joseJwk.Key) ([]byte, ProtectedHeader, error) {
	header, err := DecodeProtectedHeader(envelope)
	if err != nil {
		return nil, ProtectedHeader{}, err
	}

	canonical, err := json.Marshal(envelope)
	if err != nil {
		return nil, ProtectedHeader{}, itcryptoApperr.Wrap(itcryptoApperr.ErrMalformedJWE, fmt.Sprintf("cannot canonicalise envelope: %v", err))
	}

	plaintext, err := joseJwe.Decrypt(canonical, joseJwe.WithKey(AlgECDHESA256KW, receiverKey))
	if err != nil {
		return nil, ProtectedHeader{}, itcryptoApperr.Wrap(itcryptoApperr.ErrDecryptionFailed, fmt.Sprintf("AEAD decryption failed: %v", err))
	}

	return plaintext, header, nil
}
