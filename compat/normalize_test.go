// Copyright (c) 2025 Justin Cranford

package compat_test

import (
	"encoding/json"
	"testing"

	joseJwk "github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/stretchr/testify/require"

	itcryptoCompat "github.com/haggj/go-it-crypto/compat"
	itcryptoJose "github.com/haggj/go-it-crypto/jose"
)

func signedSharedHeader(t *testing.T) itcryptoJose.FlattenedJWS {
	t.Helper()

	priv, _, err := itcryptoJose.GenerateECDSAJWK()
	require.NoError(t, err)

	jws, err := itcryptoJose.SignFlattened(priv, []byte(`{"id":"shared-1"}`))
	require.NoError(t, err)

	return jws
}

func TestNormalizePassesThroughGeneralForm(t *testing.T) {
	t.Parallel()

	priv1, pub1, err := itcryptoJose.GenerateECDHJWK()
	require.NoError(t, err)

	_, pub2, err := itcryptoJose.GenerateECDHJWK()
	require.NoError(t, err)

	envelope, err := itcryptoJose.EncryptGeneral([]byte("payload"), signedSharedHeader(t), "owner-1", []string{"r1", "r2"}, []joseJwk.Key{pub1, pub2})
	require.NoError(t, err)

	raw, err := json.Marshal(envelope)
	require.NoError(t, err)

	normalized, err := itcryptoCompat.Normalize(raw)
	require.NoError(t, err)
	require.Len(t, normalized.Recipients, 2)

	_, _, err = itcryptoJose.DecryptGeneral(normalized, priv1)
	require.NoError(t, err)
}

func TestNormalizeSynthesisesSingleRecipientFromFlattenedShape(t *testing.T) {
	t.Parallel()

	priv, pub, err := itcryptoJose.GenerateECDHJWK()
	require.NoError(t, err)

	envelope, err := itcryptoJose.EncryptGeneral([]byte("payload"), signedSharedHeader(t), "owner-1", []string{"r1"}, []joseJwk.Key{pub})
	require.NoError(t, err)

	// Simulate the sibling flattened wire shape: single recipient's
	// header/encrypted_key promoted to the envelope's top level, no
	// "recipients" array at all.
	flattened := struct {
		Protected    string                      `json:"protected"`
		EncryptedKey string                      `json:"encrypted_key"`
		Header       itcryptoJose.RecipientHeader `json:"header"`
		IV           string                      `json:"iv"`
		Ciphertext   string                      `json:"ciphertext"`
		Tag          string                      `json:"tag"`
	}{
		Protected:    envelope.Protected,
		EncryptedKey: envelope.Recipients[0].EncryptedKey,
		Header:       envelope.Recipients[0].Header,
		IV:           envelope.IV,
		Ciphertext:   envelope.Ciphertext,
		Tag:          envelope.Tag,
	}

	raw, err := json.Marshal(flattened)
	require.NoError(t, err)

	normalized, err := itcryptoCompat.Normalize(raw)
	require.NoError(t, err)
	require.False(t, normalized.IsFlattened() && len(normalized.Recipients) == 0)
	require.Len(t, normalized.Recipients, 1)
	require.Empty(t, normalized.EncryptedKey)
	require.Nil(t, normalized.Header)

	plaintext, _, err := itcryptoJose.DecryptGeneral(normalized, priv)
	require.NoError(t, err)
	require.Equal(t, []byte("payload"), plaintext)
}

func TestNormalizeRejectsInvalidJSON(t *testing.T) {
	t.Parallel()

	_, err := itcryptoCompat.Normalize([]byte("not json"))
	require.Error(t, err)
}

func TestNormalizeRejectsMissingFields(t *testing.T) {
	t.Parallel()

	_, err := itcryptoCompat.Normalize([]byte(`{"protected":"h"}`))
	require.Error(t, err)
}

func TestNormalizeRejectsNoRecipientsAndNoFlattenedFields(t *testing.T) {
	t.Parallel()

	raw := []byte(`{"protected":"h","iv":"i","ciphertext":"c","tag":"t"}`)
	_, err := itcryptoCompat.Normalize(raw)
	require.Error(t, err)
}
