// Copyright (c) 2025 Justin Cranford

package jose_test

import (
	"testing"

	joseJwk "github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/stretchr/testify/require"

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

func TestEncryptGeneralDecryptGeneralRoundTripSingleRecipient(t *testing.T) {
	t.Parallel()

	recipientPriv, recipientPub, err := itcryptoJose.GenerateECDHJWK()
	require.NoError(t, err)

	plaintext := []byte(`{"log":"payload"}`)
	sharedHeader := signedSharedHeader(t)

	envelope, err := itcryptoJose.EncryptGeneral(plaintext, sharedHeader, "owner-1", []string{"recipient-1"}, []joseJwk.Key{recipientPub})
	require.NoError(t, err)
	require.False(t, envelope.IsFlattened())
	require.Len(t, envelope.Recipients, 1)

	decrypted, header, err := itcryptoJose.DecryptGeneral(envelope, recipientPriv)
	require.NoError(t, err)
	require.Equal(t, plaintext, decrypted)
	require.Equal(t, "owner-1", header.Owner)
	require.Equal(t, []string{"recipient-1"}, header.Recipients)
	require.Equal(t, sharedHeader, header.SharedHeader)
}

func TestEncryptGeneralDecryptGeneralRoundTripMultipleRecipients(t *testing.T) {
	t.Parallel()

	priv1, pub1, err := itcryptoJose.GenerateECDHJWK()
	require.NoError(t, err)

	priv2, pub2, err := itcryptoJose.GenerateECDHJWK()
	require.NoError(t, err)

	plaintext := []byte(`{"log":"multi-recipient payload"}`)
	sharedHeader := signedSharedHeader(t)

	envelope, err := itcryptoJose.EncryptGeneral(plaintext, sharedHeader, "owner-1", []string{"recipient-1", "recipient-2"}, []joseJwk.Key{pub1, pub2})
	require.NoError(t, err)
	require.Len(t, envelope.Recipients, 2)

	decrypted1, _, err := itcryptoJose.DecryptGeneral(envelope, priv1)
	require.NoError(t, err)
	require.Equal(t, plaintext, decrypted1)

	decrypted2, _, err := itcryptoJose.DecryptGeneral(envelope, priv2)
	require.NoError(t, err)
	require.Equal(t, plaintext, decrypted2)
}

func TestDecryptGeneralRejectsWrongKey(t *testing.T) {
	t.Parallel()

	_, recipientPub, err := itcryptoJose.GenerateECDHJWK()
	require.NoError(t, err)

	otherPriv, _, err := itcryptoJose.GenerateECDHJWK()
	require.NoError(t, err)

	envelope, err := itcryptoJose.EncryptGeneral([]byte("payload"), signedSharedHeader(t), "owner-1", []string{"recipient-1"}, []joseJwk.Key{recipientPub})
	require.NoError(t, err)

	_, _, err = itcryptoJose.DecryptGeneral(envelope, otherPriv)
	require.Error(t, err)
}

func TestEncryptGeneralRejectsNoRecipients(t *testing.T) {
	t.Parallel()

	_, err := itcryptoJose.EncryptGeneral([]byte("payload"), signedSharedHeader(t), "owner-1", nil, nil)
	require.Error(t, err)
}

func TestEncryptGeneralRejectsNilKey(t *testing.T) {
	t.Parallel()

	_, err := itcryptoJose.EncryptGeneral([]byte("payload"), signedSharedHeader(t), "owner-1", []string{"recipient-1"}, []joseJwk.Key{nil})
	require.Error(t, err)
}

func TestDecodeProtectedHeaderRejectsInvalidBase64(t *testing.T) {
	t.Parallel()

	_, err := itcryptoJose.DecodeProtectedHeader(itcryptoJose.JWEEnvelope{Protected: "not-base64!!!"})
	require.Error(t, err)
}
