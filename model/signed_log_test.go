// Copyright (c) 2025 Justin Cranford

package model_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	itcryptoJose "github.com/haggj/go-it-crypto/jose"
	itcryptoModel "github.com/haggj/go-it-crypto/model"
)

func TestSignedLogExtractRecoversAccessLog(t *testing.T) {
	t.Parallel()

	priv, _, err := itcryptoJose.GenerateECDSAJWK()
	require.NoError(t, err)

	want := exampleAccessLog()

	bytes, err := want.ToBytes()
	require.NoError(t, err)

	jws, err := itcryptoJose.SignFlattened(priv, bytes)
	require.NoError(t, err)

	signed := itcryptoModel.NewSignedLog(jws)
	require.Equal(t, jws, signed.JWS())

	got, err := signed.Extract()
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestSignedLogExtractDoesNotReverifySignature(t *testing.T) {
	t.Parallel()

	// Extract decodes the payload without checking it against any key: a
	// SignedLog built from a tampered-but-still-base64url JWS still extracts.
	jws := itcryptoJose.FlattenedJWS{
		Payload:   "eyJvd25lciI6Im93bmVyLTEifQ",
		Protected: "irrelevant",
		Signature: "not-a-real-signature",
	}

	signed := itcryptoModel.NewSignedLog(jws)

	got, err := signed.Extract()
	require.NoError(t, err)
	require.Equal(t, "owner-1", got.Owner)
}
