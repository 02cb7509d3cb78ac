// Copyright (c) 2025 Justin Cranford

package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	itcryptoJose "github.com/haggj/go-it-crypto/jose"
	itcryptoModel "github.com/haggj/go-it-crypto/model"
)

func TestRemoteUserKeysDerivedFromCertificates(t *testing.T) {
	t.Parallel()

	identity, err := itcryptoJose.GenerateSelfSignedIdentity("tool-a", time.Hour)
	require.NoError(t, err)

	remote := itcryptoModel.RemoteUser{
		ID:                      "tool-a",
		VerificationCertificate: identity.VerificationCertificate,
		EncryptionCertificate:   identity.EncryptionCertificate,
		IsMonitor:               false,
	}

	verificationKey, err := remote.VerificationKey()
	require.NoError(t, err)
	require.NotNil(t, verificationKey)

	encryptionKey, err := remote.EncryptionKey()
	require.NoError(t, err)
	require.NotNil(t, encryptionKey)
}

func TestRemoteUserKeysRejectMissingCertificates(t *testing.T) {
	t.Parallel()

	remote := itcryptoModel.RemoteUser{ID: "tool-a"}

	_, err := remote.VerificationKey()
	require.Error(t, err)

	_, err = remote.EncryptionKey()
	require.Error(t, err)
}
