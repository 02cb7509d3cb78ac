// Copyright (c) 2025 Justin Cranford

// Package e2e exercises the full sign/share/open path end to end, including
// the single- vs multi-recipient wire-shape normalisation that
// compat.Normalize exists for.
//
// The scenario table below mirrors the shape of the cross-implementation
// fixture scenarios this protocol defines (a fixed sender/receiver pair, a
// single- vs a two-recipient token, asserting the recovered justification
// field survives). There is no literal byte-for-byte token from another
// language's implementation available to embed here, so every token is
// produced by this implementation itself and decrypted by itself: this is
// an exercise of the real normalisation/decrypt pipeline end to end, not a
// substitute for a genuine cross-implementation fixture.
// TODO: replace the self-produced tokens below with literal fixtures from
// a sibling implementation if/when one becomes available to this module.
package e2e

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	itcryptoModel "github.com/haggj/go-it-crypto/model"
	itcryptoResolver "github.com/haggj/go-it-crypto/resolver"
	itcryptoUser "github.com/haggj/go-it-crypto/user"
)

func TestSingleRecipientTokenDecryptsForDeclaredReceiver(t *testing.T) {
	t.Parallel()

	sender, err := itcryptoUser.GenerateAuthenticatedUser("sender", true, time.Hour, nil)
	require.NoError(t, err)

	receiver, err := itcryptoUser.GenerateAuthenticatedUser("receiver", false, time.Hour, nil)
	require.NoError(t, err)

	log := itcryptoModel.AccessLog{
		Monitor:       sender.ID,
		Owner:         receiver.ID,
		Tool:          "go-it-crypto",
		Justification: "go-it-crypto",
		Timestamp:     1700000000,
		AccessKind:    "READ",
		DataTypes:     []string{"email"},
		ID:            "scenario-s1",
	}

	signed, err := sender.SignAccessLog(log)
	require.NoError(t, err)

	// Monitor delivering directly to the owner: the only recipient shape I3
	// permits for a first share.
	token, err := sender.EncryptLog(signed, []itcryptoModel.RemoteUser{receiver.RemoteUser})
	require.NoError(t, err)

	users := itcryptoResolver.Map{
		sender.ID:   sender.RemoteUser,
		receiver.ID: receiver.RemoteUser,
	}

	opened, err := receiver.DecryptLog(context.Background(), token, users)
	require.NoError(t, err)

	got, err := opened.Extract()
	require.NoError(t, err)
	require.Equal(t, "go-it-crypto", got.Justification)
}

func TestTwoRecipientTokenDecryptsForBothDeclaredReceivers(t *testing.T) {
	t.Parallel()

	sender, err := itcryptoUser.GenerateAuthenticatedUser("sender", true, time.Hour, nil)
	require.NoError(t, err)

	receiver, err := itcryptoUser.GenerateAuthenticatedUser("receiver", false, time.Hour, nil)
	require.NoError(t, err)

	toolA, err := itcryptoUser.GenerateAuthenticatedUser("tool-a", false, time.Hour, nil)
	require.NoError(t, err)

	toolB, err := itcryptoUser.GenerateAuthenticatedUser("tool-b", false, time.Hour, nil)
	require.NoError(t, err)

	log := itcryptoModel.AccessLog{
		Monitor:       sender.ID,
		Owner:         receiver.ID,
		Tool:          "go-it-crypto",
		Justification: "go-it-crypto",
		Timestamp:     1700000000,
		AccessKind:    "READ",
		DataTypes:     []string{"email"},
		ID:            "scenario-s2",
	}

	signed, err := sender.SignAccessLog(log)
	require.NoError(t, err)

	// First hop: monitor shares directly with the owner (I3).
	firstHopToken, err := sender.EncryptLog(signed, []itcryptoModel.RemoteUser{receiver.RemoteUser})
	require.NoError(t, err)

	users := itcryptoResolver.Map{
		sender.ID:   sender.RemoteUser,
		receiver.ID: receiver.RemoteUser,
		toolA.ID:    toolA.RemoteUser,
		toolB.ID:    toolB.RemoteUser,
	}

	firstHopOpened, err := receiver.DecryptLog(context.Background(), firstHopToken, users)
	require.NoError(t, err)

	// Second hop: the owner re-shares with two further recipients, the
	// two-recipient JWE shape this scenario exercises.
	token, err := receiver.EncryptLog(firstHopOpened, []itcryptoModel.RemoteUser{toolA.RemoteUser, toolB.RemoteUser})
	require.NoError(t, err)

	for _, opener := range []itcryptoUser.AuthenticatedUser{toolA, toolB} {
		opened, err := opener.DecryptLog(context.Background(), token, users)
		require.NoError(t, err)

		got, err := opened.Extract()
		require.NoError(t, err)
		require.Equal(t, "go-it-crypto", got.Justification)
	}
}
