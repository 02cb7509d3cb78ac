// Copyright (c) 2025 Justin Cranford

package resolver_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	itcryptoApperr "github.com/haggj/go-it-crypto/apperr"
	itcryptoModel "github.com/haggj/go-it-crypto/model"
	itcryptoResolver "github.com/haggj/go-it-crypto/resolver"
)

func TestMapResolveFound(t *testing.T) {
	t.Parallel()

	want := itcryptoModel.RemoteUser{ID: "alice"}
	m := itcryptoResolver.Map{"alice": want}

	got, err := m.Resolve(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestMapResolveNotFound(t *testing.T) {
	t.Parallel()

	m := itcryptoResolver.Map{}

	_, err := m.Resolve(context.Background(), "bob")
	require.Error(t, err)
	require.True(t, itcryptoApperr.IsAppErr(err))
	require.ErrorIs(t, err, itcryptoApperr.ErrUnknownUser)
}

func TestFuncAdaptsPlainFunction(t *testing.T) {
	t.Parallel()

	called := false
	fn := itcryptoResolver.Func(func(_ context.Context, id string) (itcryptoModel.RemoteUser, error) {
		called = true

		return itcryptoModel.RemoteUser{ID: id}, nil
	})

	var resolved itcryptoResolver.UserResolver = fn

	got, err := resolved.Resolve(context.Background(), "carol")
	require.NoError(t, err)
	require.True(t, called)
	require.Equal(t, "carol", got.ID)
}
