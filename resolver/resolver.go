// Copyright (c) 2025 Justin Cranford

// Package resolver defines the UserResolver contract consumed by
// DecryptionService. The core imposes no concurrency or
// ordering requirement on implementations beyond "returns consistent data
// for one decrypt call".
package resolver

import (
	"context"
	"fmt"

	itcryptoApperr "github.com/haggj/go-it-crypto/apperr"
	itcryptoModel "github.com/haggj/go-it-crypto/model"
)

// UserResolver looks up a user id against whatever directory the caller
// wires in (network, database, in-memory map). It may fail with
// apperr.ErrUnknownUser.
type UserResolver interface {
	Resolve(ctx context.Context, id string) (itcryptoModel.RemoteUser, error)
}

// Func adapts a plain function to the UserResolver interface, the way a
// single-method callback-shaped collaborator is usually wired in Go.
type Func func(ctx context.Context, id string) (itcryptoModel.RemoteUser, error)

// Resolve implements UserResolver.
func (f Func) Resolve(ctx context.Context, id string) (itcryptoModel.RemoteUser, error) {
	return f(ctx, id)
}

// Map adapts a static map of known users to a UserResolver, useful for
// tests and small deployments where the directory is known up front.
type Map map[string]itcryptoModel.RemoteUser

// Resolve implements UserResolver.
func (m Map) Resolve(_ context.Context, id string) (itcryptoModel.RemoteUser, error) {
	user, ok := m[id]
	if !ok {
		return itcryptoModel.RemoteUser{}, itcryptoApperr.Wrap(itcryptoApperr.ErrUnknownUser, fmt.Sprintf("no such user: %s", id))
	}

	return user, nil
}
