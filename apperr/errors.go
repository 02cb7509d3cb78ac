// Copyright (c) 2025 Justin Cranford

// Package apperr defines the error taxonomy shared by every go-it-crypto
// component. Each sentinel represents one failure kind from the protocol's
// state machine; callers compare with errors.Is against the sentinel and
// read Error() for the distinguishing detail.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// Parsing.
	ErrMalformedLog       = errors.New("malformed log")
	ErrMalformedJWE       = errors.New("malformed JWE")
	ErrMalformedSharedLog = errors.New("malformed shared log")
	ErrMalformedAccessLog = errors.New("malformed access log")
	ErrMalformedData      = errors.New("malformed data")

	// Identity.
	ErrUnknownUser        = errors.New("unknown user")
	ErrUnauthorisedMonitor = errors.New("unauthorised monitor")

	// Signatures.
	ErrSharedLogSignatureInvalid = errors.New("shared log signature invalid")
	ErrAccessLogSignatureInvalid = errors.New("access log signature invalid")
	ErrSigningFailed             = errors.New("signing failed")

	// Encryption / decryption.
	ErrDecryptionFailed = errors.New("decryption failed")
	ErrNoRecipients     = errors.New("no recipients")
	ErrKeyUnavailable   = errors.New("key unavailable")

	// Key import.
	ErrBadKey = errors.New("bad key")
)

// IsAppErr reports whether target is one of the sentinels defined by this
// package.
func IsAppErr(target error) bool {
	if target == nil {
		return false
	}

	for _, sentinel := range []error{
		ErrMalformedLog, ErrMalformedJWE, ErrMalformedSharedLog, ErrMalformedAccessLog,
		ErrMalformedData, ErrUnknownUser, ErrUnauthorisedMonitor,
		ErrSharedLogSignatureInvalid, ErrAccessLogSignatureInvalid, ErrSigningFailed,
		ErrDecryptionFailed, ErrNoRecipients, ErrKeyUnavailable, ErrBadKey,
	} {
		if errors.Is(target, sentinel) {
			return true
		}
	}

	return false
}

// ContainsError reports whether target is present in errs, compared with
// errors.Is.
func ContainsError(errs []error, target error) bool {
	for _, e := range errs {
		if errors.Is(e, target) {
			return true
		}
	}

	return false
}

// Wrap annotates sentinel with a distinguishing detail message, preserving
// errors.Is(result, sentinel).
func Wrap(sentinel error, detail string) error {
	return fmt.Errorf("%s: %w", detail, sentinel)
}
