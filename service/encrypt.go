// Copyright (c) 2025 Justin Cranford

// Package service implements the core sign-then-encrypt / decrypt-then-
// verify pipelines. Both services are stateless: every
// call is a pure function of its inputs plus the injected resolver oracle
// (an injected resolver oracle, not a fixed directory).
package service

import (
	"encoding/json"
	"fmt"

	googleUuid "github.com/google/uuid"
	joseJwk "github.com/lestrrat-go/jwx/v3/jwk"

	itcryptoApperr "github.com/haggj/go-it-crypto/apperr"
	itcryptoJose "github.com/haggj/go-it-crypto/jose"
	itcryptoModel "github.com/haggj/go-it-crypto/model"
	itcryptoTelemetry "github.com/haggj/go-it-crypto/telemetry"
)

// EncryptionService builds the nested JWS-in-JWS-in-JWE token
// §4.4. It holds no mutable state; Telemetry is optional.
type EncryptionService struct {
	Telemetry *itcryptoTelemetry.Service
}

// sharedHeaderClaims is the payload signed independently as the shared
// header JWS: the {id, owner, recipients} triple. Owner and recipients also
// appear, unsigned, as cleartext JWE protected-header fields; id does not.
type sharedHeaderClaims struct {
	ID         string   `json:"id"`
	Owner      string   `json:"owner"`
	Recipients []string `json:"recipients"`
}

// Encrypt signs a SharedLog wrapping signedLog and encrypts it to every
// receiver, returning a compact JSON-serialised general-form JWE.
//
// senderID/senderSigningKey identify the party performing the share (the
// owner re-sharing, or the monitor delivering for the first time); receivers
// must each carry a usable EncryptionCertificate.
func (s EncryptionService) Encrypt(signedLog itcryptoModel.SignedLog, senderID string, senderSigningKey joseJwk.Key, receivers []itcryptoModel.RemoteUser) (string, error) {
	if len(receivers) == 0 {
		s.logFailure("encrypt", itcryptoApperr.ErrNoRecipients)

		return "", itcryptoApperr.ErrNoRecipients
	}

	accessLog, err := signedLog.Extract()
	if err != nil {
		s.logFailure("encrypt", err)

		return "", err
	}

	recipientIDs := make([]string, len(receivers))
	recipientKeys := make([]joseJwk.Key, len(receivers))

	for i, r := range receivers {
		if r.EncryptionCertificate == nil {
			err := itcryptoApperr.Wrap(itcryptoApperr.ErrKeyUnavailable, fmt.Sprintf("receiver %s has no encryption certificate", r.ID))
			s.logFailure("encrypt", err)

			return "", err
		}

		key, err := r.EncryptionKey()
		if err != nil {
			err = itcryptoApperr.Wrap(itcryptoApperr.ErrKeyUnavailable, fmt.Sprintf("receiver %s has no usable encryption key: %v", r.ID, err))
			s.logFailure("encrypt", err)

			return "", err
		}

		recipientIDs[i] = r.ID
		recipientKeys[i] = key
	}

	sharedLog := itcryptoModel.SharedLog{
		Log:        signedLog.JWS(),
		Creator:    senderID,
		Owner:      accessLog.Owner,
		Recipients: recipientIDs,
		ID:         googleUuid.NewString(),
	}

	sharedLogBytes, err := sharedLog.ToBytes()
	if err != nil {
		s.logFailure("encrypt", err)

		return "", err
	}

	jwsSharedLog, err := itcryptoJose.SignFlattened(senderSigningKey, sharedLogBytes)
	if err != nil {
		s.logFailure("encrypt", err)

		return "", err
	}

	headerClaimsBytes, err := json.Marshal(sharedHeaderClaims{
		ID:         sharedLog.ID,
		Owner:      sharedLog.Owner,
		Recipients: sharedLog.Recipients,
	})
	if err != nil {
		err = itcryptoApperr.Wrap(itcryptoApperr.ErrSigningFailed, fmt.Sprintf("cannot serialise shared header claims: %v", err))
		s.logFailure("encrypt", err)

		return "", err
	}

	jwsSharedHeader, err := itcryptoJose.SignFlattened(senderSigningKey, headerClaimsBytes)
	if err != nil {
		s.logFailure("encrypt", err)

		return "", err
	}

	plaintext, err := json.Marshal(jwsSharedLog)
	if err != nil {
		err = itcryptoApperr.Wrap(itcryptoApperr.ErrSigningFailed, fmt.Sprintf("cannot serialise signed shared log: %v", err))
		s.logFailure("encrypt", err)

		return "", err
	}

	envelope, err := itcryptoJose.EncryptGeneral(plaintext, jwsSharedHeader, sharedLog.Owner, recipientIDs, recipientKeys)
	if err != nil {
		s.logFailure("encrypt", err)

		return "", err
	}

	tokenBytes, err := json.Marshal(envelope)
	if err != nil {
		err = itcryptoApperr.Wrap(itcryptoApperr.ErrSigningFailed, fmt.Sprintf("cannot serialise JWE envelope: %v", err))
		s.logFailure("encrypt", err)

		return "", err
	}

	if s.Telemetry != nil {
		s.Telemetry.Logger().Info("shared log encrypted", "creator", senderID, "owner", sharedLog.Owner, "recipientCount", len(recipientIDs))
	}

	return string(tokenBytes), nil
}

func (s EncryptionService) logFailure(op string, err error) {
	if s.Telemetry == nil {
		return
	}

	s.Telemetry.Logger().Error(op+" failed", "error", err)
}
