// Copyright (c) 2025 Justin Cranford

package service

import (
	"context"
	"encoding/json"
	"fmt"

	joseJwk "github.com/lestrrat-go/jwx/v3/jwk"

	itcryptoApperr "github.com/haggj/go-it-crypto/apperr"
	itcryptoCompat "github.com/haggj/go-it-crypto/compat"
	itcryptoJose "github.com/haggj/go-it-crypto/jose"
	itcryptoModel "github.com/haggj/go-it-crypto/model"
	itcryptoResolver "github.com/haggj/go-it-crypto/resolver"
	itcryptoTelemetry "github.com/haggj/go-it-crypto/telemetry"
)

// DecryptionService runs the verification state machine for opening a shared log.
// Each numbered method below corresponds to one numbered step of that state
// machine; Decrypt composes them strictly in sequence, since monitor
// identity can only be derived from already-verified SharedLog content.
type DecryptionService struct {
	Telemetry *itcryptoTelemetry.Service
}

// Decrypt parses, AEAD-decrypts, and verifies token, returning the inner
// SignedLog on success.
func (d DecryptionService) Decrypt(ctx context.Context, token string, receiverID string, receiverDecryptionKey joseJwk.Key, users itcryptoResolver.UserResolver) (itcryptoModel.SignedLog, error) {
	envelope, err := d.parse([]byte(token))
	if err != nil {
		return itcryptoModel.SignedLog{}, d.fail(err)
	}

	plaintext, protectedHeader, err := d.aeadDecrypt(envelope, receiverDecryptionKey)
	if err != nil {
		return itcryptoModel.SignedLog{}, d.fail(err)
	}

	jwsSharedLog, err := d.parseInnerJWS(plaintext)
	if err != nil {
		return itcryptoModel.SignedLog{}, d.fail(err)
	}

	creator, err := d.lookupClaimedCreator(ctx, jwsSharedLog, users)
	if err != nil {
		return itcryptoModel.SignedLog{}, d.fail(err)
	}

	sharedLog, err := d.verifySharedLog(jwsSharedLog, creator)
	if err != nil {
		return itcryptoModel.SignedLog{}, d.fail(err)
	}

	accessLogJWS := sharedLog.Log

	monitor, err := d.lookupClaimedMonitor(ctx, accessLogJWS, users)
	if err != nil {
		return itcryptoModel.SignedLog{}, d.fail(err)
	}

	if err := d.authoriseMonitor(monitor); err != nil {
		return itcryptoModel.SignedLog{}, d.fail(err)
	}

	accessLog, err := d.verifyAccessLog(accessLogJWS, monitor)
	if err != nil {
		return itcryptoModel.SignedLog{}, d.fail(err)
	}

	if err := d.crossLayerChecks(sharedLog, accessLog, protectedHeader, receiverID); err != nil {
		return itcryptoModel.SignedLog{}, d.fail(err)
	}

	if d.Telemetry != nil {
		d.Telemetry.Logger().Info("token decrypted", "receiver", receiverID, "creator", sharedLog.Creator, "owner", accessLog.Owner)
	}

	return itcryptoModel.NewSignedLog(accessLogJWS), nil
}

// step 1: Parse.
func (d DecryptionService) parse(raw []byte) (itcryptoJose.JWEEnvelope, error) {
	envelope, err := itcryptoCompat.Normalize(raw)
	if err != nil {
		return itcryptoJose.JWEEnvelope{}, err
	}

	return envelope, nil
}

// step 2: AEAD-decrypt.
func (d DecryptionService) aeadDecrypt(envelope itcryptoJose.JWEEnvelope, receiverKey joseJwk.Key) ([]byte, itcryptoJose.ProtectedHeader, error) {
	return itcryptoJose.DecryptGeneral(envelope, receiverKey)
}

// step 3: parse inner JWS.
func (d DecryptionService) parseInnerJWS(plaintext []byte) (itcryptoJose.FlattenedJWS, error) {
	var jws itcryptoJose.FlattenedJWS
	if err := json.Unmarshal(plaintext, &jws); err != nil {
		return itcryptoJose.FlattenedJWS{}, itcryptoApperr.Wrap(itcryptoApperr.ErrMalformedSharedLog, fmt.Sprintf("plaintext is not a flattened JWS: %v", err))
	}

	return jws, nil
}

// step 4: claimed-creator lookup (reads, does not verify).
func (d DecryptionService) lookupClaimedCreator(ctx context.Context, jws itcryptoJose.FlattenedJWS, users itcryptoResolver.UserResolver) (itcryptoModel.RemoteUser, error) {
	payload, err := jws.DecodePayload()
	if err != nil {
		return itcryptoModel.RemoteUser{}, itcryptoApperr.Wrap(itcryptoApperr.ErrMalformedSharedLog, err.Error())
	}

	claims, err := itcryptoModel.SharedLogFromBytes(payload)
	if err != nil {
		return itcryptoModel.RemoteUser{}, err
	}

	creator, err := users.Resolve(ctx, claims.Creator)
	if err != nil {
		return itcryptoModel.RemoteUser{}, itcryptoApperr.Wrap(itcryptoApperr.ErrUnknownUser, fmt.Sprintf("claimed shared log creator %q: %v", claims.Creator, err))
	}

	return creator, nil
}

// step 5: verify SharedLog signature.
func (d DecryptionService) verifySharedLog(jws itcryptoJose.FlattenedJWS, creator itcryptoModel.RemoteUser) (itcryptoModel.SharedLog, error) {
	verificationKey, err := creator.VerificationKey()
	if err != nil {
		return itcryptoModel.SharedLog{}, itcryptoApperr.Wrap(itcryptoApperr.ErrSharedLogSignatureInvalid, err.Error())
	}

	verifiedPayload, err := itcryptoJose.VerifyFlattened(jws, verificationKey)
	if err != nil {
		return itcryptoModel.SharedLog{}, itcryptoApperr.Wrap(itcryptoApperr.ErrSharedLogSignatureInvalid, err.Error())
	}

	sharedLog, err := itcryptoModel.SharedLogFromBytes(verifiedPayload)
	if err != nil {
		return itcryptoModel.SharedLog{}, err
	}

	return sharedLog, nil
}

// step 7: claimed-monitor lookup (reads, does not verify).
func (d DecryptionService) lookupClaimedMonitor(ctx context.Context, jws itcryptoJose.FlattenedJWS, users itcryptoResolver.UserResolver) (itcryptoModel.RemoteUser, error) {
	payload, err := jws.DecodePayload()
	if err != nil {
		return itcryptoModel.RemoteUser{}, itcryptoApperr.Wrap(itcryptoApperr.ErrMalformedAccessLog, err.Error())
	}

	claims, err := itcryptoModel.AccessLogFromBytes(payload)
	if err != nil {
		return itcryptoModel.RemoteUser{}, err
	}

	monitor, err := users.Resolve(ctx, claims.Monitor)
	if err != nil {
		return itcryptoModel.RemoteUser{}, itcryptoApperr.Wrap(itcryptoApperr.ErrUnknownUser, fmt.Sprintf("claimed access log monitor %q: %v", claims.Monitor, err))
	}

	return monitor, nil
}

// step 8: authorise monitor (I1).
func (d DecryptionService) authoriseMonitor(monitor itcryptoModel.RemoteUser) error {
	if !monitor.IsMonitor {
		return itcryptoApperr.Wrap(itcryptoApperr.ErrUnauthorisedMonitor, fmt.Sprintf("user %q is not a monitor", monitor.ID))
	}

	return nil
}

// step 9: verify AccessLog signature.
func (d DecryptionService) verifyAccessLog(jws itcryptoJose.FlattenedJWS, monitor itcryptoModel.RemoteUser) (itcryptoModel.AccessLog, error) {
	verificationKey, err := monitor.VerificationKey()
	if err != nil {
		return itcryptoModel.AccessLog{}, itcryptoApperr.Wrap(itcryptoApperr.ErrAccessLogSignatureInvalid, err.Error())
	}

	verifiedPayload, err := itcryptoJose.VerifyFlattened(jws, verificationKey)
	if err != nil {
		return itcryptoModel.AccessLog{}, itcryptoApperr.Wrap(itcryptoApperr.ErrAccessLogSignatureInvalid, err.Error())
	}

	accessLog, err := itcryptoModel.AccessLogFromBytes(verifiedPayload)
	if err != nil {
		return itcryptoModel.AccessLog{}, err
	}

	return accessLog, nil
}

// step 10: cross-layer invariant checks (I2-I5).
func (d DecryptionService) crossLayerChecks(sharedLog itcryptoModel.SharedLog, accessLog itcryptoModel.AccessLog, header itcryptoJose.ProtectedHeader, receiverID string) error {
	if header.Owner == "" && len(header.Recipients) == 0 {
		return itcryptoApperr.Wrap(itcryptoApperr.ErrMalformedData, "protected header is missing shared metadata")
	}

	if !itcryptoModel.SequenceEqual(sharedLog.Recipients, header.Recipients) {
		return itcryptoApperr.Wrap(itcryptoApperr.ErrMalformedData, "shared log recipients do not match protected header recipients")
	}

	if !itcryptoModel.Contains(sharedLog.Recipients, receiverID) {
		return itcryptoApperr.Wrap(itcryptoApperr.ErrMalformedData, fmt.Sprintf("receiver %q is not among the declared recipients", receiverID))
	}

	if accessLog.Owner != header.Owner {
		return itcryptoApperr.Wrap(itcryptoApperr.ErrMalformedData, "access log owner does not match protected header owner")
	}

	if sharedLog.Creator != accessLog.Owner && sharedLog.Creator != accessLog.Monitor {
		return itcryptoApperr.Wrap(itcryptoApperr.ErrMalformedData, "shared log creator is neither the owner nor the monitor")
	}

	if sharedLog.Creator == accessLog.Monitor {
		if len(sharedLog.Recipients) != 1 || sharedLog.Recipients[0] != accessLog.Owner {
			return itcryptoApperr.Wrap(itcryptoApperr.ErrMalformedData, "a monitor may only share directly with the data owner")
		}
	}

	return nil
}

func (d DecryptionService) fail(err error) error {
	if d.Telemetry != nil {
		d.Telemetry.Logger().Error("decrypt failed", "error", err)
	}

	return err
}
