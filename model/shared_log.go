// Copyright (c) 2025 Justin Cranford

package model

import (
	"encoding/json"
	"fmt"

	itcryptoApperr "github.com/haggj/go-it-crypto/apperr"
	itcryptoJose "github.com/haggj/go-it-crypto/jose"
)

// SharedLog records a single sharing act: creator shares log (the embedded
// signed AccessLog) with recipients.
type SharedLog struct {
	Log        itcryptoJose.FlattenedJWS `json:"log"`
	Creator    string                    `json:"creator"`
	Owner      string                    `json:"owner"`
	Recipients []string                  `json:"recipients"`
	ID         string                    `json:"id"`
}

// SharedLogFromJSON parses a JSON-encoded SharedLog.
func SharedLogFromJSON(raw string) (SharedLog, error) {
	var log SharedLog
	if err := json.Unmarshal([]byte(raw), &log); err != nil {
		return SharedLog{}, itcryptoApperr.Wrap(itcryptoApperr.ErrMalformedSharedLog, fmt.Sprintf("invalid shared log JSON: %v", err))
	}

	return log, nil
}

// SharedLogFromBytes parses UTF-8 JSON bytes as a SharedLog.
func SharedLogFromBytes(raw []byte) (SharedLog, error) {
	return SharedLogFromJSON(string(raw))
}

// ToJSON renders the SharedLog as canonical, stable-field-order JSON.
func (l SharedLog) ToJSON() (string, error) {
	buf, err := json.Marshal(l)
	if err != nil {
		return "", itcryptoApperr.Wrap(itcryptoApperr.ErrMalformedSharedLog, fmt.Sprintf("cannot serialise shared log: %v", err))
	}

	return string(buf), nil
}

// ToBytes renders the SharedLog as canonical JSON UTF-8 bytes.
func (l SharedLog) ToBytes() ([]byte, error) {
	s, err := l.ToJSON()
	if err != nil {
		return nil, err
	}

	return []byte(s), nil
}

// SequenceEqual reports order-sensitive equality between two recipient
// sequences, matching the sibling implementations' string comparison of the
// stringified sequence.
func SequenceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

// Contains reports whether id is present anywhere in recipients.
func Contains(recipients []string, id string) bool {
	for _, r := range recipients {
		if r == id {
			return true
		}
	}

	return false
}
