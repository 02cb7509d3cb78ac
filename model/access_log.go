// Copyright (c) 2025 Justin Cranford

// Package model holds the canonical JSON value types exchanged by the
// log-sharing protocol: AccessLog, SharedLog, and the SignedLog wrapper.
package model

import (
	"encoding/json"
	"fmt"

	itcryptoApperr "github.com/haggj/go-it-crypto/apperr"
)

// AccessLog records that a monitor's tool accessed an owner's data.
type AccessLog struct {
	Monitor       string   `json:"monitor"`
	Owner         string   `json:"owner"`
	Tool          string   `json:"tool"`
	Justification string   `json:"justification"`
	Timestamp     int64    `json:"timestamp"`
	AccessKind    string   `json:"accessKind"`
	DataTypes     []string `json:"dataTypes"`
	ID            string   `json:"id"`
}

// AccessLogFromJSON parses a JSON-encoded AccessLog.
func AccessLogFromJSON(raw string) (AccessLog, error) {
	var log AccessLog
	if err := json.Unmarshal([]byte(raw), &log); err != nil {
		return AccessLog{}, itcryptoApperr.Wrap(itcryptoApperr.ErrMalformedAccessLog, fmt.Sprintf("invalid access log JSON: %v", err))
	}

	return log, nil
}

// AccessLogFromBytes parses UTF-8 JSON bytes as an AccessLog.
func AccessLogFromBytes(raw []byte) (AccessLog, error) {
	return AccessLogFromJSON(string(raw))
}

// ToJSON renders the AccessLog as canonical, stable-field-order JSON.
func (l AccessLog) ToJSON() (string, error) {
	buf, err := json.Marshal(l)
	if err != nil {
		return "", itcryptoApperr.Wrap(itcryptoApperr.ErrMalformedAccessLog, fmt.Sprintf("cannot serialise access log: %v", err))
	}

	return string(buf), nil
}

// ToBytes renders the AccessLog as canonical JSON UTF-8 bytes.
func (l AccessLog) ToBytes() ([]byte, error) {
	s, err := l.ToJSON()
	if err != nil {
		return nil, err
	}

	return []byte(s), nil
}
