// Copyright (c) 2025 Justin Cranford

// Package config parses process settings: pflag-declared flags bound into
// a viper instance, with a typed Settings struct as the only thing the
// rest of the module sees.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Settings holds the process-wide defaults for the encryption/signing
// algorithms and the demo certificate validity window used by
// user.GenerateAuthenticatedUser, plus the log level consumed by telemetry.
type Settings struct {
	LogLevelName     string
	ContentEnc       string
	KeyWrapAlg       string
	SignAlg          string
	DemoCertValidity time.Duration
}

const (
	defaultContentEnc       = "A256GCM"
	defaultKeyWrapAlg       = "ECDH-ES+A256KW"
	defaultSignAlg          = "ES256"
	defaultLogLevel         = "INFO"
	DefaultDemoCertValidity = 24 * time.Hour
)

// LogLevel parses LogLevelName, falling back to slog.LevelInfo when it is
// not a valid level name. telemetry.New uses it as its handlers' level.
func (s *Settings) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s.LogLevelName)); err != nil {
		return slog.LevelInfo
	}

	return level
}

// Parse builds Settings from flag defaults, a "it-crypto.yaml" config file
// if present, IT_CRYPTO_-prefixed environment variables, and flags set
// explicitly in args, in that increasing order of precedence — the same
// flag/file/env layering the
// teacher's service configs use, minus the network-bind flags this
// transport-free library has no use for.
func Parse(args []string) (*Settings, error) {
	flags := pflag.NewFlagSet("it-crypto", pflag.ContinueOnError)
	flags.String("log-level", defaultLogLevel, "log level: DEBUG, INFO, WARN, ERROR")
	flags.String("content-enc", defaultContentEnc, "JWE content encryption algorithm")
	flags.String("key-wrap-alg", defaultKeyWrapAlg, "JWE key management algorithm")
	flags.String("sign-alg", defaultSignAlg, "JWS signature algorithm")
	flags.Duration("demo-cert-validity", DefaultDemoCertValidity, "validity window for self-signed demo certificates")

	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("cannot parse flags: %w", err)
	}

	v := viper.New()
	v.SetConfigName("it-crypto")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("IT_CRYPTO")
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("cannot bind flags: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("cannot read config file: %w", err)
		}
	}

	return &Settings{
		LogLevelName:     v.GetString("log-level"),
		ContentEnc:       v.GetString("content-enc"),
		KeyWrapAlg:       v.GetString("key-wrap-alg"),
		SignAlg:          v.GetString("sign-alg"),
		DemoCertValidity: v.GetDuration("demo-cert-validity"),
	}, nil
}

// RequireNewForTest returns defaulted Settings, panicking on a parse error
// that should be unreachable with no args.
func RequireNewForTest() *Settings {
	settings, err := Parse(nil)
	if err != nil {
		panic(err)
	}

	return settings
}
