// Copyright (c) 2025 Justin Cranford

package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	itcryptoConfig "github.com/haggj/go-it-crypto/config"
)

func TestParseDefaults(t *testing.T) {
	t.Parallel()

	settings, err := itcryptoConfig.Parse(nil)
	require.NoError(t, err)
	require.Equal(t, "INFO", settings.LogLevelName)
	require.Equal(t, "A256GCM", settings.ContentEnc)
	require.Equal(t, "ECDH-ES+A256KW", settings.KeyWrapAlg)
	require.Equal(t, "ES256", settings.SignAlg)
	require.Equal(t, 24*time.Hour, settings.DemoCertValidity)
	require.Equal(t, slog.LevelInfo, settings.LogLevel())
}

func TestParseFlagOverride(t *testing.T) {
	t.Parallel()

	settings, err := itcryptoConfig.Parse([]string{"--log-level=DEBUG", "--demo-cert-validity=1h"})
	require.NoError(t, err)
	require.Equal(t, "DEBUG", settings.LogLevelName)
	require.Equal(t, slog.LevelDebug, settings.LogLevel())
	require.Equal(t, time.Hour, settings.DemoCertValidity)
}

func TestParseInvalidFlag(t *testing.T) {
	t.Parallel()

	_, err := itcryptoConfig.Parse([]string{"--not-a-real-flag"})
	require.Error(t, err)
}

func TestRequireNewForTest(t *testing.T) {
	t.Parallel()

	require.NotPanics(t, func() {
		settings := itcryptoConfig.RequireNewForTest()
		require.NotNil(t, settings)
	})
}

func TestLogLevelFallsBackToInfoOnGarbage(t *testing.T) {
	t.Parallel()

	settings := &itcryptoConfig.Settings{LogLevelName: "not-a-level"}
	require.Equal(t, slog.LevelInfo, settings.LogLevel())
}
