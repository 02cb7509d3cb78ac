// Copyright (c) 2025 Justin Cranford

package telemetry_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	itcryptoTelemetry "github.com/haggj/go-it-crypto/telemetry"
)

func TestRequireNewForTest(t *testing.T) {
	t.Parallel()

	svc := itcryptoTelemetry.RequireNewForTest()
	require.NotNil(t, svc.Logger())
	require.False(t, svc.StartTime.IsZero())
	require.NoError(t, svc.Shutdown())
}

func TestLoggerLogsWithoutPanicking(t *testing.T) {
	t.Parallel()

	svc := itcryptoTelemetry.RequireNewForTest()
	require.NotPanics(t, func() {
		svc.Logger().Info("test message", "key", "value")
		svc.Logger().Error("test error", "error", errors.New("boom"))
	})
}
