// Copyright (c) 2025 Justin Cranford

// Package telemetry provides the structured logger shared by the service
// and user packages. It carries only logging: this protocol is a
// stateless library with no server loop to trace and no counters worth
// exporting as metrics, so there is no tracer or meter provider here.
package telemetry

import (
	"io"
	"log/slog"
	"os"
	"time"

	slogmulti "github.com/samber/slog-multi"

	itcryptoConfig "github.com/haggj/go-it-crypto/config"
)

// Service owns the process-wide slog.Logger and its start time.
type Service struct {
	Slogger   *slog.Logger
	StartTime time.Time
	closer    io.Closer
}

// New builds a Service that fans out to stderr text and, when logPath is
// non-empty, a JSON file handler as well: console for humans, JSON for
// machines.
func New(settings *itcryptoConfig.Settings, logPath string) (*Service, error) {
	handlers := []slog.Handler{
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: settings.LogLevel()}),
	}

	var closer io.Closer

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, err
		}

		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: settings.LogLevel()}))
		closer = f
	}

	logger := slog.New(slogmulti.Fanout(handlers...))

	return &Service{Slogger: logger, StartTime: time.Now(), closer: closer}, nil
}

// RequireNewForTest builds a Service suitable for tests: stderr only, panics
// on failure since test setup has nowhere else to report it.
func RequireNewForTest() *Service {
	svc, err := New(itcryptoConfig.RequireNewForTest(), "")
	if err != nil {
		panic(err)
	}

	return svc
}

// Logger returns the underlying slog.Logger. Defined as a method rather than
// exposing Slogger directly at every call site so that callers can treat a
// nil *Service as "logging disabled" via a nil check before the call.
func (s *Service) Logger() *slog.Logger {
	return s.Slogger
}

// Shutdown releases the log file handle, if one was opened.
func (s *Service) Shutdown() error {
	if s.closer == nil {
		return nil
	}

	return s.closer.Close()
}
