package testutil

import (
	"io"
	"log/slog"
)

// NopLogger returns a slog.Logger that discards everything. Services take a
// logger in their constructors; tests pass this one.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
