// Package logging provides a minimal logging interface and adapters for loopkit.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that the engine and its collaborators use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - ZerologAdapter wrapping github.com/rs/zerolog
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	h := loopkit.New(routine, engine.WithLogger[fields](logger))
//
// The design intentionally keeps the interface minimal to avoid vendor lock-in
// while supporting structured logging where available.
package logging
