// Package pkg provides shared utilities for the splitwork packages.
//
// This package contains common functionality used by the round-robin core,
// the endpoint adapters, the worker runner and the command line, including:
//
//   - Structured logging via Go's standard [log/slog] package
//   - Sentinel errors for configuration, I/O, memory and cancellation failures
//   - An error [Kind] classification with process exit codes
//   - Component identifiers for log filtering
//
// # Logging
//
// The logging subsystem wraps [log/slog] with component context:
//
//	pkg.SetLogLevel(slog.LevelDebug)
//	pkg.LogInfo(pkg.ComponentSplit, "split finished", "lines", 42)
//
// # Errors
//
// Failures are reported as sentinel values, usually wrapped with the
// offending endpoint:
//
//	if errors.Is(err, pkg.ErrCancelled) {
//	    // Handle cancellation
//	}
//
// [KindOf] reduces any returned error to one [Kind]:
//
//	os.Exit(pkg.KindOf(err).ExitCode())
package pkg
