// Package pkg provides shared utilities for the softdma transfer engine.
//
// This package contains common functionality used by the engine, the channel
// HAL implementations and the supporting collaborator packages, including:
//
//   - Structured logging via Go's standard [log/slog] package
//   - Sentinel error values for the engine's error taxonomy
//   - Component identifiers for log filtering
//   - The completion status reported by a copy-engine channel
//   - [Guard], the single-owner admission counter behind exclusive opens
//
// # Logging
//
// The logging subsystem wraps [log/slog] with a component tag:
//
//	pkg.SetLogLevel(slog.LevelDebug)
//	pkg.LogInfo(pkg.ComponentEngine, "transfer complete", "slot", 3)
//
// # Errors
//
// Engine errors are sentinel values, wrapped with context by each layer:
//
//	if errors.Is(err, pkg.ErrAlreadyOpen) {
//	    // another caller owns the engine
//	}
package pkg
