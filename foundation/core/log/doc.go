// Package log provides structured logging for engcalc.
//
// Package: log
// Title: engcalc Structured Logging
// Description: Leveled, structured logger with persistent context fields,
//              named child loggers, JSON and text output and a small timer
//              helper. Errors carrying an engcalc error code are logged with
//              their code and severity.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-17
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with structured logging and error integration
// - 2026-10-17 v0.2.0: Trimmed to synchronous output, dropped request context
//
// Usage:
//
//	import mdwlog "github.com/msto63/engcalc/foundation/core/log"
//
//	logger := mdwlog.New().
//		WithLevel(mdwlog.LevelDebug).
//		WithFormat(mdwlog.FormatText).
//		WithName("registry")
//
//	logger.Info("variant registered", mdwlog.Field("key", "Materials.Stress"))
//	logger.LogError(err)
//
//	timer := logger.StartTimer("calculate")
//	// ... evaluate the formula
//	timer.Stop()
package log
