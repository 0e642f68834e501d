// Package log provides structured event capture for the provisioning
// agent.
//
// This package defines the Logger interface and Event types for the
// agent's lifecycle: session state changes, credential receipt and
// errors. It is separate from operational logging (slog) - event capture
// produces a complete machine-readable trace of a provisioning run for
// later analysis.
//
// Applications configure capture by providing a Logger implementation:
//
//	// For development: events in the console via slog
//	cfg.EventLogger = log.NewSlogAdapter(slog.Default())
//
//	// For production: append to a binary file
//	cfg.EventLogger, _ = log.NewFileLogger("/var/log/wifiprov/agent.plog")
//
//	// Both
//	cfg.EventLogger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// Event files use CBOR encoding with integer keys; ReadAll decodes them.
package log
