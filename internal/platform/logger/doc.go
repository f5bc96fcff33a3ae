// Package logger provides structured logging functionality for the application.
//
// It utilizes Go's standard library log/slog package to implement structured JSON logging
// with configurable log levels. ContextHandler adds request and OpenTelemetry
// identifiers found in the context to every record, and the context helpers
// carry a request-scoped logger through the call chain.
package logger
