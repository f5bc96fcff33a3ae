// Package gemini implements generation.Completer on top of Google's Gemini
// API.
//
// This package is an infrastructure adapter: it turns a prompt into a
// GenerateContent request, extracts the answer text, and translates empty or
// safety-blocked answers into the generation package's sentinel errors.
// Transport and quota errors are returned with their original message so
// the backoff policy in the generation package can classify them. The
// client itself never retries.
//
// Each call records a Prometheus latency observation and outcome counter
// and runs inside an OpenTelemetry span.
package gemini
