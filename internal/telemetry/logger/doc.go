// Package logger provides structured logging for securetoken.
//
// This package configures log/slog for structured logging:
//
//   - logger.go: handler configuration and level control
//   - context.go: logger propagation through context
//   - redact.go: sensitive data redaction
//
// Features:
//
//   - JSON and text output formats
//   - Log level filtering with runtime adjustment
//   - Automatic masking of token values and credential-like fields
//   - Context propagation for request-scoped loggers
//
// @req RQ-0403
// @design DS-0402
package logger
