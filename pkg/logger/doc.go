// Package logger provides a small factory around log/slog with functional
// options for format, level, output and static attributes.
package logger
