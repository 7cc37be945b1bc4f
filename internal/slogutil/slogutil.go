package slogutil

import (
	"io"
	"log/slog"
	"strings"
)

// Formats accepted by New.
const (
	FormatHuman = "human"
	FormatJSON  = "json"
)

// silent sits above every standard level.
const silent = slog.Level(100)

// New creates a logger writing to w in the given format ("human" or "json").
// Unknown formats fall back to human.
func New(w io.Writer, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(format, FormatJSON) {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(NewLineHandler(w, opts))
}

// NewDiscardLogger creates a logger that drops everything.
func NewDiscardLogger() *slog.Logger {
	return slog.New(NewLineHandler(io.Discard, &slog.HandlerOptions{Level: silent}))
}

// LevelFromString converts a string to a slog.Level.
// Supports: debug, info, warn, error, off (case-insensitive).
// Returns slog.LevelWarn for unrecognized strings.
func LevelFromString(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "off", "none", "quiet":
		return silent
	default:
		return slog.LevelWarn
	}
}

// ValidLevel reports whether LevelFromString recognizes s.
func ValidLevel(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "info", "warn", "warning", "error", "off", "none", "quiet":
		return true
	}
	return false
}
