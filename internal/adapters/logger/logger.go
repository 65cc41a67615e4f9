// Package logger implements a logging adapter using log/slog.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/muesli/termenv"
	"go.trai.ch/vcsstamp/internal/core/ports"
)

// Format selects how log records are rendered.
type Format string

const (
	// FormatPretty renders colored, human-readable lines.
	FormatPretty Format = "pretty"
	// FormatPlain renders human-readable lines without escape sequences.
	FormatPlain Format = "plain"
	// FormatJSON renders one JSON object per record.
	FormatJSON Format = "json"
)

var _ ports.Logger = (*Logger)(nil)

// messager describes an error that can report its own message without the chain.
// This matches the Message() method provided by zerr.Error.
type messager interface {
	Message() string
}

// metadataer describes an error that carries structured metadata, like zerr.Error.
type metadataer interface {
	Metadata() map[string]any
}

// ErrorEntry is one link of an error chain.
type ErrorEntry struct {
	Message  string
	Metadata map[string]any
}

// Logger implements ports.Logger using log/slog.
type Logger struct {
	logger *slog.Logger
	mu     sync.RWMutex
	format Format
	output io.Writer
	level  *slog.LevelVar
}

// New creates a new Logger writing pretty records to stderr.
func New() *Logger {
	l := &Logger{
		format: FormatPretty,
		output: os.Stderr,
		level:  &slog.LevelVar{},
	}
	l.level.Set(slog.LevelInfo)
	l.rebuild()
	return l
}

// SetOutput updates the logger's output destination.
// It preserves the current format. If w is nil, os.Stderr is used.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.rebuild()
}

// SetFormat switches the record format. The output destination is preserved.
func (l *Logger) SetFormat(format Format) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.format = format
	l.rebuild()
}

// SetQuiet drops informational records when enabled.
func (l *Logger) SetQuiet(quiet bool) {
	if quiet {
		l.level.Set(slog.LevelWarn)
		return
	}
	l.level.Set(slog.LevelInfo)
}

// rebuild replaces the slog handler. Callers must hold mu.
func (l *Logger) rebuild() {
	opts := &slog.HandlerOptions{Level: l.level}

	var handler slog.Handler
	switch l.format {
	case FormatJSON:
		handler = slog.NewJSONHandler(l.output, opts)
	case FormatPlain:
		handler = NewPlainHandler(l.output, opts)
	default:
		handler = NewPrettyHandler(l.output, opts)
	}
	l.logger = slog.New(handler)
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs an error with its cause chain.
func (l *Logger) Error(err error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if err == nil {
		return
	}

	entries := collectErrorEntries(err)

	if l.format == FormatJSON {
		attrs := []any{"error", err.Error()}
		if meta := mergeMetadata(entries); len(meta) > 0 {
			attrs = append(attrs, "metadata", meta)
		}
		l.logger.Error("operation failed", attrs...)
		return
	}

	l.logger.Error(formatErrorEntries(entries))
}

// collectErrorEntries walks the error chain.
// zerr links contribute their own message and metadata; the first standard error ends
// the walk with its full text. Joined errors are flattened in order. Metadata attached
// to a link without a message belongs to the next entry.
func collectErrorEntries(err error) []ErrorEntry {
	var entries []ErrorEntry
	var pending map[string]any

	push := func(entry ErrorEntry) {
		if len(pending) > 0 {
			if entry.Metadata == nil {
				entry.Metadata = map[string]any{}
			}
			for k, v := range pending {
				entry.Metadata[k] = v
			}
			pending = nil
		}
		entries = append(entries, entry)
	}

	for current := err; current != nil; {
		if joined, ok := current.(interface{ Unwrap() []error }); ok {
			for _, inner := range joined.Unwrap() {
				for _, entry := range collectErrorEntries(inner) {
					push(entry)
				}
			}
			return entries
		}

		m, ok := current.(messager)
		if !ok {
			push(ErrorEntry{Message: current.Error()})
			return entries
		}

		var meta map[string]any
		if md, ok := current.(metadataer); ok {
			meta = md.Metadata()
		}

		if msg := m.Message(); msg != "" {
			push(ErrorEntry{Message: msg, Metadata: meta})
		} else if len(meta) > 0 {
			if pending == nil {
				pending = map[string]any{}
			}
			for k, v := range meta {
				pending[k] = v
			}
		}

		current = errors.Unwrap(current)
	}

	if len(pending) > 0 && len(entries) > 0 {
		last := &entries[len(entries)-1]
		if last.Metadata == nil {
			last.Metadata = map[string]any{}
		}
		for k, v := range pending {
			last.Metadata[k] = v
		}
	}

	return entries
}

// formatErrorEntries renders entries as an "Error:" line followed by "Caused by:" lines.
// Metadata is printed below its message, sorted by key.
func formatErrorEntries(entries []ErrorEntry) string {
	var lines []string

	for i, entry := range entries {
		msgLines := strings.Split(entry.Message, "\n")

		var head, indent string
		if i == 0 {
			head = "Error: "
			indent = "       "
		} else {
			if i == 1 {
				lines = append(lines, "", "  Caused by:")
			}
			head = "    → "
			indent = "      "
		}

		lines = append(lines, head+msgLines[0])
		for _, line := range msgLines[1:] {
			lines = append(lines, indent+line)
		}

		for _, key := range sortedKeys(entry.Metadata) {
			lines = append(lines, fmt.Sprintf("%s%s: %v", indent, key, entry.Metadata[key]))
		}
	}

	return strings.Join(lines, "\n")
}

func mergeMetadata(entries []ErrorEntry) map[string]any {
	merged := map[string]any{}
	for _, entry := range entries {
		for k, v := range entry.Metadata {
			if _, exists := merged[k]; !exists {
				merged[k] = v
			}
		}
	}
	return merged
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// asciiProfile disables colors.
func asciiProfile() termenv.Profile {
	return termenv.Ascii
}
