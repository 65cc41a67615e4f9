// Package detector provides environment detection for log format selection.
package detector

import (
	"os"

	"go.trai.ch/vcsstamp/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/term"
)

// LogMode represents how diagnostics are rendered on stderr.
type LogMode string

const (
	// ModeAuto picks pretty output on an interactive terminal and plain output otherwise.
	ModeAuto LogMode = "auto"
	// ModePretty forces colored output.
	ModePretty LogMode = "pretty"
	// ModePlain forces output without escape sequences.
	ModePlain LogMode = "plain"
	// ModeJSON forces one JSON object per record.
	ModeJSON LogMode = "json"
)

// DetectEnvironment returns the recommended log mode for the current stderr.
func DetectEnvironment() LogMode {
	return Detect(term.IsTerminal(int(os.Stderr.Fd())), os.Getenv("CI")) //nolint:gosec // fd fits in int
}

// Detect returns ModePretty for an interactive terminal outside CI and ModePlain otherwise.
func Detect(isTTY bool, ci string) LogMode {
	isCI := ci == "true" || ci == "1"
	if !isTTY || isCI {
		return ModePlain
	}
	return ModePretty
}

// ParseMode validates a user supplied mode. An empty flag selects ModeAuto.
func ParseMode(flag string) (LogMode, error) {
	switch mode := LogMode(flag); mode {
	case "":
		return ModeAuto, nil
	case ModeAuto, ModePretty, ModePlain, ModeJSON:
		return mode, nil
	default:
		return "", zerr.With(zerr.Wrap(domain.ErrUnknownLogFormat, "parse log format"), "log_format", flag)
	}
}

// ResolveMode applies the user's choice to the auto-detected mode.
func ResolveMode(autoDetected, user LogMode) LogMode {
	if user == "" || user == ModeAuto {
		return autoDetected
	}
	return user
}
