package app

import (
	"go.trai.ch/vcsstamp/internal/adapters/logger" //nolint:depguard // Wired in app layer
	"go.trai.ch/vcsstamp/internal/core/ports"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
	// Console is the concrete logger, exposed so the CLI can pick the log format.
	Console *logger.Logger
}

// NewComponents creates a new Components struct from dependencies.
func NewComponents(app *App, console *logger.Logger) *Components {
	return &Components{
		App:     app,
		Logger:  console,
		Console: console,
	}
}
