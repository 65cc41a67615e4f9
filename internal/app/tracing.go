package app

import (
	"context"

	"go.trai.ch/vcsstamp/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
)

// EnableTracing installs a tracer provider that reports every finished span through the logger.
// The returned function flushes and shuts the provider down.
func (a *App) EnableTracing() func(context.Context) error {
	provider := telemetry.NewProvider(telemetry.NewBridge(a.logger))
	telemetry.Install(provider)
	return provider.Shutdown
}
