// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/vcsstamp/internal/adapters/cache"
	_ "go.trai.ch/vcsstamp/internal/adapters/config"
	_ "go.trai.ch/vcsstamp/internal/adapters/fs"
	_ "go.trai.ch/vcsstamp/internal/adapters/git"
	_ "go.trai.ch/vcsstamp/internal/adapters/logger"
	_ "go.trai.ch/vcsstamp/internal/adapters/telemetry"
	_ "go.trai.ch/vcsstamp/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/vcsstamp/internal/app"
)
