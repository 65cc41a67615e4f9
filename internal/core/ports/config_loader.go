package ports

import "go.trai.ch/vcsstamp/internal/core/domain"

// ConfigLoader defines the interface for loading settings.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load returns the settings for the given working directory, starting from the defaults
	// and applying the nearest config file found in cwd or its ancestors.
	Load(cwd string) (domain.Settings, error)
}
