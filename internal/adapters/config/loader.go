// Package config provides the configuration loader for vcsstamp.
package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"

	"go.trai.ch/vcsstamp/internal/core/domain"
	"go.trai.ch/vcsstamp/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// SchemaVersion is the only config version understood by this loader.
const SchemaVersion = "1"

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load returns the default settings for cwd, overridden by the nearest vcsstamp.yaml
// in cwd or one of its ancestors. A missing config file is not an error.
func (l *Loader) Load(cwd string) (domain.Settings, error) {
	settings := domain.DefaultSettings()
	settings.WorkDir = cwd

	configPath, found := findConfiguration(cwd)
	if !found {
		return settings, nil
	}

	var stampfile Stampfile
	if err := readAndUnmarshalYAML(configPath, &stampfile); err != nil {
		return settings, zerr.With(err, "path", configPath)
	}

	if stampfile.Version != "" && stampfile.Version != SchemaVersion {
		l.Logger.Warn("Unknown version '" + stampfile.Version + "' in " + configPath + ", reading it as version " + SchemaVersion)
	}

	if err := apply(&settings, &stampfile, filepath.Dir(configPath)); err != nil {
		return settings, zerr.With(err, "path", configPath)
	}

	l.Logger.Info("Using config " + configPath)
	return settings, nil
}

// findConfiguration walks up from cwd looking for the config file.
func findConfiguration(cwd string) (string, bool) {
	currentDir, err := filepath.Abs(cwd)
	if err != nil {
		currentDir = filepath.Clean(cwd)
	}

	for {
		configPath := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := os.Stat(configPath); err == nil && !info.IsDir() {
			return configPath, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			return "", false
		}
		currentDir = parentDir
	}
}

// apply copies the non-empty fields of stampfile onto settings.
// A relative cache file is anchored at the directory holding the config file.
func apply(settings *domain.Settings, stampfile *Stampfile, configDir string) error {
	if stampfile.CacheFile != "" {
		settings.CacheFile = resolveCacheFile(configDir, stampfile.CacheFile)
	}
	if stampfile.BranchEnv != nil {
		settings.BranchEnv = *stampfile.BranchEnv
	}
	if stampfile.DetachedPolicy != "" {
		policy, err := domain.ParseDetachedPolicy(stampfile.DetachedPolicy)
		if err != nil {
			return err
		}
		settings.DetachedPolicy = policy
	}
	if stampfile.Git != "" {
		settings.GitBinary = stampfile.Git
	}
	if stampfile.HeaderPrefix != "" {
		settings.HeaderPrefix = stampfile.HeaderPrefix
	}
	return nil
}

func resolveCacheFile(configDir, configured string) string {
	if filepath.IsAbs(configured) {
		return filepath.Clean(configured)
	}
	return filepath.Clean(filepath.Join(configDir, configured))
}

// readAndUnmarshalYAML reads a YAML file and strictly decodes it into the target struct.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is found by walking up from the work dir
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Join(domain.ErrConfigReadFailed, err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(configFile))
	decoder.KnownFields(true)
	if parseErr := decoder.Decode(target); parseErr != nil && !errors.Is(parseErr, io.EOF) {
		return errors.Join(domain.ErrConfigParseFailed, parseErr)
	}

	return nil
}
