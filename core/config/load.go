package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// Load loads the configuration from the directory.
func Load(path string) (*Configuration, error) {
	// If given the path to a config.yaml file, move back up a level.
	if filepath.Base(path) == ConfigurationName {
		path = filepath.Dir(path)
	}

	return LoadFs(afero.NewBasePathFs(afero.NewOsFs(), path))
}

// LoadFs loads the configuration from the root of fs. A missing configuration
// file results in the defaults.
func LoadFs(fs afero.Fs) (*Configuration, error) {
	configContents, err := afero.ReadFile(fs, ConfigurationName)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return Default(fs), nil
	case err != nil:
		return nil, err
	}

	// Start from the defaults so omitted fields keep sensible values.
	out := defaultConfig()
	if err := yaml.UnmarshalStrict(configContents, out); err != nil {
		return nil, fmt.Errorf("%s: %w", ConfigurationName, err)
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", ConfigurationName, err)
	}
	out.configFs = fs
	return out, nil
}

// Initialize writes the default configuration to the directory, existing
// files are left untouched.
func Initialize(path string, logger *log.Logger) error {
	fs := afero.NewOsFs()
	if err := fs.MkdirAll(path, 0700); err != nil {
		return err
	}
	return InitializeFs(afero.NewBasePathFs(fs, path), logger)
}

// InitializeFs writes the default configuration to the root of fs.
func InitializeFs(fs afero.Fs, logger *log.Logger) error {
	exists, err := afero.Exists(fs, ConfigurationName)
	switch {
	case err != nil:
		return err
	case exists:
		logger.Printf("%s already exists, skipping", ConfigurationName)
		return nil
	}

	logger.Printf("Writing %s", ConfigurationName)
	return afero.WriteFile(fs, ConfigurationName, defaultConfigData, 0600)
}
