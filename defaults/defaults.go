package defaults

import (
	"io"
	"os"
	"path/filepath"

	e "github.com/pkg/errors"
	"github.com/sahib/config"
)

// CurrentVersion is the current version of grass's config
const CurrentVersion = 0

// Defaults is the default validation for grass
var Defaults = DefaultsV0

func newMigrater() *config.Migrater {
	// Add here any migrations with mgr.Add if needed.
	mgr := config.NewMigrater(CurrentVersion, config.StrictnessPanic)
	mgr.Add(0, nil, DefaultsV0)
	return mgr
}

// OpenMigratedConfig takes the config.yml at path and loads it.
// If required, it also migrates the config structure to the newest
// version - grass can always rely on the latest config keys to be present.
// A missing file is no error; a config with default values is returned.
func OpenMigratedConfig(path string) (*config.Config, error) {
	fd, err := os.Open(path)
	if os.IsNotExist(err) {
		return OpenDefaultConfig()
	}

	if err != nil {
		return nil, e.Wrap(err, "failed to open config")
	}

	defer fd.Close()
	return ReadMigratedConfig(fd)
}

// ReadMigratedConfig is like OpenMigratedConfig, but reads from `r`.
func ReadMigratedConfig(r io.Reader) (*config.Config, error) {
	cfg, err := newMigrater().Migrate(config.NewYamlDecoder(r))
	if err != nil {
		return nil, e.Wrap(err, "failed to migrate")
	}

	return cfg, nil
}

// OpenDefaultConfig returns a config that only consists of default values.
func OpenDefaultConfig() (*config.Config, error) {
	cfg, err := newMigrater().Migrate(nil)
	if err != nil {
		return nil, e.Wrap(err, "failed to load defaults")
	}

	return cfg, nil
}

// SaveConfig writes `cfg` to `path` as yaml.
// Missing parent directories are created.
func SaveConfig(path string, cfg *config.Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return e.Wrap(err, "failed to create config dir")
	}

	fd, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return e.Wrap(err, "failed to open config for writing")
	}

	if err := cfg.Save(config.NewYamlEncoder(fd)); err != nil {
		fd.Close()
		return e.Wrap(err, "failed to save config")
	}

	return fd.Close()
}
