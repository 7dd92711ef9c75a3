package commands

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/geonode-contrib/geostack/pkg/config"
	"github.com/geonode-contrib/geostack/pkg/errors"
	"github.com/geonode-contrib/geostack/pkg/logging"
)

// GenConfigOptions defines the options for the GenConfig command.
type GenConfigOptions struct {
	// Write saves the config to disk instead of only returning it.
	Write bool
	// Path is where the file is written. Defaults to geostack.toml in the
	// current directory.
	Path string
}

// GenConfigResult carries the rendered config and what was written.
type GenConfigResult struct {
	Content string
	Path    string
	Written bool
}

// GenConfig renders the default configuration as TOML, optionally writing
// it to disk. An existing file is never overwritten.
func GenConfig(opts GenConfigOptions) (*GenConfigResult, error) {
	log := logging.GetLogger("commands.genconfig")

	cfg, err := config.Default()
	if err != nil {
		return nil, err
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to render default configuration")
	}

	result := &GenConfigResult{Content: string(data)}

	if !opts.Write {
		log.Debug().Msg("Outputting config to stdout")
		return result, nil
	}

	path := opts.Path
	if path == "" {
		path = config.ConfigFileName
	}
	result.Path = path

	if _, err := os.Stat(path); err == nil {
		log.Warn().Str("path", path).Msg("Config file already exists, skipping")
		return result, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return result, errors.Wrapf(err, errors.ErrDirCreate, "failed to create directory for %s", path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return result, errors.Wrapf(err, errors.ErrFileWrite, "failed to write config to %s", path)
	}

	log.Info().Str("path", path).Msg("Written config file")
	result.Written = true
	return result, nil
}
