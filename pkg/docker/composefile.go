package docker

import (
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/geonode-contrib/geostack/pkg/errors"
)

// composeFile is the subset of docker-compose.yml we care about.
type composeFile struct {
	Services map[string]struct{} `yaml:"services"`
}

// ComposeFileNames are the file names probed for the project definition,
// in order.
var ComposeFileNames = []string{"docker-compose.yml", "docker-compose.yaml", "compose.yml", "compose.yaml"}

// Services reads the checkout's compose file and returns its service names
// sorted alphabetically.
func (c *Client) Services() ([]string, error) {
	path, err := c.composeFilePath()
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", path)
	}

	var cf composeFile
	if err := yaml.Unmarshal(content, &cf); err != nil {
		return nil, errors.Wrapf(err, errors.ErrInternal, "failed to parse %s", path)
	}

	names := make([]string, 0, len(cf.Services))
	for name := range cf.Services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// HasComposeFile reports whether the project directory carries a compose
// definition.
func (c *Client) HasComposeFile() bool {
	_, err := c.composeFilePath()
	return err == nil
}

func (c *Client) composeFilePath() (string, error) {
	for _, name := range ComposeFileNames {
		path := filepath.Join(c.projectDir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", errors.Newf(errors.ErrFileNotFound, "no compose file found in %s", c.projectDir)
}
