// Package state tracks which run-once provisioning steps have completed.
// Each completed step leaves a sentinel file under the geostack state
// directory; re-running the provisioner skips steps whose sentinel exists.
package state

import (
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/geonode-contrib/geostack/pkg/errors"
)

// Store persists step sentinels.
type Store interface {
	// RecordStep marks a provisioning step as complete.
	RecordStep(name string) error
	// HasStep reports whether a step's sentinel exists.
	HasStep(name string) (bool, error)
	// ClearStep removes a step's sentinel so the step runs again.
	ClearStep(name string) error
	// ClearAll removes every sentinel.
	ClearAll() error
}

type filesystemStore struct {
	dir string
}

// New creates a Store rooted at dir. With an empty dir, the default
// XDG state location is used.
func New(dir string) Store {
	if dir == "" {
		dir = filepath.Join(xdg.StateHome, "geostack", "sentinels")
	}
	return &filesystemStore{dir: dir}
}

// RecordStep writes a sentinel with a timestamp payload.
func (s *filesystemStore) RecordStep(name string) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return errors.Wrap(err, errors.ErrStateWrite, "failed to create sentinel directory")
	}

	content := "completed=" + time.Now().UTC().Format(time.RFC3339) + "\n"
	if err := os.WriteFile(s.sentinelPath(name), []byte(content), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrStateWrite, "failed to write sentinel for %s", name)
	}
	return nil
}

// HasStep reports whether the sentinel file exists.
func (s *filesystemStore) HasStep(name string) (bool, error) {
	_, err := os.Stat(s.sentinelPath(name))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Wrapf(err, errors.ErrStateAccess, "failed to check sentinel for %s", name)
}

// ClearStep removes the sentinel; missing sentinels are not an error.
func (s *filesystemStore) ClearStep(name string) error {
	err := os.Remove(s.sentinelPath(name))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrStateWrite, "failed to clear sentinel for %s", name)
	}
	return nil
}

// ClearAll removes the whole sentinel directory.
func (s *filesystemStore) ClearAll() error {
	if err := os.RemoveAll(s.dir); err != nil {
		return errors.Wrap(err, errors.ErrStateWrite, "failed to clear sentinels")
	}
	return nil
}

func (s *filesystemStore) sentinelPath(name string) string {
	return filepath.Join(s.dir, name)
}
