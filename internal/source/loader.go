package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// Loader reads the raw text of a source unit.
type Loader interface {
	Load(unit string) ([]byte, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(unit string) ([]byte, error)

// Load calls f(unit).
func (f LoaderFunc) Load(unit string) ([]byte, error) { return f(unit) }

// DiskLoader reads units straight from the file system by path.
type DiskLoader struct{}

// Load reads the file named by unit.
func (DiskLoader) Load(unit string) ([]byte, error) {
	// #nosec G304 -- unit is a caller location reported by the runtime
	return os.ReadFile(unit)
}

// FSLoader serves units from an fs.FS (typically an embed.FS) matched by base
// name, so a unit recorded with a build-machine path still resolves after the
// binary is moved.
type FSLoader struct {
	FS fs.FS
}

// Load reads path.Base(unit) from the wrapped FS.
func (l FSLoader) Load(unit string) ([]byte, error) {
	if l.FS == nil {
		return nil, fmt.Errorf("%s: %w", unit, fs.ErrNotExist)
	}
	name := path.Base(filepath.ToSlash(unit))
	return fs.ReadFile(l.FS, name)
}

// ChainLoader tries each loader in order and returns the first success.
type ChainLoader []Loader

// Load returns the first successful load, or all errors joined.
func (c ChainLoader) Load(unit string) ([]byte, error) {
	if len(c) == 0 {
		return nil, fmt.Errorf("%s: %w", unit, fs.ErrNotExist)
	}
	var errs []error
	for _, l := range c {
		data, err := l.Load(unit)
		if err == nil {
			return data, nil
		}
		errs = append(errs, err)
	}
	return nil, errors.Join(errs...)
}
