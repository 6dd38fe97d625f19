package document

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/magnetgrid/pkg/errors"
)

// IsYAML reports whether path has a YAML extension.
func IsYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// WriteFile writes l to path, as YAML or JSON depending on the extension.
func WriteFile(l Layout, path string) error {
	var (
		data []byte
		err  error
	)
	if IsYAML(path) {
		data, err = MarshalYAML(l)
	} else {
		data, err = Marshal(l)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a layout from path.
func ReadFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Layout{}, errors.Wrap(errors.ErrCodeNotFound, err, "read %s", path)
		}
		return Layout{}, errors.Wrap(errors.ErrCodeStorage, err, "read %s", path)
	}
	if IsYAML(path) {
		return UnmarshalYAML(data)
	}
	return Unmarshal(data)
}
