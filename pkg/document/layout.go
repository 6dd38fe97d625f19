package document

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/magnetgrid/pkg/errors"
)

// FormatVersion is the current version of the serialized layout format.
const FormatVersion = 1

// Layout is the serialized form of a field layout.
type Layout struct {
	Version int     `json:"version" yaml:"version" bson:"version"`
	Key     string  `json:"key,omitempty" yaml:"key,omitempty" bson:"key,omitempty"`
	Fields  []Field `json:"fields" yaml:"fields" bson:"fields"`
}

// Field is the record stored per field.
type Field struct {
	ID    string  `json:"id" yaml:"id" bson:"id"`
	Width float64 `json:"width" yaml:"width" bson:"width"`
	X     float64 `json:"x" yaml:"x" bson:"x"`
	Y     float64 `json:"y" yaml:"y" bson:"y"`
}

// Validate checks that every field has a unique, non-empty ID.
func (l Layout) Validate() error {
	if l.Version > FormatVersion {
		return errors.New(errors.ErrCodeUnsupported, "layout format version %d is newer than %d", l.Version, FormatVersion)
	}
	seen := make(map[string]bool, len(l.Fields))
	for i, f := range l.Fields {
		if f.ID == "" {
			return errors.New(errors.ErrCodeInvalidLayout, "field %d has an empty id", i)
		}
		if seen[f.ID] {
			return errors.New(errors.ErrCodeInvalidLayout, "duplicate field id %q", f.ID)
		}
		seen[f.ID] = true
	}
	return nil
}

// Marshal serializes a Layout to pretty-printed JSON.
func Marshal(l Layout) ([]byte, error) {
	if l.Version == 0 {
		l.Version = FormatVersion
	}
	return json.MarshalIndent(l, "", "  ")
}

// Unmarshal parses JSON into a Layout and validates it.
func Unmarshal(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidLayout, err, "unmarshal layout")
	}
	return finish(l)
}

// MarshalYAML serializes a Layout to YAML.
func MarshalYAML(l Layout) ([]byte, error) {
	if l.Version == 0 {
		l.Version = FormatVersion
	}
	return yaml.Marshal(l)
}

// UnmarshalYAML parses YAML into a Layout and validates it.
func UnmarshalYAML(data []byte) (Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidLayout, err, "unmarshal yaml layout")
	}
	return finish(l)
}

func finish(l Layout) (Layout, error) {
	if l.Version == 0 {
		l.Version = FormatVersion
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// String renders a one-line summary for logs.
func (l Layout) String() string {
	return fmt.Sprintf("layout(key=%q, fields=%d)", l.Key, len(l.Fields))
}
