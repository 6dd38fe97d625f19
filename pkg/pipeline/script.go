package pipeline

import (
	"encoding/json"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/magnetgrid/pkg/core/resize"
	"github.com/matzehuels/magnetgrid/pkg/document"
	"github.com/matzehuels/magnetgrid/pkg/errors"
)

// Event operations.
const (
	OpDragStart   = "drag_start"
	OpDragMove    = "drag_move"
	OpDragEnd     = "drag_end"
	OpDragCancel  = "drag_cancel"
	OpDrag        = "drag"
	OpResizeStart = "resize_start"
	OpResizeMove  = "resize_move"
	OpResizeEnd   = "resize_end"
	OpResize      = "resize"
	OpTap         = "tap"
	OpAdd         = "add"
	OpToggle      = "toggle"
	OpSetValue    = "set_value"
	OpWait        = "wait"
)

// Script is a recorded or hand-written pointer session.
//
//	key: signup
//	container_width: 600
//	events:
//	  - {op: drag, field: phone, row: 0, column: 0}
//	  - {op: resize, field: email, edge: right, delta: 120}
//	  - {op: wait, ms: 300}
type Script struct {
	Key            string           `json:"key,omitempty" yaml:"key,omitempty"`
	ContainerWidth float64          `json:"container_width,omitempty" yaml:"container_width,omitempty"`
	Layout         *document.Layout `json:"layout,omitempty" yaml:"layout,omitempty"`
	Events         []Event          `json:"events" yaml:"events"`
}

// Event is one step of a script. Which fields matter depends on Op:
//
//   - drag_start, drag_move: X (pixels) and Y (layout units) of the pointer
//   - drag: Row and Column to drop on, Steps pointer moves on the way
//   - resize_start, resize_end: Edge
//   - resize_move: Edge and Delta in pixels
//   - resize: Edge and Delta, split over Steps moves
//   - add: Width (0 picks the widest)
//   - toggle: Visible
//   - set_value: Value
//   - wait: MS of simulated time
type Event struct {
	Op      string  `json:"op" yaml:"op"`
	Field   string  `json:"field,omitempty" yaml:"field,omitempty"`
	X       float64 `json:"x,omitempty" yaml:"x,omitempty"`
	Y       float64 `json:"y,omitempty" yaml:"y,omitempty"`
	Row     int     `json:"row,omitempty" yaml:"row,omitempty"`
	Column  int     `json:"column,omitempty" yaml:"column,omitempty"`
	Steps   int     `json:"steps,omitempty" yaml:"steps,omitempty"`
	Edge    string  `json:"edge,omitempty" yaml:"edge,omitempty"`
	Delta   float64 `json:"delta,omitempty" yaml:"delta,omitempty"`
	Width   float64 `json:"width,omitempty" yaml:"width,omitempty"`
	Visible *bool   `json:"visible,omitempty" yaml:"visible,omitempty"`
	Value   any     `json:"value,omitempty" yaml:"value,omitempty"`
	MS      int     `json:"ms,omitempty" yaml:"ms,omitempty"`
}

// Validate checks every event's operation and required arguments.
func (s Script) Validate() error {
	var errs []error
	for i, ev := range s.Events {
		if err := ev.validate(); err != nil {
			errs = append(errs, errors.Wrap(errors.ErrCodeInvalidInput, err, "event %d (%s)", i, ev.Op))
		}
	}
	if s.Layout != nil {
		if err := s.Layout.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errors.ErrCodeInvalidInput, errs...)
}

func (ev Event) validate() error {
	switch ev.Op {
	case OpWait:
		if ev.MS < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "ms must not be negative")
		}
		return nil
	case OpAdd:
		if ev.Field != "" {
			return errors.ValidateFieldID(ev.Field)
		}
		return nil
	case OpDragStart, OpDragMove, OpDragEnd, OpDragCancel, OpDrag, OpTap, OpSetValue:
	case OpResizeStart, OpResizeMove, OpResizeEnd, OpResize:
		if _, err := parseEdge(ev.Edge); err != nil {
			return err
		}
	case OpToggle:
		if ev.Visible == nil {
			return errors.New(errors.ErrCodeInvalidInput, "toggle needs visible")
		}
	default:
		return errors.New(errors.ErrCodeUnsupported, "unknown op %q", ev.Op)
	}
	return errors.ValidateFieldID(ev.Field)
}

func parseEdge(s string) (resize.Edge, error) {
	switch s {
	case "", "right":
		return resize.EdgeRight, nil
	case "left":
		return resize.EdgeLeft, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown edge %q", s)
}

// ParseScript decodes a script from JSON or YAML.
func ParseScript(data []byte, isYAML bool) (Script, error) {
	var s Script
	var err error
	if isYAML {
		err = yaml.Unmarshal(data, &s)
	} else {
		err = json.Unmarshal(data, &s)
	}
	if err != nil {
		return Script{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode script")
	}
	if err := s.Validate(); err != nil {
		return Script{}, err
	}
	return s, nil
}

// LoadScript reads a script file; the extension picks the format.
func LoadScript(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Script{}, errors.Wrap(errors.ErrCodeNotFound, err, "read script %s", path)
		}
		return Script{}, errors.Wrap(errors.ErrCodeStorage, err, "read script %s", path)
	}
	return ParseScript(data, document.IsYAML(path))
}
