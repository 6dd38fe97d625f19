package document

import (
	"strings"
	"testing"

	"github.com/matzehuels/magnetgrid/pkg/errors"
)

func sample() Layout {
	return Layout{
		Key: "signup",
		Fields: []Field{
			{ID: "name", Width: 0.5, X: 0, Y: 0},
			{ID: "email", Width: 0.5, X: 0.5, Y: 0},
			{ID: "notes", Width: 1, X: -1, Y: -1},
		},
	}
}

func TestMarshalSetsVersion(t *testing.T) {
	data, err := Marshal(sample())
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if !strings.Contains(string(data), `"version": 1`) {
		t.Errorf("Marshal() output lacks version:\n%s", data)
	}
}

func TestUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantErr  bool
		wantCode errors.Code
	}{
		{
			name:  "valid",
			input: `{"version":1,"fields":[{"id":"a","width":0.5,"x":0,"y":0}]}`,
		},
		{
			name:  "missing version defaults",
			input: `{"fields":[]}`,
		},
		{
			name:     "malformed",
			input:    `{"fields":`,
			wantErr:  true,
			wantCode: errors.ErrCodeInvalidLayout,
		},
		{
			name:     "duplicate id",
			input:    `{"fields":[{"id":"a"},{"id":"a"}]}`,
			wantErr:  true,
			wantCode: errors.ErrCodeInvalidLayout,
		},
		{
			name:     "empty id",
			input:    `{"fields":[{"id":""}]}`,
			wantErr:  true,
			wantCode: errors.ErrCodeInvalidLayout,
		},
		{
			name:     "future version",
			input:    `{"version":99,"fields":[]}`,
			wantErr:  true,
			wantCode: errors.ErrCodeUnsupported,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := Unmarshal([]byte(tt.input))
			if tt.wantErr {
				if !errors.Is(err, tt.wantCode) {
					t.Errorf("Unmarshal() error = %v, want code %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal() error: %v", err)
			}
			if l.Version != FormatVersion {
				t.Errorf("Version = %d, want %d", l.Version, FormatVersion)
			}
		})
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	in := sample()
	data, err := MarshalYAML(in)
	if err != nil {
		t.Fatalf("MarshalYAML() error: %v", err)
	}
	out, err := UnmarshalYAML(data)
	if err != nil {
		t.Fatalf("UnmarshalYAML() error: %v", err)
	}
	if out.Key != in.Key || len(out.Fields) != len(in.Fields) {
		t.Fatalf("round trip = %s, want %s", out, in)
	}
	for i := range in.Fields {
		if out.Fields[i] != in.Fields[i] {
			t.Errorf("field %d = %+v, want %+v", i, out.Fields[i], in.Fields[i])
		}
	}
}

func TestString(t *testing.T) {
	if got := sample().String(); got != `layout(key="signup", fields=3)` {
		t.Errorf("String() = %s", got)
	}
}
