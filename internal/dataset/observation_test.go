package dataset

import (
	"bytes"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestParseValid(t *testing.T) {
	ds, err := Parse(strings.NewReader(`[
		{"features": [2, 3], "label": 1},
		{"features": [3, -1], "label": -1, "isCorrect": true}
	]`))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(ds) != 2 {
		t.Fatalf("expected 2 observations, got %d", len(ds))
	}
	if !reflect.DeepEqual(ds.Features(), [][]float64{{2, 3}, {3, -1}}) {
		t.Fatalf("unexpected features %v", ds.Features())
	}
	if !reflect.DeepEqual(ds.Labels(), []float64{1, -1}) {
		t.Fatalf("unexpected labels %v", ds.Labels())
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		index int
		field string
		is    error
	}{
		{"missing features", `[{"label": 1}]`, 0, "features", ErrMissingField},
		{"missing label", `[{"features": [1, 2]}, {"features": [1, 2]}]`, 0, "label", ErrMissingField},
		{"arity", `[{"features": [1, 2], "label": 1}, {"features": [1], "label": 1}]`, 1, "features", ErrArity},
		{"malformed", `{"features": 1}`, -1, "", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.body))
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected ParseError, got %v", err)
			}
			if perr.Index != tc.index || perr.Field != tc.field {
				t.Fatalf("got index=%d field=%q", perr.Index, perr.Field)
			}
			if tc.is != nil && !errors.Is(err, tc.is) {
				t.Fatalf("expected %v in chain, got %v", tc.is, err)
			}
		})
	}
}

func TestWriteThenLoad(t *testing.T) {
	ds := Dataset{
		{Features: []float64{0.5, 1}, Label: -1},
		{Features: []float64{1, 1}, Label: 1},
	}
	var buf bytes.Buffer
	if err := Write(&buf, ds); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	path := filepath.Join(t.TempDir(), "pair.json")
	mustWrite(t, path, buf.String())

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !reflect.DeepEqual(loaded, ds) {
		t.Fatalf("loaded %v want %v", loaded, ds)
	}
	if Name(path) != "pair" {
		t.Fatalf("unexpected name %q", Name(path))
	}
}

func TestLoadWrapsParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	mustWrite(t, path, `[{"features": [1, 2, 3], "label": 1}]`)
	_, err := Load(path)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError through Load, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("error should name the file: %v", err)
	}
}
