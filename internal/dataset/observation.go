package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// InputDim is the number of features per observation.
const InputDim = 2

// Observation is one labeled point.
type Observation struct {
	Features []float64
	Label    float64
}

// Dataset is an ordered sequence of observations. Order matters: splitting is
// positional.
type Dataset []Observation

// Features returns the feature vectors in dataset order.
func (d Dataset) Features() [][]float64 {
	out := make([][]float64, len(d))
	for i, o := range d {
		out[i] = o.Features
	}
	return out
}

// Labels returns the labels in dataset order.
func (d Dataset) Labels() []float64 {
	out := make([]float64, len(d))
	for i, o := range d {
		out[i] = o.Label
	}
	return out
}

var (
	ErrMissingField = errors.New("missing field")
	ErrArity        = errors.New("wrong feature arity")
)

// ParseError reports a malformed dataset record. Index is -1 when the
// document itself could not be decoded.
type ParseError struct {
	Index int
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("dataset: %v", e.Err)
	}
	return fmt.Sprintf("dataset: record %d: %s: %v", e.Index, e.Field, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

type record struct {
	Features *[]float64 `json:"features"`
	Label    *float64   `json:"label"`
}

// Parse decodes a JSON array of {"features": [x, y], "label": l} records.
func Parse(r io.Reader) (Dataset, error) {
	var records []record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, &ParseError{Index: -1, Err: err}
	}
	ds := make(Dataset, 0, len(records))
	for i, rec := range records {
		if rec.Features == nil {
			return nil, &ParseError{Index: i, Field: "features", Err: ErrMissingField}
		}
		if rec.Label == nil {
			return nil, &ParseError{Index: i, Field: "label", Err: ErrMissingField}
		}
		features := *rec.Features
		if len(features) != InputDim {
			return nil, &ParseError{
				Index: i,
				Field: "features",
				Err:   errors.Wrapf(ErrArity, "expected %d values, got %d", InputDim, len(features)),
			}
		}
		ds = append(ds, Observation{Features: features, Label: *rec.Label})
	}
	return ds, nil
}

// Load reads and parses the dataset file at path.
func Load(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open dataset")
	}
	defer f.Close()

	ds, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return ds, nil
}

// Write encodes ds in the format accepted by Parse.
func Write(w io.Writer, ds Dataset) error {
	records := make([]record, len(ds))
	for i := range ds {
		records[i] = record{Features: &ds[i].Features, Label: &ds[i].Label}
	}
	return json.NewEncoder(w).Encode(records)
}

// Name derives a dataset name from its file path.
func Name(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
