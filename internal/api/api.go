// Package api holds the JSON shapes exchanged with callers of the trainer.
// Internal types stay free of serialization concerns; conversion happens
// here.
package api

import (
	"bytes"
	"encoding/json"
	"io"
	"math"

	"github.com/pkg/errors"

	"gradsample/internal/dataset"
	"gradsample/internal/metrics"
	"gradsample/internal/trainer"
)

// Request mirrors a training invocation.
type Request struct {
	Dataset          json.RawMessage `json:"dataset"`
	LearningRate     float64         `json:"learning_rate"`
	NumEpochs        int             `json:"num_epochs"`
	HiddenLayerSizes []int           `json:"hidden_layer_sizes"`
	TrainSize        int             `json:"train_size"`
	Seed             int64           `json:"seed,omitempty"`
}

// DecodeRequest reads a request and parses its embedded dataset.
func DecodeRequest(r io.Reader) (Request, dataset.Dataset, error) {
	var req Request
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return Request{}, nil, errors.Wrap(err, "decode request")
	}
	if len(req.Dataset) == 0 {
		return Request{}, nil, &dataset.ParseError{Index: -1, Err: dataset.ErrMissingField}
	}
	ds, err := dataset.Parse(bytes.NewReader(req.Dataset))
	if err != nil {
		return Request{}, nil, err
	}
	return req, ds, nil
}

// Options converts the request into trainer options.
func (r Request) Options() trainer.Options {
	return trainer.Options{
		LearningRate: r.LearningRate,
		Epochs:       r.NumEpochs,
		TrainSize:    r.TrainSize,
		HiddenLayers: r.HiddenLayerSizes,
		Seed:         r.Seed,
	}
}

// EpochUpdate is the progress message sent once per epoch.
type EpochUpdate struct {
	Loss  float64 `json:"loss"`
	Epoch int     `json:"epoch"`
}

// NewEpochUpdate converts a trainer update.
func NewEpochUpdate(u trainer.EpochUpdate) EpochUpdate {
	return EpochUpdate{Loss: u.Loss, Epoch: u.Epoch}
}

// Partition summarizes predictions on one side of the split.
type Partition struct {
	TruePositives  int     `json:"true_positives"`
	TrueNegatives  int     `json:"true_negatives"`
	FalsePositives int     `json:"false_positives"`
	FalseNegatives int     `json:"false_negatives"`
	Count          int     `json:"observation_count"`
	Accuracy       float64 `json:"accuracy"`
}

func newPartition(c metrics.Confusion) Partition {
	return Partition{
		TruePositives:  c.TruePositives,
		TrueNegatives:  c.TrueNegatives,
		FalsePositives: c.FalsePositives,
		FalseNegatives: c.FalseNegatives,
		Count:          c.Total(),
		Accuracy:       c.Accuracy(),
	}
}

// Result is the serialized training result. ClassificationError is null
// when the test set was empty.
type Result struct {
	RunID               string    `json:"run_id,omitempty"`
	Dataset             string    `json:"dataset,omitempty"`
	Loss                []float64 `json:"loss"`
	NetworkDimensions   []int     `json:"network_dimensions"`
	NumEpochs           int       `json:"num_epochs"`
	Predictions         []float64 `json:"predictions"`
	ClassificationError *float64  `json:"classification_error"`
	GridPredictions     []float64 `json:"grid_predictions"`
	GridXs              []float64 `json:"grid_xs"`
	GridYs              []float64 `json:"grid_ys"`
	TimeToTrainMS       float64   `json:"time_to_train_ms"`
	Train               Partition `json:"train"`
	Test                Partition `json:"test"`
}

// NewResult converts res, computing the confusion matrices against the
// labels of ds.
func NewResult(runID, name string, ds dataset.Dataset, res trainer.Result) Result {
	out := Result{
		RunID:             runID,
		Dataset:           name,
		Loss:              res.LossHistory,
		NetworkDimensions: res.NetworkDimensions,
		NumEpochs:         res.NumEpochs,
		Predictions:       res.Predictions,
		GridPredictions:   res.GridPredictions,
		GridXs:            res.GridXs,
		GridYs:            res.GridYs,
		TimeToTrainMS:     res.Duration.Seconds() * 1000,
	}
	if !math.IsNaN(res.ClassificationError) {
		ce := res.ClassificationError
		out.ClassificationError = &ce
	}

	labels := ds.Labels()
	trainPreds := res.TrainPredictions()
	if len(trainPreds) <= res.TrainSize {
		out.Train = newPartition(metrics.NewConfusion(trainPreds, labels[:len(trainPreds)], trainer.Threshold))
	}
	testPreds := res.TestPredictions()
	if res.TrainSize+len(testPreds) <= len(labels) {
		out.Test = newPartition(metrics.NewConfusion(testPreds, labels[res.TrainSize:res.TrainSize+len(testPreds)], trainer.Threshold))
	}
	return out
}

// Encode writes v as a single JSON document.
func Encode(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
