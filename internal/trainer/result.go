package trainer

import (
	"math"
	"time"
)

// Result is the outcome of a run. It is not touched after Run returns.
type Result struct {
	LossHistory       []float64
	NetworkDimensions []int
	NumEpochs         int
	// Predictions holds the last epoch's training predictions followed by
	// the test predictions.
	Predictions []float64
	// ClassificationError is the test accuracy (see Evaluation). NaN when
	// the test set is empty.
	ClassificationError float64
	GridPredictions     []float64
	GridXs              []float64
	GridYs              []float64

	TrainSize int
	// TestSize counts the test predictions carried in Predictions.
	TestSize int
	Duration time.Duration
}

// TrainPredictions returns the training part of Predictions. It is empty
// when no epoch completed.
func (r Result) TrainPredictions() []float64 {
	return r.Predictions[:len(r.Predictions)-r.TestSize]
}

// TestPredictions returns the test part of Predictions.
func (r Result) TestPredictions() []float64 {
	return r.Predictions[len(r.Predictions)-r.TestSize:]
}

// FinalLoss returns the last recorded loss, or NaN if no epoch completed.
func (r Result) FinalLoss() float64 {
	if len(r.LossHistory) == 0 {
		return math.NaN()
	}
	return r.LossHistory[len(r.LossHistory)-1]
}

type resultBuilder struct {
	dims       []int
	trainSize  int
	loss       []float64
	trainPreds []float64
	numEpochs  int
	eval       Evaluation
	grid       Grid
}

func newResultBuilder(dims []int, trainSize int) *resultBuilder {
	return &resultBuilder{
		dims:      dims,
		trainSize: trainSize,
		loss:      []float64{},
		eval:      Evaluation{ClassificationError: math.NaN()},
	}
}

// recordEpoch appends loss and replaces the training prediction buffer.
func (b *resultBuilder) recordEpoch(loss float64, preds []float64) {
	b.loss = append(b.loss, loss)
	b.trainPreds = preds
}

func (b *resultBuilder) completeEpoch() { b.numEpochs++ }

func (b *resultBuilder) epochs() int { return b.numEpochs }

func (b *resultBuilder) setEvaluation(e Evaluation) { b.eval = e }

func (b *resultBuilder) setGrid(g Grid) { b.grid = g }

func (b *resultBuilder) build(d time.Duration) Result {
	preds := make([]float64, 0, len(b.trainPreds)+len(b.eval.Predictions))
	preds = append(preds, b.trainPreds...)
	preds = append(preds, b.eval.Predictions...)
	return Result{
		LossHistory:         append([]float64{}, b.loss...),
		NetworkDimensions:   append([]int{}, b.dims...),
		NumEpochs:           b.numEpochs,
		Predictions:         preds,
		ClassificationError: b.eval.ClassificationError,
		GridPredictions:     append([]float64{}, b.grid.Predictions...),
		GridXs:              append([]float64{}, b.grid.Xs...),
		GridYs:              append([]float64{}, b.grid.Ys...),
		TrainSize:           b.trainSize,
		TestSize:            len(b.eval.Predictions),
		Duration:            d,
	}
}
