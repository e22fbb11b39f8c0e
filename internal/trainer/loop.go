package trainer

import (
	"context"
	"log"
	"math"
	"time"

	"github.com/pkg/errors"

	"gradsample/internal/dataset"
	"gradsample/internal/model"
)

// Constructor builds a fresh network for a run.
type Constructor func(inputDim int, hidden []int) model.Network

// Options captures the knobs required by a training run.
type Options struct {
	LearningRate float64
	Epochs       int
	TrainSize    int
	HiddenLayers []int
	GridSize     int
	Seed         int64
	// Network overrides the default autograd MLP.
	Network Constructor
}

// Validate rejects options that cannot run on ds.
func (o Options) Validate(ds dataset.Dataset) error {
	if len(ds) == 0 {
		return configErrorf("dataset", "no observations")
	}
	for i, obs := range ds {
		if len(obs.Features) != dataset.InputDim {
			return configErrorf("features", "observation %d has %d features, want %d", i, len(obs.Features), dataset.InputDim)
		}
	}
	if !(o.LearningRate > 0) || math.IsInf(o.LearningRate, 0) {
		return configErrorf("learning_rate", "must be a finite value > 0 (got %g)", o.LearningRate)
	}
	if o.Epochs < 0 {
		return configErrorf("epochs", "must be >= 0 (got %d)", o.Epochs)
	}
	if o.TrainSize < 0 || o.TrainSize > len(ds) {
		return configErrorf("train_size", "%d outside [0, %d]", o.TrainSize, len(ds))
	}
	for i, w := range o.HiddenLayers {
		if w < 1 {
			return configErrorf("hidden_layers", "layer %d has width %d", i, w)
		}
	}
	if o.GridSize < 0 {
		return configErrorf("grid_size", "must be >= 0 (got %d)", o.GridSize)
	}
	return nil
}

func (o Options) network() model.Network {
	if o.Network != nil {
		return o.Network(dataset.InputDim, o.HiddenLayers)
	}
	return model.NewMLP(dataset.InputDim, o.HiddenLayers, o.Seed)
}

// Run trains a fresh network on the first TrainSize observations of ds,
// evaluates it on the rest and samples its decision surface.
//
// The context is checked before every epoch. When it is done Run returns
// the partial result of the completed epochs together with the context error.
func Run(ctx context.Context, ds dataset.Dataset, opts Options, reporter Reporter) (Result, error) {
	if err := opts.Validate(ds); err != nil {
		return Result{}, err
	}
	if opts.GridSize == 0 {
		opts.GridSize = DefaultGridSize
	}
	train, test, err := Split(ds, opts.TrainSize)
	if err != nil {
		return Result{}, err
	}

	net := opts.network()
	b := newResultBuilder(model.Dimensions(dataset.InputDim, opts.HiddenLayers), len(train))
	start := time.Now()

	if err := trainEpochs(ctx, net, train, opts, reporter, b); err != nil {
		return b.build(time.Since(start)), errors.Wrapf(err, "trainer: stopped after %d epochs", b.epochs())
	}

	eval, err := Evaluate(net, test)
	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		log.Printf("classification error undefined: %v", err)
	} else if err != nil {
		return Result{}, err
	}
	b.setEvaluation(eval)

	grid, err := SampleGrid(net, ds, opts.GridSize)
	if err != nil {
		return Result{}, err
	}
	b.setGrid(grid)

	return b.build(time.Since(start)), nil
}

func trainEpochs(ctx context.Context, net model.Network, train dataset.Dataset, opts Options, reporter Reporter, b *resultBuilder) error {
	for epoch := 0; epoch < opts.Epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		loss, preds := forward(net, train)
		b.recordEpoch(loss.Value(), preds)

		report(reporter, EpochUpdate{Loss: loss.Value(), Epoch: epoch})

		step(net, loss, opts.LearningRate)
		b.completeEpoch()
	}
	return nil
}

// forward evaluates every training observation and builds the sum of
// squared errors over them.
func forward(net model.Network, train dataset.Dataset) (model.Node, []float64) {
	outputs := make([]model.Node, len(train))
	preds := make([]float64, len(train))
	for i, obs := range train {
		outputs[i] = net.Forward(obs.Features)[0]
		preds[i] = outputs[i].Value()
	}
	return model.SumSquaredError(net, outputs, train.Labels()), preds
}

// step clears accumulated gradients, backpropagates loss and moves every
// parameter against its gradient.
func step(net model.Network, loss model.Node, learningRate float64) {
	params := net.Parameters()
	for _, p := range params {
		p.ClearGradient()
	}
	net.Backward(loss)
	for _, p := range params {
		p.Adjust(-learningRate)
	}
}
