package trainer

import (
	"math"

	"gradsample/internal/dataset"
	"gradsample/internal/model"
)

// Threshold separates the two classes: values above it are +1, others -1.
const Threshold = 0.0

// Classify maps a raw value to +1 or -1.
func Classify(v float64) float64 {
	if v > Threshold {
		return 1
	}
	return -1
}

// Predict forward-passes every observation and returns the raw outputs.
func Predict(net model.Network, ds dataset.Dataset) []float64 {
	preds := make([]float64, len(ds))
	for i, obs := range ds {
		preds[i] = net.Forward(obs.Features)[0].Value()
	}
	return preds
}

// Evaluation holds held-out predictions and the classification figure.
type Evaluation struct {
	Predictions []float64
	Classes     []float64
	// ClassificationError is 1 minus the misclassified fraction, which makes
	// it the accuracy despite the name. The name is kept for compatibility
	// with existing consumers.
	ClassificationError float64
}

// Evaluate runs inference on test. An empty test set yields a NaN figure
// and an EvaluationError wrapping ErrEmptyTestSet.
func Evaluate(net model.Network, test dataset.Dataset) (Evaluation, error) {
	preds := Predict(net, test)
	eval := Evaluation{
		Predictions: preds,
		Classes:     make([]float64, len(preds)),
	}
	if len(preds) == 0 {
		eval.ClassificationError = math.NaN()
		return eval, &EvaluationError{Err: ErrEmptyTestSet}
	}
	wrong := 0
	for i, p := range preds {
		eval.Classes[i] = Classify(p)
		if eval.Classes[i] != Classify(test[i].Label) {
			wrong++
		}
	}
	eval.ClassificationError = 1 - float64(wrong)/float64(len(preds))
	return eval, nil
}
