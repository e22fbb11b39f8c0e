package trainer

import (
	"math"

	"gradsample/internal/dataset"
	"gradsample/internal/model"
)

type scalar float64

func (s scalar) Value() float64 { return float64(s) }

// identityNet outputs the first feature and has no parameters.
type identityNet struct{}

func (identityNet) Forward(f []float64) []model.Node { return []model.Node{scalar(f[0])} }

func (identityNet) Parameters() []model.Parameter { return nil }

func (identityNet) Backward(model.Node) {}

func (identityNet) Const(v float64) model.Node { return scalar(v) }

func (identityNet) Sub(a, b model.Node) model.Node { return scalar(a.Value() - b.Value()) }

func (identityNet) Pow(a model.Node, p float64) model.Node { return scalar(math.Pow(a.Value(), p)) }

func (identityNet) Sum(nodes []model.Node) model.Node {
	var s float64
	for _, n := range nodes {
		s += n.Value()
	}
	return scalar(s)
}

// recordingNet logs gradient related calls on top of a real MLP.
type recordingNet struct {
	*model.MLP
	events *[]string
}

func (n recordingNet) Parameters() []model.Parameter {
	params := n.MLP.Parameters()
	out := make([]model.Parameter, len(params))
	for i, p := range params {
		out[i] = recordingParam{Parameter: p, events: n.events}
	}
	return out
}

func (n recordingNet) Backward(loss model.Node) {
	*n.events = append(*n.events, "backward")
	n.MLP.Backward(loss)
}

type recordingParam struct {
	model.Parameter
	events *[]string
}

func (p recordingParam) ClearGradient() {
	*p.events = append(*p.events, "clear")
	p.Parameter.ClearGradient()
}

func (p recordingParam) Adjust(step float64) {
	*p.events = append(*p.events, "adjust")
	p.Parameter.Adjust(step)
}

func sampleDataset() dataset.Dataset {
	return dataset.Dataset{
		{Features: []float64{2, 3}, Label: 1},
		{Features: []float64{3, -1}, Label: -1},
		{Features: []float64{0.5, 1}, Label: -1},
		{Features: []float64{1, 1}, Label: 1},
	}
}
