package autograd

import "math/rand"

// Neuron computes act(w·x + b).
type Neuron struct {
	weights []*Value
	bias    *Value
	linear  bool
}

// NewNeuron draws weights uniformly from [-1, 1).
func NewNeuron(rng *rand.Rand, nin int, linear bool) *Neuron {
	weights := make([]*Value, nin)
	for i := range weights {
		weights[i] = NewValue(rng.Float64()*2 - 1)
	}
	return &Neuron{
		weights: weights,
		bias:    NewValue(0),
		linear:  linear,
	}
}

func (n *Neuron) Call(x []*Value) *Value {
	terms := make([]*Value, 0, len(n.weights)+1)
	for i, w := range n.weights {
		terms = append(terms, w.Mul(x[i]))
	}
	terms = append(terms, n.bias)
	act := Sum(terms)
	if n.linear {
		return act
	}
	return act.Tanh()
}

func (n *Neuron) Parameters() []*Value {
	params := make([]*Value, 0, len(n.weights)+1)
	params = append(params, n.weights...)
	return append(params, n.bias)
}

// Layer is a fully connected set of neurons sharing the same inputs.
type Layer struct {
	neurons []*Neuron
}

func NewLayer(rng *rand.Rand, nin, nout int, linear bool) *Layer {
	neurons := make([]*Neuron, nout)
	for i := range neurons {
		neurons[i] = NewNeuron(rng, nin, linear)
	}
	return &Layer{neurons: neurons}
}

func (l *Layer) Call(x []*Value) []*Value {
	out := make([]*Value, len(l.neurons))
	for i, n := range l.neurons {
		out[i] = n.Call(x)
	}
	return out
}

func (l *Layer) Parameters() []*Value {
	var params []*Value
	for _, n := range l.neurons {
		params = append(params, n.Parameters()...)
	}
	return params
}

// MLP stacks layers; every layer but the last uses tanh.
type MLP struct {
	layers []*Layer
}

// NewMLP builds a network with nin inputs and the given layer widths.
func NewMLP(rng *rand.Rand, nin int, widths []int) *MLP {
	layers := make([]*Layer, len(widths))
	prev := nin
	for i, w := range widths {
		layers[i] = NewLayer(rng, prev, w, i == len(widths)-1)
		prev = w
	}
	return &MLP{layers: layers}
}

func (m *MLP) Call(x []*Value) []*Value {
	out := x
	for _, l := range m.layers {
		out = l.Call(out)
	}
	return out
}

func (m *MLP) Parameters() []*Value {
	var params []*Value
	for _, l := range m.layers {
		params = append(params, l.Parameters()...)
	}
	return params
}
