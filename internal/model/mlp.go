package model

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"

	"gradsample/internal/autograd"
)

// MLP adapts an autograd multi-layer perceptron to Network.
type MLP struct {
	net    *autograd.MLP
	params []Parameter
}

// NewMLP builds a network with inputDim inputs, the given hidden widths and
// a single output.
func NewMLP(inputDim int, hidden []int, seed int64) *MLP {
	rng := rand.New(rand.NewSource(seed))
	net := autograd.NewMLP(rng, inputDim, Dimensions(inputDim, hidden)[1:])
	values := net.Parameters()
	params := make([]Parameter, len(values))
	for i, v := range values {
		params[i] = node{v}
	}
	return &MLP{net: net, params: params}
}

func (m *MLP) Forward(features []float64) []Node {
	x := make([]*autograd.Value, len(features))
	for i, f := range features {
		x[i] = autograd.NewValue(f)
	}
	out := m.net.Call(x)
	nodes := make([]Node, len(out))
	for i, v := range out {
		nodes[i] = node{v}
	}
	return nodes
}

func (m *MLP) Parameters() []Parameter { return m.params }

func (m *MLP) Backward(loss Node) { unwrap(loss).Backward() }

func (m *MLP) Const(v float64) Node { return node{autograd.NewValue(v)} }

func (m *MLP) Sub(a, b Node) Node { return node{unwrap(a).Sub(unwrap(b))} }

func (m *MLP) Pow(a Node, p float64) Node { return node{unwrap(a).Pow(p)} }

func (m *MLP) Sum(nodes []Node) Node {
	values := make([]*autograd.Value, len(nodes))
	for i, n := range nodes {
		values[i] = unwrap(n)
	}
	return node{autograd.Sum(values)}
}

// CheckGradients compares backprop gradients of the sum of squared errors
// over (xs, ys) with central finite differences and returns the largest
// absolute difference. Parameter values are restored and gradients are left
// cleared.
func (m *MLP) CheckGradients(xs [][]float64, ys []float64) float64 {
	values := m.net.Parameters()
	theta := make([]float64, len(values))
	for i, v := range values {
		theta[i] = v.Data()
	}
	set := func(x []float64) {
		for i, v := range values {
			v.SetData(x[i])
		}
	}
	loss := func() Node {
		preds := make([]Node, len(xs))
		for i, x := range xs {
			preds[i] = m.Forward(x)[0]
		}
		return SumSquaredError(m, preds, ys)
	}

	for _, v := range values {
		v.ClearGradient()
	}
	m.Backward(loss())
	backprop := make([]float64, len(values))
	for i, v := range values {
		backprop[i] = v.Grad()
	}

	numeric := fd.Gradient(nil, func(x []float64) float64 {
		set(x)
		return loss().Value()
	}, theta, &fd.Settings{Formula: fd.Central, Step: 1e-6})

	set(theta)
	for _, v := range values {
		v.ClearGradient()
	}

	floats.Sub(numeric, backprop)
	if len(numeric) == 0 {
		return 0
	}
	return floats.Norm(numeric, math.Inf(1))
}

type node struct{ v *autograd.Value }

func (n node) Value() float64 { return n.v.Data() }

func (n node) Gradient() float64 { return n.v.Grad() }

func (n node) ClearGradient() { n.v.ClearGradient() }

func (n node) Adjust(step float64) { n.v.Adjust(step) }

func unwrap(n Node) *autograd.Value {
	nd, ok := n.(node)
	if !ok {
		panic(fmt.Sprintf("model: node %T does not belong to an MLP", n))
	}
	return nd.v
}
