package model

// Node is a scalar produced by a network or built from other nodes.
type Node interface {
	Value() float64
}

// Parameter is a trainable scalar owned by a network.
type Parameter interface {
	Node
	Gradient() float64
	ClearGradient()
	// Adjust applies value += step * gradient.
	Adjust(step float64)
}

// Algebra composes nodes into a differentiable expression.
type Algebra interface {
	Const(v float64) Node
	Sub(a, b Node) Node
	Pow(a Node, p float64) Node
	Sum(nodes []Node) Node
}

// Network is the capability set the trainer needs from an autodiff engine.
type Network interface {
	Algebra
	Forward(features []float64) []Node
	Parameters() []Parameter
	// Backward propagates gradients from loss to every ancestor parameter.
	Backward(loss Node)
}

// OutputWidth is the fixed width of the final layer.
const OutputWidth = 1

// Dimensions returns the layer widths of a network: input, hidden..., output.
func Dimensions(inputDim int, hidden []int) []int {
	dims := make([]int, 0, len(hidden)+2)
	dims = append(dims, inputDim)
	dims = append(dims, hidden...)
	return append(dims, OutputWidth)
}

// SumSquaredError builds sum((pred - target)^2) over paired predictions.
func SumSquaredError(alg Algebra, preds []Node, targets []float64) Node {
	terms := make([]Node, len(preds))
	for i, p := range preds {
		terms[i] = alg.Pow(alg.Sub(p, alg.Const(targets[i])), 2)
	}
	return alg.Sum(terms)
}
