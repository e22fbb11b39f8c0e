package autograd

import "math"

// Value is a scalar node in a computation graph.
type Value struct {
	data       float64
	grad       float64
	children   []*Value
	localGrads []float64
}

// NewValue creates a leaf node.
func NewValue(data float64) *Value {
	return &Value{data: data}
}

// Data returns the forward value of the node.
func (v *Value) Data() float64 { return v.data }

// Grad returns the accumulated gradient.
func (v *Value) Grad() float64 { return v.grad }

// SetData overwrites the forward value of a leaf.
func (v *Value) SetData(data float64) { v.data = data }

// ClearGradient resets the accumulated gradient to zero.
func (v *Value) ClearGradient() { v.grad = 0 }

// Adjust moves the value along its gradient: data += step * grad.
func (v *Value) Adjust(step float64) { v.data += step * v.grad }

func (v *Value) Add(other *Value) *Value {
	return &Value{
		data:       v.data + other.data,
		children:   []*Value{v, other},
		localGrads: []float64{1, 1},
	}
}

func (v *Value) Sub(other *Value) *Value {
	return &Value{
		data:       v.data - other.data,
		children:   []*Value{v, other},
		localGrads: []float64{1, -1},
	}
}

func (v *Value) Mul(other *Value) *Value {
	return &Value{
		data:       v.data * other.data,
		children:   []*Value{v, other},
		localGrads: []float64{other.data, v.data},
	}
}

func (v *Value) Pow(p float64) *Value {
	return &Value{
		data:       math.Pow(v.data, p),
		children:   []*Value{v},
		localGrads: []float64{p * math.Pow(v.data, p-1)},
	}
}

func (v *Value) Tanh() *Value {
	t := math.Tanh(v.data)
	return &Value{
		data:       t,
		children:   []*Value{v},
		localGrads: []float64{1 - t*t},
	}
}

// Sum adds all values as a single node. The sum of nothing is a zero leaf.
func Sum(values []*Value) *Value {
	out := &Value{
		children:   make([]*Value, len(values)),
		localGrads: make([]float64, len(values)),
	}
	for i, v := range values {
		out.data += v.data
		out.children[i] = v
		out.localGrads[i] = 1
	}
	return out
}

// Backward seeds v with gradient 1 and propagates to every ancestor.
// Gradients accumulate; callers clear them between passes.
func (v *Value) Backward() {
	topo := make([]*Value, 0, 64)
	visited := make(map[*Value]struct{})
	var build func(*Value)
	build = func(node *Value) {
		if _, ok := visited[node]; ok {
			return
		}
		visited[node] = struct{}{}
		for _, child := range node.children {
			build(child)
		}
		topo = append(topo, node)
	}
	build(v)

	v.grad = 1
	for i := len(topo) - 1; i >= 0; i-- {
		node := topo[i]
		for j, child := range node.children {
			child.grad += node.localGrads[j] * node.grad
		}
	}
}
