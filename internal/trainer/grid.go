package trainer

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"gradsample/internal/dataset"
	"gradsample/internal/model"
)

// DefaultGridSize is the number of cells per axis.
const DefaultGridSize = 10

const gridPadding = 0.10

// Bounds is an axis aligned box over the two feature axes.
type Bounds struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// PaddedBounds returns the bounding box of obs grown by 10% of its range on
// every side. A zero range collapses that axis to a single value.
func PaddedBounds(obs dataset.Dataset) (Bounds, error) {
	if len(obs) == 0 {
		return Bounds{}, configErrorf("dataset", "no observations to bound")
	}
	xs := make([]float64, len(obs))
	ys := make([]float64, len(obs))
	for i, o := range obs {
		if len(o.Features) != 2 {
			return Bounds{}, configErrorf("features", "grid sampling needs 2 features, observation %d has %d", i, len(o.Features))
		}
		xs[i], ys[i] = o.Features[0], o.Features[1]
	}
	b := Bounds{
		MinX: floats.Min(xs), MaxX: floats.Max(xs),
		MinY: floats.Min(ys), MaxY: floats.Max(ys),
	}
	rx := math.Abs(b.MaxX - b.MinX)
	ry := math.Abs(b.MaxY - b.MinY)
	b.MinX -= gridPadding * rx
	b.MaxX += gridPadding * rx
	b.MinY -= gridPadding * ry
	b.MaxY += gridPadding * ry
	return b, nil
}

// Centers returns the centers of an n by n partition of b, iterating x
// cells in the outer loop and y cells in the inner loop.
func (b Bounds) Centers(n int) (xs, ys []float64) {
	stepX := math.Abs(b.MaxX-b.MinX) / float64(n)
	stepY := math.Abs(b.MaxY-b.MinY) / float64(n)
	xs = make([]float64, 0, n*n)
	ys = make([]float64, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			xs = append(xs, b.MinX+(float64(i)+0.5)*stepX)
			ys = append(ys, b.MinY+(float64(j)+0.5)*stepY)
		}
	}
	return xs, ys
}

// Grid is a positionally aligned sampling of the network output.
type Grid struct {
	Xs          []float64
	Ys          []float64
	Predictions []float64
}

// SampleGrid evaluates net at the n*n cell centers of the padded bounding
// box of obs. It does not modify the network.
func SampleGrid(net model.Network, obs dataset.Dataset, n int) (Grid, error) {
	if n < 1 {
		return Grid{}, configErrorf("grid_size", "must be >= 1 (got %d)", n)
	}
	b, err := PaddedBounds(obs)
	if err != nil {
		return Grid{}, err
	}
	xs, ys := b.Centers(n)
	preds := make([]float64, len(xs))
	for i := range xs {
		preds[i] = net.Forward([]float64{xs[i], ys[i]})[0].Value()
	}
	return Grid{Xs: xs, Ys: ys, Predictions: preds}, nil
}
