package dataset

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
)

// Kind names a synthetic two class dataset.
type Kind string

const (
	Gaussian Kind = "gaussian"
	Circle   Kind = "circle"
	Spiral   Kind = "spiral"
	Xor      Kind = "xor"
)

// Kinds lists every generator in a stable order.
var Kinds = []Kind{Gaussian, Circle, Spiral, Xor}

// ParseKind resolves a generator name, case insensitive.
func ParseKind(name string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown dataset kind %q", name)
}

// Generate draws n observations of the given kind and shuffles them. Labels
// are -1 or +1.
func Generate(kind Kind, n int, noise float64, rng *rand.Rand) (Dataset, error) {
	if n < 0 {
		return nil, fmt.Errorf("generate %s: negative sample count %d", kind, n)
	}
	var ds Dataset
	switch kind {
	case Gaussian:
		ds = gaussian(n, noise, rng)
	case Circle:
		ds = circle(n, rng)
	case Spiral:
		ds = spiral(n, noise, rng)
	case Xor:
		ds = xor(n, rng)
	default:
		return nil, fmt.Errorf("unknown dataset kind %q", kind)
	}
	Shuffle(rng, ds)
	return ds, nil
}

// Shuffle permutes ds in place (Fisher-Yates).
func Shuffle(rng *rand.Rand, ds Dataset) {
	rng.Shuffle(len(ds), func(i, j int) {
		ds[i], ds[j] = ds[j], ds[i]
	})
}

func point(x, y, label float64) Observation {
	return Observation{Features: []float64{x, y}, Label: label}
}

func gaussian(n int, sigma float64, rng *rand.Rand) Dataset {
	half := n / 2
	ds := make(Dataset, 0, 2*half)
	for i := 0; i < half; i++ {
		ds = append(ds, point(-2+rng.NormFloat64()*sigma, 3+rng.NormFloat64()*sigma, -1))
	}
	for i := 0; i < half; i++ {
		ds = append(ds, point(2+rng.NormFloat64()*sigma, -3+rng.NormFloat64()*sigma, 1))
	}
	return ds
}

func circle(n int, rng *rand.Rand) Dataset {
	const (
		outerRadius = 10
		innerRadius = 8
	)
	half := n / 2
	ds := make(Dataset, 0, 2*half)
	for i := 0; i < half; i++ {
		theta := linspace(2*math.Pi, half, i)
		ds = append(ds, point(
			innerRadius*math.Cos(theta)+rng.Float64(),
			innerRadius*math.Sin(theta)+rng.Float64(),
			-1,
		))
		ds = append(ds, point(
			outerRadius*math.Cos(theta)+rng.Float64()*2,
			outerRadius*math.Sin(theta)+rng.Float64()*2,
			1,
		))
	}
	return ds
}

func spiral(n int, noise float64, rng *rand.Rand) Dataset {
	half := n / 2
	ds := make(Dataset, 0, 2*half)
	arm := func(i int, deltaT, label float64) Observation {
		r := float64(i) / float64(half) * 10
		t := 1.75*float64(i)/float64(half)*2*math.Pi + deltaT
		x := r*math.Sin(t) + uniform(rng, -1, 1)*noise
		y := r*math.Cos(t) + uniform(rng, -1, 1)*noise
		return point(x, y, label)
	}
	for i := 0; i < half; i++ {
		ds = append(ds, arm(i, 0, 1))
		ds = append(ds, arm(i, math.Pi, -1))
	}
	return ds
}

func xor(n int, rng *rand.Rand) Dataset {
	ds := make(Dataset, 0, n)
	for i := 0; i < n; i++ {
		x := uniform(rng, -0.5, 0.5)
		y := uniform(rng, -0.5, 0.5)
		label := 1.0
		if x*y > 0 {
			label = -1
		}
		ds = append(ds, point(x, y, label))
	}
	return ds
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// linspace returns the i-th of n evenly spaced values in [0, stop].
func linspace(stop float64, n, i int) float64 {
	if n <= 1 {
		return 0
	}
	return stop * float64(i) / float64(n-1)
}
