package metrics

// Confusion counts binary outcomes at a fixed threshold.
type Confusion struct {
	TruePositives  int
	TrueNegatives  int
	FalsePositives int
	FalseNegatives int
}

// NewConfusion compares predictions with labels; both are thresholded so
// that values above threshold are positive.
func NewConfusion(predictions, labels []float64, threshold float64) Confusion {
	var c Confusion
	for i, p := range predictions {
		predicted := p > threshold
		actual := labels[i] > threshold
		switch {
		case predicted && actual:
			c.TruePositives++
		case !predicted && !actual:
			c.TrueNegatives++
		case predicted:
			c.FalsePositives++
		default:
			c.FalseNegatives++
		}
	}
	return c
}

// Total returns the number of observations counted.
func (c Confusion) Total() int {
	return c.TruePositives + c.TrueNegatives + c.FalsePositives + c.FalseNegatives
}

// Fraction returns n as a share of Total, or 0 when nothing was counted.
func (c Confusion) Fraction(n int) float64 {
	total := c.Total()
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}

// Accuracy is the share of correct outcomes.
func (c Confusion) Accuracy() float64 {
	return c.Fraction(c.TruePositives + c.TrueNegatives)
}
