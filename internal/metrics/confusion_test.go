package metrics

import "testing"

func TestNewConfusion(t *testing.T) {
	preds := []float64{0.9, -0.2, 0.4, -0.7, 0}
	labels := []float64{1, -1, -1, 1, -1}
	c := NewConfusion(preds, labels, 0)
	want := Confusion{TruePositives: 1, TrueNegatives: 2, FalsePositives: 1, FalseNegatives: 1}
	if c != want {
		t.Fatalf("got %+v want %+v", c, want)
	}
	if c.Total() != 5 {
		t.Fatalf("expected total 5, got %d", c.Total())
	}
	if c.Accuracy() != 0.6 {
		t.Fatalf("expected accuracy 0.6, got %f", c.Accuracy())
	}
	if c.Fraction(c.FalsePositives) != 0.2 {
		t.Fatalf("expected 0.2, got %f", c.Fraction(c.FalsePositives))
	}
}

func TestConfusionEmpty(t *testing.T) {
	var c Confusion
	if c.Accuracy() != 0 || c.Fraction(0) != 0 {
		t.Fatal("empty confusion should report zero fractions")
	}
}
