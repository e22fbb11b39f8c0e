package trainer

import (
	"errors"
	"reflect"
	"testing"

	"gradsample/internal/dataset"
)

func TestSplitPreservesOrder(t *testing.T) {
	ds := sampleDataset()
	for size := 0; size <= len(ds); size++ {
		train, test, err := Split(ds, size)
		if err != nil {
			t.Fatalf("Split(%d) error: %v", size, err)
		}
		if len(train) != size || len(train)+len(test) != len(ds) {
			t.Fatalf("Split(%d) sizes train=%d test=%d", size, len(train), len(test))
		}
		joined := append(append(dataset.Dataset{}, train...), test...)
		if !reflect.DeepEqual(joined, ds) {
			t.Fatalf("Split(%d) does not reproduce the dataset", size)
		}
	}
}

func TestSplitDoesNotAliasTest(t *testing.T) {
	ds := sampleDataset()
	train, test, _ := Split(ds, 2)
	_ = append(train, dataset.Observation{Features: []float64{9, 9}, Label: 1})
	if test[0].Features[0] != 0.5 {
		t.Fatal("appending to train overwrote the test partition")
	}
}

func TestSplitTooLarge(t *testing.T) {
	_, _, err := Split(sampleDataset(), 5)
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if cfgErr.Field != "train_size" {
		t.Fatalf("unexpected field %q", cfgErr.Field)
	}
}
