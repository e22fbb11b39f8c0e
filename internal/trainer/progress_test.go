package trainer

import (
	"errors"
	"testing"
)

func TestReportWrapsFailures(t *testing.T) {
	sinkErr := errors.New("sink closed")
	err := report(ReporterFunc(func(EpochUpdate) error { return sinkErr }), EpochUpdate{Epoch: 3})
	var cbErr *CallbackError
	if !errors.As(err, &cbErr) || cbErr.Epoch != 3 || !errors.Is(err, sinkErr) {
		t.Fatalf("expected CallbackError for epoch 3, got %v", err)
	}

	err = report(ReporterFunc(func(EpochUpdate) error { panic("boom") }), EpochUpdate{Epoch: 1})
	if !errors.As(err, &cbErr) || cbErr.Epoch != 1 {
		t.Fatalf("expected CallbackError from panic, got %v", err)
	}
}

func TestReportNilAndDiscard(t *testing.T) {
	if err := report(nil, EpochUpdate{}); err != nil {
		t.Fatalf("nil reporter returned %v", err)
	}
	if err := report(Discard, EpochUpdate{}); err != nil {
		t.Fatalf("Discard returned %v", err)
	}
}
