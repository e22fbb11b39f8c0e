package trainer

import (
	"fmt"
	"log"
)

// EpochUpdate is delivered once per completed epoch.
type EpochUpdate struct {
	Loss  float64
	Epoch int
}

// Reporter receives progress synchronously; training waits for it to return.
type Reporter interface {
	ReportEpoch(EpochUpdate) error
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(EpochUpdate) error

func (f ReporterFunc) ReportEpoch(u EpochUpdate) error { return f(u) }

// Discard ignores every update.
var Discard Reporter = ReporterFunc(func(EpochUpdate) error { return nil })

// report delivers u and swallows failures, including panics, after logging
// them. Reporting never affects training.
func report(r Reporter, u EpochUpdate) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &CallbackError{Epoch: u.Epoch, Err: fmt.Errorf("panic: %v", p)}
		}
		if err != nil {
			log.Printf("progress callback failed: %v", err)
		}
	}()
	if r == nil {
		return nil
	}
	if cbErr := r.ReportEpoch(u); cbErr != nil {
		return &CallbackError{Epoch: u.Epoch, Err: cbErr}
	}
	return nil
}
