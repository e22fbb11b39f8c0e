package metrics

import (
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Window accumulates epoch timings between two log lines.
type Window struct {
	epochMS  []float64
	lastLoss float64
}

// Record adds one completed epoch to the window.
func (w *Window) Record(epochTime time.Duration, loss float64) {
	w.epochMS = append(w.epochMS, epochTime.Seconds()*1000)
	w.lastLoss = loss
}

// Len returns the number of epochs recorded since the last snapshot.
func (w *Window) Len() int { return len(w.epochMS) }

// Snapshot returns aggregated metrics and resets the window.
func (w *Window) Snapshot() Snapshot {
	snap := Snapshot{LastLoss: w.lastLoss, Epochs: len(w.epochMS)}
	if len(w.epochMS) > 0 {
		snap.AvgEpochMS = stat.Mean(w.epochMS, nil)
		if total := floats.Sum(w.epochMS); total > 0 {
			snap.EpochsPerSec = float64(len(w.epochMS)) / (total / 1000)
		}
	}
	w.epochMS = w.epochMS[:0]
	return snap
}

// Snapshot represents loggable metrics.
type Snapshot struct {
	Epochs       int
	EpochsPerSec float64
	AvgEpochMS   float64
	LastLoss     float64
}
