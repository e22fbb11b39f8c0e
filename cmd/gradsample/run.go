package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"gradsample/internal/api"
	"gradsample/internal/config"
	"gradsample/internal/dataset"
	"gradsample/internal/metrics"
	"gradsample/internal/model"
	"gradsample/internal/store"
	"gradsample/internal/trainer"
)

const gradientTolerance = 1e-4

func loadDatasets(ctx context.Context, cfg *config.Config) ([]dataset.Named, error) {
	switch {
	case cfg.Dataset != "":
		ds, err := dataset.Load(cfg.Dataset)
		if err != nil {
			return nil, err
		}
		return []dataset.Named{{Name: dataset.Name(cfg.Dataset), Data: ds}}, nil
	case cfg.DataDir != "":
		paths, err := dataset.Discover(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		return dataset.LoadAll(ctx, cfg.DataDir, paths)
	default:
		kind, err := dataset.ParseKind(cfg.Generate)
		if err != nil {
			return nil, err
		}
		rng := rand.New(rand.NewSource(cfg.Seed))
		ds, err := dataset.Generate(kind, cfg.Samples, cfg.Noise, rng)
		if err != nil {
			return nil, err
		}
		return []dataset.Named{{Name: string(kind), Data: ds}}, nil
	}
}

// runAll trains one network per dataset concurrently.
func runAll(ctx context.Context, cfg *config.Config, sets []dataset.Named) error {
	var history *store.Store
	if cfg.StorePath != "" {
		s, err := store.Open(cfg.StorePath)
		if err != nil {
			return err
		}
		defer s.Close()
		history = s
	}
	if cfg.OutputDir != "" {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return errors.Wrap(err, "create output dir")
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, set := range sets {
		set := set
		g.Go(func() error {
			return runOne(ctx, cfg, set, history)
		})
	}
	return g.Wait()
}

func runOne(ctx context.Context, cfg *config.Config, set dataset.Named, history *store.Store) error {
	runID := uuid.NewString()
	opts := trainer.Options{
		LearningRate: cfg.LearningRate,
		Epochs:       *cfg.Epochs,
		TrainSize:    cfg.TrainSizeFor(len(set.Data)),
		HiddenLayers: cfg.HiddenLayers,
		GridSize:     cfg.GridSize,
		Seed:         cfg.Seed,
	}
	if cfg.CheckGradients {
		opts.Network = checkedNetwork(runID, set.Data, opts)
	}

	log.Printf("run=%s dataset=%s train_size=%d epochs=%d lr=%g hidden=%v",
		runID, set.Name, opts.TrainSize, opts.Epochs, opts.LearningRate, opts.HiddenLayers)

	started := time.Now()
	res, err := trainer.Run(ctx, set.Data, opts, newLogReporter(runID, cfg.LogEvery))
	if err != nil {
		return errors.Wrapf(err, "run %s on %s", runID, set.Name)
	}

	log.Printf("run=%s dataset=%s final_loss=%.6f classification_error=%.4f time_to_train=%s",
		runID, set.Name, res.FinalLoss(), res.ClassificationError, res.Duration)

	if cfg.OutputDir != "" {
		path := filepath.Join(cfg.OutputDir, filepath.FromSlash(set.Name)+".json")
		if err := writeResult(path, api.NewResult(runID, set.Name, set.Data, res)); err != nil {
			return err
		}
	}
	if history != nil {
		err := history.Save(ctx, store.Run{
			ID:                  runID,
			Dataset:             set.Name,
			StartedAt:           started,
			Epochs:              res.NumEpochs,
			LearningRate:        opts.LearningRate,
			Dimensions:          res.NetworkDimensions,
			FinalLoss:           res.FinalLoss(),
			ClassificationError: res.ClassificationError,
			Duration:            res.Duration,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// checkedNetwork builds the default network and verifies its gradients on
// the training prefix before handing it to the trainer.
func checkedNetwork(runID string, ds dataset.Dataset, opts trainer.Options) trainer.Constructor {
	return func(inputDim int, hidden []int) model.Network {
		net := model.NewMLP(inputDim, hidden, opts.Seed)
		train := ds[:opts.TrainSize]
		diff := net.CheckGradients(train.Features(), train.Labels())
		if diff > gradientTolerance {
			log.Printf("run=%s gradient check failed max_abs_diff=%g", runID, diff)
		} else {
			log.Printf("run=%s gradient check ok max_abs_diff=%g", runID, diff)
		}
		return net
	}
}

// logReporter logs throughput every n epochs.
type logReporter struct {
	runID  string
	every  int
	window metrics.Window
	last   time.Time
}

func newLogReporter(runID string, every int) *logReporter {
	return &logReporter{runID: runID, every: every, last: time.Now()}
}

func (r *logReporter) ReportEpoch(u trainer.EpochUpdate) error {
	now := time.Now()
	r.window.Record(now.Sub(r.last), u.Loss)
	r.last = now
	if (u.Epoch+1)%r.every != 0 {
		return nil
	}
	snap := r.window.Snapshot()
	log.Printf("run=%s epoch=%d loss=%.6f epochs_per_sec=%.1f avg_epoch_ms=%.3f",
		r.runID, u.Epoch, snap.LastLoss, snap.EpochsPerSec, snap.AvgEpochMS)
	return nil
}

func writeResult(path string, res api.Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create result dir")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create result file")
	}
	if err := api.Encode(f, res); err != nil {
		f.Close()
		return errors.Wrapf(err, "write %s", path)
	}
	return errors.Wrapf(f.Close(), "close %s", path)
}

// printHistory writes the n most recent runs recorded at path, one per line.
func printHistory(ctx context.Context, path string, n int, w io.Writer) error {
	s, err := store.Open(path)
	if err != nil {
		return err
	}
	defer s.Close()

	runs, err := s.List(ctx, n)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tDATASET\tSTARTED\tEPOCHS\tLR\tDIMENSIONS\tFINAL LOSS\tCLASSIFICATION ERROR\tDURATION")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%g\t%v\t%.6f\t%.4f\t%s\n",
			r.ID, r.Dataset, r.StartedAt.Format(time.RFC3339), r.Epochs, r.LearningRate,
			r.Dimensions, r.FinalLoss, r.ClassificationError, r.Duration)
	}
	return tw.Flush()
}

// serveRequest runs a single request, writing one JSON line per epoch
// followed by the result document.
func serveRequest(ctx context.Context, path string, w io.Writer) error {
	var in io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return errors.Wrap(err, "open request")
		}
		defer f.Close()
		in = f
	}

	req, ds, err := api.DecodeRequest(in)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	progress := trainer.ReporterFunc(func(u trainer.EpochUpdate) error {
		return enc.Encode(api.NewEpochUpdate(u))
	})

	res, err := trainer.Run(ctx, ds, req.Options(), progress)
	if err != nil {
		return err
	}
	return api.Encode(w, api.NewResult(uuid.NewString(), "request", ds, res))
}
