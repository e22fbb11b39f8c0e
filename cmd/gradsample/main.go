package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/klauspost/cpuid/v2"

	"gradsample/internal/config"
)

func main() {
	cfgPath := flag.String("config", "", "Path to YAML config (defaults to a generated xor run)")
	datasetPath := flag.String("dataset", "", "Override dataset file")
	dataDir := flag.String("data-dir", "", "Override directory of dataset files")
	generate := flag.String("generate", "", "Override generated dataset kind (gaussian, circle, spiral, xor)")
	learningRate := flag.Float64("learning-rate", 0, "Learning rate")
	epochs := flag.Int("epochs", -1, "Number of training epochs (negative keeps the config value)")
	hidden := flag.String("hidden", "", "Comma separated hidden layer widths")
	trainSize := flag.Int("train-size", -1, "Number of leading observations to train on (negative keeps the config value)")
	seed := flag.Int64("seed", 0, "PRNG seed")
	logEvery := flag.Int("log-every", 0, "Log every N epochs")
	outputDir := flag.String("output-dir", "", "Directory for result JSON files")
	storePath := flag.String("store", "", "SQLite run history path")
	checkGrads := flag.Bool("check-gradients", false, "Compare backprop against finite differences before training")
	history := flag.Int("history", 0, "Print the N most recent runs from -store and exit")
	requestPath := flag.String("request", "", "Serve one JSON request from this file (- for stdin) and stream results to stdout")

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *requestPath != "" {
		if err := serveRequest(ctx, *requestPath, os.Stdout); err != nil {
			log.Fatalf("request failed: %v", err)
		}
		return
	}

	if *history > 0 {
		if *storePath == "" {
			log.Fatalf("-history needs -store")
		}
		if err := printHistory(ctx, *storePath, *history, os.Stdout); err != nil {
			log.Fatalf("read history: %v", err)
		}
		return
	}

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		cfg = loaded
	}

	widths, err := parseWidths(*hidden)
	if err != nil {
		log.Fatalf("invalid -hidden: %v", err)
	}

	cfg.ApplyOverrides(config.Overrides{
		Dataset:        *datasetPath,
		DataDir:        *dataDir,
		Generate:       *generate,
		LearningRate:   *learningRate,
		Epochs:         optional(*epochs),
		HiddenLayers:   widths,
		TrainSize:      optional(*trainSize),
		Seed:           *seed,
		LogEvery:       *logEvery,
		OutputDir:      *outputDir,
		StorePath:      *storePath,
		CheckGradients: *checkGrads,
	})

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	log.Printf("cpu=%q physical_cores=%d logical_cores=%d avx2=%t",
		cpuid.CPU.BrandName, cpuid.CPU.PhysicalCores, cpuid.CPU.LogicalCores, cpuid.CPU.Supports(cpuid.AVX2))

	sets, err := loadDatasets(ctx, cfg)
	if err != nil {
		log.Fatalf("load datasets: %v", err)
	}
	if len(sets) == 0 {
		log.Fatalf("no datasets found")
	}
	for _, s := range sets {
		log.Printf("dataset=%s observations=%d", s.Name, len(s.Data))
	}

	if err := runAll(ctx, cfg, sets); err != nil {
		log.Fatalf("training failed: %v", err)
	}
}

// optional maps a negative flag value to unset.
func optional(v int) *int {
	if v < 0 {
		return nil
	}
	return config.Int(v)
}

func parseWidths(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	widths := make([]int, 0, len(parts))
	for _, p := range parts {
		w, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		widths = append(widths, w)
	}
	return widths, nil
}
