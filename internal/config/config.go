package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"gradsample/internal/dataset"
)

// Config captures the runtime knobs for a training run.
type Config struct {
	Dataset        string  `yaml:"dataset"`
	DataDir        string  `yaml:"data_dir"`
	Generate       string  `yaml:"generate"`
	Samples        int     `yaml:"samples"`
	Noise          float64 `yaml:"noise"`
	LearningRate   float64 `yaml:"learning_rate"`
	Epochs         *int    `yaml:"epochs"`
	HiddenLayers   []int   `yaml:"hidden_layers"`
	TrainSize      *int    `yaml:"train_size"`
	TrainFraction  float64 `yaml:"train_fraction"`
	GridSize       int     `yaml:"grid_size"`
	Seed           int64   `yaml:"seed"`
	LogEvery       int     `yaml:"log_every"`
	OutputDir      string  `yaml:"output_dir"`
	StorePath      string  `yaml:"store_path"`
	CheckGradients bool    `yaml:"check_gradients"`
}

// Overrides captures CLI supplied values. Nil pointers leave the config
// untouched, so an explicit zero can be set.
type Overrides struct {
	Dataset        string
	DataDir        string
	Generate       string
	LearningRate   float64
	Epochs         *int
	HiddenLayers   []int
	TrainSize      *int
	Seed           int64
	LogEvery       int
	OutputDir      string
	StorePath      string
	CheckGradients bool
}

const (
	defaultLearningRate  = 0.05
	defaultEpochs        = 100
	defaultTrainFraction = 0.8
	defaultGridSize      = 10
	defaultLogEvery      = 10
	defaultSamples       = 100
	defaultNoise         = 0.5
)

// Int returns a pointer to v, for the optional integer fields.
func Int(v int) *int { return &v }

// Default returns a config that trains on a generated xor dataset.
func Default() *Config {
	return &Config{Generate: string(dataset.Xor)}
}

// Load reads and validates a Config from YAML.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg := &Config{}
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyOverrides updates cfg using any set override. A dataset source
// given on the command line replaces the configured one.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.Dataset != "" || o.DataDir != "" || o.Generate != "" {
		c.Dataset, c.DataDir, c.Generate = o.Dataset, o.DataDir, o.Generate
	}
	if o.LearningRate > 0 {
		c.LearningRate = o.LearningRate
	}
	if o.Epochs != nil {
		c.Epochs = o.Epochs
	}
	if len(o.HiddenLayers) > 0 {
		c.HiddenLayers = o.HiddenLayers
	}
	if o.TrainSize != nil {
		c.TrainSize = o.TrainSize
	}
	if o.Seed != 0 {
		c.Seed = o.Seed
	}
	if o.LogEvery > 0 {
		c.LogEvery = o.LogEvery
	}
	if o.OutputDir != "" {
		c.OutputDir = o.OutputDir
	}
	if o.StorePath != "" {
		c.StorePath = o.StorePath
	}
	if o.CheckGradients {
		c.CheckGradients = true
	}
}

// Validate verifies the config is runnable and fills defaults.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	sources := 0
	for _, s := range []string{c.Dataset, c.DataDir, c.Generate} {
		if s != "" {
			sources++
		}
	}
	if sources != 1 {
		return errors.New("exactly one of dataset, data_dir or generate must be set")
	}
	if c.Generate != "" {
		if _, err := dataset.ParseKind(c.Generate); err != nil {
			return err
		}
	}
	if c.Samples < 0 {
		return fmt.Errorf("samples must be >= 0 (got %d)", c.Samples)
	}
	if c.Samples == 0 {
		c.Samples = defaultSamples
	}
	if c.Noise < 0 {
		return fmt.Errorf("noise must be >= 0 (got %g)", c.Noise)
	}
	if c.Noise == 0 {
		c.Noise = defaultNoise
	}
	if c.LearningRate < 0 || math.IsNaN(c.LearningRate) || math.IsInf(c.LearningRate, 0) {
		return fmt.Errorf("learning_rate must be a finite value > 0 (got %g)", c.LearningRate)
	}
	if c.LearningRate == 0 {
		c.LearningRate = defaultLearningRate
	}
	if c.Epochs == nil {
		epochs := defaultEpochs
		c.Epochs = &epochs
	}
	if *c.Epochs < 0 {
		return fmt.Errorf("epochs must be >= 0 (got %d)", *c.Epochs)
	}
	if c.HiddenLayers == nil {
		c.HiddenLayers = []int{4, 4}
	}
	for i, w := range c.HiddenLayers {
		if w <= 0 {
			return fmt.Errorf("hidden_layers[%d] must be > 0 (got %d)", i, w)
		}
	}
	if c.TrainSize != nil && *c.TrainSize < 0 {
		return fmt.Errorf("train_size must be >= 0 (got %d)", *c.TrainSize)
	}
	if c.TrainFraction < 0 || c.TrainFraction > 1 {
		return fmt.Errorf("train_fraction must be in [0, 1] (got %g)", c.TrainFraction)
	}
	if c.TrainFraction == 0 {
		c.TrainFraction = defaultTrainFraction
	}
	if c.GridSize < 0 {
		return fmt.Errorf("grid_size must be >= 0 (got %d)", c.GridSize)
	}
	if c.GridSize == 0 {
		c.GridSize = defaultGridSize
	}
	if c.LogEvery <= 0 {
		c.LogEvery = defaultLogEvery
	}
	return nil
}

// TrainSizeFor resolves the training prefix length for a dataset of n
// observations: train_size when set (zero included), otherwise
// train_fraction of n.
func (c *Config) TrainSizeFor(n int) int {
	if c.TrainSize != nil {
		return *c.TrainSize
	}
	return int(math.Round(c.TrainFraction * float64(n)))
}
