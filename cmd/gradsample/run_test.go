package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"gradsample/internal/api"
	"gradsample/internal/config"
	"gradsample/internal/store"
)

func TestParseWidths(t *testing.T) {
	got, err := parseWidths("4, 8,2")
	if err != nil {
		t.Fatalf("parseWidths error: %v", err)
	}
	if !reflect.DeepEqual(got, []int{4, 8, 2}) {
		t.Fatalf("unexpected widths %v", got)
	}
	if got, _ := parseWidths(""); got != nil {
		t.Fatalf("expected nil widths, got %v", got)
	}
	if _, err := parseWidths("4,x"); err == nil {
		t.Fatal("expected error for non-numeric width")
	}
}

func TestServeRequestStreamsEpochs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "request.json")
	body := `{
		"dataset": [
			{"features": [2, 3], "label": 1},
			{"features": [3, -1], "label": -1},
			{"features": [0.5, 1], "label": -1},
			{"features": [1, 1], "label": 1}
		],
		"learning_rate": 0.05,
		"num_epochs": 3,
		"hidden_layer_sizes": [4, 4],
		"train_size": 3
	}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write request: %v", err)
	}

	var out bytes.Buffer
	if err := serveRequest(context.Background(), path, &out); err != nil {
		t.Fatalf("serveRequest error: %v", err)
	}

	r := bufio.NewReader(&out)
	for epoch := 0; epoch < 3; epoch++ {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("read update %d: %v", epoch, err)
		}
		var u api.EpochUpdate
		if err := json.Unmarshal([]byte(line), &u); err != nil {
			t.Fatalf("decode update %q: %v", line, err)
		}
		if u.Epoch != epoch {
			t.Fatalf("expected epoch %d, got %d", epoch, u.Epoch)
		}
	}
	var res api.Result
	if err := json.NewDecoder(r).Decode(&res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if res.NumEpochs != 3 || len(res.Loss) != 3 || len(res.Predictions) != 4 || len(res.GridPredictions) != 100 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestRunAllWritesResultsAndHistory(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		Generate:  "xor",
		Samples:   20,
		Epochs:    config.Int(2),
		OutputDir: filepath.Join(dir, "out"),
		StorePath: filepath.Join(dir, "runs.db"),
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	sets, err := loadDatasets(context.Background(), cfg)
	if err != nil {
		t.Fatalf("loadDatasets error: %v", err)
	}
	if err := runAll(context.Background(), cfg, sets); err != nil {
		t.Fatalf("runAll error: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(cfg.OutputDir, "xor.json"))
	if err != nil {
		t.Fatalf("read result: %v", err)
	}
	if !strings.Contains(string(b), `"network_dimensions"`) {
		t.Fatalf("unexpected result file %s", b)
	}

	s, err := store.Open(cfg.StorePath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()
	runs, err := s.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(runs) != 1 || runs[0].Dataset != "xor" || runs[0].Epochs != 2 {
		t.Fatalf("unexpected history %+v", runs)
	}
}

func TestRunAllKeepsSameNamedDatasetsApart(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "data")
	writeFile(t, filepath.Join(data, "a", "xor.json"), `[{"features":[1,2],"label":1},{"features":[-1,2],"label":-1}]`)
	writeFile(t, filepath.Join(data, "b", "xor.json"), `[{"features":[1,2],"label":1},{"features":[-1,2],"label":-1},{"features":[2,-1],"label":-1}]`)

	cfg := &config.Config{
		DataDir:   data,
		Epochs:    config.Int(1),
		TrainSize: config.Int(1),
		OutputDir: filepath.Join(dir, "out"),
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	sets, err := loadDatasets(context.Background(), cfg)
	if err != nil {
		t.Fatalf("loadDatasets error: %v", err)
	}
	if err := runAll(context.Background(), cfg, sets); err != nil {
		t.Fatalf("runAll error: %v", err)
	}

	for name, want := range map[string]int{"a": 2, "b": 3} {
		b, err := os.ReadFile(filepath.Join(cfg.OutputDir, name, "xor.json"))
		if err != nil {
			t.Fatalf("read result for %s: %v", name, err)
		}
		var res api.Result
		if err := json.Unmarshal(b, &res); err != nil {
			t.Fatalf("decode result for %s: %v", name, err)
		}
		if res.Dataset != name+"/xor" || len(res.Predictions) != want {
			t.Fatalf("result for %s: dataset=%q predictions=%d", name, res.Dataset, len(res.Predictions))
		}
	}
}

func TestRunAllZeroEpochsFromConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		Generate:  "circle",
		Samples:   10,
		Epochs:    config.Int(0),
		TrainSize: config.Int(0),
		OutputDir: dir,
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	sets, err := loadDatasets(context.Background(), cfg)
	if err != nil {
		t.Fatalf("loadDatasets error: %v", err)
	}
	if err := runAll(context.Background(), cfg, sets); err != nil {
		t.Fatalf("runAll error: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(dir, "circle.json"))
	if err != nil {
		t.Fatalf("read result: %v", err)
	}
	var res api.Result
	if err := json.Unmarshal(b, &res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if res.NumEpochs != 0 || len(res.Loss) != 0 || res.Train.Count != 0 || res.Test.Count != 10 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestPrintHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	s, err := store.Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	for i, name := range []string{"spiral", "gaussian"} {
		err := s.Save(context.Background(), store.Run{
			ID:           name + "-run",
			Dataset:      name,
			StartedAt:    time.UnixMilli(int64(i+1) * 1000),
			Epochs:       5,
			LearningRate: 0.05,
			Dimensions:   []int{2, 4, 1},
			FinalLoss:    1.25,
		})
		if err != nil {
			t.Fatalf("Save error: %v", err)
		}
	}
	s.Close()

	var out bytes.Buffer
	if err := printHistory(context.Background(), path, 1, &out); err != nil {
		t.Fatalf("printHistory error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one run, got %q", out.String())
	}
	if !strings.HasPrefix(lines[1], "gaussian-run") || !strings.Contains(lines[1], "[2 4 1]") {
		t.Fatalf("unexpected history line %q", lines[1])
	}
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
