package main

import (
	"flag"
	"log"
	"math/rand"
	"os"
	"path/filepath"

	"gradsample/internal/dataset"
)

func main() {
	outDir := flag.String("out", "data", "Directory to write dataset files into")
	samples := flag.Int("samples", 100, "Observations per dataset")
	noise := flag.Float64("noise", 0.5, "Noise level for generators that use it")
	seed := flag.Int64("seed", 1, "PRNG seed")

	flag.Parse()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("create %s: %v", *outDir, err)
	}

	rng := rand.New(rand.NewSource(*seed))
	for _, kind := range dataset.Kinds {
		ds, err := dataset.Generate(kind, *samples, *noise, rng)
		if err != nil {
			log.Fatalf("generate %s: %v", kind, err)
		}
		path := filepath.Join(*outDir, string(kind)+".json")
		if err := writeFile(path, ds); err != nil {
			log.Fatalf("write %s: %v", path, err)
		}
		log.Printf("dataset=%s observations=%d path=%s", kind, len(ds), path)
	}
}

func writeFile(path string, ds dataset.Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := dataset.Write(f, ds); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
