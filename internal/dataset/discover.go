package dataset

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Named pairs a dataset with the name it was loaded under.
type Named struct {
	Name string
	Data Dataset
}

// Discover returns paths to JSON dataset files beneath root, sorted.
func Discover(root string) ([]string, error) {
	entries := make([]string, 0)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(d.Name()), ".json") {
			entries = append(entries, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover datasets: %w", err)
	}
	sort.Strings(entries)
	return entries, nil
}

// LoadAll loads every path concurrently. The result keeps the order of paths.
// Each dataset is named by its path relative to root without the extension,
// using forward slashes. Two paths resolving to the same name are an error.
func LoadAll(ctx context.Context, root string, paths []string) ([]Named, error) {
	out := make([]Named, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ds, err := Load(path)
			if err != nil {
				return err
			}
			name, err := RelName(root, path)
			if err != nil {
				return err
			}
			out[i] = Named{Name: name, Data: ds}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	seen := make(map[string]string, len(out))
	for i, n := range out {
		if prev, ok := seen[n.Name]; ok {
			return nil, fmt.Errorf("dataset name %q used by both %s and %s", n.Name, prev, paths[i])
		}
		seen[n.Name] = paths[i]
	}
	return out, nil
}

// RelName names the dataset at path by its location under root, e.g.
// root/a/xor.json becomes "a/xor".
func RelName(root, path string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", fmt.Errorf("name dataset %s: %w", path, err)
	}
	return filepath.ToSlash(strings.TrimSuffix(rel, filepath.Ext(rel))), nil
}
