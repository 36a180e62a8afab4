package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/j-veylop/zai-dashboard-tui/internal/models"
)

// Supported fact table file extensions.
const (
	ExtCSV  = ".csv"
	ExtXLSX = ".xlsx"
)

// ReadFile reads a fact table, choosing the format by extension.
func ReadFile(path string) (*models.FactTable, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtCSV:
		return ReadCSVFile(path)
	case ExtXLSX:
		return ReadXLSXFile(path)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Base(path))
	}
}

// LoadFile reads one artist file and binds it to its profile.
func LoadFile(path string, reg *Registry) (*models.Artist, error) {
	table, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &models.Artist{
		Profile: reg.Profile(IDFromPath(path)),
		Table:   table,
		Source:  path,
	}, nil
}

// ListFiles returns the fact table files in dir, sorted by name. Lock files
// and hidden files are skipped.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read data dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$") {
			continue
		}
		if IsFactFile(name) {
			files = append(files, filepath.Join(dir, name))
		}
	}
	slices.Sort(files)
	return files, nil
}

// IsFactFile reports whether name has a supported extension.
func IsFactFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ExtCSV, ExtXLSX:
		return true
	}
	return false
}

// LoadDir reads every fact table file in dir, at most workers at a time.
// Artists are returned in file name order. Two files with the same stem are
// an error.
func LoadDir(ctx context.Context, dir string, reg *Registry, workers int) ([]*models.Artist, error) {
	files, err := ListFiles(dir)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]string, len(files))
	for _, f := range files {
		id := IDFromPath(f)
		if prev, ok := seen[id]; ok {
			return nil, fmt.Errorf("duplicate artist %q: %s and %s", id, filepath.Base(prev), filepath.Base(f))
		}
		seen[id] = f
	}

	artists := make([]*models.Artist, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			a, err := LoadFile(path, reg)
			if err != nil {
				return fmt.Errorf("load %s: %w", filepath.Base(path), err)
			}
			artists[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artists, nil
}
