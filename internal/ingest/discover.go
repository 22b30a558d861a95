package ingest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// ErrNoDataFile is returned when none of the candidate locations holds a data file.
var ErrNoDataFile = errors.New("no player data file found")

// DefaultFileName is the merged performance/salary table produced by the collection pipeline.
const DefaultFileName = "merged_performance_salary.csv"

// Candidates are probed in order, relative to the data root.
var Candidates = []string{
	filepath.Join("data", DefaultFileName),
	filepath.Join("data", "processed", DefaultFileName),
	DefaultFileName,
	filepath.Join("mlb_salaries_2024", "data", DefaultFileName),
	filepath.Join("..", "data", DefaultFileName),
}

// Discover resolves the data file. An explicit file wins and must exist; otherwise the
// candidate list is probed under root (the working directory when root is empty).
func Discover(root, explicit string) (string, error) {
	if explicit != "" {
		if !filepath.IsAbs(explicit) && root != "" {
			if _, err := os.Stat(explicit); err != nil {
				explicit = filepath.Join(root, explicit)
			}
		}
		info, err := os.Stat(explicit)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrNoDataFile, explicit, err)
		}
		if info.IsDir() {
			return "", fmt.Errorf("%w: %s is a directory", ErrNoDataFile, explicit)
		}
		return explicit, nil
	}

	tried := make([]string, 0, len(Candidates))
	for _, c := range Candidates {
		path := c
		if root != "" {
			path = filepath.Join(root, c)
		}
		tried = append(tried, path)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			log.Debug().Str("path", path).Msg("Discovered data file")
			return path, nil
		}
	}
	return "", fmt.Errorf("%w (tried %v)", ErrNoDataFile, tried)
}
