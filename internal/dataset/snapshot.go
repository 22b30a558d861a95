// Package dataset owns the loaded player table and its derived metrics.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mlbvalue-mcp/internal/ingest"
	"mlbvalue-mcp/internal/metrics"
	"mlbvalue-mcp/internal/table"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Snapshot is one immutable load of the data file with metrics applied.
// Readers must copy the table before filtering or sorting it.
type Snapshot struct {
	ID         string             `json:"id"`
	Source     string             `json:"source"`
	LoadedAt   time.Time          `json:"loaded_at"`
	Table      *table.Table       `json:"-"`
	Population metrics.Population `json:"population"`
	Report     ingest.Report      `json:"report"`
	// MetricsErr is set when the table lacks the measures the metric engine needs.
	// The raw table is still served.
	MetricsErr error `json:"-"`
}

// Source produces a normalized table and names where it came from.
type Source func(ctx context.Context) (*table.Table, ingest.Report, string, error)

// FileSource discovers the data file under root (or uses explicit) and loads it.
func FileSource(root, explicit string) Source {
	return func(ctx context.Context) (*table.Table, ingest.Report, string, error) {
		path, err := ingest.Discover(root, explicit)
		if err != nil {
			return nil, ingest.Report{}, "", err
		}
		t, report, err := ingest.Load(ctx, path)
		if err != nil {
			return nil, ingest.Report{}, path, fmt.Errorf("failed to load %s: %w", path, err)
		}
		return t, report, path, nil
	}
}

// Build runs the metric engine over a freshly loaded table and stamps a new snapshot.
func Build(ctx context.Context, src Source, now time.Time) (*Snapshot, error) {
	t, report, path, err := src(ctx)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snap := &Snapshot{
		ID:       uuid.NewString(),
		Source:   path,
		LoadedAt: now,
		Report:   report,
	}
	derived, pop, err := metrics.Apply(t)
	switch {
	case err == nil:
		snap.Table, snap.Population = derived, pop
	case errors.Is(err, metrics.ErrMissingMeasure):
		log.Warn().Err(err).Str("source", path).Msg("Metrics unavailable for this data file")
		snap.Table, snap.MetricsErr = t, err
		snap.Population = metrics.Population{Players: t.Len()}
	default:
		return nil, err
	}
	return snap, nil
}
