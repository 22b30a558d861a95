package dashboard

import (
	"context"
	"fmt"

	"mlbvalue-mcp/internal/aggregate"
	"mlbvalue-mcp/internal/dataset"
	"mlbvalue-mcp/internal/metrics"
	"mlbvalue-mcp/internal/table"
)

// Options are the tunable group-size and sample-size floors.
type Options struct {
	TeamMinPlayers      int
	PositionMinPlayers  int
	RegressionMinSample int
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{
		TeamMinPlayers:      aggregate.DefaultTeamMinPlayers,
		PositionMinPlayers:  aggregate.DefaultPositionMinPlayers,
		RegressionMinSample: DefaultRegressionMinSample,
	}
}

// Service resolves the current snapshot for every request and computes views on it.
type Service struct {
	store *dataset.Store
	opts  Options
}

// NewService wires a service to a dataset store.
func NewService(store *dataset.Store, opts Options) *Service {
	return &Service{store: store, opts: opts}
}

// Snapshot returns the current (possibly freshly loaded) snapshot.
func (s *Service) Snapshot(ctx context.Context) (*dataset.Snapshot, error) {
	return s.store.Get(ctx)
}

// Reload forces a fresh load of the data file.
func (s *Service) Reload(ctx context.Context) (*dataset.Snapshot, error) {
	return s.store.Reload(ctx)
}

func (s *Service) selection(ctx context.Context, f Filter) (*dataset.Snapshot, *table.Table, int, error) {
	snap, err := s.store.Get(ctx)
	if err != nil {
		return nil, nil, 0, err
	}
	t, matched, err := Select(snap.Table, f)
	if err != nil {
		return nil, nil, 0, err
	}
	return snap, t, matched, nil
}

func metricsReady(snap *dataset.Snapshot) error {
	if snap.MetricsErr != nil {
		return snap.MetricsErr
	}
	return nil
}

// Overview summarizes the players matching f.
func (s *Service) Overview(ctx context.Context, f Filter) (*Overview, error) {
	f.Limit = 0
	snap, t, _, err := s.selection(ctx, f)
	if err != nil {
		return nil, err
	}
	return BuildOverview(snap, t), nil
}

// PlayerPage is one page of a player listing.
type PlayerPage struct {
	SnapshotID string      `json:"snapshot_id"`
	Matched    int         `json:"matched"`
	Returned   int         `json:"returned"`
	Players    []PlayerRow `json:"players"`
}

// Players lists the players matching f.
func (s *Service) Players(ctx context.Context, f Filter) (*PlayerPage, error) {
	snap, t, matched, err := s.selection(ctx, f)
	if err != nil {
		return nil, err
	}
	return &PlayerPage{SnapshotID: snap.ID, Matched: matched, Returned: t.Len(), Players: Rows(t)}, nil
}

// Table returns the filtered table itself, for export.
func (s *Service) Table(ctx context.Context, f Filter) (*table.Table, error) {
	_, t, _, err := s.selection(ctx, f)
	return t, err
}

// Leaders ranks the players matching f by metric.
func (s *Service) Leaders(ctx context.Context, metric string, n int, ascending bool, f Filter) (*Leaders, error) {
	f.Limit = 0
	snap, t, _, err := s.selection(ctx, f)
	if err != nil {
		return nil, err
	}
	if err := metricsReady(snap); err != nil {
		return nil, err
	}
	return BuildLeaders(t, metric, n, ascending)
}

// Anomalies flags mispriced contracts among the players matching f.
func (s *Service) Anomalies(ctx context.Context, p AnomalyParams, f Filter) (*Anomalies, error) {
	f.Limit = 0
	snap, t, _, err := s.selection(ctx, f)
	if err != nil {
		return nil, err
	}
	if err := metricsReady(snap); err != nil {
		return nil, err
	}
	return BuildAnomalies(t, snap.Population.Fit, p)
}

// Regression fits y on x over the players matching f.
func (s *Service) Regression(ctx context.Context, x, y string, f Filter) (*Regression, error) {
	f.Limit = 0
	_, t, _, err := s.selection(ctx, f)
	if err != nil {
		return nil, err
	}
	return BuildRegression(t, x, y, s.opts.RegressionMinSample)
}

// Compare scores named players against the whole league.
func (s *Service) Compare(ctx context.Context, names []string) (*Comparison, error) {
	snap, err := s.store.Get(ctx)
	if err != nil {
		return nil, err
	}
	return BuildComparison(snap.Table, names)
}

// Inequality measures salary concentration for a team or the league.
func (s *Service) Inequality(ctx context.Context, team string) (*Inequality, error) {
	snap, err := s.store.Get(ctx)
	if err != nil {
		return nil, err
	}
	return BuildInequality(snap.Table.Eligible(), team)
}

// TPMMatrix places the players matching f on the performance/value matrix.
func (s *Service) TPMMatrix(ctx context.Context, f Filter) (*TPMMatrix, error) {
	f.Limit = 0
	snap, t, _, err := s.selection(ctx, f)
	if err != nil {
		return nil, err
	}
	if err := metricsReady(snap); err != nil {
		return nil, err
	}
	return BuildTPMMatrix(t)
}

// Teams aggregates payroll efficiency per team.
func (s *Service) Teams(ctx context.Context, teams []string, sortBy string, descending bool) ([]aggregate.TeamStats, error) {
	snap, err := s.store.Get(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := aggregate.Teams(snap.Table, teams)
	if err != nil {
		return nil, err
	}
	if sortBy == "" {
		sortBy, descending = "efficiency", true
	}
	if err := aggregate.SortTeams(rows, sortBy, descending); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownColumn, err)
	}
	return rows, nil
}

// TeamPSI scores every team large enough against the league efficiency.
func (s *Service) TeamPSI(ctx context.Context) ([]metrics.PSIResult, error) {
	snap, err := s.store.Get(ctx)
	if err != nil {
		return nil, err
	}
	if err := metricsReady(snap); err != nil {
		return nil, err
	}
	return aggregate.TeamPSI(snap.Table, snap.Population.LeagueEfficiency, s.opts.TeamMinPlayers)
}

// Positions reports the cost of one WAR at each position.
func (s *Service) Positions(ctx context.Context, sortBy string, descending bool) ([]aggregate.PositionStats, error) {
	snap, err := s.store.Get(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := aggregate.Positions(snap.Table, s.opts.PositionMinPlayers)
	if err != nil {
		return nil, err
	}
	if sortBy != "" {
		if err := aggregate.SortPositions(rows, sortBy, descending); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnknownColumn, err)
		}
	}
	return rows, nil
}
