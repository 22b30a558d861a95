package mcp

import (
	"context"
	"fmt"

	"mlbvalue-mcp/internal/dashboard"
	"mlbvalue-mcp/internal/export"
	"mlbvalue-mcp/internal/table"
	"mlbvalue-mcp/internal/visuals"
)

// QueryArgs filter and page the player listing.
type QueryArgs struct {
	FilterArgs
	SortArgs
}

// ExportArgs select the players and columns written to a CSV file.
type ExportArgs struct {
	FilterArgs
	SortBy     string   `json:"sort_by,omitempty" jsonschema:"Column to sort by before writing"`
	Descending bool     `json:"descending,omitempty" jsonschema:"Sort from highest to lowest"`
	Limit      int      `json:"limit,omitempty" jsonschema:"Maximum rows to write (0 writes every match)"`
	Columns    []string `json:"columns,omitempty" jsonschema:"Columns to write; defaults to identity, WAR, salary and the value metrics"`
	Prefix     string   `json:"prefix,omitempty" jsonschema:"File name prefix (default mlb_data)"`
}

// CompareArgs name the players to compare.
type CompareArgs struct {
	Names []string `json:"names" jsonschema:"One to five player names, matched case-insensitively (exact name, or a substring unique to one player)"`
}

// LeadersArgs choose the metric and direction of a leader board.
type LeadersArgs struct {
	FilterArgs
	Metric    string `json:"metric" jsonschema:"One of WVPI, RAV, MERI, value_ratio"`
	Top       int    `json:"top,omitempty" jsonschema:"Board size (default 20)"`
	Ascending bool   `json:"ascending,omitempty" jsonschema:"List the lowest values first; for MERI this lists undervalued contracts"`
}

// AnomalyArgs tune the salary residual thresholds.
type AnomalyArgs struct {
	FilterArgs
	ThresholdPct *float64 `json:"threshold_pct,omitempty" jsonschema:"Residual percent beyond which a salary is anomalous (default 30)"`
	WARFloor     *float64 `json:"war_floor,omitempty" jsonschema:"Minimum WAR for a player to be analyzed (default 1.0)"`
	Limit        int      `json:"limit,omitempty" jsonschema:"Maximum players per side"`
}

// TeamArgs select and order the team efficiency table.
type TeamArgs struct {
	Teams      []string `json:"teams,omitempty" jsonschema:"Restrict to these teams"`
	SortBy     string   `json:"sort_by,omitempty" jsonschema:"team, players, total_war, mean_war, total_salary, mean_salary or efficiency"`
	Descending bool     `json:"descending,omitempty" jsonschema:"Sort from highest to lowest"`
}

// PositionArgs order the positional cost table.
type PositionArgs struct {
	SortBy     string `json:"sort_by,omitempty" jsonschema:"position, players, mean_salary, mean_war, total_war, total_salary, efficiency or cost_per_war"`
	Descending bool   `json:"descending,omitempty" jsonschema:"Sort from highest to lowest"`
}

// InequalityArgs scope the inequality measurement.
type InequalityArgs struct {
	Team string `json:"team,omitempty" jsonschema:"Team abbreviation; empty or 'all' measures the league"`
}

// RegressionArgs name the regressor and the response.
type RegressionArgs struct {
	FilterArgs
	X string `json:"x,omitempty" jsonschema:"Regressor column (default WAR)"`
	Y string `json:"y,omitempty" jsonschema:"Response column (default Salary_millions)"`
}

// NoArgs is the input of tools without parameters.
type NoArgs struct{}

func (s *Server) snapshotID(ctx context.Context) string {
	snap, err := s.svc.Snapshot(ctx)
	if err != nil {
		return ""
	}
	return snap.ID
}

func (s *Server) handleOverview(ctx context.Context, args FilterArgs) (ResponseEnvelope, error) {
	ov, err := s.svc.Overview(ctx, args.filter())
	if err != nil {
		return ResponseEnvelope{}, err
	}
	guidance := []string{
		"value_ratio is WAR per million dollars; league_efficiency is total WAR over total payroll of eligible players.",
		"SEI is the WAR/salary correlation times (1 - salary gini). Higher means pay tracks performance without concentrating payroll.",
		"Category counts cover the selected players only; thresholds are computed once over the whole league.",
	}
	if ov.MetricsUnavailable != "" {
		guidance = append(guidance, "Value metrics are unavailable for this file: "+ov.MetricsUnavailable)
	}
	return s.WrapResponse(ov, ov.SnapshotID, guidance, map[string]string{
		"wvpi_categories": visuals.GenerateCategoryChart("WVPI categories", ov.WVPI),
		"tpm_quadrants":   visuals.GenerateCategoryChart("TPM quadrants", ov.TPM),
	}), nil
}

func (s *Server) handleQueryPlayers(ctx context.Context, args QueryArgs) (ResponseEnvelope, error) {
	f := args.filter()
	args.apply(&f)
	page, err := s.svc.Players(ctx, f)
	if err != nil {
		return ResponseEnvelope{}, err
	}
	var guidance []string
	if page.Matched > page.Returned {
		guidance = append(guidance, fmt.Sprintf("%d players matched; raise limit or narrow the filter to see the rest.", page.Matched))
	}
	return s.WrapResponse(page, page.SnapshotID, guidance, nil), nil
}

func (s *Server) handleExportPlayers(ctx context.Context, args ExportArgs) (ResponseEnvelope, error) {
	f := args.filter()
	f.SortBy, f.Descending, f.Limit = args.SortBy, args.Descending, args.Limit
	t, err := s.svc.Table(ctx, f)
	if err != nil {
		return ResponseEnvelope{}, err
	}
	cols, err := export.Columns(t, args.Columns)
	if err != nil {
		return ResponseEnvelope{}, err
	}
	dir := s.exportDir
	if dir == "" {
		dir = "."
	}
	path, err := export.Save(dir, args.Prefix, s.now(), t, cols)
	if err != nil {
		return ResponseEnvelope{}, err
	}
	res := map[string]any{
		"path":    path,
		"rows":    t.Len(),
		"columns": cols,
	}
	return s.WrapResponse(res, s.snapshotID(ctx), nil, nil), nil
}

func (s *Server) handleComparePlayers(ctx context.Context, args CompareArgs) (ResponseEnvelope, error) {
	cmp, err := s.svc.Compare(ctx, args.Names)
	if err != nil {
		return ResponseEnvelope{}, err
	}
	guidance := []string{
		"Percentiles place each player against every player in the league (0-100, higher is more).",
		"A high Salary_millions percentile is a cost, not a strength.",
	}
	return s.WrapResponse(cmp, s.snapshotID(ctx), guidance, nil), nil
}

func (s *Server) handleMetricLeaders(ctx context.Context, args LeadersArgs) (ResponseEnvelope, error) {
	top := args.Top
	if top == 0 {
		top = dashboard.DefaultLeaders
	}
	l, err := s.svc.Leaders(ctx, args.Metric, top, args.Ascending, args.filter())
	if err != nil {
		return ResponseEnvelope{}, err
	}
	var guidance []string
	switch l.Metric {
	case table.ColMERI:
		guidance = []string{
			"MERI is the salary residual against the position-adjusted salary line, in percent of the expected salary.",
			"Negative MERI is an undervalued contract; positive MERI is an overvalued one.",
		}
	case table.ColRAV:
		guidance = []string{"RAV divides WAR above the replacement baseline by the player's WAR volatility proxy."}
	case table.ColWVPI:
		guidance = []string{"WVPI blends normalized WAR (35%), normalized value ratio (30%), WAR percentile (20%) and inverse salary percentile (15%)."}
	}
	return s.WrapResponse(l, s.snapshotID(ctx), guidance, map[string]string{
		"leaders_bar": visuals.GenerateLeadersChart(l),
	}), nil
}

func (s *Server) handleMarketAnomalies(ctx context.Context, args AnomalyArgs) (ResponseEnvelope, error) {
	p := dashboard.AnomalyParams{
		ThresholdPct: dashboard.DefaultAnomalyThreshold,
		MinWAR:       dashboard.DefaultAnomalyMinWAR,
		Limit:        args.Limit,
	}
	if args.ThresholdPct != nil {
		p.ThresholdPct = *args.ThresholdPct
	}
	if args.WARFloor != nil {
		p.MinWAR = *args.WARFloor
	}
	a, err := s.svc.Anomalies(ctx, p, args.filter())
	if err != nil {
		return ResponseEnvelope{}, err
	}
	guidance := []string{
		"Expected salary comes from the league-wide least squares line of salary on WAR.",
		"Undervalued players earn less than the line predicts by more than the threshold; overvalued ones earn more.",
	}
	return s.WrapResponse(a, s.snapshotID(ctx), guidance, nil), nil
}

func (s *Server) handleTeamEfficiency(ctx context.Context, args TeamArgs) (ResponseEnvelope, error) {
	rows, err := s.svc.Teams(ctx, args.Teams, args.SortBy, args.Descending)
	if err != nil {
		return ResponseEnvelope{}, err
	}
	return s.WrapResponse(rows, s.snapshotID(ctx), []string{
		"efficiency is team WAR per million dollars of payroll.",
	}, map[string]string{
		"team_efficiency_bar": visuals.GenerateTeamEfficiencyChart(rows),
	}), nil
}

func (s *Server) handleTeamPSI(ctx context.Context, _ NoArgs) (ResponseEnvelope, error) {
	rows, err := s.svc.TeamPSI(ctx)
	if err != nil {
		return ResponseEnvelope{}, err
	}
	guidance := []string{
		"PSI is excess WAR (team WAR minus payroll times league efficiency) divided by the spread of player WAR.",
		"Positive excess WAR means the front office outperformed its budget.",
		"risk_undefined marks teams too small for a WAR spread; their risk is taken as 1.",
	}
	return s.WrapResponse(rows, s.snapshotID(ctx), guidance, map[string]string{
		"team_psi_bar": visuals.GenerateTeamPSIChart(rows),
	}), nil
}

func (s *Server) handlePositionalArbitrage(ctx context.Context, args PositionArgs) (ResponseEnvelope, error) {
	rows, err := s.svc.Positions(ctx, args.SortBy, args.Descending)
	if err != nil {
		return ResponseEnvelope{}, err
	}
	guidance := []string{
		"cost_per_war is mean salary over mean WAR; the cheapest positions come first by default.",
		"Positions with fewer players than the configured minimum are omitted.",
	}
	return s.WrapResponse(rows, s.snapshotID(ctx), guidance, map[string]string{
		"position_cost_bar": visuals.GeneratePositionCostChart(rows),
	}), nil
}

func (s *Server) handleSalaryInequality(ctx context.Context, args InequalityArgs) (ResponseEnvelope, error) {
	ineq, err := s.svc.Inequality(ctx, args.Team)
	if err != nil {
		return ResponseEnvelope{}, err
	}
	return s.WrapResponse(ineq, s.snapshotID(ctx), []string{
		"Gini is 0 for equal salaries and approaches 1 as payroll concentrates in one player.",
	}, map[string]string{
		"lorenz_curve": visuals.GenerateLorenzChart(ineq),
	}), nil
}

func (s *Server) handleRegression(ctx context.Context, args RegressionArgs) (ResponseEnvelope, error) {
	x, y := args.X, args.Y
	if x == "" {
		x = table.ColWAR
	}
	if y == "" {
		y = table.ColSalary
	}
	reg, err := s.svc.Regression(ctx, x, y, args.filter())
	if err != nil {
		return ResponseEnvelope{}, err
	}
	guidance := []string{
		fmt.Sprintf("significant reports a slope p-value below %.2f.", dashboard.SignificanceLevel),
		"With a single regressor the F statistic equals the squared slope t statistic.",
	}
	return s.WrapResponse(reg, s.snapshotID(ctx), guidance, nil), nil
}

func (s *Server) handleTPMMatrix(ctx context.Context, args FilterArgs) (ResponseEnvelope, error) {
	m, err := s.svc.TPMMatrix(ctx, args.filter())
	if err != nil {
		return ResponseEnvelope{}, err
	}
	guidance := []string{
		"Quadrants split WAR percentile and value-ratio percentile at 50.",
		"star value: high WAR and high value; premium star: high WAR at a high price; rising value: cheap but modest WAR; deadweight: neither.",
	}
	return s.WrapResponse(m, s.snapshotID(ctx), guidance, map[string]string{
		"tpm_quadrant": visuals.GenerateTPMChart(m),
	}), nil
}

func (s *Server) handleReload(ctx context.Context, _ NoArgs) (ResponseEnvelope, error) {
	snap, err := s.svc.Reload(ctx)
	if err != nil {
		return ResponseEnvelope{}, err
	}
	res := map[string]any{
		"source":    snap.Source,
		"loaded_at": snap.LoadedAt,
		"players":   snap.Table.Len(),
		"report":    snap.Report,
	}
	if snap.MetricsErr != nil {
		res["metrics_unavailable"] = snap.MetricsErr.Error()
	}
	return s.WrapResponse(res, snap.ID, nil, nil), nil
}
