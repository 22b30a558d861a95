package mcp

import sdk "github.com/modelcontextprotocol/go-sdk/mcp"

func (s *Server) registerTools() {
	addTool(s, &sdk.Tool{
		Name:        "dataset_overview",
		Description: "Headline KPIs, league efficiency, salary efficiency index and metric category counts for the selected players.",
	}, s.handleOverview)

	addTool(s, &sdk.Tool{
		Name:        "query_players",
		Description: "List players with their value metrics. Supports team, position, WAR and salary filters, sorting and limits.",
	}, s.handleQueryPlayers)

	addTool(s, &sdk.Tool{
		Name:        "export_players",
		Description: "Write the selected players to a timestamped CSV file in the export directory and return its path.",
	}, s.handleExportPlayers)

	addTool(s, &sdk.Tool{
		Name:        "compare_players",
		Description: "Compare up to five players side by side with league percentiles for salary, WAR, value and counting stats.",
	}, s.handleComparePlayers)

	addTool(s, &sdk.Tool{
		Name:        "metric_leaders",
		Description: "Rank players by WVPI, RAV, MERI or value_ratio. Ascending MERI lists the most undervalued contracts.",
	}, s.handleMetricLeaders)

	addTool(s, &sdk.Tool{
		Name:        "market_anomalies",
		Description: "Find players whose salary deviates from the league WAR-to-salary line by more than a threshold.",
	}, s.handleMarketAnomalies)

	addTool(s, &sdk.Tool{
		Name:        "team_efficiency",
		Description: "Aggregate WAR, payroll and WAR per million for each team.",
	}, s.handleTeamEfficiency)

	addTool(s, &sdk.Tool{
		Name:        "team_psi",
		Description: "Payroll Strategy Index per team: excess WAR over what league efficiency predicts, adjusted for payroll risk.",
	}, s.handleTeamPSI)

	addTool(s, &sdk.Tool{
		Name:        "positional_arbitrage",
		Description: "Cost of one WAR at each position, cheapest first, to spot positions the market underprices.",
	}, s.handlePositionalArbitrage)

	addTool(s, &sdk.Tool{
		Name:        "salary_inequality",
		Description: "Gini coefficient and Lorenz curve of salaries for the league or one team.",
	}, s.handleSalaryInequality)

	addTool(s, &sdk.Tool{
		Name:        "regression_analysis",
		Description: "Ordinary least squares of one numeric column on another with standard errors, t, p, F and R squared.",
	}, s.handleRegression)

	addTool(s, &sdk.Tool{
		Name:        "tpm_matrix",
		Description: "Place players on the talent/price matrix: star value, premium star, rising value and deadweight quadrants.",
	}, s.handleTPMMatrix)

	addTool(s, &sdk.Tool{
		Name:        "reload_dataset",
		Description: "Discard the cached snapshot and reload the data file from disk.",
	}, s.handleReload)
}
