package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"mlbvalue-mcp/internal/dashboard"
	"mlbvalue-mcp/internal/table"
	"mlbvalue-mcp/internal/visuals"

	"github.com/spf13/cobra"
)

var (
	reportCharts bool
	reportTop    int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print a markdown summary of the dataset (with mermaid charts)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeReport(cmd.Context(), cmd.OutOrStdout(), newService(cfg, nil), reportTop, reportCharts)
	},
}

func writeReport(ctx context.Context, w io.Writer, svc *dashboard.Service, top int, charts bool) error {
	ov, err := svc.Overview(ctx, dashboard.Filter{})
	if err != nil {
		return err
	}

	var sb strings.Builder
	chart := func(c string) {
		if charts && c != "" {
			sb.WriteString("\n```mermaid\n")
			sb.WriteString(c)
			sb.WriteString("\n```\n")
		}
	}

	sb.WriteString("# MLB Player Value Report\n\n")
	fmt.Fprintf(&sb, "Source: `%s` (snapshot %s, loaded %s)\n\n", ov.Source, ov.SnapshotID, ov.LoadedAt.Format("2006-01-02 15:04"))
	if ov.MetricsUnavailable != "" {
		fmt.Fprintf(&sb, "Metrics unavailable: %s\n", ov.MetricsUnavailable)
		_, err := io.WriteString(w, sb.String())
		return err
	}

	sb.WriteString("## Overview\n\n| KPI | Value |\n|---|---|\n")
	fmt.Fprintf(&sb, "| Players | %d |\n", ov.KPIs.Players)
	fmt.Fprintf(&sb, "| Eligible | %d |\n", ov.KPIs.Eligible)
	fmt.Fprintf(&sb, "| Mean salary ($M) | %s |\n", num(ov.KPIs.MeanSalary))
	fmt.Fprintf(&sb, "| Mean WAR | %s |\n", num(ov.KPIs.MeanWAR))
	fmt.Fprintf(&sb, "| WAR/salary correlation | %s |\n", num(ov.KPIs.Correlation))
	fmt.Fprintf(&sb, "| League efficiency (WAR per $M) | %s |\n", num(ov.LeagueEfficiency))
	fmt.Fprintf(&sb, "| SEI | %.3f |\n", ov.SEI.SEI)
	chart(visuals.GenerateCategoryChart("WVPI categories", ov.WVPI))

	l, err := svc.Leaders(ctx, table.ColWVPI, top, false, dashboard.Filter{})
	if err != nil {
		return err
	}
	fmt.Fprintf(&sb, "\n## Top %d by WVPI\n\n| # | Player | Team | Pos | WAR | Salary ($M) | WVPI |\n|---|---|---|---|---|---|---|\n", top)
	for i, p := range l.Players {
		fmt.Fprintf(&sb, "| %d | %s | %s | %s | %s | %s | %s |\n", i+1, p.Name, p.Team, p.Position, num(p.WAR), num(p.Salary), num(p.WVPI))
	}
	chart(visuals.GenerateLeadersChart(l))

	teams, err := svc.Teams(ctx, nil, "efficiency", true)
	if err != nil {
		return err
	}
	sb.WriteString("\n## Team efficiency\n\n| Team | Players | WAR | Payroll ($M) | WAR per $M |\n|---|---|---|---|---|\n")
	for _, t := range teams {
		fmt.Fprintf(&sb, "| %s | %d | %.1f | %.1f | %.3f |\n", t.Team, t.Players, t.TotalWAR, t.TotalSalary, t.Efficiency)
	}
	chart(visuals.GenerateTeamEfficiencyChart(teams))

	ineq, err := svc.Inequality(ctx, "")
	if err != nil {
		return err
	}
	fmt.Fprintf(&sb, "\n## Salary inequality\n\nGini %.3f; the best-paid tenth earns %.1f%% of payroll.\n", ineq.Gini, 100*ineq.TopDecileShare)
	chart(visuals.GenerateLorenzChart(ineq))

	_, err = io.WriteString(w, sb.String())
	return err
}

func num(n dashboard.Num) string {
	if !n.Valid() {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", float64(n))
}

func init() {
	reportCmd.Flags().BoolVar(&reportCharts, "charts", true, "include mermaid charts")
	reportCmd.Flags().IntVar(&reportTop, "top", 10, "rows in the WVPI leader board")
}
