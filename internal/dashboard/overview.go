package dashboard

import (
	"time"

	"mlbvalue-mcp/internal/dataset"
	"mlbvalue-mcp/internal/ingest"
	"mlbvalue-mcp/internal/metrics"
	"mlbvalue-mcp/internal/stats"
	"mlbvalue-mcp/internal/table"
)

// KPIs are the headline figures of the selected players.
type KPIs struct {
	Players     int `json:"players"`
	Eligible    int `json:"eligible"`
	MeanSalary  Num `json:"mean_salary"`
	MeanWAR     Num `json:"mean_war"`
	TotalWAR    Num `json:"total_war"`
	Correlation Num `json:"war_salary_correlation"`
}

// Overview summarizes the snapshot and the current selection.
type Overview struct {
	SnapshotID string        `json:"snapshot_id"`
	Source     string        `json:"source"`
	LoadedAt   time.Time     `json:"loaded_at"`
	Schema     table.Schema  `json:"schema"`
	Report     ingest.Report `json:"report"`

	KPIs             KPIs               `json:"kpis"`
	LeagueEfficiency Num                `json:"league_efficiency"`
	SEI              metrics.SEIResult  `json:"sei"`
	Population       metrics.Population `json:"population"`

	WVPI []CategoryCount `json:"wvpi_categories,omitempty"`
	RAV  []CategoryCount `json:"rav_categories,omitempty"`
	MERI []CategoryCount `json:"meri_categories,omitempty"`
	TPM  []CategoryCount `json:"tpm_quadrants,omitempty"`

	MetricsUnavailable string `json:"metrics_unavailable,omitempty"`
}

// BuildOverview computes the overview of the selected table t within snapshot snap.
func BuildOverview(snap *dataset.Snapshot, t *table.Table) *Overview {
	o := &Overview{
		SnapshotID: snap.ID,
		Source:     snap.Source,
		LoadedAt:   snap.LoadedAt,
		Schema:     snap.Table.Schema,
		Report:     snap.Report,
		Population: snap.Population,
	}
	o.KPIs.Players = t.Len()
	if snap.MetricsErr != nil {
		o.MetricsUnavailable = snap.MetricsErr.Error()
		return o
	}

	elig := t.Eligible()
	war, _ := elig.Column(table.ColWAR)
	salary, _ := elig.Column(table.ColSalary)
	o.KPIs.Eligible = elig.Len()
	o.KPIs.MeanSalary = Num(stats.Mean(salary))
	o.KPIs.MeanWAR = Num(stats.Mean(war))
	o.KPIs.TotalWAR = Num(stats.Sum(war))
	o.KPIs.Correlation = Num(stats.Pearson(war, salary))
	o.LeagueEfficiency = Num(snap.Population.LeagueEfficiency)
	o.SEI = snap.Population.SEI

	o.WVPI = countCategories(elig, metrics.WVPICategories, func(r table.Record) string { return r.Derived.WVPICategory })
	o.RAV = countCategories(elig, metrics.RAVCategories, func(r table.Record) string { return r.Derived.RAVCategory })
	o.MERI = countCategories(elig, metrics.MERICategories, func(r table.Record) string { return r.Derived.MERICategory })
	o.TPM = countCategories(elig, metrics.TPMCategories, func(r table.Record) string { return r.Derived.TPMCategory })
	return o
}
