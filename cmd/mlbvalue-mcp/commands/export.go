package commands

import (
	"fmt"
	"time"

	"mlbvalue-mcp/internal/dashboard"
	"mlbvalue-mcp/internal/export"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var exportFlags struct {
	out        string
	prefix     string
	columns    []string
	teams      []string
	positions  []string
	name       string
	minWAR     float64
	maxWAR     float64
	minSalary  float64
	maxSalary  float64
	sortBy     string
	descending bool
	limit      int
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the filtered players to a timestamped CSV file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := exportFilter(cmd)
		svc := newService(cfg, nil)
		t, err := svc.Table(cmd.Context(), f)
		if err != nil {
			return err
		}
		cols, err := export.Columns(t, exportFlags.columns)
		if err != nil {
			return err
		}

		dir := exportFlags.out
		if dir == "" {
			dir = cfg.ExportDir
		}
		path, err := export.Save(dir, exportFlags.prefix, time.Now(), t, cols)
		if err != nil {
			return err
		}
		log.Info().Str("path", path).Int("rows", t.Len()).Msg("Export written")
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

// exportFilter builds the row filter from the flags, leaving range bounds unset unless given.
func exportFilter(cmd *cobra.Command) dashboard.Filter {
	f := dashboard.Filter{
		Teams:      exportFlags.teams,
		Positions:  exportFlags.positions,
		Name:       exportFlags.name,
		SortBy:     exportFlags.sortBy,
		Descending: exportFlags.descending,
		Limit:      exportFlags.limit,
	}
	bound := func(flag string, v float64) *float64 {
		if !cmd.Flags().Changed(flag) {
			return nil
		}
		return &v
	}
	f.MinWAR = bound("min-war", exportFlags.minWAR)
	f.MaxWAR = bound("max-war", exportFlags.maxWAR)
	f.MinSalary = bound("min-salary", exportFlags.minSalary)
	f.MaxSalary = bound("max-salary", exportFlags.maxSalary)
	return f
}

func init() {
	fl := exportCmd.Flags()
	fl.StringVarP(&exportFlags.out, "out", "o", "", "output directory (default EXPORT_DIR)")
	fl.StringVar(&exportFlags.prefix, "prefix", export.DefaultPrefix, "file name prefix")
	fl.StringSliceVar(&exportFlags.columns, "columns", nil, "columns to export (default set when empty)")
	fl.StringSliceVar(&exportFlags.teams, "team", nil, "teams to include")
	fl.StringSliceVar(&exportFlags.positions, "position", nil, "positions to include")
	fl.StringVar(&exportFlags.name, "name", "", "case-insensitive name substring")
	fl.Float64Var(&exportFlags.minWAR, "min-war", 0, "minimum WAR")
	fl.Float64Var(&exportFlags.maxWAR, "max-war", 0, "maximum WAR")
	fl.Float64Var(&exportFlags.minSalary, "min-salary", 0, "minimum salary in millions")
	fl.Float64Var(&exportFlags.maxSalary, "max-salary", 0, "maximum salary in millions")
	fl.StringVar(&exportFlags.sortBy, "sort-by", "", "column to sort by")
	fl.BoolVar(&exportFlags.descending, "descending", false, "sort descending")
	fl.IntVar(&exportFlags.limit, "limit", 0, "maximum rows (0 exports every match)")
}
