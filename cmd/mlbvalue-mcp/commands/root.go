package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"mlbvalue-mcp/internal/config"
	"mlbvalue-mcp/internal/dashboard"
	"mlbvalue-mcp/internal/dataset"
	"mlbvalue-mcp/internal/logging"
	"mlbvalue-mcp/internal/mcp"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "mlbvalue-mcp",
	Short: "MLB player value analytics served over MCP",
	Long: `An MCP Server that scores MLB contracts from a merged performance/salary file:
value ratios, WVPI, risk-adjusted value, market efficiency residuals, team payroll strategy
and salary inequality. Also serves the same views over HTTP and exports CSV.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		// Load configuration
		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Str("dataPath", cfg.DataPath).
			Msg("mlbvalue-mcp starting")
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		server := mcp.NewServer(newService(cfg, nil), mcp.Options{
			Version:             Version,
			ExportDir:           cfg.ExportDir,
			EnableMermaidCharts: cfg.EnableMermaidCharts,
		})
		return server.Serve(cmd.Context())
	},
}

// newService wires the file-backed snapshot store to the dashboard views.
func newService(c *config.AppConfig, onLoad func(dataset.LoadEvent)) *dashboard.Service {
	store := dataset.NewStore(dataset.FileSource(c.DataPath, c.DataFile), c.CacheTTL)
	store.OnLoad = onLoad
	return dashboard.NewService(store, dashboard.Options{
		TeamMinPlayers:      c.TeamMinPlayers,
		PositionMinPlayers:  c.PositionMinPlayers,
		RegressionMinSample: c.RegressionMinSample,
	})
}

// Execute runs the root command until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.AddCommand(serveCmd, exportCmd, reportCmd)
}
