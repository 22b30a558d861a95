package commands

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"mlbvalue-mcp/internal/httpapi"
	"mlbvalue-mcp/internal/mcp"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	serveAddr string
	serveOpen bool
	serveMCP  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API (and MCP over streamable HTTP) on HTTP_ADDR",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := serveAddr
		if addr == "" {
			addr = cfg.HTTPAddr
		}

		m := httpapi.NewMetrics()
		svc := newService(cfg, m.ObserveLoad)
		opts := httpapi.Options{Metrics: m, RequestTimeout: time.Minute}
		if serveMCP {
			opts.MCP = mcp.NewServer(svc, mcp.Options{
				Version:             Version,
				ExportDir:           cfg.ExportDir,
				EnableMermaidCharts: cfg.EnableMermaidCharts,
			}).Handler()
		}

		srv := &http.Server{
			Addr:              addr,
			Handler:           httpapi.New(svc, opts).Router(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return err
		}
		log.Info().Str("addr", ln.Addr().String()).Bool("mcp", serveMCP).Msg("HTTP server listening")

		if serveOpen {
			url := "http://" + ln.Addr().String() + "/api/overview"
			if err := browser.OpenURL(url); err != nil {
				log.Warn().Err(err).Str("url", url).Msg("Failed to open browser")
			}
		}

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Serve(ln) }()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-cmd.Context().Done():
		}

		log.Info().Msg("Shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default HTTP_ADDR)")
	serveCmd.Flags().BoolVar(&serveOpen, "open", false, "open the overview in a browser")
	serveCmd.Flags().BoolVar(&serveMCP, "mcp", true, "also serve MCP at /mcp")
}
