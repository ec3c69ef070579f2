package cmd

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	httpadapter "github.com/aretw0/shardtree/pkg/adapters/http"
)

var serveAddr string

// serveCmd exposes the planner over HTTP.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the planner over HTTP",
	Long: `Starts an HTTP server with POST /plan (YAML tree in, JSON plan out),
GET /healthz, and GET /metrics (Prometheus).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		reg := prometheus.NewRegistry()

		handler := httpadapter.NewHandler(
			httpadapter.WithLogger(logger),
			httpadapter.WithMetrics(reg),
		)

		srv := &http.Server{
			Addr:              serveAddr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		}
		logger.Info("planner listening", "addr", serveAddr)
		return srv.ListenAndServe()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}
