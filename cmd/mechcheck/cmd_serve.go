package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/agenthands/mechcheck/internal/app"
	"github.com/agenthands/mechcheck/internal/server"
)

var (
	servePort    string
	serveReports bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve checks, translations and metrics over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := app.LoadConfig(configPath)
		if err != nil {
			return err
		}

		checker, cleanup, err := app.NewChecker(ctx, cfg, app.Options{WriteReports: serveReports}, logger)
		defer cleanup()
		if err != nil {
			return err
		}

		if !verbose {
			gin.SetMode(gin.ReleaseMode)
		}
		port := servePort
		if port == "" {
			port = os.Getenv("PORT")
		}
		if port == "" {
			port = "8080"
		}

		srv := server.NewServer(cfg, checker, logger)
		return server.ListenAndServe(ctx, ":"+port, srv.SetupRouter(), logger)
	},
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "Listen port (default $PORT or 8080)")
	serveCmd.Flags().BoolVar(&serveReports, "reports", false, "Write report files when a request asks to publish")
}
