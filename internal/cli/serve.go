package cli

import (
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/swatch/internal/analyzer"
	"github.com/jmylchreest/swatch/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the palette tools over HTTP",
		Long: `Start an HTTP server with an upload page and a JSON API.

Routes:
  GET  /                upload page
  POST /                analyse an upload and render the results
  POST /api/palette     palette as JSON (multipart field "image", form field "colours")
  POST /api/pixel       pixel colour as JSON (form fields "x" and "y")
  POST /api/chart.png   palette pie chart as PNG
  GET  /api/names       reference colour names
  GET  /healthz         liveness check

Uploads must be JPEG or PNG.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, a)
		},
	}

	cmd.Flags().String(keyAddr, server.DefaultAddr, "listen address")
	cmd.Flags().Int64(keyMaxUpload, server.DefaultMaxUploadBytes, "maximum upload size in bytes")

	return cmd
}

func runServe(cmd *cobra.Command, a *app) error {
	if a.cfg.Verbose {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	an, err := a.newAnalyzer(func(c *analyzer.Config) {
		c.Image.AllowedTypes = server.UploadTypes
	})
	if err != nil {
		return err
	}

	srv, err := server.New(a.cfg.Server, an, a.logger.Named("server"))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}
