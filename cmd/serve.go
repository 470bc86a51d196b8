package cmd

import (
	"github.com/charmbracelet/log"
	"github.com/krau/SaveFolio/api"
	"github.com/krau/SaveFolio/bootstrap"
	"github.com/krau/SaveFolio/config"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	RunE:  runServe,
}

func init() {
	config.RegisterServeFlags(serveCmd)
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	app, err := bootstrap.NewApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	cfg := config.C()
	var limiter *api.RateLimiter
	if cfg.RateLimit.Enable {
		limiter = api.NewRateLimiter(cfg.RateLimit.MinIntervalDuration(), cfg.RateLimit.IdleTTLDuration())
		go limiter.Run(ctx)
	}
	log.FromContext(ctx).Info("Starting SaveFolio",
		"version", config.Version,
		"extractors", len(app.Registry.All()),
		"strict", cfg.Extract.Strict)

	srv := api.New(ctx, api.Options{
		Extract:     app.Extract,
		Archive:     app.Archive,
		Relay:       app.Relay,
		Limiter:     limiter,
		CORSOrigins: cfg.Server.CORSOrigins,
	})
	return srv.ListenAndServe(ctx, cfg.Server.Addr())
}
