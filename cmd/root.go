package cmd

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/krau/SaveFolio/bootstrap"
	"github.com/krau/SaveFolio/config"
	"github.com/spf13/cobra"
)

var logCloser io.Closer

var rootCmd = &cobra.Command{
	Use:           "savefolio",
	Short:         "Extract and archive media from portfolio and social pages",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.BindFlags(cmd)
		ctx, closer, err := bootstrap.Init(cmd.Context(), config.GetConfigFile(cmd))
		if err != nil {
			return err
		}
		logCloser = closer
		cmd.SetContext(ctx)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			logCloser.Close()
		}
	},
	RunE: runServe,
}

func init() {
	config.RegisterFlags(rootCmd)
	config.RegisterServeFlags(rootCmd)
}

func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.FromContext(ctx).Error(err)
		os.Exit(1)
	}
}
