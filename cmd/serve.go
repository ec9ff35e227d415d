package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/search-calculator/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the calculator over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		svc, err := newServices(ctx)
		if err != nil {
			return err
		}
		defer svc.logger.Sync()

		svc.logger.Info("starting the search-calculator",
			zap.String("version", version),
			zap.Int("roles", svc.benchmarks.Len()),
			zap.Bool("enrichment", svc.reports.CanEnrich()),
		)

		srv := server.New(svc.config.Server, svc.engine, svc.reports, svc.benchmarks, svc.logger)
		return srv.ListenAndServe(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", server.DefaultConfig().Port, "port to listen on")
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}
