package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/search-calculator/internal/report"
)

var (
	scoreRequest requestFlags
	scoreEnrich  bool
	scoreOutput  string
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a search and print the full report",
	Example: `  search-calculator score --role "Estate Manager" --location "New York, NY" -t immediate -b 120k-180k
  search-calculator score --request search.yaml --enrich --output json
  search-calculator score --share eyJwIjoiQnV0bGVyIn0`,
	Args: cobra.NoArgs,
	RunE: runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreRequest.register(scoreCmd)
	scoreCmd.Flags().BoolVarP(&scoreEnrich, "enrich", "e", false, "ask the configured AI provider for a narrative")
	scoreCmd.Flags().StringVarP(&scoreOutput, "output", "o", outputText, "output format: text or json")
}

func runScore(cmd *cobra.Command, _ []string) error {
	if err := checkOutput(scoreOutput); err != nil {
		return err
	}

	req, err := scoreRequest.request(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, err := newServices(ctx)
	if err != nil {
		return err
	}
	defer svc.logger.Sync()

	if scoreEnrich && !svc.reports.CanEnrich() {
		svc.logger.Warn("enrichment requested but not configured",
			zap.String("hint", "set enrichment.enabled and a provider api key"),
		)
	}

	rep, err := svc.reports.Build(ctx, req, report.Options{
		Enrich: scoreEnrich,
		Shared: scoreRequest.shared(),
	})
	if err != nil {
		return err
	}

	if scoreOutput == outputJSON {
		return writeJSON(cmd.OutOrStdout(), rep)
	}
	return report.Render(cmd.OutOrStdout(), rep)
}
