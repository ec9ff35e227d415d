package cmd

import (
	"github.com/spf13/cobra"

	"github.com/spigell/search-calculator/internal/report"
)

var (
	compareRequest requestFlags
	compareOutput  string
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Show how one budget range up or down changes the score",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := checkOutput(compareOutput); err != nil {
			return err
		}

		req, err := compareRequest.request(cmd)
		if err != nil {
			return err
		}

		svc, err := newServices(cmd.Context())
		if err != nil {
			return err
		}
		defer svc.logger.Sync()

		cmp := svc.engine.CompareBudgets(req)
		if compareOutput == outputJSON {
			return writeJSON(cmd.OutOrStdout(), cmp)
		}
		return report.RenderComparison(cmd.OutOrStdout(), cmp)
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareRequest.register(compareCmd)
	compareCmd.Flags().StringVarP(&compareOutput, "output", "o", outputText, "output format: text or json")
}
