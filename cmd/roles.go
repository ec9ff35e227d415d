package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/spigell/search-calculator/internal/benchmark"
	"github.com/spigell/search-calculator/internal/regional"
)

var (
	rolesOutput  string
	rolesRegions bool
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "List the roles (or regions) with market data",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := checkOutput(rolesOutput); err != nil {
			return err
		}

		svc, err := newServices(cmd.Context())
		if err != nil {
			return err
		}
		defer svc.logger.Sync()

		w := cmd.OutOrStdout()
		if rolesRegions {
			if rolesOutput == outputJSON {
				return writeJSON(w, svc.regions.Regions())
			}
			return listRegions(w, svc.regions)
		}

		if rolesOutput == outputJSON {
			out := make(map[string]*benchmark.Record, svc.benchmarks.Len())
			for _, name := range svc.benchmarks.Names() {
				out[name], _ = svc.benchmarks.Lookup(name)
			}
			return writeJSON(w, out)
		}
		return listRoles(w, svc.benchmarks)
	},
}

func init() {
	rootCmd.AddCommand(rolesCmd)

	rolesCmd.Flags().BoolVar(&rolesRegions, "regions", false, "list regional adjustments instead of roles")
	rolesCmd.Flags().StringVarP(&rolesOutput, "output", "o", outputText, "output format: text or json")
}

func listRoles(w io.Writer, t *benchmark.Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ROLE\tCATEGORY\tP25\tP50\tP75\tSCARCITY")
	for _, name := range t.Names() {
		r, _ := t.Lookup(name)
		fmt.Fprintf(tw, "%s\t%s\t%.0f\t%.0f\t%.0f\t%.0f\n", name, r.Category, r.P25, r.P50, r.P75, r.Scarcity)
	}
	return eris.Wrap(tw.Flush(), "writing roles")
}

func listRegions(w io.Writer, t *regional.Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "REGION\tMULTIPLIER\tTIER")
	for _, r := range t.Regions() {
		fmt.Fprintf(tw, "%s\t%.2f\t%s\n", r.Key, r.Multiplier, r.Tier)
	}
	return eris.Wrap(tw.Flush(), "writing regions")
}
