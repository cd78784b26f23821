package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/labvolume-cli/internal/report"
	"github.com/KaramelBytes/labvolume-cli/internal/volume"
	"github.com/spf13/cobra"
)

var cmpFlags reportFlags

var compareCmd = &cobra.Command{
	Use:   "compare <previous> <current>",
	Short: "Compare two period exports by laboratory",
	Long: `Compare merges two exports (e.g. last month and this month) on the laboratory key.
When the merged table has exactly two measure columns it reports totals, the difference,
the percentage variation, laboratories with negative volume and their situation labels.
Otherwise it prints the merged table and the laboratories present in only one export.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := nonNegative("max-rows", cmpFlags.maxRows); err != nil {
			return err
		}
		opt, err := ingestOptions(cmd, &cmpFlags)
		if err != nil {
			return err
		}
		tables, err := readExports(args, opt)
		if err != nil {
			return err
		}
		c, err := volume.Compare(tables[0], tables[1], opt.KeyColumn)
		if err != nil {
			return fmt.Errorf("compare: %w", err)
		}
		if !c.Aggregated() {
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: %v; showing the merged table without totals\n", c.Fallback)
		}
		meta := report.NewMeta(filepath.Base(args[0]), filepath.Base(args[1]))
		ropt := renderOptions(&cmpFlags)
		return emitReport(cmd, &cmpFlags, meta, renderers{
			markdown: func() string { return report.ComparisonMarkdown(c, meta, ropt) },
			json: func(m report.Meta) ([]byte, error) {
				return report.ComparisonJSON(c, m, ropt)
			},
		})
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
	bindReportFlags(compareCmd, &cmpFlags)
}
