package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/labvolume-cli/internal/report"
	"github.com/KaramelBytes/labvolume-cli/internal/volume"
	"github.com/spf13/cobra"
)

var (
	trendFlags reportFlags
	trendTop   int
)

var trendCmd = &cobra.Command{
	Use:   "trend <file>",
	Short: "Summarize a multi-month export",
	Long: `Trend reads one export with a column per month, drops months without volume, and reports
the monthly totals in calendar order, the top laboratories of each month and the laboratory
with the highest volume in the first month.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := nonNegative("max-rows", trendFlags.maxRows); err != nil {
			return err
		}
		n := trendTop
		if !cmd.Flags().Changed("top") && activeConfig().TopN > 0 {
			n = activeConfig().TopN
		}
		if err := nonNegative("top", n); err != nil {
			return err
		}
		opt, err := ingestOptions(cmd, &trendFlags)
		if err != nil {
			return err
		}
		tables, err := readExports(args, opt)
		if err != nil {
			return err
		}
		r, err := volume.Trend(tables[0], opt.KeyColumn, n)
		if err != nil {
			return fmt.Errorf("trend: %w", err)
		}
		meta := report.NewMeta(filepath.Base(args[0]))
		ropt := renderOptions(&trendFlags)
		return emitReport(cmd, &trendFlags, meta, renderers{
			markdown: func() string { return report.TrendMarkdown(r, meta, ropt) },
			json: func(m report.Meta) ([]byte, error) {
				return report.TrendJSON(r, m, ropt)
			},
		})
	},
}

func init() {
	rootCmd.AddCommand(trendCmd)
	bindReportFlags(trendCmd, &trendFlags)
	trendCmd.Flags().IntVar(&trendTop, "top", 5, "laboratories to rank per month (default from config)")
}
