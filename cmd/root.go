package cmd

import (
	"fmt"
	"os"
	"strings"

	cfgpkg "github.com/KaramelBytes/labvolume-cli/internal/config"
	"github.com/KaramelBytes/labvolume-cli/internal/logging"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
	// Numeric locale flags (override config if set)
	flagDecimal   string
	flagThousands string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "labvolume",
	Short: "Compare laboratory exam-volume exports",
	Long: `labvolume reads BI exports of laboratory exam volumes (XLSX, CSV, TSV), merges them by
laboratory, and reports differences, percentage variation, situation labels, monthly totals
and per-month rankings as Markdown or JSON. A local Ollama model can add a short narrative.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.labvolume/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagDecimal, "decimal", "", "decimal separator for numbers: '.'|'comma' (auto-detect if omitted)")
	rootCmd.PersistentFlags().StringVar(&flagThousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space' (auto-detect if omitted)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = &cfgpkg.Global{}
	}
	cfg = c

	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	if level != "" {
		if err := logging.SetLevel(level); err != nil {
			fmt.Fprintf(os.Stderr, "⚠ Warning: %v\n", err)
		}
	}
}

// separatorFlag resolves a --decimal/--thousands value, falling back to the
// configured separator.
func separatorFlag(name, flagVal, cfgVal string) (rune, error) {
	switch strings.ToLower(strings.TrimSpace(flagVal)) {
	case ",", "comma":
		return ',', nil
	case ".", "dot":
		return '.', nil
	case "space", " ":
		return ' ', nil
	case "":
		r, err := cfgpkg.Separator(cfgVal)
		if err != nil {
			return 0, fmt.Errorf("config %s: %w", name, err)
		}
		return r, nil
	default:
		return 0, fmt.Errorf("unsupported --%s: %s (use ','|'.'|'space')", name, flagVal)
	}
}
