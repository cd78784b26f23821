package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/KaramelBytes/labvolume-cli/internal/ai"
	cfgpkg "github.com/KaramelBytes/labvolume-cli/internal/config"
	"github.com/KaramelBytes/labvolume-cli/internal/ingest"
	"github.com/KaramelBytes/labvolume-cli/internal/report"
	"github.com/KaramelBytes/labvolume-cli/internal/utils"
	"github.com/KaramelBytes/labvolume-cli/internal/volume"
	"github.com/spf13/cobra"
)

// reportFlags are the flags shared by the report-producing commands.
type reportFlags struct {
	key        string
	sheetName  string
	sheetIndex int
	format     string
	output     string
	maxRows    int
	narrate    bool
	model      string
	ollamaHost string
}

func bindReportFlags(cmd *cobra.Command, f *reportFlags) {
	cmd.Flags().StringVar(&f.key, "key", "", "laboratory key column (default from config, LABORATORIO)")
	cmd.Flags().StringVar(&f.sheetName, "sheet-name", "", "XLSX: sheet name to read")
	cmd.Flags().IntVar(&f.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	cmd.Flags().StringVar(&f.format, "format", "", "report format: md|json (default from config, md)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "optional path to write the report")
	cmd.Flags().IntVar(&f.maxRows, "max-rows", 0, "maximum rows per rendered table (0 = config value, unlimited by default)")
	cmd.Flags().BoolVar(&f.narrate, "narrate", false, "append a short narrative written by a local Ollama model")
	cmd.Flags().StringVar(&f.model, "model", "", "narration model (default from config, qwen2.5:3b)")
	cmd.Flags().StringVar(&f.ollamaHost, "ollama-host", "", "override Ollama host (e.g., http://127.0.0.1:11434)")
}

func activeConfig() *cfgpkg.Global {
	if cfg == nil {
		return &cfgpkg.Global{}
	}
	return cfg
}

func ingestOptions(cmd *cobra.Command, f *reportFlags) (ingest.Options, error) {
	c := activeConfig()
	opt := ingest.DefaultOptions()
	switch {
	case f.key != "":
		opt.KeyColumn = f.key
	case c.KeyColumn != "":
		opt.KeyColumn = c.KeyColumn
	}
	opt.SheetName = c.SheetName
	if f.sheetName != "" {
		opt.SheetName = f.sheetName
	}
	if c.SheetIndex > 0 {
		opt.SheetIndex = c.SheetIndex
	}
	if cmd.Flags().Changed("sheet-index") {
		opt.SheetIndex = f.sheetIndex
	}
	var err error
	if opt.DecimalSeparator, err = separatorFlag("decimal", flagDecimal, c.DecimalSeparator); err != nil {
		return opt, err
	}
	if opt.ThousandsSeparator, err = separatorFlag("thousands", flagThousands, c.ThousandsSeparator); err != nil {
		return opt, err
	}
	return opt, nil
}

// readExports validates that every input exists before decoding any of them.
func readExports(paths []string, opt ingest.Options) ([]volume.Table, error) {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("input file %s: %w", p, err)
		}
	}
	out := make([]volume.Table, 0, len(paths))
	for _, p := range paths {
		t, err := ingest.ReadFile(p, opt)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func outputFormat(f *reportFlags) (string, error) {
	format := strings.ToLower(strings.TrimSpace(f.format))
	if format == "" {
		format = strings.ToLower(activeConfig().OutputFormat)
	}
	switch format {
	case "", "md", "markdown":
		return "md", nil
	case "json":
		return "json", nil
	default:
		return "", fmt.Errorf("unsupported --format: %s (use md|json)", f.format)
	}
}

func renderOptions(f *reportFlags) report.Options {
	if f.maxRows > 0 {
		return report.Options{MaxRows: f.maxRows}
	}
	return report.Options{MaxRows: activeConfig().MaxTableRows}
}

// renderers produce the two report encodings once the narrative is known.
type renderers struct {
	markdown func() string
	json     func(meta report.Meta) ([]byte, error)
}

// emitReport renders, optionally narrates, and writes the report to --output or stdout.
func emitReport(cmd *cobra.Command, f *reportFlags, meta report.Meta, r renderers) error {
	format, err := outputFormat(f)
	if err != nil {
		return err
	}
	md := r.markdown()
	if f.narrate {
		text, err := narrateReport(cmd.Context(), f, md)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: narration skipped: %v\n", err)
		} else {
			meta.Narrative = text
			md = report.AppendNarrative(md, text)
		}
	}
	var data []byte
	if format == "json" {
		if data, err = r.json(meta); err != nil {
			return err
		}
	} else {
		data = []byte(md)
	}
	return writeOutput(cmd.OutOrStdout(), f.output, data)
}

func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := w.Write(data)
		return err
	}
	if err := utils.SafeWriteFile(path, data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(w, "✓ Wrote report to %s\n", path)
	return nil
}

func selectModel(c *cfgpkg.Global, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if c != nil && c.NarrateModel != "" {
		return c.NarrateModel
	}
	return ai.DefaultNarrateModel
}

func buildRuntime(c *cfgpkg.Global, hostFlag string) (ai.Runtime, string, error) {
	rc := ai.RuntimeConfig{
		HTTPTimeout: 120 * time.Second,
		RetryMax:    2,
		BaseDelay:   200 * time.Millisecond,
		MaxDelay:    time.Second,
	}
	if c.OllamaTimeoutSec > 0 {
		rc.HTTPTimeout = time.Duration(c.OllamaTimeoutSec) * time.Second
	}
	if c.RetryMaxAttempts > 0 {
		rc.RetryMax = c.RetryMaxAttempts
	}
	if c.RetryBaseDelayMs > 0 {
		rc.BaseDelay = time.Duration(c.RetryBaseDelayMs) * time.Millisecond
	}
	if c.RetryMaxDelayMs > 0 {
		rc.MaxDelay = time.Duration(c.RetryMaxDelayMs) * time.Millisecond
	}
	host := strings.TrimSpace(hostFlag)
	if host == "" {
		host = c.OllamaHost
	}
	if host == "" {
		host = ai.DefaultOllamaHost
	}
	rc.Host = host

	provider := c.NarrateProvider
	if provider == "" {
		provider = ai.ProviderOllama
	}
	rt, err := ai.GetRuntime(provider, rc)
	if err != nil {
		return nil, host, err
	}
	return rt, host, nil
}

func narrateReport(ctx context.Context, f *reportFlags, md string) (string, error) {
	c := activeConfig()
	rt, host, err := buildRuntime(c, f.ollamaHost)
	if err != nil {
		return "", err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	timeout := 120 * time.Second
	if c.OllamaTimeoutSec > 0 {
		timeout = time.Duration(c.OllamaTimeoutSec) * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	model := selectModel(c, f.model)
	n := ai.Narrator{
		Runtime:         rt,
		Model:           model,
		Temperature:     c.NarrateTemperature,
		MaxPromptTokens: c.NarrateMaxPromptTokens,
	}
	text, err := n.Narrate(ctx, md)
	if err != nil {
		var (
			nfErr   *ai.ModelNotFoundError
			unreach *ai.UnreachableError
		)
		switch {
		case errors.As(err, &unreach):
			return "", fmt.Errorf("Ollama not reachable at %s. Ensure Ollama is running and host is correct. You can set LABVOLUME_OLLAMA_HOST or config 'ollama_host'. Detail: %w", host, err)
		case errors.As(err, &nfErr):
			return "", fmt.Errorf("local model not available (%s). Install it with 'ollama pull %s' or choose another model. %w", model, model, err)
		}
		return "", err
	}
	return text, nil
}

func nonNegative(name string, v int) error {
	if v < 0 {
		return fmt.Errorf("invalid --%s: %d (must be >= 0)", name, v)
	}
	return nil
}
