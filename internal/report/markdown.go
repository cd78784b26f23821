package report

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/labvolume-cli/internal/volume"
)

func writeHeader(b *strings.Builder, section string, meta Meta) {
	b.WriteString(section + "\n")
	if len(meta.Sources) > 0 {
		b.WriteString(fmt.Sprintf("Files: %s\n", strings.Join(meta.Sources, ", ")))
	}
	if meta.RunID != "" {
		b.WriteString(fmt.Sprintf("Run: %s\n", meta.RunID))
	}
	if !meta.GeneratedAt.IsZero() {
		b.WriteString(fmt.Sprintf("Generated: %s\n", meta.GeneratedAt.Format("2006-01-02 15:04:05 MST")))
	}
}

// ComparisonMarkdown renders a two-period comparison.
func ComparisonMarkdown(c *volume.Comparison, meta Meta, opt Options) string {
	var b strings.Builder
	writeHeader(&b, "[COMPARISON SUMMARY]", meta)
	b.WriteString(fmt.Sprintf("Key: %s\n", c.Key))
	b.WriteString(fmt.Sprintf("Laboratories: %d\n", c.Merged.Len()))
	if c.Aggregated() {
		b.WriteString(fmt.Sprintf("Total %s: %s\n", c.PreviousColumn, c.PreviousTotal))
		b.WriteString(fmt.Sprintf("Total %s: %s\n", c.CurrentColumn, c.CurrentTotal))
		b.WriteString(fmt.Sprintf("Difference: %s\n", c.TotalDifference))
		b.WriteString(fmt.Sprintf("Variation: %s\n", c.Variation))
	}

	b.WriteString("\n[MERGED TABLE]\n")
	writeTable(&b, c.Merged, opt.MaxRows)

	if c.Aggregated() {
		b.WriteString("\n[NEGATIVE VOLUME]\n")
		if c.Negative.Len() == 0 {
			b.WriteString("No laboratory lost volume.\n")
		} else {
			writeTable(&b, c.Negative, opt.MaxRows)
		}
		if len(c.Situations) > 0 {
			b.WriteString("\n[SITUATIONS]\n")
			for _, s := range c.Situations {
				b.WriteString(fmt.Sprintf("- %s: %d\n", s.Situation, s.Count))
			}
		}
	}

	if c.OnlyPrevious.Len() > 0 || c.OnlyCurrent.Len() > 0 {
		b.WriteString("\n[UNMATCHED LABORATORIES]\n")
		if c.OnlyPrevious.Len() > 0 {
			b.WriteString(fmt.Sprintf("Only in previous (%d):\n", c.OnlyPrevious.Len()))
			writeTable(&b, c.OnlyPrevious, opt.MaxRows)
		}
		if c.OnlyCurrent.Len() > 0 {
			b.WriteString(fmt.Sprintf("Only in current (%d):\n", c.OnlyCurrent.Len()))
			writeTable(&b, c.OnlyCurrent, opt.MaxRows)
		}
	}

	notes := comparisonNotes(c)
	if len(notes) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, n := range notes {
			b.WriteString("- ")
			b.WriteString(n)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func comparisonNotes(c *volume.Comparison) []string {
	var notes []string
	if !c.Aggregated() {
		notes = append(notes, fmt.Sprintf("Totals skipped: %v", c.Fallback))
	}
	if c.Variation == volume.NotAvailable {
		notes = append(notes, "Variation is N/A because the previous total is zero.")
	}
	return notes
}

// TrendMarkdown renders a multi-month analysis.
func TrendMarkdown(r *volume.TrendResult, meta Meta, opt Options) string {
	var b strings.Builder
	writeHeader(&b, "[MONTHLY SUMMARY]", meta)
	b.WriteString(fmt.Sprintf("Laboratories: %d\n", r.Table.Len()))
	b.WriteString(fmt.Sprintf("Total volume: %s\n\n", r.TotalVolume))
	writeTable(&b, r.Summary, 0)

	b.WriteString(fmt.Sprintf("\n[TOP %d BY MONTH]\n", r.TopN))
	if r.Top.Len() == 0 {
		b.WriteString("No rows.\n")
	} else {
		writeTable(&b, r.Top, opt.MaxRows)
	}

	b.WriteString("\n[HIGHEST VOLUME]\n")
	if r.HighestKey == volume.NotAvailable {
		b.WriteString("N/A\n")
	} else {
		b.WriteString(fmt.Sprintf("%s: %s\n", r.HighestKey, volume.FormatThousands(int64(r.HighestValue))))
	}
	return b.String()
}

// AppendNarrative adds a [NARRATIVE] section to a rendered Markdown report.
func AppendNarrative(md, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return md
	}
	if !strings.HasSuffix(md, "\n") {
		md += "\n"
	}
	return md + "\n[NARRATIVE]\n" + text + "\n"
}
