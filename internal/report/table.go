package report

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/labvolume-cli/internal/volume"
)

// writeTable renders t as a Markdown table, at most maxRows rows (0 = all).
func writeTable(b *strings.Builder, t volume.Table, maxRows int) {
	cols := t.Columns()
	if len(cols) == 0 {
		b.WriteString("(no columns)\n")
		return
	}
	b.WriteString("| ")
	for i, c := range cols {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(safeName(c))
	}
	b.WriteString(" |\n| ")
	for i := range cols {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString("---")
	}
	b.WriteString(" |\n")
	n := visibleRows(t.Len(), maxRows)
	for r := 0; r < n; r++ {
		b.WriteString("| ")
		for c := range cols {
			if c > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(safeVal(t.Cell(r, c).String()))
		}
		b.WriteString(" |\n")
	}
	if n < t.Len() {
		b.WriteString(fmt.Sprintf("… %d more rows\n", t.Len()-n))
	}
}

func visibleRows(n, maxRows int) int {
	if maxRows > 0 && n > maxRows {
		return maxRows
	}
	return n
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
