package volume

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Months is the canonical calendar order of month column labels.
var Months = []string{
	"JANEIRO", "FEVEREIRO", "MARCO", "ABRIL", "MAIO", "JUNHO",
	"JULHO", "AGOSTO", "SETEMBRO", "OUTUBRO", "NOVEMBRO", "DEZEMBRO",
}

var monthOrder = func() map[string]int {
	m := make(map[string]int, len(Months))
	for i, name := range Months {
		m[name] = i
	}
	return m
}()

// foldMonth normalizes a label for lookup: trimmed, upper case, accents removed.
func foldMonth(label string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(t, label)
	if err != nil {
		s = label
	}
	return strings.ToUpper(strings.TrimSpace(s))
}

// MonthIndex returns the 0-based calendar position of a month label, or -1.
// "Março", "MARCO" and "marco" all map to 2.
func MonthIndex(label string) int {
	if i, ok := monthOrder[foldMonth(label)]; ok {
		return i
	}
	return -1
}

// MonthlySummary sums every numeric column of t into a {Mês, Total de Exames}
// table ordered by calendar month. The key column and other text columns are
// dropped. Labels not recognized as months come last, in column order.
func MonthlySummary(t Table, keyCol string) (Table, error) {
	if !t.Has(keyCol) {
		return Table{}, fmt.Errorf("monthly summary: key: %w: %q", ErrMissingColumn, keyCol)
	}
	type row struct {
		label string
		total float64
		order int
	}
	var rows []row
	for _, c := range t.cols {
		if c.Name == keyCol || c.Kind != KindNumber {
			continue
		}
		rows = append(rows, row{label: c.Name, total: sum(c.numbers), order: MonthIndex(c.Name)})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		oi, oj := rows[i].order, rows[j].order
		if oi < 0 {
			return false
		}
		if oj < 0 {
			return true
		}
		return oi < oj
	})
	labels := make([]string, len(rows))
	totals := make([]float64, len(rows))
	for i, r := range rows {
		labels[i] = r.label
		totals[i] = r.total
	}
	return New(MonthColumn, TextColumn(MonthColumn, labels...), NumberColumn(TotalExamsColumn, totals...))
}
