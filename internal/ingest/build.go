package ingest

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/labvolume-cli/internal/logging"
	"github.com/KaramelBytes/labvolume-cli/internal/volume"
)

// numberParser converts one cell; ok=false means the cell is text.
type numberParser func(cell string, opt Options) (float64, bool)

// buildTable turns decoded rows into a Table. The first row is the header;
// fully blank rows are skipped.
func buildTable(records [][]string, name string, opt Options, parse numberParser) (volume.Table, error) {
	if len(records) == 0 {
		return volume.Table{}, ErrEmpty
	}
	header := headerNames(records[0])
	if len(header) == 0 {
		return volume.Table{}, ErrEmpty
	}
	keyIdx := -1
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(opt.KeyColumn)) {
			keyIdx = i
			break
		}
	}
	if keyIdx < 0 {
		return volume.Table{}, fmt.Errorf("%w: %q (columns: %s)", ErrMissingKey, opt.KeyColumn, strings.Join(header, ", "))
	}
	header[keyIdx] = opt.KeyColumn
	for i, h := range header {
		if i != keyIdx && h == opt.KeyColumn {
			header[i] = h + ".1"
		}
	}

	type rowRef struct {
		cells []string
		line  int
	}
	var rows []rowRef
	ragged := 0
	for i, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		if len(rec) > len(header) {
			ragged++
		}
		cells := make([]string, len(header))
		for j := range cells {
			if j < len(rec) {
				cells[j] = strings.TrimSpace(rec[j])
			}
		}
		rows = append(rows, rowRef{cells: cells, line: i + 2})
	}
	log := logging.Logger(logging.SourceIngest)
	if ragged > 0 {
		log.Warn("cells beyond the header were ignored", "file", name, "rows", ragged)
	}

	cols := make([]volume.Column, 0, len(header))
	for j, h := range header {
		if j == keyIdx {
			keys := make([]string, len(rows))
			for i, r := range rows {
				keys[i] = r.cells[j]
			}
			cols = append(cols, volume.TextColumn(h, keys...))
			continue
		}
		nums := make([]float64, len(rows))
		parsed, text := 0, 0
		firstText := -1
		for i, r := range rows {
			cell := r.cells[j]
			if cell == "" {
				continue
			}
			if v, ok := parse(cell, opt); ok {
				nums[i] = v
				parsed++
			} else {
				text++
				if firstText < 0 {
					firstText = i
				}
			}
		}
		switch {
		case text == 0:
			cols = append(cols, volume.NumberColumn(h, nums...))
		case parsed == 0:
			vals := make([]string, len(rows))
			for i, r := range rows {
				vals[i] = r.cells[j]
			}
			cols = append(cols, volume.TextColumn(h, vals...))
		default:
			bad := rows[firstText]
			return volume.Table{}, &CellError{Column: h, Row: bad.line, Value: bad.cells[j], Err: volume.ErrNotNumeric}
		}
	}
	t, err := volume.New(opt.KeyColumn, cols...)
	if err != nil {
		return volume.Table{}, err
	}
	log.Debug("decoded export", "file", name, "rows", t.Len(), "columns", len(header), "numeric", len(t.NumericColumns()))
	return t, nil
}

// headerNames trims header cells, names blanks "Unnamed: i" and suffixes
// repeated names with ".1", ".2", ...
func headerNames(row []string) []string {
	last := len(row)
	for last > 0 && strings.TrimSpace(row[last-1]) == "" {
		last--
	}
	out := make([]string, last)
	seen := map[string]int{}
	for i := 0; i < last; i++ {
		h := strings.TrimSpace(strings.TrimPrefix(row[i], "\ufeff"))
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		if n := seen[h]; n > 0 {
			seen[h] = n + 1
			h = fmt.Sprintf("%s.%d", h, n)
		} else {
			seen[h] = 1
		}
		out[i] = h
	}
	return out
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
