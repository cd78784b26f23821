// Package volume implements the exam-volume transform pipeline: an immutable
// columnar Table keyed by laboratory, and pure operations over it (pruning,
// outer join, differencing, classification, monthly aggregation, rankings).
package volume

import (
	"fmt"
	"strconv"
	"strings"
)

// Well-known column names used by the pipeline outputs.
const (
	LabColumn        = "LABORATORIO"
	VolumeColumn     = "VOLUME"
	DifferenceColumn = "Diferença"
	SituationColumn  = "SITUACAO"
	MonthColumn      = "Mês"
	TotalExamsColumn = "Total de Exames"
	RankValueColumn  = "Volume"
)

// Kind is the value type held by a column.
type Kind int

const (
	KindText Kind = iota
	KindNumber
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "numeric"
	default:
		return "unknown"
	}
}

// Column is one named column of a Table. Only the slice matching Kind is used.
type Column struct {
	Name    string
	Kind    Kind
	texts   []string
	numbers []float64
}

// TextColumn builds a text column. Values are copied.
func TextColumn(name string, values ...string) Column {
	cp := make([]string, len(values))
	copy(cp, values)
	return Column{Name: name, Kind: KindText, texts: cp}
}

// NumberColumn builds a numeric column. Values are copied.
func NumberColumn(name string, values ...float64) Column {
	cp := make([]float64, len(values))
	copy(cp, values)
	return Column{Name: name, Kind: KindNumber, numbers: cp}
}

// Len returns the number of values in the column.
func (c Column) Len() int {
	if c.Kind == KindNumber {
		return len(c.numbers)
	}
	return len(c.texts)
}

// Texts returns a copy of the text values (nil for numeric columns).
func (c Column) Texts() []string {
	if c.Kind != KindText {
		return nil
	}
	cp := make([]string, len(c.texts))
	copy(cp, c.texts)
	return cp
}

// Numbers returns a copy of the numeric values (nil for text columns).
func (c Column) Numbers() []float64 {
	if c.Kind != KindNumber {
		return nil
	}
	cp := make([]float64, len(c.numbers))
	copy(cp, c.numbers)
	return cp
}

func (c Column) value(row int) Value {
	if c.Kind == KindNumber {
		return Value{Kind: KindNumber, Number: c.numbers[row]}
	}
	return Value{Kind: KindText, Text: c.texts[row]}
}

func (c Column) pick(rows []int) Column {
	out := Column{Name: c.Name, Kind: c.Kind}
	if c.Kind == KindNumber {
		out.numbers = make([]float64, len(rows))
		for i, r := range rows {
			out.numbers[i] = c.numbers[r]
		}
		return out
	}
	out.texts = make([]string, len(rows))
	for i, r := range rows {
		out.texts[i] = c.texts[r]
	}
	return out
}

// Value is a single cell.
type Value struct {
	Kind   Kind
	Text   string
	Number float64
}

func (v Value) String() string {
	if v.Kind == KindNumber {
		return FormatNumber(v.Number)
	}
	return v.Text
}

// FormatNumber renders a measure without trailing zeros ("10", "2.5").
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Table is an immutable, column-ordered set of rows. One text column is the
// designated key (laboratory identifier). The zero Table has no columns and no rows.
type Table struct {
	key  string
	cols []Column
}

// New builds a Table whose designated key is the text column named key.
// All columns must have the same length and unique, non-empty names.
func New(key string, cols ...Column) (Table, error) {
	if strings.TrimSpace(key) == "" {
		return Table{}, fmt.Errorf("%w: empty key column name", ErrInvalidTable)
	}
	seen := make(map[string]struct{}, len(cols))
	n := -1
	keyFound := false
	for _, c := range cols {
		if strings.TrimSpace(c.Name) == "" {
			return Table{}, fmt.Errorf("%w: empty column name", ErrInvalidTable)
		}
		if _, dup := seen[c.Name]; dup {
			return Table{}, fmt.Errorf("%w: duplicate column %q", ErrInvalidTable, c.Name)
		}
		seen[c.Name] = struct{}{}
		if n >= 0 && c.Len() != n {
			return Table{}, fmt.Errorf("%w: column %q has %d rows, want %d", ErrInvalidTable, c.Name, c.Len(), n)
		}
		n = c.Len()
		if c.Name == key {
			if c.Kind != KindText {
				return Table{}, fmt.Errorf("%w: key %q: %w", ErrInvalidTable, key, ErrNotText)
			}
			keyFound = true
		}
	}
	if !keyFound {
		return Table{}, fmt.Errorf("%w: key %q: %w", ErrInvalidTable, key, ErrMissingColumn)
	}
	cp := make([]Column, len(cols))
	copy(cp, cols)
	return Table{key: key, cols: cp}, nil
}

// Key returns the name of the designated key column.
func (t Table) Key() string { return t.key }

// Len returns the number of rows.
func (t Table) Len() int {
	if len(t.cols) == 0 {
		return 0
	}
	return t.cols[0].Len()
}

// Columns returns all column names in order.
func (t Table) Columns() []string {
	out := make([]string, len(t.cols))
	for i, c := range t.cols {
		out[i] = c.Name
	}
	return out
}

// NumericColumns returns the names of numeric columns in order.
func (t Table) NumericColumns() []string {
	var out []string
	for _, c := range t.cols {
		if c.Kind == KindNumber {
			out = append(out, c.Name)
		}
	}
	return out
}

// Has reports whether a column with this name exists.
func (t Table) Has(name string) bool { return t.index(name) >= 0 }

// Column returns the named column.
func (t Table) Column(name string) (Column, bool) {
	i := t.index(name)
	if i < 0 {
		return Column{}, false
	}
	return t.cols[i], true
}

// Keys returns the values of the key column.
func (t Table) Keys() []string {
	c, ok := t.Column(t.key)
	if !ok {
		return nil
	}
	return c.Texts()
}

// Numbers returns a copy of a numeric column.
func (t Table) Numbers(name string) ([]float64, error) {
	c, ok := t.Column(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
	}
	if c.Kind != KindNumber {
		return nil, fmt.Errorf("%w: %q", ErrNotNumeric, name)
	}
	return c.Numbers(), nil
}

// Texts returns a copy of a text column.
func (t Table) Texts(name string) ([]string, error) {
	c, ok := t.Column(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
	}
	if c.Kind != KindText {
		return nil, fmt.Errorf("%w: %q", ErrNotText, name)
	}
	return c.Texts(), nil
}

// Cell returns the value at row, col (0-based). It panics when out of range,
// like a slice index.
func (t Table) Cell(row, col int) Value {
	return t.cols[col].value(row)
}

// Row returns the cells of one row keyed by column name.
func (t Table) Row(row int) map[string]Value {
	out := make(map[string]Value, len(t.cols))
	for _, c := range t.cols {
		out[c.Name] = c.value(row)
	}
	return out
}

func (t Table) index(name string) int {
	for i, c := range t.cols {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// selectRows returns a table holding only the given rows, in the given order.
func (t Table) selectRows(rows []int) Table {
	cols := make([]Column, len(t.cols))
	for i, c := range t.cols {
		cols[i] = c.pick(rows)
	}
	return Table{key: t.key, cols: cols}
}

// selectColumns returns a table holding the columns for which keep is true.
func (t Table) selectColumns(keep func(Column) bool) Table {
	cols := make([]Column, 0, len(t.cols))
	for _, c := range t.cols {
		if keep(c) {
			cols = append(cols, c)
		}
	}
	return Table{key: t.key, cols: cols}
}

// withColumn appends c, or replaces an existing column of the same name in place.
func (t Table) withColumn(c Column) Table {
	cols := make([]Column, len(t.cols), len(t.cols)+1)
	copy(cols, t.cols)
	if i := t.index(c.Name); i >= 0 {
		cols[i] = c
	} else {
		cols = append(cols, c)
	}
	return Table{key: t.key, cols: cols}
}

func sum(vals []float64) float64 {
	var s float64
	for _, v := range vals {
		s += v
	}
	return s
}
