// Package ingest decodes laboratory volume exports (XLSX, CSV, TSV) into
// volume.Table values.
package ingest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/labvolume-cli/internal/volume"
)

// Options controls how an export is decoded.
type Options struct {
	// KeyColumn names the laboratory identifier column, matched case-insensitively.
	// The decoded table always uses this exact name for its key.
	KeyColumn string
	// SheetName selects an XLSX sheet by name; it wins over SheetIndex.
	SheetName string
	// SheetIndex selects an XLSX sheet by 1-based position. 0 means the first.
	SheetIndex int
	// Delimiter for CSV. If 0, picked from the extension and the header line.
	Delimiter rune
	// Numeric parsing locale. If DecimalSeparator is 0, auto-detect per value.
	DecimalSeparator   rune
	ThousandsSeparator rune // optional; if 0, auto-detect common separators (',' '.' space)
}

// DefaultOptions returns the options used for BI exports keyed by LABORATORIO.
func DefaultOptions() Options {
	return Options{KeyColumn: volume.LabColumn, SheetIndex: 1}
}

// Decoder turns one export format into a Table.
type Decoder interface {
	CanDecode(name string) bool
	Decode(r io.Reader, name string, opt Options) (volume.Table, error)
}

var registry []Decoder

// Register adds a decoder implementation to the registry.
func Register(d Decoder) {
	registry = append(registry, d)
}

func init() {
	Register(xlsxDecoder{})
	Register(csvDecoder{})
}

var (
	// ErrUnsupported indicates a file extension no decoder handles.
	ErrUnsupported = errors.New("unsupported export format")
	// ErrMissingKey indicates the export has no laboratory key column.
	ErrMissingKey = errors.New("key column not found")
	// ErrEmpty indicates an export without a header row.
	ErrEmpty = errors.New("export has no header row")
)

// CellError reports a cell that breaks its column's type.
type CellError struct {
	Column string
	Row    int // 1-based spreadsheet row, header included
	Value  string
	Err    error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("column %q row %d: value %q: %v", e.Column, e.Row, e.Value, e.Err)
}

func (e *CellError) Unwrap() error { return e.Err }

// ReadFile decodes the export at path.
func ReadFile(path string, opt Options) (volume.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return volume.Table{}, fmt.Errorf("open export: %w", err)
	}
	defer f.Close()
	return Read(f, filepath.Base(path), opt)
}

// Read decodes an export from r. name selects the decoder by extension.
func Read(r io.Reader, name string, opt Options) (volume.Table, error) {
	if opt.KeyColumn == "" {
		opt.KeyColumn = volume.LabColumn
	}
	for _, d := range registry {
		if d.CanDecode(name) {
			t, err := d.Decode(r, name, opt)
			if err != nil {
				return volume.Table{}, fmt.Errorf("decode %s: %w", name, err)
			}
			return t, nil
		}
	}
	return volume.Table{}, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(name))
}
