package ingest

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/labvolume-cli/internal/volume"
)

type xlsxDecoder struct{}

func (xlsxDecoder) CanDecode(name string) bool {
	n := strings.ToLower(name)
	return strings.HasSuffix(n, ".xlsx") || strings.HasSuffix(n, ".xlsm")
}

// Decode reads raw cell values (no number formats applied) from the selected sheet.
func (xlsxDecoder) Decode(r io.Reader, name string, opt Options) (volume.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return volume.Table{}, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()
	sheet, err := pickSheet(f.GetSheetList(), name, opt)
	if err != nil {
		return volume.Table{}, err
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return volume.Table{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return buildTable(rows, name, opt, parseXLSXNumber)
}

func pickSheet(sheets []string, name string, opt Options) (string, error) {
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook '%s' has no sheets", name)
	}
	if opt.SheetName != "" {
		for _, s := range sheets {
			if strings.EqualFold(s, opt.SheetName) {
				return s, nil
			}
		}
		return "", fmt.Errorf("sheet '%s' not found in workbook '%s'.\nAvailable sheets: %s",
			opt.SheetName, name, strings.Join(sheets, ", "))
	}
	idx := opt.SheetIndex
	if idx <= 0 {
		idx = 1
	}
	if idx > len(sheets) {
		return "", fmt.Errorf("sheet index %d out of range in workbook '%s' (%d sheets: %s)",
			idx, name, len(sheets), strings.Join(sheets, ", "))
	}
	return sheets[idx-1], nil
}

// Raw XLSX numbers are already dot-decimal; locale heuristics are only a
// fallback for numbers stored as text.
func parseXLSXNumber(cell string, opt Options) (float64, bool) {
	if f, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err == nil {
		return f, true
	}
	return parseNumeric(cell, opt)
}
