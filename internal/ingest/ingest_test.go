package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/labvolume-cli/internal/volume"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func writeXLSXFixture(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	rows := [][]any{
		{"Laboratorio", "JANEIRO", "FEVEREIRO", "UF"},
		{"LAB A", 1200, 0, "SP"},
		{"LAB B", 35.5, 0, "RJ"},
		{},
		{"LAB C", "1.000,5", 0, "MG"},
	}
	for i, r := range rows {
		row := r
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	if _, err := f.NewSheet("Março"); err != nil {
		t.Fatalf("NewSheet: %v", err)
	}
	second := []any{"LABORATORIO", "MARCO"}
	if err := f.SetSheetRow("Março", "A1", &second); err != nil {
		t.Fatalf("SetSheetRow: %v", err)
	}
	data := []any{"LAB Z", 7}
	if err := f.SetSheetRow("Março", "A2", &data); err != nil {
		t.Fatalf("SetSheetRow: %v", err)
	}
	path := filepath.Join(t.TempDir(), "volumes.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save xlsx fixture: %v", err)
	}
	return path
}

func TestReadCSV(t *testing.T) {
	path := writeFile(t, "jan.csv", "\ufeffLABORATORIO,JAN,FEV,Obs\nX,10,0,ok\n,,,\nY,\"1,234.5\",0,\n")
	tb, err := ReadFile(path, DefaultOptions())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if diff := cmp.Diff([]string{"LABORATORIO", "JAN", "FEV", "Obs"}, tb.Columns()); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"X", "Y"}, tb.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	jan, err := tb.Numbers("JAN")
	if err != nil {
		t.Fatalf("Numbers(JAN): %v", err)
	}
	if diff := cmp.Diff([]float64{10, 1234.5}, jan); diff != "" {
		t.Fatalf("JAN mismatch (-want +got):\n%s", diff)
	}
	if _, err := tb.Texts("Obs"); err != nil {
		t.Fatalf("Obs should be text: %v", err)
	}
}

func TestReadCSVSemicolonAndCommaDecimal(t *testing.T) {
	path := writeFile(t, "fev.csv", "laboratorio;JAN;FEV\nX;1.234,5;2\n")
	tb, err := ReadFile(path, DefaultOptions())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if tb.Key() != volume.LabColumn {
		t.Fatalf("key = %q, want %q", tb.Key(), volume.LabColumn)
	}
	jan, _ := tb.Numbers("JAN")
	if len(jan) != 1 || jan[0] != 1234.5 {
		t.Fatalf("JAN = %v, want [1234.5]", jan)
	}
}

func TestReadTSVHeaderNames(t *testing.T) {
	path := writeFile(t, "t.tsv", "LABORATORIO\t\tJAN\tJAN\nX\t1\t2\t3\n")
	tb, err := ReadFile(path, DefaultOptions())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if diff := cmp.Diff([]string{"LABORATORIO", "Unnamed: 1", "JAN", "JAN.1"}, tb.Columns()); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}
}

func TestReadErrors(t *testing.T) {
	mixed := writeFile(t, "mixed.csv", "LABORATORIO,JAN\nX,10\nY,abc\n")
	_, err := ReadFile(mixed, DefaultOptions())
	var ce *CellError
	if !errors.As(err, &ce) {
		t.Fatalf("error = %v, want *CellError", err)
	}
	if ce.Column != "JAN" || ce.Row != 3 || ce.Value != "abc" || !errors.Is(err, volume.ErrNotNumeric) {
		t.Fatalf("CellError = %+v", ce)
	}

	nokey := writeFile(t, "nokey.csv", "ID,JAN\nX,1\n")
	if _, err := ReadFile(nokey, DefaultOptions()); !errors.Is(err, ErrMissingKey) {
		t.Fatalf("error = %v, want ErrMissingKey", err)
	}

	empty := writeFile(t, "empty.csv", "")
	if _, err := ReadFile(empty, DefaultOptions()); !errors.Is(err, ErrEmpty) {
		t.Fatalf("error = %v, want ErrEmpty", err)
	}

	if _, err := Read(strings.NewReader("x"), "notes.pdf", DefaultOptions()); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("error = %v, want ErrUnsupported", err)
	}
	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.csv"), DefaultOptions()); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestReadXLSXSheetSelection(t *testing.T) {
	path := writeXLSXFixture(t)

	tb, err := ReadFile(path, DefaultOptions())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if diff := cmp.Diff([]string{"LAB A", "LAB B", "LAB C"}, tb.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	jan, _ := tb.Numbers("JANEIRO")
	if diff := cmp.Diff([]float64{1200, 35.5, 1000.5}, jan); diff != "" {
		t.Fatalf("JANEIRO mismatch (-want +got):\n%s", diff)
	}
	fev, _ := tb.Numbers("FEVEREIRO")
	if diff := cmp.Diff([]float64{0, 0, 0}, fev); diff != "" {
		t.Fatalf("FEVEREIRO mismatch (-want +got):\n%s", diff)
	}

	opt := DefaultOptions()
	opt.SheetName = "março"
	byName, err := ReadFile(path, opt)
	if err != nil {
		t.Fatalf("ReadFile by name: %v", err)
	}
	if diff := cmp.Diff([]string{"LAB Z"}, byName.Keys()); diff != "" {
		t.Fatalf("keys by name mismatch (-want +got):\n%s", diff)
	}

	opt = DefaultOptions()
	opt.SheetIndex = 2
	byIndex, err := ReadFile(path, opt)
	if err != nil {
		t.Fatalf("ReadFile by index: %v", err)
	}
	if !byIndex.Has("MARCO") {
		t.Fatalf("sheet 2 columns = %v", byIndex.Columns())
	}

	opt = DefaultOptions()
	opt.SheetName = "Abril"
	if _, err := ReadFile(path, opt); err == nil || !strings.Contains(err.Error(), "Available sheets: Sheet1, Março") {
		t.Fatalf("missing sheet error = %v", err)
	}
	opt = DefaultOptions()
	opt.SheetIndex = 5
	if _, err := ReadFile(path, opt); err == nil {
		t.Fatal("expected out of range sheet index error")
	}
}

func TestParseNumeric(t *testing.T) {
	cases := []struct {
		in   string
		opt  Options
		want float64
		ok   bool
	}{
		{"10", Options{}, 10, true},
		{"1,234.5", Options{}, 1234.5, true},
		{"1.234,5", Options{}, 1234.5, true},
		{"12,5", Options{}, 12.5, true},
		{"45%", Options{}, 45, true},
		{"1 234", Options{}, 1234, true},
		{"1.234", Options{ThousandsSeparator: '.'}, 1234, true},
		{"1.234", Options{}, 1.234, true},
		{"abc", Options{}, 0, false},
		{"", Options{}, 0, false},
	}
	for _, tc := range cases {
		got, ok := parseNumeric(tc.in, tc.opt)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("parseNumeric(%q) = %v, %v; want %v, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestSniffDelimiter(t *testing.T) {
	if got := sniffDelimiter("a.tsv", nil); got != '\t' {
		t.Fatalf("tsv delimiter = %q", got)
	}
	if got := sniffDelimiter("a.csv", []byte("A;B;C\n1,2;3;4")); got != ';' {
		t.Fatalf("semicolon delimiter = %q", got)
	}
	if got := sniffDelimiter("a.csv", []byte("A,B\n")); got != ',' {
		t.Fatalf("comma delimiter = %q", got)
	}
}
