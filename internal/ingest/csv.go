package ingest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/labvolume-cli/internal/volume"
)

type csvDecoder struct{}

func (csvDecoder) CanDecode(name string) bool {
	n := strings.ToLower(name)
	return strings.HasSuffix(n, ".csv") || strings.HasSuffix(n, ".tsv")
}

func (csvDecoder) Decode(r io.Reader, name string, opt Options) (volume.Table, error) {
	br := bufio.NewReader(r)
	delim := opt.Delimiter
	if delim == 0 {
		head, _ := br.Peek(4096)
		delim = sniffDelimiter(name, head)
	}
	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = delim != '\t'
	cr.Comma = delim
	records, err := cr.ReadAll()
	if err != nil {
		return volume.Table{}, fmt.Errorf("read csv: %w", err)
	}
	return buildTable(records, name, opt, parseNumeric)
}

// sniffDelimiter picks tab for .tsv files, otherwise ';' when the first line
// holds more semicolons than commas (spreadsheet exports in comma-decimal locales).
func sniffDelimiter(name string, head []byte) rune {
	if strings.HasSuffix(strings.ToLower(name), ".tsv") {
		return '\t'
	}
	if i := bytes.IndexByte(head, '\n'); i >= 0 {
		head = head[:i]
	}
	if bytes.Count(head, []byte(";")) > bytes.Count(head, []byte(",")) {
		return ';'
	}
	return ','
}
