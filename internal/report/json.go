package report

import (
	"github.com/KaramelBytes/labvolume-cli/internal/utils"
	"github.com/KaramelBytes/labvolume-cli/internal/volume"
)

type tableJSON struct {
	Columns   []string `json:"columns"`
	Rows      [][]any  `json:"rows"`
	Truncated int      `json:"truncated,omitempty"`
}

func toJSONTable(t volume.Table, maxRows int) tableJSON {
	out := tableJSON{Columns: t.Columns(), Rows: [][]any{}}
	n := visibleRows(t.Len(), maxRows)
	for r := 0; r < n; r++ {
		row := make([]any, len(out.Columns))
		for c := range out.Columns {
			v := t.Cell(r, c)
			if v.Kind == volume.KindNumber {
				row[c] = v.Number
			} else {
				row[c] = v.Text
			}
		}
		out.Rows = append(out.Rows, row)
	}
	out.Truncated = t.Len() - n
	return out
}

type comparisonJSON struct {
	Meta            Meta                    `json:"meta"`
	Key             string                  `json:"key"`
	Aggregated      bool                    `json:"aggregated"`
	Fallback        string                  `json:"fallback,omitempty"`
	PreviousColumn  string                  `json:"previous_column,omitempty"`
	CurrentColumn   string                  `json:"current_column,omitempty"`
	PreviousTotal   string                  `json:"previous_total,omitempty"`
	CurrentTotal    string                  `json:"current_total,omitempty"`
	TotalDifference string                  `json:"total_difference,omitempty"`
	Variation       string                  `json:"variation,omitempty"`
	Merged          tableJSON               `json:"merged"`
	Negative        *tableJSON              `json:"negative,omitempty"`
	Situations      []volume.SituationCount `json:"situations,omitempty"`
	OnlyPrevious    tableJSON               `json:"only_previous"`
	OnlyCurrent     tableJSON               `json:"only_current"`
}

// ComparisonJSON renders a comparison as an indented JSON document.
func ComparisonJSON(c *volume.Comparison, meta Meta, opt Options) ([]byte, error) {
	doc := comparisonJSON{
		Meta:            meta,
		Key:             c.Key,
		Aggregated:      c.Aggregated(),
		PreviousColumn:  c.PreviousColumn,
		CurrentColumn:   c.CurrentColumn,
		PreviousTotal:   c.PreviousTotal,
		CurrentTotal:    c.CurrentTotal,
		TotalDifference: c.TotalDifference,
		Variation:       c.Variation,
		Merged:          toJSONTable(c.Merged, opt.MaxRows),
		Situations:      c.Situations,
		OnlyPrevious:    toJSONTable(c.OnlyPrevious, opt.MaxRows),
		OnlyCurrent:     toJSONTable(c.OnlyCurrent, opt.MaxRows),
	}
	if c.Fallback != nil {
		doc.Fallback = c.Fallback.Error()
	} else {
		neg := toJSONTable(c.Negative, opt.MaxRows)
		doc.Negative = &neg
	}
	return utils.PrettyJSON(doc)
}

type highestJSON struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

type trendJSON struct {
	Meta        Meta        `json:"meta"`
	Key         string      `json:"key"`
	TotalVolume string      `json:"total_volume"`
	Summary     tableJSON   `json:"summary"`
	TopN        int         `json:"top_n"`
	Top         tableJSON   `json:"top"`
	Highest     highestJSON `json:"highest"`
}

// TrendJSON renders a trend result as an indented JSON document.
func TrendJSON(r *volume.TrendResult, meta Meta, opt Options) ([]byte, error) {
	return utils.PrettyJSON(trendJSON{
		Meta:        meta,
		Key:         r.Key,
		TotalVolume: r.TotalVolume,
		Summary:     toJSONTable(r.Summary, 0),
		TopN:        r.TopN,
		Top:         toJSONTable(r.Top, opt.MaxRows),
		Highest:     highestJSON{Key: r.HighestKey, Value: r.HighestValue},
	})
}
