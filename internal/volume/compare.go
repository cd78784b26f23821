package volume

import (
	"errors"
	"fmt"
)

// Comparison is the outcome of comparing two period exports.
type Comparison struct {
	Key      string
	Previous Table // pruned previous export
	Current  Table // pruned current export
	Merged   Table // outer join, with Diferença when the shape allows it

	PreviousColumn  string
	CurrentColumn   string
	PreviousTotal   string
	CurrentTotal    string
	TotalDifference string
	Variation       string

	Negative   Table // {LABORATORIO, VOLUME, SITUACAO}
	Situations []SituationCount

	OnlyPrevious Table
	OnlyCurrent  Table

	// Fallback is set when the merged table is not key + 2 measure columns.
	// Only Merged and the unmatched tables are populated then.
	Fallback error
}

// Aggregated reports whether the totals, difference and situations were computed.
func (c *Comparison) Aggregated() bool { return c.Fallback == nil }

// Compare prunes both exports, joins them on key and derives the difference,
// variation, negative rows and situation counts. A merged table of the wrong
// shape is not an error: the result carries Fallback instead.
func Compare(previous, current Table, key string) (*Comparison, error) {
	c := &Comparison{
		Key:      key,
		Previous: PruneZeroColumns(previous),
		Current:  PruneZeroColumns(current),
	}
	merged, err := OuterJoin(c.Previous, c.Current, key)
	if err != nil {
		return nil, fmt.Errorf("join: %w", err)
	}
	c.Merged = merged
	if c.OnlyPrevious, c.OnlyCurrent, err = Unmatched(c.Previous, c.Current, key); err != nil {
		return nil, fmt.Errorf("unmatched: %w", err)
	}

	prevCol, curCol, err := PeriodColumns(merged)
	if err != nil {
		if errors.Is(err, ErrShapeMismatch) {
			c.Fallback = err
			return c, nil
		}
		return nil, err
	}
	c.PreviousColumn, c.CurrentColumn = prevCol, curCol

	if c.PreviousTotal, c.CurrentTotal, c.TotalDifference, err = TotalsAndDifference(merged, prevCol, curCol); err != nil {
		return nil, err
	}
	prev, _ := merged.Numbers(prevCol)
	cur, _ := merged.Numbers(curCol)
	c.Variation = PercentageVariation(sum(cur), sum(prev))

	if c.Merged, err = Difference(merged, prevCol, curCol); err != nil {
		return nil, err
	}
	neg, err := NegativeVolumeRows(c.Merged, DifferenceColumn)
	if err != nil {
		return nil, err
	}
	if c.Negative, err = WithSituation(neg, VolumeColumn); err != nil {
		return nil, err
	}
	if c.Situations, err = CountSituations(c.Negative, SituationColumn); err != nil {
		return nil, err
	}
	return c, nil
}

// TrendResult is the outcome of analysing one multi-month export.
type TrendResult struct {
	Key          string
	Table        Table // pruned export
	Summary      Table // {Mês, Total de Exames}
	TotalVolume  string
	TopN         int
	Top          Table // {key, Mês, Volume}
	HighestKey   string
	HighestValue float64
}

// Trend prunes a multi-month export and derives the monthly summary, the total
// volume, the top n laboratories per month and the highest-volume laboratory.
func Trend(t Table, key string, n int) (*TrendResult, error) {
	if !t.Has(key) {
		return nil, fmt.Errorf("trend: key: %w: %q", ErrMissingColumn, key)
	}
	r := &TrendResult{Key: key, Table: MultiPeriodPrune(t), TopN: n}
	var err error
	if r.Summary, err = MonthlySummary(r.Table, key); err != nil {
		return nil, err
	}
	if r.TotalVolume, err = TotalVolume(r.Summary, TotalExamsColumn); err != nil {
		return nil, err
	}
	if r.Top, err = TopNPerGroup(r.Table, key, MonthColumn, RankValueColumn, n); err != nil {
		return nil, err
	}
	if r.HighestKey, r.HighestValue, err = HighestVolumeRow(r.Table, key); err != nil {
		return nil, err
	}
	return r, nil
}
