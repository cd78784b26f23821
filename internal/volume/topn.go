package volume

import (
	"fmt"
	"sort"
)

// TopNPerGroup melts the numeric columns of a wide table into long rows
// {keyCol, groupCol, valueCol}, one group per numeric column, and keeps the n
// largest values of each group. Groups are emitted in ascending label order
// (byte order, so "ABRIL" precedes "FEVEREIRO" precedes "JANEIRO"); ties keep
// row order. A group with fewer than n rows contributes all of them.
func TopNPerGroup(t Table, keyCol, groupCol, valueCol string, n int) (Table, error) {
	if n < 0 {
		return Table{}, fmt.Errorf("top n: %w: n = %d", ErrInvalidArgument, n)
	}
	if groupCol == "" || valueCol == "" || groupCol == valueCol || groupCol == keyCol || valueCol == keyCol {
		return Table{}, fmt.Errorf("top n: %w: output columns %q, %q, %q must be distinct and non-empty",
			ErrInvalidArgument, keyCol, groupCol, valueCol)
	}
	keys, err := t.Texts(keyCol)
	if err != nil {
		return Table{}, fmt.Errorf("top n: key: %w", err)
	}
	var (
		outKeys   []string
		outGroups []string
		outVals   []float64
	)
	groups := make([]Column, 0, len(t.cols))
	for _, c := range t.cols {
		if c.Kind == KindNumber {
			groups = append(groups, c)
		}
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	for _, c := range groups {
		idx := make([]int, len(c.numbers))
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(i, j int) bool { return c.numbers[idx[i]] > c.numbers[idx[j]] })
		if len(idx) > n {
			idx = idx[:n]
		}
		for _, r := range idx {
			outKeys = append(outKeys, keys[r])
			outGroups = append(outGroups, c.Name)
			outVals = append(outVals, c.numbers[r])
		}
	}
	return New(keyCol,
		TextColumn(keyCol, outKeys...),
		TextColumn(groupCol, outGroups...),
		NumberColumn(valueCol, outVals...),
	)
}
