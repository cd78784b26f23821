package volume

import (
	"fmt"
	"sort"
)

// Suffixes applied to a non-key column name present on both sides of a join.
const (
	leftSuffix  = "_x"
	rightSuffix = "_y"
)

// OuterJoin aligns a and b on the text column key. Every key present in either
// input appears exactly once, sorted ascending. Duplicate keys inside one input
// are collapsed first: numeric cells are summed, text cells keep the first value.
// Cells of a key absent from one side are filled with 0 (numeric) or "" (text).
func OuterJoin(a, b Table, key string) (Table, error) {
	ca, err := collapse(a, key)
	if err != nil {
		return Table{}, fmt.Errorf("left: %w", err)
	}
	cb, err := collapse(b, key)
	if err != nil {
		return Table{}, fmt.Errorf("right: %w", err)
	}

	seen := make(map[string]struct{}, len(ca.keys)+len(cb.keys))
	keys := make([]string, 0, len(ca.keys)+len(cb.keys))
	for _, ks := range [][]string{ca.keys, cb.keys} {
		for _, k := range ks {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	names := map[string]int{}
	for _, c := range ca.cols {
		names[c.Name]++
	}
	for _, c := range cb.cols {
		names[c.Name]++
	}

	cols := []Column{TextColumn(key, keys...)}
	// output name -> source column name
	used := map[string]string{key: key}
	for _, side := range []struct {
		g      grouped
		suffix string
	}{{ca, leftSuffix}, {cb, rightSuffix}} {
		for _, c := range side.g.cols {
			name := c.Name
			if names[name] > 1 {
				name += side.suffix
			}
			if prev, ok := used[name]; ok {
				return Table{}, fmt.Errorf("%w: columns %q and %q both become %q", ErrNameCollision, prev, c.Name, name)
			}
			used[name] = c.Name
			cols = append(cols, side.g.align(c, name, keys))
		}
	}
	return New(key, cols...)
}

// Unmatched returns the rows of a whose key does not occur in b, and the rows of
// b whose key does not occur in a.
func Unmatched(a, b Table, key string) (onlyA, onlyB Table, err error) {
	ka, err := a.Texts(key)
	if err != nil {
		return Table{}, Table{}, fmt.Errorf("left: %w", err)
	}
	kb, err := b.Texts(key)
	if err != nil {
		return Table{}, Table{}, fmt.Errorf("right: %w", err)
	}
	return a.selectRows(missingFrom(ka, kb)), b.selectRows(missingFrom(kb, ka)), nil
}

func missingFrom(keys, other []string) []int {
	set := make(map[string]struct{}, len(other))
	for _, k := range other {
		set[k] = struct{}{}
	}
	rows := []int{}
	for i, k := range keys {
		if _, ok := set[k]; !ok {
			rows = append(rows, i)
		}
	}
	return rows
}

// grouped is a table reduced to one row per distinct key.
type grouped struct {
	keys []string
	pos  map[string]int
	cols []Column // non-key columns, one value per entry of keys
}

func collapse(t Table, key string) (grouped, error) {
	keys, err := t.Texts(key)
	if err != nil {
		return grouped{}, err
	}
	g := grouped{pos: make(map[string]int, len(keys))}
	rowGroup := make([]int, len(keys))
	for i, k := range keys {
		p, ok := g.pos[k]
		if !ok {
			p = len(g.keys)
			g.pos[k] = p
			g.keys = append(g.keys, k)
		}
		rowGroup[i] = p
	}
	for _, c := range t.cols {
		if c.Name == key {
			continue
		}
		out := Column{Name: c.Name, Kind: c.Kind}
		if c.Kind == KindNumber {
			out.numbers = make([]float64, len(g.keys))
			for i, v := range c.numbers {
				out.numbers[rowGroup[i]] += v
			}
		} else {
			out.texts = make([]string, len(g.keys))
			filled := make([]bool, len(g.keys))
			for i, v := range c.texts {
				if p := rowGroup[i]; !filled[p] {
					out.texts[p] = v
					filled[p] = true
				}
			}
		}
		g.cols = append(g.cols, out)
	}
	return g, nil
}

// align lays column c out along keys, zero-filling keys this side lacks.
func (g grouped) align(c Column, name string, keys []string) Column {
	out := Column{Name: name, Kind: c.Kind}
	if c.Kind == KindNumber {
		out.numbers = make([]float64, len(keys))
	} else {
		out.texts = make([]string, len(keys))
	}
	for i, k := range keys {
		p, ok := g.pos[k]
		if !ok {
			continue
		}
		if c.Kind == KindNumber {
			out.numbers[i] = c.numbers[p]
		} else {
			out.texts[i] = c.texts[p]
		}
	}
	return out
}
