package volume

import (
	"fmt"
	"math"
	"sort"
)

// Situation labels the size of a volume change.
type Situation string

const (
	Normal    Situation = "Normal"
	Verificar Situation = "Verificar"
	Critico   Situation = "Crítico"
)

// Band lower bounds, inclusive.
const (
	VerifyThreshold   = 1000
	CriticalThreshold = 3000
)

var situationRank = map[Situation]int{Normal: 0, Verificar: 1, Critico: 2}

// ClassifySituation labels |v| < 1000 Normal, 1000 <= |v| < 3000 Verificar and
// |v| >= 3000 Crítico.
func ClassifySituation(v float64) Situation {
	a := math.Abs(v)
	switch {
	case a < VerifyThreshold:
		return Normal
	case a < CriticalThreshold:
		return Verificar
	default:
		return Critico
	}
}

// WithSituation appends a SITUACAO column holding the label of each value of col.
func WithSituation(t Table, col string) (Table, error) {
	vals, err := t.Numbers(col)
	if err != nil {
		return Table{}, fmt.Errorf("situation: %w", err)
	}
	labels := make([]string, len(vals))
	for i, v := range vals {
		labels[i] = string(ClassifySituation(v))
	}
	return t.withColumn(TextColumn(SituationColumn, labels...)), nil
}

// SituationCount is the number of rows carrying a label.
type SituationCount struct {
	Situation Situation `json:"situation"`
	Count     int       `json:"count"`
}

// CountSituations tallies the labels of a text column, most frequent first.
// Ties follow Normal, Verificar, Crítico, then first appearance.
func CountSituations(t Table, col string) ([]SituationCount, error) {
	labels, err := t.Texts(col)
	if err != nil {
		return nil, fmt.Errorf("count situations: %w", err)
	}
	idx := map[Situation]int{}
	var out []SituationCount
	for _, l := range labels {
		s := Situation(l)
		i, ok := idx[s]
		if !ok {
			i = len(out)
			idx[s] = i
			out = append(out, SituationCount{Situation: s})
		}
		out[i].Count++
	}
	rank := func(s Situation) int {
		if r, ok := situationRank[s]; ok {
			return r
		}
		return len(situationRank)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return rank(out[i].Situation) < rank(out[j].Situation)
	})
	return out, nil
}
