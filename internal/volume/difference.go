package volume

import "fmt"

// Difference appends the numeric column Diferença = colB - colA, replacing an
// existing Diferença column. Both columns must exist and be numeric.
func Difference(t Table, colA, colB string) (Table, error) {
	a, err := t.Numbers(colA)
	if err != nil {
		return Table{}, fmt.Errorf("difference: %w", err)
	}
	b, err := t.Numbers(colB)
	if err != nil {
		return Table{}, fmt.Errorf("difference: %w", err)
	}
	d := make([]float64, len(a))
	for i := range a {
		d[i] = b[i] - a[i]
	}
	return t.withColumn(NumberColumn(DifferenceColumn, d...)), nil
}

// NegativeVolumeRows keeps the rows whose diffCol is below zero, projected to
// {LABORATORIO, VOLUME}.
func NegativeVolumeRows(t Table, diffCol string) (Table, error) {
	keys, err := t.Texts(t.key)
	if err != nil {
		return Table{}, fmt.Errorf("negative rows: key: %w", err)
	}
	d, err := t.Numbers(diffCol)
	if err != nil {
		return Table{}, fmt.Errorf("negative rows: %w", err)
	}
	var labs []string
	var vols []float64
	for i, v := range d {
		if v < 0 {
			labs = append(labs, keys[i])
			vols = append(vols, v)
		}
	}
	return New(LabColumn, TextColumn(LabColumn, labs...), NumberColumn(VolumeColumn, vols...))
}

// PeriodColumns returns the two measure columns of a merged two-period table.
// It fails with ErrShapeMismatch unless the table is exactly the key plus two
// numeric columns.
func PeriodColumns(t Table) (previous, current string, err error) {
	nums := t.NumericColumns()
	if len(t.cols) != 3 || len(nums) != 2 {
		return "", "", fmt.Errorf("%w: want key + 2 measure columns, got %d columns (%d numeric)",
			ErrShapeMismatch, len(t.cols), len(nums))
	}
	return nums[0], nums[1], nil
}
