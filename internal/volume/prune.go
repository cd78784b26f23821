package volume

// PruneZeroColumns drops every numeric column whose values are all zero.
// The key column and text columns are always kept. On a table with no rows every
// numeric column is vacuously all-zero and is dropped.
func PruneZeroColumns(t Table) Table {
	return t.selectColumns(func(c Column) bool {
		if c.Name == t.key || c.Kind != KindNumber {
			return true
		}
		for _, v := range c.numbers {
			if v != 0 {
				return true
			}
		}
		return false
	})
}

// MultiPeriodPrune prunes a table whose measure columns are calendar months.
func MultiPeriodPrune(t Table) Table {
	return PruneZeroColumns(t)
}
