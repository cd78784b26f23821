package volume

import "fmt"

// HighestVolumeRow returns the key and value of the row holding the maximum of
// the first numeric column. The first such row wins ties. Without a numeric
// column or without rows it returns ("N/A", 0).
func HighestVolumeRow(t Table, keyCol string) (string, float64, error) {
	keys, err := t.Texts(keyCol)
	if err != nil {
		return "", 0, fmt.Errorf("highest volume: key: %w", err)
	}
	nums := t.NumericColumns()
	if len(nums) == 0 || t.Len() == 0 {
		return NotAvailable, 0, nil
	}
	vals, err := t.Numbers(nums[0])
	if err != nil {
		return "", 0, fmt.Errorf("highest volume: %w", err)
	}
	best := 0
	for i := 1; i < len(vals); i++ {
		if vals[i] > vals[best] {
			best = i
		}
	}
	return keys[best], vals[best], nil
}
