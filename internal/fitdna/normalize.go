package fitdna

import "fmt"

// Normalize converts one raw measurement into a z-score against its
// (age, gender) peer group: z = (value - mean) / std. Unbounded, no clamping.
func Normalize(value float64, age int, gender Gender, item string, table *Table) (float64, error) {
	entry, err := table.Get(age, gender, item)
	if err != nil {
		return 0, err
	}
	if entry.Std <= 0 {
		return 0, fmt.Errorf(
			"%w: age=%d gender=%s item=%s std=%f",
			ErrDegenerateReference, age, gender, item, entry.Std,
		)
	}
	return (value - entry.Mean) / entry.Std, nil
}
