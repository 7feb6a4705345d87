package domain

// CountRow is one row of a grouped count read: the raw values of the grouped
// columns, in request order, and the number of records carrying them. NULL
// values are represented as "".
type CountRow struct {
	Values []string
	Count  int
}

// SumCounts returns the total count across rows.
func SumCounts(rows []CountRow) int {
	total := 0
	for _, r := range rows {
		total += r.Count
	}
	return total
}
