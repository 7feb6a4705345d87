package domain

import "math"

// AggregationEntry is one counted bucket of a breakdown.
type AggregationEntry struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// SemesterEntry is a semester bucket nested under its stage.
type SemesterEntry struct {
	AggregationEntry
	StageID string `json:"stageId"`
}

// StageEntry is a stage bucket carrying its ordered semester sub-entries.
// Semesters is never nil so that it always serializes as a list.
type StageEntry struct {
	AggregationEntry
	SortOrder int             `json:"sortOrder"`
	Semesters []SemesterEntry `json:"semesters"`
}

// Percentage returns count/total*100 rounded to two decimals. A zero or
// negative total yields 0.
func Percentage(count, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(count)/float64(total)*10000) / 100
}
