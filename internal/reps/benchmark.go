package reps

import (
	"github.com/smukkama/lift-analyzer/internal/dataset"
)

const (
	// CategoryHeavy marks sets performed with heavy weight
	CategoryHeavy = "heavy"

	HeavyReps   = 5
	DefaultReps = 10
)

// BenchmarkRow is the assumed repetition count of one set
type BenchmarkRow struct {
	SetKey
	Reps int
}

// AssumedReps returns the repetition count assumed for a category
func AssumedReps(category string) int {
	if category == CategoryHeavy {
		return HeavyReps
	}
	return DefaultReps
}

// BuildBenchmark assigns every reading its assumed count and keeps the
// maximum per (label, category, set). Rows are sorted by key.
func BuildBenchmark(readings []dataset.Reading) []BenchmarkRow {
	best := make(map[SetKey]int)
	for _, r := range readings {
		k := SetKey{Label: r.Label, Category: r.Category, Set: r.Set}
		if n := AssumedReps(r.Category); n > best[k] {
			best[k] = n
		}
	}

	keys := make([]SetKey, 0, len(best))
	for k := range best {
		keys = append(keys, k)
	}
	SortKeys(keys)

	rows := make([]BenchmarkRow, len(keys))
	for i, k := range keys {
		rows[i] = BenchmarkRow{SetKey: k, Reps: best[k]}
	}
	return rows
}
