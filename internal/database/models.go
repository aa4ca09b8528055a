package database

import (
	"time"
)

// Run represents one execution of an analysis tool
type Run struct {
	ID         string
	Kind       string
	Source     string
	StartedAt  time.Time
	FinishedAt time.Time
	CreatedAt  time.Time
}

// BenchmarkRecord is the assumed repetition count of one set
type BenchmarkRecord struct {
	RunID    string
	Label    string
	Category string
	SetID    int
	Reps     int
}

// EstimateRecord is a heuristic repetition count and the filter settings used
type EstimateRecord struct {
	RunID         string
	Label         string
	Category      string
	SetID         int
	ColumnName    string
	Cutoff        float64
	FilterOrder   int
	Samples       int
	EstimatedReps int
}

// OutlierSummary records the replacements made in one column
type OutlierSummary struct {
	RunID         string
	ColumnName    string
	Mean          *float64
	Std           *float64
	Threshold     float64
	ReplacedCount int
}


// RunResults are the rows stored together with a run
type RunResults struct {
	Benchmark []*BenchmarkRecord
	Estimates []*EstimateRecord
	Outliers  []*OutlierSummary
}
