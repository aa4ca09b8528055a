package outlier

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/smukkama/lift-analyzer/internal/dataset"
)

// DefaultThreshold is the absolute Z-score above which a value is an outlier
const DefaultThreshold = 3.0

// DefaultColumns are the raw sensor channels checked by default
var DefaultColumns = dataset.RawChannels

// ColumnReport describes the replacement performed on one column
type ColumnReport struct {
	Column    string
	Mean      float64
	Std       float64
	Threshold float64
	Replaced  []int // row indices that were set to Mean
	// Degenerate is set when the scores are undefined (fewer than two present
	// values or zero variance), in which case nothing is replaced.
	Degenerate bool
}

// ReplaceWithMean replaces, in place, every value of the given columns whose
// absolute Z-score exceeds threshold with that column's mean. Each column is
// scored against its own pre-replacement mean and sample standard deviation.
func ReplaceWithMean(t *dataset.Table, columns []string, threshold float64) ([]ColumnReport, error) {
	reports := make([]ColumnReport, 0, len(columns))

	for _, col := range columns {
		values, err := t.Float64s(col)
		if err != nil {
			return nil, fmt.Errorf("failed to read column: %w", err)
		}

		mean, std, replaced := ReplaceValues(values, threshold)
		for _, row := range replaced {
			if err := t.SetFloat64(row, col, mean); err != nil {
				return nil, fmt.Errorf("failed to replace %s[%d]: %w", col, row, err)
			}
		}

		reports = append(reports, ColumnReport{
			Column:     col,
			Mean:       mean,
			Std:        std,
			Threshold:  threshold,
			Replaced:   replaced,
			Degenerate: isDegenerate(std),
		})
	}

	return reports, nil
}

// ReplaceValues replaces outliers in values with the mean and returns the
// statistics used along with the indices that changed. Missing values (NaN)
// are left out of the statistics and never replaced.
func ReplaceValues(values []float64, threshold float64) (mean, std float64, replaced []int) {
	present := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			present = append(present, v)
		}
	}

	mean, std = stat.MeanStdDev(present, nil)
	if isDegenerate(std) {
		return mean, std, nil
	}

	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if math.Abs(stat.StdScore(v, mean, std)) > threshold {
			replaced = append(replaced, i)
		}
	}
	for _, i := range replaced {
		values[i] = mean
	}

	return mean, std, replaced
}

// isDegenerate reports whether Z-scores against std are undefined.
// A zero std would turn rounding noise in the mean into infinite scores.
func isDegenerate(std float64) bool {
	return math.IsNaN(std) || std == 0
}
