package dataset

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"
)

// Column names of a sensor recording
const (
	ColEpoch    = "epoch (ms)"
	ColAccX     = "acc_x"
	ColAccY     = "acc_y"
	ColAccZ     = "acc_z"
	ColGyrX     = "gyr_x"
	ColGyrY     = "gyr_y"
	ColGyrZ     = "gyr_z"
	ColLabel    = "label"
	ColCategory = "category"
	ColSet      = "set"

	// Derived magnitude columns
	ColAccR = "acc_r"
	ColGyrR = "gyr_r"
)

// RawChannels are the six motion channels
var RawChannels = []string{ColAccX, ColAccY, ColAccZ, ColGyrX, ColGyrY, ColGyrZ}

// Reading is one row of a sensor recording
type Reading struct {
	Epoch    int64
	AccX     float64
	AccY     float64
	AccZ     float64
	GyrX     float64
	GyrY     float64
	GyrZ     float64
	Label    string
	Category string
	Set      int
}

// ParseReadings converts every row of t into a Reading
func ParseReadings(t *Table) ([]Reading, error) {
	required := []string{ColEpoch, ColAccX, ColAccY, ColAccZ, ColGyrX, ColGyrY, ColGyrZ, ColLabel, ColCategory, ColSet}
	idx := make(map[string]int, len(required))
	for _, col := range required {
		i, err := t.columnIndex(col)
		if err != nil {
			return nil, err
		}
		idx[col] = i
	}

	readings := make([]Reading, len(t.rows))
	for i, row := range t.rows {
		epoch, err := parseInt(row[idx[ColEpoch]])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid %s: %w", i, ColEpoch, err)
		}
		set, err := parseInt(row[idx[ColSet]])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid %s: %w", i, ColSet, err)
		}

		var channels [6]float64
		for c, col := range RawChannels {
			v, err := parseFloat(row[idx[col]])
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid %s: %w", i, col, err)
			}
			channels[c] = v
		}

		readings[i] = Reading{
			Epoch:    epoch,
			AccX:     channels[0],
			AccY:     channels[1],
			AccZ:     channels[2],
			GyrX:     channels[3],
			GyrY:     channels[4],
			GyrZ:     channels[5],
			Label:    row[idx[ColLabel]],
			Category: row[idx[ColCategory]],
			Set:      int(set),
		}
	}

	return readings, nil
}

// parseInt accepts integral values written as floats ("12.0"), which is how
// exported data frames often store integer keys.
func parseInt(s string) (int64, error) {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%q is not an integer", s)
	}
	return int64(f), nil
}

// AddMagnitudes returns a copy of t with acc_r and gyr_r computed from the raw channels
func AddMagnitudes(t *Table) (*Table, error) {
	channels := make(map[string][]float64, len(RawChannels))
	for _, col := range RawChannels {
		values, err := t.Float64s(col)
		if err != nil {
			return nil, err
		}
		channels[col] = values
	}

	accR := make([]float64, t.Len())
	gyrR := make([]float64, t.Len())
	for i := range accR {
		accR[i] = magnitude(channels[ColAccX][i], channels[ColAccY][i], channels[ColAccZ][i])
		gyrR[i] = magnitude(channels[ColGyrX][i], channels[ColGyrY][i], channels[ColGyrZ][i])
	}

	withAcc, err := t.WithColumn(ColAccR, accR)
	if err != nil {
		return nil, err
	}
	return withAcc.WithColumn(ColGyrR, gyrR)
}

func magnitude(x, y, z float64) float64 {
	return math.Sqrt(x*x + y*y + z*z)
}

// DuplicateEpochs returns the epochs that appear more than once, in first-seen order
func DuplicateEpochs(readings []Reading) []int64 {
	seen := make(map[int64]int, len(readings))
	var dups []int64
	for _, r := range readings {
		seen[r.Epoch]++
		if seen[r.Epoch] == 2 {
			dups = append(dups, r.Epoch)
		}
	}
	return dups
}

// NominalSpacing returns the median positive gap between consecutive epochs,
// or zero if there is none.
func NominalSpacing(readings []Reading) time.Duration {
	var gaps []int64
	for i := 1; i < len(readings); i++ {
		if d := readings[i].Epoch - readings[i-1].Epoch; d > 0 {
			gaps = append(gaps, d)
		}
	}
	if len(gaps) == 0 {
		return 0
	}

	sort.Slice(gaps, func(i, j int) bool { return gaps[i] < gaps[j] })
	median := gaps[len(gaps)/2]
	if len(gaps)%2 == 0 {
		median = (gaps[len(gaps)/2-1] + gaps[len(gaps)/2]) / 2
	}
	return time.Duration(median) * time.Millisecond
}
