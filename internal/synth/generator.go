package synth

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/smukkama/lift-analyzer/internal/dataset"
)

// Columns is the header of generated recordings
var Columns = []string{
	dataset.ColEpoch,
	dataset.ColAccX, dataset.ColAccY, dataset.ColAccZ,
	dataset.ColGyrX, dataset.ColGyrY, dataset.ColGyrZ,
	"participant", dataset.ColLabel, dataset.ColCategory, dataset.ColSet,
}

// Recording describes one synthetic set. The vertical acceleration follows
// one cosine period per repetition, starting and ending at a trough. When a
// repetition spans an even number of samples the clean signal has exactly
// Reps interior maxima.
type Recording struct {
	Participant string
	Label       string
	Category    string
	Set         int
	Reps        int
	RepDuration time.Duration
	// NoiseAmplitude and NoiseFrequency (Hz) add a sinusoidal disturbance
	// to the vertical acceleration.
	NoiseAmplitude float64
	NoiseFrequency float64
}

// Samples returns the number of rows the recording produces at spacing
func (r Recording) Samples(spacing time.Duration) int {
	return int(time.Duration(r.Reps) * r.RepDuration / spacing)
}

// Generate renders recordings back to back, sampled every spacing starting
// at startEpoch milliseconds.
func Generate(startEpoch int64, spacing time.Duration, recordings ...Recording) (*dataset.Table, error) {
	if spacing <= 0 {
		return nil, fmt.Errorf("sample spacing must be positive, got %v", spacing)
	}

	var rows [][]string
	epoch := startEpoch
	step := spacing.Milliseconds()

	for _, rec := range recordings {
		if rec.Reps < 1 || rec.RepDuration < spacing {
			return nil, fmt.Errorf("set %d: need at least one repetition longer than the sample spacing", rec.Set)
		}

		period := rec.RepDuration.Seconds()
		for i := 0; i < rec.Samples(spacing); i++ {
			ts := float64(i) * spacing.Seconds()
			phase := 2 * math.Pi * ts / period

			accY := 1 - 0.5*math.Cos(phase)
			if rec.NoiseAmplitude != 0 {
				accY += rec.NoiseAmplitude * math.Sin(2*math.Pi*rec.NoiseFrequency*ts)
			}

			rows = append(rows, []string{
				strconv.FormatInt(epoch, 10),
				format(0.02),
				format(accY),
				format(-0.05),
				format(20 * math.Sin(phase)),
				format(-5 * math.Sin(phase)),
				format(2 * math.Cos(phase)),
				rec.Participant,
				rec.Label,
				rec.Category,
				strconv.Itoa(rec.Set),
			})
			epoch += step
		}
	}

	return dataset.New(append([]string(nil), Columns...), rows)
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
