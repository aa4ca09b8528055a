package reps

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/smukkama/lift-analyzer/internal/dataset"
	"github.com/smukkama/lift-analyzer/internal/signal"
	"github.com/smukkama/lift-analyzer/internal/synth"
	"github.com/smukkama/lift-analyzer/pkg/config"
)

// passThrough copies the column unchanged, as a filter whose cutoff is far
// above every frequency in the data would.
type passThrough struct {
	calls []string
}

func (p *passThrough) Filter(data *dataset.Table, column string, fs, cutoff float64, order int) (*dataset.Table, error) {
	p.calls = append(p.calls, column)
	values, err := data.Float64s(column)
	if err != nil {
		return nil, err
	}
	return data.WithColumn(column+LowPassSuffix, values)
}

type failingFilter struct{}

func (failingFilter) Filter(*dataset.Table, string, float64, float64, int) (*dataset.Table, error) {
	return nil, errors.New("filter unavailable")
}

func mustRead(t *testing.T, s string) *dataset.Table {
	t.Helper()
	tbl, err := dataset.Read(strings.NewReader(s))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	return tbl
}

func TestCounter_PassThroughExample(t *testing.T) {
	tbl := mustRead(t, "acc_r\n0\n1\n0\n-1\n0\n1\n0\n-1\n0\n")
	filter := &passThrough{}
	counter := NewCounter(filter, PeakFinderFunc(signal.LocalMaxima), 5)

	n, err := counter.Count(tbl, DefaultParams())
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 peaks, got %d", n)
	}
	if len(filter.calls) != 1 || filter.calls[0] != "acc_r" {
		t.Errorf("Expected one filter call on acc_r, got %v", filter.calls)
	}
}

func TestCounter_UsesInjectedPeakFinder(t *testing.T) {
	tbl := mustRead(t, "gyr_x\n1\n2\n3\n")
	var seen []float64
	peaks := PeakFinderFunc(func(values []float64) []int {
		seen = values
		return []int{0, 1, 2, 3}
	})
	counter := NewCounter(&passThrough{}, peaks, 5)

	n, err := counter.Count(tbl, Params{Cutoff: 1, Order: 2, Column: "gyr_x"})
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 4 {
		t.Errorf("Expected 4, got %d", n)
	}
	if len(seen) != 3 || seen[2] != 3 {
		t.Errorf("Peak finder saw %v", seen)
	}
}

func TestCounter_FilterError(t *testing.T) {
	tbl := mustRead(t, "acc_r\n1\n2\n")
	counter := NewCounter(failingFilter{}, PeakFinderFunc(signal.LocalMaxima), 5)

	if _, err := counter.Count(tbl, DefaultParams()); err == nil {
		t.Fatal("Expected filter error to propagate")
	}
}

func synthSet(t *testing.T, noise float64) *dataset.Table {
	t.Helper()
	tbl, err := synth.Generate(0, 200*time.Millisecond, synth.Recording{
		Participant:    "A",
		Label:          "bench",
		Category:       "heavy",
		Set:            1,
		Reps:           5,
		RepDuration:    4 * time.Second,
		NoiseAmplitude: noise,
		NoiseFrequency: 2,
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	withMag, err := dataset.AddMagnitudes(tbl)
	if err != nil {
		t.Fatalf("AddMagnitudes failed: %v", err)
	}
	return withMag
}

func TestCounter_SyntheticSinusoid(t *testing.T) {
	set := synthSet(t, 0.15)
	counter := NewDefaultCounter(SamplingFrequency(200 * time.Millisecond))

	tests := []struct {
		name   string
		params Params
	}{
		{name: "default", params: DefaultParams()},
		{name: "low order", params: Params{Cutoff: 0.6, Order: 4, Column: dataset.ColAccR}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := counter.Count(set, tt.params)
			if err != nil {
				t.Fatalf("Count failed: %v", err)
			}
			if n != 5 {
				t.Errorf("Expected 5 reps, got %d", n)
			}
		})
	}
}

func TestCounter_UnderSmoothingExposesNoise(t *testing.T) {
	set := synthSet(t, 0.15)
	counter := NewDefaultCounter(SamplingFrequency(200 * time.Millisecond))

	n, err := counter.Count(set, Params{Cutoff: 2.4, Order: 4, Column: dataset.ColAccR})
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n <= 5 {
		t.Errorf("Expected more than 5 peaks with cutoff near Nyquist, got %d", n)
	}
}

func TestCounter_ShortSetFails(t *testing.T) {
	tbl := mustRead(t, "acc_r\n0\n1\n0\n-1\n0\n1\n0\n-1\n0\n")
	counter := NewDefaultCounter(5)

	_, err := counter.Count(tbl, DefaultParams())
	if !errors.Is(err, signal.ErrInputTooShort) {
		t.Fatalf("Expected ErrInputTooShort, got %v", err)
	}
}

func TestSamplingFrequency(t *testing.T) {
	if got := SamplingFrequency(200 * time.Millisecond); got != 5 {
		t.Errorf("Expected 5 Hz, got %v", got)
	}
	if got := SamplingFrequency(0); got != 0 {
		t.Errorf("Expected 0 for zero spacing, got %v", got)
	}
	if got := NewDefaultCounter(SamplingFrequency(40 * time.Millisecond)).SamplingFrequency(); got != 25 {
		t.Errorf("Expected counter at 25 Hz, got %v", got)
	}
}

const sessionCSV = `epoch (ms),acc_x,acc_y,acc_z,gyr_x,gyr_y,gyr_z,label,category,set
1,0,1,0,0,0,0,squat,medium,10
2,0,1,0,0,0,0,bench,heavy,2
3,0,1,0,0,0,0,rest,sitting,3
4,0,1,0,0,0,0,bench,heavy,2
5,0,1,0,0,0,0,bench,medium,11
6,0,1,0,0,0,0,dead,heavy,9
7,0,1,0,0,0,0,bench,heavy,10
`

func TestBuildBenchmark(t *testing.T) {
	tbl := mustRead(t, sessionCSV)
	tbl, err := ExcludeLabel(tbl, "rest")
	if err != nil {
		t.Fatalf("ExcludeLabel failed: %v", err)
	}
	readings, err := dataset.ParseReadings(tbl)
	if err != nil {
		t.Fatalf("ParseReadings failed: %v", err)
	}

	rows := BuildBenchmark(readings)

	want := []BenchmarkRow{
		{SetKey: SetKey{Label: "bench", Category: "heavy", Set: 2}, Reps: 5},
		{SetKey: SetKey{Label: "bench", Category: "heavy", Set: 10}, Reps: 5},
		{SetKey: SetKey{Label: "bench", Category: "medium", Set: 11}, Reps: 10},
		{SetKey: SetKey{Label: "dead", Category: "heavy", Set: 9}, Reps: 5},
		{SetKey: SetKey{Label: "squat", Category: "medium", Set: 10}, Reps: 10},
	}
	if len(rows) != len(want) {
		t.Fatalf("Expected %d rows, got %d: %v", len(want), len(rows), rows)
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("Row %d: expected %+v, got %+v", i, want[i], rows[i])
		}
	}
}

func TestAssumedReps(t *testing.T) {
	for _, category := range []string{"heavy", "medium", "sitting", "", "Heavy"} {
		want := 10
		if category == "heavy" {
			want = 5
		}
		if got := AssumedReps(category); got != want {
			t.Errorf("AssumedReps(%q) = %d, want %d", category, got, want)
		}
	}
}

func TestSplitSets(t *testing.T) {
	tbl := mustRead(t, sessionCSV)

	keys, sets, err := SplitSets(tbl)
	if err != nil {
		t.Fatalf("SplitSets failed: %v", err)
	}
	if len(keys) != 6 {
		t.Fatalf("Expected 6 sets, got %d", len(keys))
	}
	if keys[0] != (SetKey{Label: "bench", Category: "heavy", Set: 2}) {
		t.Errorf("Unexpected first key %v", keys[0])
	}
	if n := sets[keys[0]].Len(); n != 2 {
		t.Errorf("Expected 2 rows in %v, got %d", keys[0], n)
	}
}

func TestProfilesFromConfig(t *testing.T) {
	profiles := ProfilesFromConfig(config.RepsConfig{
		Cutoff: 0.4,
		Order:  10,
		Column: "acc_r",
		Profiles: map[string]config.ProfileConfig{
			"squat": {Cutoff: 0.35, Order: 10},
			"row":   {Cutoff: 0.65, Order: 10, Column: "gyr_x"},
		},
	})

	if got := profiles.ParamsFor("bench"); got != DefaultParams() {
		t.Errorf("Expected default params for bench, got %+v", got)
	}
	if got := profiles.ParamsFor("squat"); got.Cutoff != 0.35 || got.Column != "acc_r" {
		t.Errorf("Unexpected squat params %+v", got)
	}
	if got := profiles.ParamsFor("row"); got.Column != "gyr_x" {
		t.Errorf("Unexpected row params %+v", got)
	}
}

func TestEstimateSets(t *testing.T) {
	tbl, err := synth.Generate(0, 200*time.Millisecond,
		synth.Recording{Label: "bench", Category: "heavy", Set: 1, Reps: 5, RepDuration: 4 * time.Second},
		synth.Recording{Label: "squat", Category: "medium", Set: 2, Reps: 10, RepDuration: 3 * time.Second},
	)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	tbl, err = dataset.AddMagnitudes(tbl)
	if err != nil {
		t.Fatalf("AddMagnitudes failed: %v", err)
	}

	profiles := Profiles{Default: DefaultParams()}
	estimates, err := EstimateSets(NewDefaultCounter(5), tbl, profiles)
	if err != nil {
		t.Fatalf("EstimateSets failed: %v", err)
	}

	if len(estimates) != 2 {
		t.Fatalf("Expected 2 estimates, got %d", len(estimates))
	}
	if estimates[0].Label != "bench" || estimates[0].Reps != 5 || estimates[0].Samples != 100 {
		t.Errorf("Unexpected bench estimate %+v", estimates[0])
	}
	if estimates[1].Label != "squat" || estimates[1].Reps != 10 {
		t.Errorf("Unexpected squat estimate %+v", estimates[1])
	}
}

func TestPrintBenchmark(t *testing.T) {
	var buf bytes.Buffer
	opts := PrintOptions{Writer: &buf, Precision: 2, Padding: 2}

	err := PrintBenchmark(opts, []BenchmarkRow{
		{SetKey: SetKey{Label: "bench", Category: "heavy", Set: 2}, Reps: 5},
	})
	if err != nil {
		t.Fatalf("PrintBenchmark failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected header and one row, got %q", buf.String())
	}
	if fields := strings.Fields(lines[1]); strings.Join(fields, " ") != "0 bench heavy 2 5" {
		t.Errorf("Unexpected row %q", lines[1])
	}
}

func TestPrintEstimates(t *testing.T) {
	var buf bytes.Buffer
	opts := PrintOptions{Writer: &buf, Precision: 2, Padding: 1}

	err := PrintEstimates(opts, []Estimate{{
		SetKey:  SetKey{Label: "row", Category: "medium", Set: 4},
		Params:  Params{Cutoff: 0.65, Order: 10, Column: "gyr_x"},
		Samples: 120,
		Reps:    9,
	}})
	if err != nil {
		t.Fatalf("PrintEstimates failed: %v", err)
	}

	if !strings.Contains(buf.String(), "0.65") || !strings.Contains(buf.String(), "gyr_x") {
		t.Errorf("Missing settings in output %q", buf.String())
	}
}
