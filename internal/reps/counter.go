package reps

import (
	"fmt"
	"time"

	"github.com/smukkama/lift-analyzer/internal/dataset"
	"github.com/smukkama/lift-analyzer/internal/signal"
)

// LowPassSuffix is appended to a column name to name its smoothed copy
const LowPassSuffix = "_lowpass"

// Filter adds a low-pass filtered copy of column, named column+LowPassSuffix
type Filter interface {
	Filter(data *dataset.Table, column string, samplingFrequency, cutoffFrequency float64, order int) (*dataset.Table, error)
}

// PeakFinder returns the indices of the local maxima of a series
type PeakFinder interface {
	FindLocalMaxima(values []float64) []int
}

// PeakFinderFunc adapts a function to the PeakFinder interface
type PeakFinderFunc func(values []float64) []int

func (f PeakFinderFunc) FindLocalMaxima(values []float64) []int {
	return f(values)
}

// LowPassFilter is the Filter backed by a zero-phase Butterworth filter
type LowPassFilter struct{}

func (LowPassFilter) Filter(data *dataset.Table, column string, samplingFrequency, cutoffFrequency float64, order int) (*dataset.Table, error) {
	lp, err := signal.NewButterworth(order, cutoffFrequency, samplingFrequency)
	if err != nil {
		return nil, err
	}

	values, err := data.Float64s(column)
	if err != nil {
		return nil, err
	}

	smoothed, err := lp.FiltFilt(values)
	if err != nil {
		return nil, fmt.Errorf("failed to filter %s: %w", column, err)
	}

	return data.WithColumn(column+LowPassSuffix, smoothed)
}

// Params are the tunable counter settings for one exercise
type Params struct {
	Cutoff float64 `json:"cutoff"`
	Order  int     `json:"order"`
	Column string  `json:"column"`
}

// DefaultParams returns the settings used when no exercise profile applies
func DefaultParams() Params {
	return Params{Cutoff: 0.4, Order: 10, Column: dataset.ColAccR}
}

// SamplingFrequency converts a nominal sample spacing to Hz (200ms -> 5 Hz)
func SamplingFrequency(spacing time.Duration) float64 {
	if spacing <= 0 {
		return 0
	}
	return float64(time.Second) / float64(spacing)
}

// Counter estimates repetitions as the number of local maxima of a smoothed signal
type Counter struct {
	filter            Filter
	peaks             PeakFinder
	samplingFrequency float64
}

// NewCounter creates a counter for recordings sampled at samplingFrequency Hz
func NewCounter(filter Filter, peaks PeakFinder, samplingFrequency float64) *Counter {
	return &Counter{
		filter:            filter,
		peaks:             peaks,
		samplingFrequency: samplingFrequency,
	}
}

// NewDefaultCounter creates a counter using LowPassFilter and signal.LocalMaxima
func NewDefaultCounter(samplingFrequency float64) *Counter {
	return NewCounter(LowPassFilter{}, PeakFinderFunc(signal.LocalMaxima), samplingFrequency)
}

// SamplingFrequency returns the rate the counter assumes, in Hz
func (c *Counter) SamplingFrequency() float64 {
	return c.samplingFrequency
}

// Count returns the estimated repetition count of one set. The result is a
// heuristic; peaks are not guaranteed to match real repetitions.
func (c *Counter) Count(set *dataset.Table, p Params) (int, error) {
	filtered, err := c.filter.Filter(set, p.Column, c.samplingFrequency, p.Cutoff, p.Order)
	if err != nil {
		return 0, fmt.Errorf("failed to smooth %s: %w", p.Column, err)
	}

	smoothed, err := filtered.Float64s(p.Column + LowPassSuffix)
	if err != nil {
		return 0, fmt.Errorf("filter output: %w", err)
	}

	return len(c.peaks.FindLocalMaxima(smoothed)), nil
}
