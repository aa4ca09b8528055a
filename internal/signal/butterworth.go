package signal

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
)

// ErrInputTooShort is returned when a series is not longer than the padding
// used for zero-phase filtering.
var ErrInputTooShort = errors.New("input too short for filter")

// section is one second-order section in transposed direct form II,
// normalized so that a0 = 1.
type section struct {
	b0, b1, b2 float64
	a1, a2     float64
}

// steadyState returns the section state after a long run of unit input
func (s section) steadyState() (z1, z2 float64) {
	y := (s.b0 + s.b1 + s.b2) / (1 + s.a1 + s.a2)
	z2 = s.b2 - s.a2*y
	z1 = s.b1 - s.a1*y + z2
	return z1, z2
}

// Butterworth is a digital low-pass Butterworth filter built from cascaded
// second-order sections with unity gain at DC.
type Butterworth struct {
	order             int
	cutoff            float64
	samplingFrequency float64
	sections          []section
}

// NewButterworth designs a low-pass filter of the given order with its -3 dB
// point at cutoff Hz for a signal sampled at samplingFrequency Hz.
func NewButterworth(order int, cutoff, samplingFrequency float64) (*Butterworth, error) {
	if order < 1 {
		return nil, fmt.Errorf("filter order must be at least 1, got %d", order)
	}
	if samplingFrequency <= 0 {
		return nil, fmt.Errorf("sampling frequency must be positive, got %v", samplingFrequency)
	}
	nyquist := samplingFrequency / 2
	if cutoff <= 0 || cutoff >= nyquist {
		return nil, fmt.Errorf("cutoff %v Hz must be in (0, %v) for sampling frequency %v Hz", cutoff, nyquist, samplingFrequency)
	}

	// Bilinear transform with the analog prototype prewarped so that the
	// digital response is -3 dB exactly at cutoff. Frequencies are normalized
	// to a sampling rate of 2, as Wn = cutoff/nyquist.
	wn := cutoff / nyquist
	warped := 4 * math.Tan(math.Pi*wn/2)

	bilinear := func(s complex128) complex128 {
		return (4 + s) / (4 - s)
	}

	var sections []section
	for k := 0; k < order/2; k++ {
		theta := math.Pi/2 + math.Pi*float64(2*k+1)/float64(2*order)
		pole := bilinear(complex(warped*math.Cos(theta), warped*math.Sin(theta)))

		// conjugate pole pair, double zero at z = -1
		sections = append(sections, normalize(section{
			b0: 1, b1: 2, b2: 1,
			a1: -2 * real(pole),
			a2: cmplx.Abs(pole) * cmplx.Abs(pole),
		}))
	}
	if order%2 == 1 {
		pole := real(bilinear(complex(-warped, 0)))
		sections = append(sections, normalize(section{
			b0: 1, b1: 1,
			a1: -pole,
		}))
	}

	return &Butterworth{
		order:             order,
		cutoff:            cutoff,
		samplingFrequency: samplingFrequency,
		sections:          sections,
	}, nil
}

// normalize scales the numerator so the section has unity DC gain
func normalize(s section) section {
	g := (1 + s.a1 + s.a2) / (s.b0 + s.b1 + s.b2)
	s.b0 *= g
	s.b1 *= g
	s.b2 *= g
	return s
}

// PadLength is the number of samples added at each end by FiltFilt
func (f *Butterworth) PadLength() int {
	return 3 * (f.order + 1)
}

// Filter runs the cascade once over x, starting from the steady state for a
// constant input equal to x[0].
func (f *Butterworth) Filter(x []float64) []float64 {
	y := append([]float64(nil), x...)
	if len(y) == 0 {
		return y
	}

	x0 := y[0]
	for _, s := range f.sections {
		z1, z2 := s.steadyState()
		z1 *= x0
		z2 *= x0
		for i, in := range y {
			out := s.b0*in + z1
			z1 = s.b1*in - s.a1*out + z2
			z2 = s.b2*in - s.a2*out
			y[i] = out
		}
	}
	return y
}

// FiltFilt applies the filter forward and backward, giving a zero-phase result
// of the same length as x. The ends are extended by odd reflection.
func (f *Butterworth) FiltFilt(x []float64) ([]float64, error) {
	n := len(x)
	pad := f.PadLength()
	if n <= pad {
		return nil, fmt.Errorf("%w: %d samples, need more than %d", ErrInputTooShort, n, pad)
	}

	ext := make([]float64, 0, n+2*pad)
	for i := pad; i > 0; i-- {
		ext = append(ext, 2*x[0]-x[i])
	}
	ext = append(ext, x...)
	for i := n - 2; i >= n-1-pad; i-- {
		ext = append(ext, 2*x[n-1]-x[i])
	}

	y := f.Filter(ext)
	floats.Reverse(y)
	y = f.Filter(y)
	floats.Reverse(y)

	return y[pad : pad+n], nil
}
