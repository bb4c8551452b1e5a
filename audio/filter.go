package audio

import "math"

type FilterType int

const (
	Lowpass FilterType = iota
	Highpass
	Bandpass
)

const numCoefficients = 5

// Filter is a biquad filter based on https://www.w3.org/2011/audio/audio-eq-cookbook.html
type Filter struct {
	typ          FilterType
	coefficients [numCoefficients]float64

	// state
	y1, y2 float64 // y[n-1] y[n-2]
}

func NewFilter(typ FilterType, freq, q, sampleRate float64) *Filter {
	f := &Filter{typ: typ}
	f.calculateCoefficients(freq, q, sampleRate)
	return f
}

// Tick filters a single sample.
func (f *Filter) Tick(in float64) float64 {
	c := &f.coefficients
	out := c[0]*in + f.y1
	f.y1 = c[1]*in - c[3]*out + f.y2
	f.y2 = c[2]*in - c[4]*out
	return out
}

func (f *Filter) process(buf []float64) {
	for n := range buf {
		buf[n] = f.Tick(buf[n])
	}
}

func (f *Filter) calculateCoefficients(freq, q, sampleRate float64) {
	if nyquist := sampleRate / 2; freq >= nyquist {
		freq = nyquist * 0.99
	}
	if q <= 0 {
		q = math.Sqrt2 / 2
	}
	omega := 2 * math.Pi * freq / sampleRate
	cos := math.Cos(omega)
	sin := math.Sin(omega)
	alpha := sin / (2. * q)

	var b0, b1, b2 float64
	switch f.typ {
	case Highpass:
		b0 = (1 + cos) / 2
		b1 = -(1 + cos)
		b2 = b0
	case Bandpass:
		b0 = alpha
		b1 = 0
		b2 = -alpha
	default:
		b0 = (1 - cos) / 2
		b1 = 1 - cos
		b2 = b0
	}
	a0 := 1 + alpha
	a1 := -2 * cos
	a2 := 1 - alpha

	f.coefficients[0] = b0 / a0
	f.coefficients[1] = b1 / a0
	f.coefficients[2] = b2 / a0
	f.coefficients[3] = a1 / a0
	f.coefficients[4] = a2 / a0
}
