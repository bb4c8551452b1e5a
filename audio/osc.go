package audio

import (
	"math"
	"math/rand"
	"sync/atomic"
)

const twoPi = 2 * math.Pi

type Waveform int

const (
	Sine Waveform = iota
	Square
	Sawtooth
	Triangle
)

func (w Waveform) String() string {
	switch w {
	case Sine:
		return "sine"
	case Square:
		return "square"
	case Sawtooth:
		return "saw"
	case Triangle:
		return "triangle"
	default:
		return "unknown"
	}
}

// Source produces one sample per call. t is the time in seconds since the
// source started and dt the sample period.
type Source interface {
	Next(t, dt float64) float64
}

// Oscillator is a periodic source with an automatable frequency.
type Oscillator struct {
	Wave   Waveform
	Freq   *Param
	Detune float64 // cents

	phase float64
}

func NewOscillator(wave Waveform, freq float64) *Oscillator {
	return &Oscillator{Wave: wave, Freq: NewParam(freq)}
}

func (o *Oscillator) Next(t, dt float64) float64 {
	freq := o.Freq.At(t)
	if o.Detune != 0 {
		freq *= centsToRatio(o.Detune)
	}
	v := waveValue(o.Wave, o.phase)
	o.phase += twoPi * freq * dt
	for o.phase >= twoPi {
		o.phase -= twoPi
	}
	return v
}

func waveValue(w Waveform, phase float64) float64 {
	switch w {
	case Square:
		if phase <= math.Pi {
			return 1.0
		}
		return -1.0
	case Sawtooth:
		return (2.0 * phase / twoPi) - 1.
	case Triangle:
		v := 2.0 * phase / twoPi // 0..2
		if v < 1 {
			return 2*v - 1
		}
		return 3 - 2*v
	default:
		return math.Sin(phase)
	}
}

var noiseSeed atomic.Int64

// Noise is a white noise source. Each instance has its own generator so the
// audio goroutine never contends on the global one.
type Noise struct {
	rng *rand.Rand
}

func NewNoise() *Noise {
	return &Noise{rng: rand.New(rand.NewSource(noiseSeed.Add(1)))}
}

func (n *Noise) Next(_, _ float64) float64 {
	return n.rng.Float64()*2 - 1
}

func centsToRatio(cents float64) float64 {
	return math.Pow(2, cents/1200)
}

// SemitonesToRatio converts an interval in semitones to a frequency ratio.
func SemitonesToRatio(semitones float64) float64 {
	return math.Pow(2, semitones/12)
}

func midiToFreq(note int) float64 {
	return math.Pow(2, float64((note-69))/12.0) * 440
}
