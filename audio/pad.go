package audio

import (
	"math"
	"sync/atomic"
)

const (
	PadFadeIn  = 1.5
	PadFadeOut = 0.5
	padGlide   = 0.05
	padLevel   = 0.12
)

// padNote is A2; the voicing is a major seventh chord above the root.
const padNote = 45

var padVoicing = [4]struct {
	semitones float64
	wave      Waveform
	detune    float64
}{
	{0, Sine, -7},
	{4, Triangle, 7},
	{7, Sine, -5},
	{11, Triangle, 5},
}

// PadVoice is a sustained drone of four detuned oscillators. It follows the
// musical root returned by root and plays until Release is called.
type PadVoice struct {
	oscs     [4]*Oscillator
	root     func() int
	gain     *Param
	dt       float64
	t        float64
	semis    float64 // current, gliding toward root()
	release  atomic.Bool
	released bool
	stop     float64
}

func NewPad(sampleRate float64, root func() int) *PadVoice {
	v := &PadVoice{
		root: root,
		gain: NewParam(0).SetValueAt(0, 0).LinearRampTo(padLevel, PadFadeIn),
		dt:   1 / sampleRate,
		stop: math.Inf(1),
	}
	v.semis = float64(root())
	for i, n := range padVoicing {
		osc := NewOscillator(n.wave, midiToFreq(padNote)*SemitonesToRatio(n.semitones))
		osc.Detune = n.detune
		v.oscs[i] = osc
	}
	return v
}

// Release starts the fade-out. Calls after the first are ignored.
func (v *PadVoice) Release() {
	v.release.Store(true)
}

func (v *PadVoice) Process(buf []float64) bool {
	if !v.released && v.release.Load() {
		v.released = true
		current := v.gain.At(v.t)
		v.gain.CancelAfter(v.t).SetValueAt(current, v.t).LinearRampTo(0, v.t+PadFadeOut)
		v.stop = v.t + PadFadeOut
	}
	target := float64(v.root())
	coeff := 1 - math.Exp(-v.dt/padGlide)
	for n := range buf {
		if v.t >= v.stop {
			return false
		}
		v.semis += (target - v.semis) * coeff
		ratio := SemitonesToRatio(v.semis)
		var sum float64
		for _, osc := range v.oscs {
			// the oscillator frequency params are static, transposition
			// is applied by scaling the sample period
			sum += osc.Next(v.t, v.dt*ratio)
		}
		buf[n] += sum * v.gain.At(v.t) / float64(len(v.oscs))
		v.t += v.dt
	}
	return v.t < v.stop
}
