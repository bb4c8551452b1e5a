package audio

const (
	chordAttack  = 0.01
	ChordRelease = 1.2
)

// NewChordBlend is a one-shot overlay of the given frequencies with a fast
// attack and an exponential release.
func NewChordBlend(sampleRate, velocity float64, freqs ...float64) *Tone {
	if len(freqs) == 0 {
		return NewTone(sampleRate, 0)
	}
	peak := 0.3 * velocity / float64(len(freqs))
	layers := make([]Layer, 0, 2*len(freqs))
	for _, f := range freqs {
		layers = append(layers,
			Layer{Source: NewOscillator(Triangle, f), Gain: blendGain(peak)},
			Layer{Source: NewOscillator(Sine, 2*f), Gain: blendGain(0.3 * peak)},
		)
	}
	return NewTone(sampleRate, chordAttack+ChordRelease, layers...)
}

func blendGain(peak float64) *Param {
	return NewParam(0).
		SetValueAt(0, 0).
		LinearRampTo(peak, chordAttack).
		ExponentialRampTo(minExpValue, chordAttack+ChordRelease)
}
