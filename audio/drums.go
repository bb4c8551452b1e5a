package audio

// Drum voice lengths in seconds.
const (
	KickLength       = 0.25
	SnareLength      = 0.15
	ClosedHatLength  = 0.04
	OpenHatLength    = 0.2
	RimLength        = 0.03
	clapBurstSpacing = 0.01
)

// NewKick is a sine swept from 150 Hz to 40 Hz over 80 ms, decaying to silence
// by 250 ms.
func NewKick(sampleRate, velocity float64) *Tone {
	osc := NewOscillator(Sine, 150)
	osc.Freq.SetValueAt(150, 0).ExponentialRampTo(40, 0.08)
	return NewTone(sampleRate, KickLength, Layer{
		Source: osc,
		Gain:   decay(velocity, KickLength),
	})
}

// NewSnare layers a high-passed noise burst with a short triangle tone.
func NewSnare(sampleRate, velocity float64) *Tone {
	return NewTone(sampleRate, SnareLength,
		Layer{
			Source: NewNoise(),
			Filter: NewFilter(Highpass, 1000, 0.7, sampleRate),
			Gain:   decay(0.6*velocity, SnareLength),
		},
		Layer{
			Source: NewOscillator(Triangle, 180),
			Gain:   decay(0.5*velocity, 0.08),
		},
	)
}

// NewHiHat is a high-passed noise burst, 200 ms when open and 40 ms when closed.
func NewHiHat(sampleRate, velocity float64, open bool) *Tone {
	length := ClosedHatLength
	if open {
		length = OpenHatLength
	}
	return NewTone(sampleRate, length, Layer{
		Source: NewNoise(),
		Filter: NewFilter(Highpass, 7000, 0.7, sampleRate),
		Gain:   decay(0.35*velocity, length),
	})
}

// NewRim is a short sine blip.
func NewRim(sampleRate, velocity float64) *Tone {
	return NewTone(sampleRate, RimLength, Layer{
		Source: NewOscillator(Sine, 800),
		Gain:   decay(0.5*velocity, RimLength),
	})
}

// NewClap is three band-passed noise bursts 10 ms apart, the last one with a
// longer tail.
func NewClap(sampleRate, velocity float64) *Tone {
	var layers []Layer
	for i := 0; i < 3; i++ {
		length := 0.03
		if i == 2 {
			length = 0.12
		}
		layers = append(layers, Layer{
			Source: NewNoise(),
			Filter: NewFilter(Bandpass, 1500, 1.2, sampleRate),
			Gain:   decay(0.7*velocity, length),
			Delay:  float64(i) * clapBurstSpacing,
		})
	}
	return NewTone(sampleRate, 2*clapBurstSpacing+0.12, layers...)
}
