package audio

// BassBaseFreq is the frequency of interval 0 at root 0 (A1).
const BassBaseFreq = 55.0

const (
	bassCutoff    = 600.0
	bassResonance = 6.0
)

// BassNote describes a single bass note. Length is the sustain time in
// seconds before the release stage starts.
type BassNote struct {
	Semitones float64 // offset from BassBaseFreq
	Velocity  float64
	Length    float64
}

// BassVoice is a sawtooth through a resonant lowpass filter shaped by an ADSR
// envelope.
type BassVoice struct {
	osc      *Oscillator
	filter   *Filter
	env      *envelope
	buf      []float64
	dt       float64
	t        float64
	duration int // samples until release
	played   int
	released bool
}

func NewBass(sampleRate float64, note BassNote) *BassVoice {
	v := &BassVoice{
		osc:      NewOscillator(Sawtooth, BassBaseFreq*SemitonesToRatio(note.Semitones)),
		filter:   NewFilter(Lowpass, bassCutoff, bassResonance, sampleRate),
		env:      &envelope{attack: 0.005, decay: 0.1, sustain: 0.7, release: 0.08},
		dt:       1 / sampleRate,
		duration: int(note.Length * sampleRate),
	}
	v.env.startAttack(sampleRate, 0.5*note.Velocity)
	return v
}

// Freq returns the oscillator frequency of the note.
func (v *BassVoice) Freq() float64 { return v.osc.Freq.At(0) }

func (v *BassVoice) Process(buf []float64) bool {
	if cap(v.buf) < len(buf) {
		v.buf = make([]float64, len(buf))
	}
	tmp := v.buf[:len(buf)]
	for n := range tmp {
		tmp[n] = v.osc.Next(v.t, v.dt)
		v.t += v.dt
	}
	v.filter.process(tmp)
	for n := range tmp {
		if !v.released && v.played >= v.duration {
			v.released = true
			v.env.startRelease()
		}
		buf[n] += tmp[n] * v.env.value()
		v.played++
	}
	return !v.env.done()
}
