package audio

type envelopeState int

const (
	stateInit envelopeState = iota
	stateAttack
	stateDecay
	stateSustain
	stateRelease
)

// envelope is a linear ADSR generator advanced once per sample. Stage
// lengths are in seconds, sustain is a level in [0, 1].
type envelope struct {
	attack  float64
	decay   float64
	sustain float64
	release float64

	attackRate  float64
	decayRate   float64
	releaseRate float64

	sampleRate float64
	peak       float64

	val   float64
	state envelopeState
}

func (e *envelope) value() float64 {
	switch e.state {
	case stateInit:
		return 0.
	case stateAttack:
		e.val += e.attackRate
		if e.val >= e.peak {
			e.val = e.peak
			if e.decayRate > 0 {
				e.state = stateDecay
			} else {
				e.state = stateSustain
			}
		}
	case stateDecay:
		e.val -= e.decayRate
		if e.val <= e.sustain*e.peak {
			e.val = e.sustain * e.peak
			e.state = stateSustain
		}
	case stateSustain:
		if e.sustain == 0 {
			e.state = stateInit
		} else {
			e.val = e.sustain * e.peak
		}
	case stateRelease:
		e.val -= e.releaseRate
		if e.val <= 0 {
			e.val = 0
			e.state = stateInit
		}
	}
	return e.val
}

func (e *envelope) startAttack(sampleRate, peak float64) {
	e.sampleRate = sampleRate
	e.peak = peak
	e.val = 0
	e.state = stateAttack
	e.attackRate = peak / (e.attack * sampleRate)
	e.decayRate = 0
	if e.decay > 0 {
		e.decayRate = peak * (1 - e.sustain) / (e.decay * sampleRate)
	}
}

func (e *envelope) startRelease() {
	if e.state == stateRelease || e.state == stateInit {
		return
	}
	if e.release <= 0 || e.val <= 0 {
		e.val = 0
		e.state = stateInit
		return
	}
	e.state = stateRelease
	e.releaseRate = e.val / (e.release * e.sampleRate)
}

func (e *envelope) done() bool { return e.state == stateInit }
