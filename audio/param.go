package audio

import (
	"math"
	"sort"
)

type rampKind int

const (
	rampSet rampKind = iota
	rampLinear
	rampExponential
)

// minExpValue keeps exponential ramps away from zero, where they are undefined.
const minExpValue = 1e-4

type automation struct {
	kind  rampKind
	at    float64
	value float64
}

// Param is a value automated over the lifetime of a voice. Times are seconds
// relative to the voice start. A ramp runs from the previous event (or from the
// initial value at time 0) to its own time and value.
type Param struct {
	value  float64
	events []automation
}

func NewParam(value float64) *Param {
	return &Param{value: value}
}

func (p *Param) SetValueAt(value, at float64) *Param {
	return p.add(automation{kind: rampSet, at: at, value: value})
}

func (p *Param) LinearRampTo(value, at float64) *Param {
	return p.add(automation{kind: rampLinear, at: at, value: value})
}

func (p *Param) ExponentialRampTo(value, at float64) *Param {
	return p.add(automation{kind: rampExponential, at: at, value: math.Max(value, minExpValue)})
}

// CancelAfter removes all events scheduled after t.
func (p *Param) CancelAfter(t float64) *Param {
	i := sort.Search(len(p.events), func(i int) bool { return p.events[i].at > t })
	p.events = p.events[:i]
	return p
}

func (p *Param) add(a automation) *Param {
	i := sort.Search(len(p.events), func(i int) bool { return p.events[i].at > a.at })
	p.events = append(p.events, automation{})
	copy(p.events[i+1:], p.events[i:])
	p.events[i] = a
	return p
}

// At returns the value at time t.
func (p *Param) At(t float64) float64 {
	prevAt, prevValue := 0.0, p.value
	for _, ev := range p.events {
		if ev.at <= t {
			prevAt, prevValue = ev.at, ev.value
			continue
		}
		span := ev.at - prevAt
		if span <= 0 {
			return prevValue
		}
		frac := (t - prevAt) / span
		switch ev.kind {
		case rampLinear:
			return prevValue + (ev.value-prevValue)*frac
		case rampExponential:
			from := math.Max(prevValue, minExpValue)
			return from * math.Pow(ev.value/from, frac)
		default:
			return prevValue
		}
	}
	return prevValue
}

// decay returns a gain curve starting at peak and falling exponentially to
// silence at length.
func decay(peak, length float64) *Param {
	return NewParam(peak).
		SetValueAt(peak, 0).
		ExponentialRampTo(minExpValue, length).
		SetValueAt(0, length)
}
