package audio

import (
	"math"
	"sync/atomic"
)

// Voice is a single-use sound. A voice is scheduled once on a Graph, rendered
// by the audio goroutine until it reports completion, and then discarded.
type Voice interface {
	// Process adds the next len(buf) samples of the voice to buf. It returns
	// false once the voice has finished and can be dropped.
	Process(buf []float64) bool
}

// Layer is one source of a Tone: a source, an optional filter and a gain
// curve, optionally delayed relative to the tone start.
type Layer struct {
	Source Source
	Filter *Filter
	Gain   *Param
	Delay  float64
}

// Tone is a Voice built from layers that ends at a fixed stop time.
type Tone struct {
	layers  []Layer
	dt      float64
	t       float64
	stop    float64
	stopReq atomic.Uint64 // Float64bits(t)+1 of the first Stop call, 0 if none
}

func NewTone(sampleRate, length float64, layers ...Layer) *Tone {
	return &Tone{
		layers: layers,
		dt:     1 / sampleRate,
		stop:   length,
	}
}

func (v *Tone) Process(buf []float64) bool {
	if r := v.stopReq.Load(); r != 0 {
		if t := math.Float64frombits(r - 1); t < v.stop {
			v.stop = t
		}
	}
	for n := range buf {
		if v.t >= v.stop {
			return false
		}
		var sum float64
		for i := range v.layers {
			l := &v.layers[i]
			lt := v.t - l.Delay
			if lt < 0 {
				continue
			}
			x := l.Source.Next(lt, v.dt)
			if l.Filter != nil {
				x = l.Filter.Tick(x)
			}
			sum += x * l.Gain.At(lt)
		}
		buf[n] += sum
		v.t += v.dt
	}
	return v.t < v.stop
}

// Stop ends the tone at t seconds after its start if that is earlier than its
// current stop time. Only the first call has an effect, later calls are
// ignored. Safe to call while the tone is being rendered.
func (v *Tone) Stop(t float64) {
	v.stopReq.CompareAndSwap(0, math.Float64bits(math.Max(t, 0))+1)
}
