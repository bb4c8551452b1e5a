package audio

import (
	"fmt"
	"math"
	"sync/atomic"
	"time"
)

const (
	SampleRate = 44100
	BufferSize = 512
)

// Bus is a submix of the graph with its own level.
type Bus int

const (
	BusDrums Bus = iota
	BusBass
	BusPad
	BusFX
	numBuses
)

var busNames = [numBuses]string{"drums", "bass", "pad", "fx"}

func (b Bus) String() string {
	if b < 0 || b >= numBuses {
		return fmt.Sprintf("bus(%d)", int(b))
	}
	return busNames[b]
}

const (
	PropMaster = "master"
	PropDrums  = "drums"
	PropBass   = "bass"
	PropPad    = "pad"
	PropFX     = "fx"
)

// Graph mixes scheduled voices into the output. Schedule and the property
// setters are called from the control goroutine, Mix from the audio
// goroutine. The graph clock is the number of frames mixed so far.
type Graph struct {
	*Props
	sampleRate float64

	events *eventBuffer
	master *atomic.Value
	levels [numBuses]*atomic.Value

	// owned by the audio goroutine
	pending  []event
	active   []event
	buses    [numBuses][]float64
	buf      []float64

	frames    atomic.Uint64
	lastBlock atomic.Uint64
	stamp     atomic.Int64 // nanoseconds since epoch at the end of the last Mix
	silence   atomic.Uint32
	realtime  atomic.Bool
	epoch     time.Time
}

func NewGraph(sampleRate float64) *Graph {
	props := NewProps()
	g := &Graph{
		Props:      props,
		sampleRate: sampleRate,
		events:     newEventBuffer(256),
		master:     props.MustRegister(PropMaster, SetLevel, 0.8),
		epoch:      time.Now(),
	}
	g.levels[BusDrums] = props.MustRegister(PropDrums, SetLevel, 0.9)
	g.levels[BusBass] = props.MustRegister(PropBass, SetLevel, 0.7)
	g.levels[BusPad] = props.MustRegister(PropPad, SetLevel, 0.5)
	g.levels[BusFX] = props.MustRegister(PropFX, SetLevel, 0.6)
	return g
}

func (g *Graph) SampleRate() float64 { return g.sampleRate }

// Now returns the audio clock in seconds. When a device drives the graph the
// frame count is interpolated with the wall time elapsed since the last
// callback, clamped to one block, so the clock advances smoothly between
// callbacks while staying locked to the device.
func (g *Graph) Now() float64 {
	t := float64(g.frames.Load()) / g.sampleRate
	if !g.realtime.Load() {
		return t
	}
	since := time.Since(g.epoch) - time.Duration(g.stamp.Load())
	if since < 0 {
		since = 0
	}
	block := time.Duration(float64(g.lastBlock.Load()) / g.sampleRate * float64(time.Second))
	if since > block {
		since = block
	}
	return t + since.Seconds()
}

// SetRealtime marks the graph as driven by a device callback.
func (g *Graph) SetRealtime(realtime bool) { g.realtime.Store(realtime) }

// Schedule starts v on bus at time at (seconds on the graph clock). Voices
// scheduled in the past start at the beginning of the next block.
func (g *Graph) Schedule(v Voice, bus Bus, at float64) {
	if bus < 0 || bus >= numBuses {
		bus = BusFX
	}
	var start uint64
	if at > 0 {
		start = uint64(math.Round(at * g.sampleRate))
	}
	g.events.push(event{start: start, bus: bus, voice: v, gen: g.silence.Load()})
}

// Silence drops voices that are scheduled but have not started yet. Sounding
// voices are left to decay, and voices scheduled after Silence play as usual.
func (g *Graph) Silence() { g.silence.Add(1) }

// Mix renders the next len(out) frames of the mono mix into out.
func (g *Graph) Mix(out []float64) {
	n := len(out)
	now := g.frames.Load()
	end := now + uint64(n)

	g.events.drain(func(ev event) {
		g.pending = append(g.pending, ev)
	})
	gen := g.silence.Load()

	kept := g.pending[:0]
	for _, ev := range g.pending {
		if ev.gen != gen {
			continue
		}
		if ev.start < end {
			g.active = append(g.active, ev)
		} else {
			kept = append(kept, ev)
		}
	}
	clearEvents(g.pending[len(kept):])
	g.pending = kept

	for b := range g.buses {
		if cap(g.buses[b]) < n {
			g.buses[b] = make([]float64, n)
		}
		g.buses[b] = g.buses[b][:n]
		for i := range g.buses[b] {
			g.buses[b][i] = 0
		}
	}

	kept = g.active[:0]
	for _, ev := range g.active {
		var offset int
		if ev.start > now {
			offset = int(ev.start - now)
		}
		if ev.voice.Process(g.buses[ev.bus][offset:]) {
			kept = append(kept, ev)
		}
	}
	clearEvents(g.active[len(kept):])
	g.active = kept

	var levels [numBuses]float64
	for b := range levels {
		levels[b] = g.levels[b].Load().(float64)
	}
	master := g.master.Load().(float64)
	for i := range out {
		var sum float64
		for b := range g.buses {
			sum += g.buses[b][i] * levels[b]
		}
		out[i] = clamp(sum * master)
	}

	g.frames.Add(uint64(n))
	g.lastBlock.Store(uint64(n))
	g.stamp.Store(int64(time.Since(g.epoch)))
}

// Process renders stereo output for a non-interleaved device callback.
func (g *Graph) Process(out [][]float32) {
	if len(out) == 0 {
		return
	}
	n := len(out[0])
	if cap(g.buf) < n {
		g.buf = make([]float64, n)
	}
	buf := g.buf[:n]
	g.Mix(buf)
	for _, ch := range out {
		for i := range ch {
			ch[i] = float32(buf[i])
		}
	}
}

// Render mixes frames of audio offline, calling tick with the graph clock
// before every block. It is used for file rendering and tests.
func (g *Graph) Render(frames int, tick func(now float64)) []float64 {
	out := make([]float64, frames)
	for i := 0; i < frames; i += BufferSize {
		j := i + BufferSize
		if j > frames {
			j = frames
		}
		if tick != nil {
			tick(g.Now())
		}
		g.Mix(out[i:j])
	}
	return out
}

// Active reports the number of voices that are sounding or waiting to start.
// It must only be called from the goroutine that calls Mix.
func (g *Graph) Active() int { return len(g.active) + len(g.pending) }

func clearEvents(events []event) {
	for i := range events {
		events[i] = event{}
	}
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	} else if v < -1 {
		return -1
	}
	return v
}
