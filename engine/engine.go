// Package engine plays the background music of a session: drums and bass
// from patterns through the lookahead scheduler, an optional pad drone and
// one-shot chord blends.
package engine

import (
	"fmt"
	"sync/atomic"

	"github.com/mrdg/typebeat/audio"
	"github.com/mrdg/typebeat/log"
	"github.com/mrdg/typebeat/pattern"
	"github.com/mrdg/typebeat/sched"
)

// chordBase is the frequency of root 0 for chord blends (A3).
const chordBase = 220.0

type Options struct {
	BPM   float64
	Drums *pattern.DrumPattern
	Bass  *pattern.BassPattern
	Pad   bool
}

// Graph is the part of *audio.Graph the engine uses.
type Graph interface {
	Now() float64
	SampleRate() float64
	Schedule(v audio.Voice, bus audio.Bus, at float64)
	Silence()
	Set(key string, value interface{}) error
	Get(key string) (interface{}, error)
}

type state int

const (
	stopped state = iota
	playing
	paused
)

// Engine is not safe for concurrent use. All methods are called from the
// session's control goroutine; only the musical root is read by the audio
// goroutine.
type Engine struct {
	log   *log.Logger
	graph Graph
	sched *sched.Scheduler

	opts    Options
	state   state
	pad     *audio.PadVoice
	root    atomic.Int64
	samples map[pattern.DrumSound]*audio.Sample
}

func New(logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Discard()
	}
	return &Engine{
		log:     logger,
		samples: make(map[pattern.DrumSound]*audio.Sample),
	}
}

// Initialize attaches the engine to the graph it schedules voices on.
func (e *Engine) Initialize(g Graph) {
	e.graph = g
	e.sched = sched.New(g, e)
}

func (e *Engine) initialized() bool { return e.graph != nil }

// Start begins playback with the first beat at the current audio clock
// time. A running session is stopped first.
func (e *Engine) Start(opts Options) {
	if !e.initialized() {
		e.log.Warnf("engine: start called before initialize")
		return
	}
	if opts.BPM <= 0 {
		e.log.Warnf("engine: invalid tempo %v", opts.BPM)
		return
	}
	if e.state != stopped {
		e.Stop()
	}
	e.opts = opts
	e.state = playing
	e.sched.Start(sched.Config{BPM: opts.BPM, Drums: opts.Drums, Bass: opts.Bass}, e.graph.Now())
	if opts.Pad {
		e.startPad()
	}
	e.log.Debugf("engine: started at %.1f bpm", opts.BPM)
	e.sched.Tick()
}

// Tick runs one lookahead pass. It is called from the control timer.
func (e *Engine) Tick() int {
	if !e.initialized() || e.state != playing {
		return 0
	}
	return e.sched.Tick()
}

func (e *Engine) Pause() {
	if e.state != playing {
		return
	}
	e.state = paused
	e.sched.Pause()
	e.graph.Silence()
	e.stopPad()
}

func (e *Engine) Resume() {
	if e.state != paused {
		return
	}
	e.state = playing
	shift := e.sched.Resume()
	if e.opts.Pad {
		e.startPad()
	}
	e.log.Debugf("engine: resumed after %.2fs", shift)
	e.sched.Tick()
}

// Stop ends playback. Voices that already sound decay on their own. Calling
// Stop on a stopped engine does nothing.
func (e *Engine) Stop() {
	if e.state == stopped {
		return
	}
	e.state = stopped
	e.sched.Stop()
	e.graph.Silence()
	e.stopPad()
	e.log.Debugf("engine: stopped")
}

func (e *Engine) Playing() bool { return e.state == playing }

func (e *Engine) Paused() bool { return e.state == paused }

func (e *Engine) startPad() {
	e.stopPad()
	e.pad = audio.NewPad(e.graph.SampleRate(), e.Root)
	e.graph.Schedule(e.pad, audio.BusPad, e.graph.Now())
}

func (e *Engine) stopPad() {
	if e.pad != nil {
		e.pad.Release()
		e.pad = nil
	}
}

// SetRoot changes the musical root in semitones. Bass notes scheduled from
// now on and the pad follow it.
func (e *Engine) SetRoot(root int) { e.root.Store(int64(root)) }

func (e *Engine) Root() int { return int(e.root.Load()) }

// OnBeat registers a beat listener, see sched.BeatFunc.
func (e *Engine) OnBeat(f sched.BeatFunc) (unsubscribe func()) {
	if !e.initialized() {
		return func() {}
	}
	return e.sched.OnBeat(f)
}

// Position returns the number of beats scheduled and the current measure.
func (e *Engine) Position() (beat, measure int) {
	if !e.initialized() {
		return 0, 0
	}
	return e.sched.Position()
}

// PlayChordBlend plays the given frequencies once, now, on the fx bus.
func (e *Engine) PlayChordBlend(freqs ...float64) {
	if !e.initialized() {
		e.log.Warnf("engine: chord blend before initialize")
		return
	}
	e.graph.Schedule(audio.NewChordBlend(e.graph.SampleRate(), 1, freqs...), audio.BusFX, e.graph.Now())
}

// PlayRootChord plays a major triad over root.
func (e *Engine) PlayRootChord(root int) {
	e.PlayChordBlend(RootTriad(root)...)
}

// RootTriad returns the frequencies of a major triad over root.
func RootTriad(root int) []float64 {
	freqs := make([]float64, 3)
	for i, interval := range []int{0, 4, 7} {
		freqs[i] = chordBase * audio.SemitonesToRatio(float64(root+interval))
	}
	return freqs
}

// Click plays a countdown click.
func (e *Engine) Click(accent bool) {
	if !e.initialized() {
		return
	}
	velocity := 0.6
	if accent {
		velocity = 1
	}
	e.graph.Schedule(audio.NewRim(e.graph.SampleRate(), velocity), audio.BusFX, e.graph.Now())
}

// PlayDrum implements sched.Player.
func (e *Engine) PlayDrum(hit pattern.DrumHit, at float64) {
	e.graph.Schedule(e.drumVoice(hit), audio.BusDrums, at)
}

func (e *Engine) drumVoice(hit pattern.DrumHit) audio.Voice {
	if s, ok := e.samples[hit.Sound]; ok {
		return audio.NewSampleVoice(s, hit.Velocity)
	}
	sr := e.graph.SampleRate()
	switch hit.Sound {
	case pattern.Kick:
		return audio.NewKick(sr, hit.Velocity)
	case pattern.Snare:
		return audio.NewSnare(sr, hit.Velocity)
	case pattern.HiHat:
		return audio.NewHiHat(sr, hit.Velocity, false)
	case pattern.OpenHat:
		return audio.NewHiHat(sr, hit.Velocity, true)
	case pattern.Clap:
		return audio.NewClap(sr, hit.Velocity)
	default:
		return audio.NewRim(sr, hit.Velocity)
	}
}

// PlayBass implements sched.Player.
func (e *Engine) PlayBass(note pattern.BassNote, at, beatDuration float64) {
	semitones := note.Interval
	if e.opts.Bass != nil && e.opts.Bass.FollowsRoot {
		semitones += e.Root()
	}
	e.graph.Schedule(audio.NewBass(e.graph.SampleRate(), audio.BassNote{
		Semitones: float64(semitones),
		Velocity:  note.Velocity,
		Length:    note.Duration * beatDuration,
	}), audio.BusBass, at)
}

// LoadSample replaces the synthesized voice of sound with a WAV file.
func (e *Engine) LoadSample(sound pattern.DrumSound, file string) error {
	s, err := audio.LoadSample(file)
	if err != nil {
		return fmt.Errorf("load sample for %s: %w", sound, err)
	}
	e.samples[sound] = s
	return nil
}

// Volume bus names accepted by SetVolume.
var volumeProps = map[string]string{
	"master": audio.PropMaster,
	"drums":  audio.PropDrums,
	"bass":   audio.PropBass,
	"pad":    audio.PropPad,
}

// SetVolume sets the level of a bus (master, drums, bass or pad) in [0, 1].
func (e *Engine) SetVolume(bus string, v float64) error {
	if !e.initialized() {
		return fmt.Errorf("engine not initialized")
	}
	prop, ok := volumeProps[bus]
	if !ok {
		return fmt.Errorf("unknown bus: %s", bus)
	}
	return e.graph.Set(prop, v)
}

func (e *Engine) SetMasterVolume(v float64) error { return e.SetVolume("master", v) }
func (e *Engine) SetDrumVolume(v float64) error   { return e.SetVolume("drums", v) }
func (e *Engine) SetBassVolume(v float64) error   { return e.SetVolume("bass", v) }
func (e *Engine) SetPadVolume(v float64) error    { return e.SetVolume("pad", v) }

// Volume returns the level of a bus.
func (e *Engine) Volume(bus string) (float64, error) {
	if !e.initialized() {
		return 0, fmt.Errorf("engine not initialized")
	}
	prop, ok := volumeProps[bus]
	if !ok {
		return 0, fmt.Errorf("unknown bus: %s", bus)
	}
	v, err := e.graph.Get(prop)
	if err != nil {
		return 0, err
	}
	return v.(float64), nil
}
