// Package sched places drum and bass events on the audio clock ahead of time.
//
// Tick is called from a coarse control timer. Every call schedules the beats
// that start before Now()+ScheduleAhead on the clock, so playback accuracy
// depends on the audio clock and not on the timer.
package sched

import (
	"github.com/mrdg/typebeat/pattern"
)

const (
	DefaultScheduleAhead = 0.1
	DefaultMaxIterations = 10
)

// Clock is the audio clock in seconds.
type Clock interface {
	Now() float64
}

// Player turns pattern events into sounds starting at a clock time.
type Player interface {
	PlayDrum(hit pattern.DrumHit, at float64)
	PlayBass(note pattern.BassNote, at, beatDuration float64)
}

// BeatFunc is called for every scheduled beat with the beat within its
// measure, the measure index since Start and the scheduled clock time in ms.
type BeatFunc func(beatInMeasure, measure int, scheduledTimeMs float64)

type Config struct {
	BPM   float64
	Drums *pattern.DrumPattern // optional
	Bass  *pattern.BassPattern // optional
}

type Scheduler struct {
	ScheduleAhead float64 // seconds
	MaxIterations int     // beats scheduled per Tick at most

	clock  Clock
	player Player
	cfg    Config

	running  bool
	paused   bool
	pausedAt float64

	nextTime    float64 // clock time of the next beat to schedule
	beat        int     // beats scheduled since Start
	measure     int
	drumMeasure int // measure within the drum loop
	bassMeasure int
	ahead       []float64 // times of scheduled beats that may still have events to start

	// the beat that was sounding at Pause; its remaining events are
	// scheduled again on Resume
	partial     bool
	partialAt   float64
	partialFrom float64 // offset into the beat in seconds

	listeners []listener
	nextID    int
}

type listener struct {
	id int
	f  BeatFunc
}

func New(clock Clock, player Player) *Scheduler {
	return &Scheduler{
		ScheduleAhead: DefaultScheduleAhead,
		MaxIterations: DefaultMaxIterations,
		clock:         clock,
		player:        player,
	}
}

// Start schedules the first beat at time at and resets the position.
func (s *Scheduler) Start(cfg Config, at float64) {
	s.cfg = cfg
	s.running = true
	s.paused = false
	s.nextTime = at
	s.beat = 0
	s.measure = 0
	s.drumMeasure = 0
	s.bassMeasure = 0
	s.ahead = s.ahead[:0]
	s.partial = false
}

func (s *Scheduler) Stop() {
	s.running = false
	s.paused = false
	s.ahead = s.ahead[:0]
	s.partial = false
}

func (s *Scheduler) Running() bool { return s.running }

func (s *Scheduler) Paused() bool { return s.paused }

func (s *Scheduler) BeatDuration() float64 {
	if s.cfg.BPM <= 0 {
		return 0
	}
	return 60 / s.cfg.BPM
}

// Position returns the number of beats scheduled and the current measure.
func (s *Scheduler) Position() (beat, measure int) { return s.beat, s.measure }

// NextTime is the clock time of the next beat to be scheduled.
func (s *Scheduler) NextTime() float64 { return s.nextTime }

// Tick schedules all beats inside the lookahead horizon and returns how
// many were scheduled. At most MaxIterations beats are scheduled per call,
// so a stalled timer catches up over several ticks.
func (s *Scheduler) Tick() int {
	if !s.running || s.paused {
		return 0
	}
	beatDur := s.BeatDuration()
	if beatDur <= 0 {
		return 0
	}
	now := s.clock.Now()
	s.prune(now, beatDur)

	var n int
	for s.nextTime < now+s.ScheduleAhead && n < s.MaxIterations {
		s.scheduleBeat(beatDur)
		s.ahead = append(s.ahead, s.nextTime)
		s.nextTime += beatDur
		s.advance()
		n++
	}
	return n
}

func (s *Scheduler) scheduleBeat(beatDur float64) {
	s.scheduleEvents(s.nextTime, beatDur, -1)
	beatInMeasure := s.beat % pattern.BeatsPerMeasure
	for _, l := range s.listeners {
		l.f(beatInMeasure, s.measure, s.nextTime*1000)
	}
}

// scheduleEvents plays the events of the current beat that start more than
// from seconds into it, with the beat starting at at.
func (s *Scheduler) scheduleEvents(at, beatDur, from float64) {
	beatInMeasure := s.beat % pattern.BeatsPerMeasure
	if p := s.cfg.Drums; p != nil {
		for _, hit := range p.HitsAt(s.drumMeasure*pattern.BeatsPerMeasure + beatInMeasure) {
			if offset := hit.Subdivision * beatDur; offset > from {
				s.player.PlayDrum(hit, at+offset)
			}
		}
	}
	if p := s.cfg.Bass; p != nil {
		for _, note := range p.NotesAt(s.bassMeasure*pattern.BeatsPerMeasure + beatInMeasure) {
			if offset := note.Subdivision * beatDur; offset > from {
				s.player.PlayBass(note, at+offset, beatDur)
			}
		}
	}
}

func (s *Scheduler) advance() {
	s.beat++
	if s.beat%pattern.BeatsPerMeasure != 0 {
		return
	}
	s.measure++
	if p := s.cfg.Drums; p != nil {
		s.drumMeasure = (s.drumMeasure + 1) % p.MeasuresPerLoop
	}
	if p := s.cfg.Bass; p != nil {
		s.bassMeasure = (s.bassMeasure + 1) % p.MeasuresPerLoop
	}
}

func (s *Scheduler) retreat() {
	if s.beat%pattern.BeatsPerMeasure == 0 {
		s.measure--
		if p := s.cfg.Drums; p != nil {
			s.drumMeasure = (s.drumMeasure + p.MeasuresPerLoop - 1) % p.MeasuresPerLoop
		}
		if p := s.cfg.Bass; p != nil {
			s.bassMeasure = (s.bassMeasure + p.MeasuresPerLoop - 1) % p.MeasuresPerLoop
		}
	}
	s.beat--
}

// prune forgets beats that ended before now.
func (s *Scheduler) prune(now, beatDur float64) {
	i := 0
	for i < len(s.ahead) && s.ahead[i]+beatDur <= now {
		i++
	}
	s.ahead = append(s.ahead[:0], s.ahead[i:]...)
}

// Pause stops scheduling at the current clock time. Beats that were
// scheduled but have not started yet are rewound, so they are scheduled
// again after Resume, and so are the remaining events of the beat that is
// sounding. The caller is expected to drop their pending voices.
func (s *Scheduler) Pause() {
	if !s.running || s.paused {
		return
	}
	now := s.clock.Now()
	s.paused = true
	s.pausedAt = now
	for len(s.ahead) > 0 && s.ahead[len(s.ahead)-1] > now {
		s.nextTime = s.ahead[len(s.ahead)-1]
		s.ahead = s.ahead[:len(s.ahead)-1]
		s.retreat()
	}
	s.partial = false
	if n := len(s.ahead); n > 0 && now < s.ahead[n-1]+s.BeatDuration() {
		s.partial = true
		s.partialAt = s.ahead[n-1]
		s.partialFrom = now - s.ahead[n-1]
	}
}

// Resume continues after Pause. The beat grid is shifted forward by the time
// spent paused, so the phase of the next beat relative to the clock is kept.
// It returns the shift in seconds.
func (s *Scheduler) Resume() float64 {
	if !s.running || !s.paused {
		return 0
	}
	shift := s.clock.Now() - s.pausedAt
	s.paused = false
	s.nextTime += shift
	for i := range s.ahead {
		s.ahead[i] += shift
	}
	if s.partial {
		s.partial = false
		s.retreat()
		s.scheduleEvents(s.partialAt+shift, s.BeatDuration(), s.partialFrom)
		s.advance()
	}
	return shift
}

// OnBeat registers f for beat notifications. Listeners are called in the
// order they were added, from the goroutine that calls Tick.
func (s *Scheduler) OnBeat(f BeatFunc) (unsubscribe func()) {
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, listener{id: id, f: f})
	return func() {
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}
