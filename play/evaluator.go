// Package play runs a typing session against a song: it keeps the session
// state machine, classifies the timing of typed words and keeps score.
package play

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mrdg/typebeat/engine"
	"github.com/mrdg/typebeat/log"
	"github.com/mrdg/typebeat/pattern"
	"github.com/mrdg/typebeat/sched"
	"github.com/mrdg/typebeat/song"
)

var (
	ErrNotComplete = errors.New("session is not complete")
	ErrClosed      = errors.New("session is closed")
)

const (
	CountdownTicks    = 3
	CountdownInterval = time.Second

	// maxMissesPerFrame bounds the catch-up work of a single frame.
	maxMissesPerFrame = 20
	notifyInterval    = 50 * time.Millisecond
)

type State int

const (
	Idle State = iota
	Countdown
	Playing
	Paused
	Complete
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Countdown:
		return "countdown"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// Music is the accompaniment the evaluator drives. *engine.Engine
// implements it.
type Music interface {
	Start(opts engine.Options)
	Pause()
	Resume()
	Stop()
	SetRoot(root int)
	PlayRootChord(root int)
	Click(accent bool)
	OnBeat(f sched.BeatFunc) (unsubscribe func())
}

type Config struct {
	Music    Music             // optional
	Patterns *pattern.Registry // resolves the song's pattern ids
	Log      *log.Logger
	Now      func() time.Time
	Timing   *song.TimingConfig // overrides the song difficulty

	// Latency is the delay between scheduling a sound and hearing it. The
	// beat grid is moved back by it so inputs are judged against what the
	// player hears.
	Latency time.Duration
}

// Result is the outcome of a submitted word.
type Result struct {
	Timing   Timing        `json:"timing"`
	Correct  bool          `json:"correct"` // the input matched the current word
	Offset   time.Duration `json:"offset"`
	Points   int           `json:"points"`
	Expected string        `json:"expected,omitempty"`
}

// Evaluator owns the state of a session. It is not safe for concurrent use;
// see Runner for driving it from a single goroutine.
type Evaluator struct {
	music    Music
	patterns *pattern.Registry
	log      *log.Logger
	now      func() time.Time
	override *song.TimingConfig
	latency  time.Duration

	flat   *song.Flat
	words  []song.Word
	timing song.TimingConfig

	state     State
	session   uuid.UUID
	index     int
	score     int
	combo     int
	bestCombo int
	counts    Counts
	beat      int
	measure   int
	last      *Result

	countdownStart time.Time
	countdown      int
	origin         time.Time
	pausedAt       time.Time
	currentSince   time.Time // when the current word became current
	completedAt    time.Time
	offsetSum      time.Duration
	responseSum    time.Duration
	final          SongResults

	unsubscribeBeat func()
	subscribers     []subscriber
	nextID          int
	dirty           bool
	lastNotify      time.Time
}

type subscriber struct {
	id int
	f  func(Snapshot)
}

func New(cfg Config) *Evaluator {
	e := &Evaluator{
		music:    cfg.Music,
		patterns: cfg.Patterns,
		log:      cfg.Log,
		now:      cfg.Now,
		override: cfg.Timing,
		latency:  cfg.Latency,
	}
	if e.log == nil {
		e.log = log.Discard()
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.patterns == nil {
		e.patterns = pattern.NewRegistry()
	}
	return e
}

// LoadSong stops any running session and prepares s to be played.
func (e *Evaluator) LoadSong(s *song.Song) error {
	flat, err := song.Flatten(s)
	if err != nil {
		return err
	}
	timing, err := s.Difficulty.Timing()
	if err != nil {
		return err
	}
	if e.override != nil {
		if err := e.override.Validate(); err != nil {
			return err
		}
		timing = *e.override
	}
	e.Stop()
	e.flat = flat
	e.words = flat.Words
	e.timing = timing
	e.reset()
	e.log.Infof("loaded %s: %d words at %.0f bpm", s.ID, len(e.words), s.BPM)
	e.notify()
	return nil
}

func (e *Evaluator) reset() {
	e.state = Idle
	e.index = 0
	e.score = 0
	e.combo = 0
	e.bestCombo = 0
	e.counts = Counts{}
	e.beat = 0
	e.measure = 0
	e.last = nil
	e.countdown = 0
	e.offsetSum = 0
	e.responseSum = 0
	e.final = SongResults{}
}

// Start begins the countdown. A completed session is restarted.
func (e *Evaluator) Start() {
	if e.flat == nil {
		e.log.Warnf("start: no song loaded")
		return
	}
	switch e.state {
	case Idle:
	case Complete:
		e.reset()
	default:
		return
	}
	now := e.now()
	e.session = uuid.New()
	e.state = Countdown
	e.countdownStart = now
	e.countdown = CountdownTicks
	if e.music != nil {
		e.music.Click(true)
	}
	e.log.Debugf("session %s: countdown", e.session)
	e.notify()
}

// Frame advances the session to the current time. It is called from the
// frame timer while a session is active.
func (e *Evaluator) Frame() {
	now := e.now()
	switch e.state {
	case Countdown:
		e.countdownFrame(now)
	case Playing:
		e.sweep(now)
		e.checkComplete(now)
	}
	e.flush(now)
}

func (e *Evaluator) countdownFrame(now time.Time) {
	passed := int(now.Sub(e.countdownStart) / CountdownInterval)
	if passed >= CountdownTicks {
		e.beginPlaying(now)
		return
	}
	if remaining := CountdownTicks - passed; remaining != e.countdown {
		e.countdown = remaining
		if e.music != nil {
			e.music.Click(false)
		}
		e.notify()
	}
}

func (e *Evaluator) beginPlaying(now time.Time) {
	e.state = Playing
	e.countdown = 0
	e.origin = now.Add(e.latency)
	e.currentSince = now
	if e.music != nil {
		e.music.Start(e.musicOptions())
		e.unsubscribeBeat = e.music.OnBeat(func(beat, measure int, _ float64) {
			e.beat = beat
			e.measure = measure
			e.dirty = true
		})
	}
	e.log.Debugf("session %s: playing", e.session)
	e.notify()
}

func (e *Evaluator) musicOptions() engine.Options {
	s := e.flat.Song
	opts := engine.Options{BPM: s.BPM, Pad: s.Pad}
	if s.Drums != "" {
		p, err := e.patterns.Drum(s.Drums)
		if err != nil {
			e.log.Warnf("song %s: %v", s.ID, err)
		}
		opts.Drums = p
	}
	if s.Bass != "" {
		p, err := e.patterns.Bass(s.Bass)
		if err != nil {
			e.log.Warnf("song %s: %v", s.ID, err)
		}
		opts.Bass = p
	}
	return opts
}

// elapsed is the playing time since the origin, not counting pauses.
func (e *Evaluator) elapsed(now time.Time) time.Duration {
	switch e.state {
	case Playing:
		return now.Sub(e.origin)
	case Paused:
		return e.pausedAt.Sub(e.origin)
	case Complete:
		return e.completedAt.Sub(e.origin)
	default:
		return 0
	}
}

// sweep marks words whose accept window has passed as missed.
func (e *Evaluator) sweep(now time.Time) {
	elapsed := e.elapsed(now)
	for n := 0; n < maxMissesPerFrame && e.index < len(e.words); n++ {
		w := e.words[e.index]
		if elapsed <= w.Expected+e.timing.Accept {
			return
		}
		e.miss(now)
	}
}

func (e *Evaluator) miss(now time.Time) {
	e.counts.add(Miss)
	e.combo = 0
	e.advance(now)
	e.dirty = true
}

func (e *Evaluator) advance(now time.Time) {
	e.index++
	e.currentSince = now
}

func (e *Evaluator) checkComplete(now time.Time) {
	if e.state != Playing || e.index < len(e.words) {
		return
	}
	e.state = Complete
	e.completedAt = now
	e.final = e.results()
	e.stopMusic()
	e.log.Infof("session %s: complete, score %d", e.session, e.score)
	e.notify()
}

// Submit classifies input against the current word. Every call returns a
// result: input outside a playing session is a miss that changes nothing.
func (e *Evaluator) Submit(input string) Result {
	if e.state != Playing || e.index >= len(e.words) {
		return Result{Timing: Miss}
	}
	now := e.now()
	w := e.words[e.index]
	res := Result{Expected: w.Text, Offset: e.elapsed(now) - w.Expected}

	if normalize(input) != normalize(w.Text) {
		e.counts.Wrong++
		e.combo = 0
		e.record(res, now)
		return res
	}
	res.Correct = true
	res.Timing = Classify(res.Offset, e.timing)
	if !res.Timing.Hit() {
		e.combo = 0
		if res.Offset < 0 {
			// too early to count: the word stays current
			e.counts.Wrong++
		} else {
			e.counts.add(Miss)
			e.advance(now)
			e.checkComplete(now)
		}
		e.record(res, now)
		return res
	}

	res.Points = Points(res.Timing, e.combo)
	e.score += res.Points
	e.combo++
	if e.combo > e.bestCombo {
		e.bestCombo = e.combo
	}
	e.counts.add(res.Timing)
	e.offsetSum += abs(res.Offset)
	e.responseSum += now.Sub(e.responseStart(w))
	if w.Root != nil && e.music != nil {
		e.music.SetRoot(*w.Root)
		e.music.PlayRootChord(*w.Root)
	}
	e.advance(now)
	e.checkComplete(now)
	e.record(res, now)
	return res
}

// responseStart is when the player could first have typed w: when it
// became current or when its accept window opened, whichever is later.
func (e *Evaluator) responseStart(w song.Word) time.Time {
	opens := e.origin.Add(w.Expected - e.timing.Accept)
	if opens.After(e.currentSince) {
		return opens
	}
	return e.currentSince
}

func (e *Evaluator) record(res Result, now time.Time) {
	e.last = &res
	e.dirty = true
	e.flush(now)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func abs(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

func (e *Evaluator) Pause() {
	if e.state != Playing {
		return
	}
	e.pausedAt = e.now()
	e.state = Paused
	if e.music != nil {
		e.music.Pause()
	}
	e.notify()
}

// Resume continues a paused session. The time spent paused is added to the
// origin so elapsed time continues where it stopped.
func (e *Evaluator) Resume() {
	if e.state != Paused {
		return
	}
	paused := e.now().Sub(e.pausedAt)
	e.origin = e.origin.Add(paused)
	e.currentSince = e.currentSince.Add(paused)
	e.state = Playing
	if e.music != nil {
		e.music.Resume()
	}
	e.notify()
}

// Stop ends the session and returns to idle. The loaded song is kept.
func (e *Evaluator) Stop() {
	if e.state == Idle {
		return
	}
	e.stopMusic()
	e.reset()
	e.notify()
}

func (e *Evaluator) stopMusic() {
	if e.unsubscribeBeat != nil {
		e.unsubscribeBeat()
		e.unsubscribeBeat = nil
	}
	if e.music != nil {
		e.music.Stop()
	}
}

// Results returns the results of a completed session.
func (e *Evaluator) Results() (SongResults, error) {
	if e.state != Complete {
		return SongResults{}, ErrNotComplete
	}
	return e.final, nil
}

func (e *Evaluator) State() State { return e.state }

// Subscribe registers f to receive snapshots when the state changes. Changes
// within a playing session are delivered at most every 50ms, changes of the
// state itself immediately.
func (e *Evaluator) Subscribe(f func(Snapshot)) (unsubscribe func()) {
	id := e.nextID
	e.nextID++
	e.subscribers = append(e.subscribers, subscriber{id: id, f: f})
	return func() {
		for i, s := range e.subscribers {
			if s.id == id {
				e.subscribers = append(e.subscribers[:i:i], e.subscribers[i+1:]...)
				return
			}
		}
	}
}

// flush delivers pending changes if the throttle interval has passed.
func (e *Evaluator) flush(now time.Time) {
	if e.dirty && now.Sub(e.lastNotify) >= notifyInterval {
		e.notify()
	}
}

func (e *Evaluator) notify() {
	now := e.now()
	e.dirty = false
	e.lastNotify = now
	if len(e.subscribers) == 0 {
		return
	}
	snap := e.snapshot(now)
	for _, s := range e.subscribers {
		s.f(snap)
	}
}
