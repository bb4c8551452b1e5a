package play

import (
	"context"
	"sync"
	"time"

	"github.com/mrdg/typebeat/log"
	"github.com/mrdg/typebeat/song"
)

const (
	FrameInterval     = 16 * time.Millisecond
	LookaheadInterval = 25 * time.Millisecond
)

// Ticker is the lookahead pass of the accompaniment, see engine.Engine.Tick.
type Ticker interface {
	Tick() int
}

// Runner owns the control goroutine of a session. The evaluator and the
// music engine are only touched from that goroutine: the frame timer drives
// the evaluator, the lookahead timer the engine, and requests from other
// goroutines are run between ticks.
type Runner struct {
	eval *Evaluator
	tick Ticker
	log  *log.Logger

	reqs   chan func()
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// NewRunner starts the control goroutine. tick may be nil when there is no
// accompaniment.
func NewRunner(e *Evaluator, tick Ticker, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Discard()
	}
	ctx, cancel := context.WithCancel(context.Background())
	r := &Runner{
		eval:   e,
		tick:   tick,
		log:    logger,
		reqs:   make(chan func()),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go r.run()
	return r
}

func (r *Runner) run() {
	defer close(r.done)
	frames := time.NewTicker(FrameInterval)
	defer frames.Stop()
	lookahead := time.NewTicker(LookaheadInterval)
	defer lookahead.Stop()

	for {
		select {
		case <-frames.C:
			r.eval.Frame()
		case <-lookahead.C:
			if r.tick != nil {
				r.tick.Tick()
			}
		case f := <-r.reqs:
			f()
		case <-r.ctx.Done():
			r.eval.Stop()
			return
		}
	}
}

// Do runs f on the control goroutine and waits for it to return.
func (r *Runner) Do(f func()) error {
	finished := make(chan struct{})
	select {
	case r.reqs <- func() { f(); close(finished) }:
	case <-r.ctx.Done():
		return ErrClosed
	}
	<-finished
	return nil
}

func (r *Runner) LoadSong(s *song.Song) error {
	var err error
	if derr := r.Do(func() { err = r.eval.LoadSong(s) }); derr != nil {
		return derr
	}
	return err
}

func (r *Runner) Start() error  { return r.Do(r.eval.Start) }
func (r *Runner) Pause() error  { return r.Do(r.eval.Pause) }
func (r *Runner) Resume() error { return r.Do(r.eval.Resume) }
func (r *Runner) Stop() error   { return r.Do(r.eval.Stop) }

func (r *Runner) Submit(input string) (Result, error) {
	var res Result
	err := r.Do(func() { res = r.eval.Submit(input) })
	return res, err
}

func (r *Runner) Snapshot() (Snapshot, error) {
	var s Snapshot
	err := r.Do(func() { s = r.eval.Snapshot() })
	return s, err
}

func (r *Runner) Results() (SongResults, error) {
	var (
		res SongResults
		err error
	)
	if derr := r.Do(func() { res, err = r.eval.Results() }); derr != nil {
		return res, derr
	}
	return res, err
}

// Subscribe registers f with the evaluator. f runs on the control goroutine
// and must not call back into the runner.
func (r *Runner) Subscribe(f func(Snapshot)) (unsubscribe func(), err error) {
	var unsub func()
	if err := r.Do(func() { unsub = r.eval.Subscribe(f) }); err != nil {
		return func() {}, err
	}
	return func() { r.Do(unsub) }, nil
}

// Close stops the session and the control goroutine. It can be called more
// than once.
func (r *Runner) Close() error {
	r.once.Do(func() {
		r.cancel()
		<-r.done
		r.log.Debugf("runner: closed")
	})
	return nil
}
