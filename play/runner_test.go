package play

import (
	"errors"
	"reflect"
	"sync/atomic"
	"testing"
	"time"
)

type countTicker struct{ n atomic.Int64 }

func (c *countTicker) Tick() int {
	c.n.Add(1)
	return 0
}

func TestRunnerSubmit(t *testing.T) {
	c := newClock()
	direct := New(Config{Now: c.now})
	driven := New(Config{Now: c.now})
	r := NewRunner(driven, nil, nil)
	defer r.Close()

	if err := direct.LoadSong(testSong("one", "two")); err != nil {
		t.Fatal(err)
	}
	if err := r.LoadSong(testSong("one", "two")); err != nil {
		t.Fatal(err)
	}
	direct.Start()
	if err := r.Start(); err != nil {
		t.Fatal(err)
	}
	c.add(CountdownTicks * CountdownInterval)
	direct.Frame()
	if err := r.Do(driven.Frame); err != nil {
		t.Fatal(err)
	}

	c.add(4030 * time.Millisecond)
	want := direct.Submit("one")
	got, err := r.Submit("one")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Errorf("want %+v, got %+v", want, got)
	}
	s, err := r.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if want, got := direct.Snapshot().Score, s.Score; want != got {
		t.Errorf("want score %d, got %d", want, got)
	}
	if _, err := r.Results(); !errors.Is(err, ErrNotComplete) {
		t.Errorf("want ErrNotComplete, got %v", err)
	}
}

func TestRunnerTicks(t *testing.T) {
	tick := &countTicker{}
	r := NewRunner(New(Config{}), tick, nil)
	time.Sleep(10 * LookaheadInterval)
	r.Close()
	if tick.n.Load() == 0 {
		t.Error("lookahead ticker never ran")
	}
}

func TestRunnerClose(t *testing.T) {
	c := newClock()
	e := New(Config{Now: c.now})
	r := NewRunner(e, nil, nil)
	if err := r.LoadSong(testSong("one")); err != nil {
		t.Fatal(err)
	}
	var states []State
	if _, err := r.Subscribe(func(s Snapshot) { states = append(states, s.State) }); err != nil {
		t.Fatal(err)
	}
	if err := r.Start(); err != nil {
		t.Fatal(err)
	}

	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
	if want, got := Idle, e.State(); want != got {
		t.Errorf("want session stopped on close, got %v", got)
	}
	if want, got := []State{Countdown, Idle}, states; !reflect.DeepEqual(want, got) {
		t.Errorf("want %v, got %v", want, got)
	}
	if _, err := r.Submit("one"); !errors.Is(err, ErrClosed) {
		t.Errorf("want ErrClosed, got %v", err)
	}
	if err := r.Pause(); !errors.Is(err, ErrClosed) {
		t.Errorf("want ErrClosed, got %v", err)
	}
}
