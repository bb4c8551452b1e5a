package audio

import (
	"context"
	"testing"
)

func TestEventBufferDrainOrder(t *testing.T) {
	buf := newEventBuffer(8)
	buf.push(event{start: 3})
	buf.push(event{start: 2})

	var events []event
	buf.drain(func(ev event) {
		events = append(events, ev)
	})
	if want, got := 2, len(events); want != got {
		t.Fatalf("expected %v events, got %v", want, got)
	}
	if events[0].start != 3 || events[1].start != 2 {
		t.Errorf("events not drained in push order: %+v", events)
	}

	events = events[:0]
	buf.drain(func(ev event) {
		events = append(events, ev)
	})
	if want, got := 0, len(events); want != got {
		t.Errorf("expected zero events after drain, got %v", got)
	}
}

func TestEventBuffer(t *testing.T) {
	buf := newEventBuffer(8)

	done := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())

	var events []event
	go func() {
		for {
			select {
			case <-ctx.Done():
				buf.drain(func(ev event) {
					events = append(events, ev)
				})
				done <- struct{}{}
				return
			default:
				buf.drain(func(ev event) {
					events = append(events, ev)
				})
			}
		}
	}()

	const numEvents = 1_000_000
	for n := 0; n < numEvents; n++ {
		buf.push(event{start: uint64(n)})
	}

	cancel()
	<-done

	if len(events) != numEvents {
		t.Errorf("wrong number of events: want %v, got %v", numEvents, len(events))
	}

	prev := -1
	for _, ev := range events {
		if want, got := uint64(prev+1), ev.start; want != got {
			t.Errorf("discontinuous event start: want: %v, got %v", want, got)
		}
		prev++
	}
}

func TestEventBufferSizeMustBePowerOfTwo(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for size 6")
		}
	}()
	newEventBuffer(6)
}
