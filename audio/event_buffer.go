package audio

import (
	"runtime"
	"sync/atomic"
)

// event hands a scheduled voice from the control goroutine to the audio goroutine.
type event struct {
	start uint64 // absolute start position in frames on the graph clock
	bus   Bus
	voice Voice
	gen   uint32 // silence generation the voice was scheduled in
}

// eventBuffer is a lock-free spsc queue.
type eventBuffer struct {
	events      []event
	read, write *uint32
}

func newEventBuffer(size int) *eventBuffer {
	if size <= 0 || size&(size-1) != 0 {
		panic("event buffer size must be a power of 2")
	}
	return &eventBuffer{
		events: make([]event, size),
		read:   new(uint32),
		write:  new(uint32),
	}
}

func (b *eventBuffer) push(ev event) {
	for atomic.LoadUint32(b.write)-atomic.LoadUint32(b.read) == uint32(len(b.events)) {
		runtime.Gosched()
	}
	write := atomic.LoadUint32(b.write)
	b.events[write%uint32(len(b.events))] = ev
	atomic.StoreUint32(b.write, write+1)
}

// drain calls f for every queued event in push order.
func (b *eventBuffer) drain(f func(event)) {
	read := atomic.LoadUint32(b.read)
	write := atomic.LoadUint32(b.write)
	for read != write {
		i := read % uint32(len(b.events))
		f(b.events[i])
		b.events[i] = event{}
		read++
	}
	atomic.StoreUint32(b.read, read)
}
