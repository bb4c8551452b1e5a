package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"
)

// Sink drives a Graph from an output device.
type Sink interface {
	Start() error
	Close() error
	// Latency is how long a mixed frame takes to reach the listener.
	Latency() time.Duration
}

// PortAudioSink plays the graph on the default portaudio output device.
type PortAudioSink struct {
	graph  *Graph
	stream *portaudio.Stream
	once   sync.Once
}

func NewPortAudioSink(g *Graph) (*PortAudioSink, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio: %w", err)
	}
	s := &PortAudioSink{graph: g}
	stream, err := portaudio.OpenDefaultStream(0, 2, g.SampleRate(), BufferSize, g.Process)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("portaudio: open stream: %w", err)
	}
	s.stream = stream
	return s, nil
}

func (s *PortAudioSink) Start() error {
	s.graph.SetRealtime(true)
	return s.stream.Start()
}

func (s *PortAudioSink) Latency() time.Duration {
	if info := s.stream.Info(); info != nil {
		return info.OutputLatency
	}
	return 0
}

func (s *PortAudioSink) Close() error {
	var err error
	s.once.Do(func() {
		s.graph.SetRealtime(false)
		err = s.stream.Close()
		portaudio.Terminate()
	})
	return err
}

// NullSink advances the graph in real time without an output device, so the
// engine keeps its timing when no audio backend is available.
type NullSink struct {
	graph *Graph
	done  chan struct{}
	once  sync.Once
	wg    sync.WaitGroup
}

func NewNullSink(g *Graph) *NullSink {
	return &NullSink{graph: g, done: make(chan struct{})}
}

func (s *NullSink) Start() error {
	s.graph.SetRealtime(true)
	interval := time.Duration(float64(BufferSize) / s.graph.SampleRate() * float64(time.Second))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		buf := make([]float64, BufferSize)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.graph.Mix(buf)
			case <-s.done:
				return
			}
		}
	}()
	return nil
}

func (s *NullSink) Latency() time.Duration { return 0 }

func (s *NullSink) Close() error {
	s.once.Do(func() {
		close(s.done)
		s.wg.Wait()
		s.graph.SetRealtime(false)
	})
	return nil
}
