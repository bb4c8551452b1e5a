package audio

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

const otoChannels = 2

// OtoSink plays the graph through an oto player. The player pulls interleaved
// float32 frames through Read.
type OtoSink struct {
	graph   *Graph
	latency time.Duration
	ctx     *oto.Context
	player  *oto.Player
	buf     []float64
	once    sync.Once
}

func NewOtoSink(g *Graph) (*OtoSink, error) {
	bufferSize := time.Duration(float64(BufferSize) / g.SampleRate() * float64(time.Second))
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   int(g.SampleRate()),
		ChannelCount: otoChannels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   bufferSize,
	})
	if err != nil {
		return nil, fmt.Errorf("oto: %w", err)
	}
	<-ready
	s := &OtoSink{graph: g, ctx: ctx, latency: bufferSize}
	s.player = ctx.NewPlayer(s)
	return s, nil
}

// Read implements io.Reader for oto.Player.
func (s *OtoSink) Read(p []byte) (int, error) {
	const frameSize = 4 * otoChannels
	frames := len(p) / frameSize
	if cap(s.buf) < frames {
		s.buf = make([]float64, frames)
	}
	buf := s.buf[:frames]
	s.graph.Mix(buf)
	for i, v := range buf {
		bits := math.Float32bits(float32(v))
		for ch := 0; ch < otoChannels; ch++ {
			binary.LittleEndian.PutUint32(p[i*frameSize+ch*4:], bits)
		}
	}
	return frames * frameSize, nil
}

func (s *OtoSink) Start() error {
	s.graph.SetRealtime(true)
	s.player.Play()
	return nil
}

// Latency is the size of the device buffer; oto does not report the
// latency of the output itself.
func (s *OtoSink) Latency() time.Duration { return s.latency }

func (s *OtoSink) Close() error {
	var err error
	s.once.Do(func() {
		s.graph.SetRealtime(false)
		err = s.player.Close()
	})
	return err
}
