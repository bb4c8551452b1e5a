package audio

import (
	"fmt"
	"io"
	"os"

	"github.com/youpy/go-wav"
)

// Sample is a mono recording that can replace a synthesized drum voice.
type Sample struct {
	buf  []float64
	file string
}

func (s *Sample) Len() int { return len(s.buf) }

// LoadSample reads the first channel of a WAV file.
func LoadSample(file string) (*Sample, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	snd := Sample{file: file}
	r := wav.NewReader(f)
	for {
		samples, err := r.ReadSamples()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		for _, sample := range samples {
			snd.buf = append(snd.buf, r.FloatValue(sample, 0))
		}
	}
	return &snd, nil
}

// NewSampleVoice plays s once at the given velocity.
func NewSampleVoice(s *Sample, velocity float64) *SampleVoice {
	return &SampleVoice{buf: s.buf, gain: velocity}
}

type SampleVoice struct {
	buf  []float64
	pos  int
	gain float64
}

func (v *SampleVoice) Process(buf []float64) bool {
	n := len(buf)
	if nsamples := len(v.buf) - v.pos; nsamples < n {
		n = nsamples
	}
	for i := range buf[:n] {
		buf[i] += v.buf[v.pos] * v.gain
		v.pos++
	}
	return v.pos < len(v.buf)
}
