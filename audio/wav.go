package audio

import (
	"fmt"
	"io"
	"os"

	wav "github.com/youpy/go-wav"
)

const wavBitsPerSample = 16

// WriteWAV writes mono samples as a 16 bit stereo WAV stream.
func WriteWAV(w io.Writer, samples []float64, sampleRate int) error {
	const scale = 1<<(wavBitsPerSample-1) - 1
	out := make([]wav.Sample, len(samples))
	for i, s := range samples {
		v := int(scale * clamp(s))
		out[i] = wav.Sample{Values: [2]int{v, v}}
	}
	writer := wav.NewWriter(w, uint32(len(samples)), 2, uint32(sampleRate), wavBitsPerSample)
	if err := writer.WriteSamples(out); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	return nil
}

// WriteWAVFile writes samples to a new file at path.
func WriteWAVFile(path string, samples []float64, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteWAV(f, samples, sampleRate); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
