package audio

import (
	"bytes"
	"math"
	"path/filepath"
	"testing"

	wav "github.com/youpy/go-wav"
)

func TestWriteWAV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteWAV(&buf, []float64{0, 0.5, -0.5, 2}, SampleRate); err != nil {
		t.Fatal(err)
	}
	r := wav.NewReader(bytes.NewReader(buf.Bytes()))
	format, err := r.Format()
	if err != nil {
		t.Fatal(err)
	}
	if want, got := uint16(2), format.NumChannels; want != got {
		t.Errorf("channels: want %v, got %v", want, got)
	}
	if want, got := uint32(SampleRate), format.SampleRate; want != got {
		t.Errorf("sample rate: want %v, got %v", want, got)
	}
	if want, got := uint16(16), format.BitsPerSample; want != got {
		t.Errorf("bits: want %v, got %v", want, got)
	}

	samples, err := r.ReadSamples()
	if err != nil {
		t.Fatal(err)
	}
	if want, got := 4, len(samples); want != got {
		t.Fatalf("want %d samples, got %d", want, got)
	}
	// out of range values are clipped
	want := []float64{0, 0.5, -0.5, 1}
	for i, s := range samples {
		if s.Values[0] != s.Values[1] {
			t.Errorf("sample %d: channels differ: %v", i, s.Values)
		}
		if got := r.FloatValue(s, 0); math.Abs(got-want[i]) > 1e-3 {
			t.Errorf("sample %d: want %v, got %v", i, want[i], got)
		}
	}
}

func TestSampleVoice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hit.wav")
	if err := WriteWAVFile(path, []float64{1, 0.5, 0.25}, SampleRate); err != nil {
		t.Fatal(err)
	}
	s, err := LoadSample(path)
	if err != nil {
		t.Fatal(err)
	}
	if want, got := 3, s.Len(); want != got {
		t.Fatalf("want %d frames, got %d", want, got)
	}

	v := NewSampleVoice(s, 0.5)
	buf := make([]float64, 2)
	if !v.Process(buf) {
		t.Error("voice finished early")
	}
	if got := v.Process(buf); got {
		t.Error("voice did not finish")
	}
	// the second call adds the last frame on top of the first block
	if math.Abs(buf[0]-(0.5+0.125)) > 1e-3 || math.Abs(buf[1]-0.25) > 1e-3 {
		t.Errorf("unexpected output %v", buf)
	}

	if _, err := LoadSample(filepath.Join(t.TempDir(), "missing.wav")); err == nil {
		t.Error("expected error for missing file")
	}
}
