package audio

import (
	"math"
	"reflect"
	"testing"
)

// impulse writes a single sample and finishes.
type impulse struct{ v float64 }

func (i impulse) Process(buf []float64) bool {
	buf[0] += i.v
	return false
}

func TestScheduleIsSampleAccurate(t *testing.T) {
	g := NewGraph(SampleRate)
	if err := LoadPreset("default", g); err != nil {
		t.Fatal(err)
	}

	// 10ms and 30ms land in the first and third block respectively
	g.Schedule(impulse{1}, BusDrums, 0.01)
	g.Schedule(impulse{1}, BusBass, 0.03)
	out := g.Render(4*BufferSize, nil)

	drums := 0.9 * 0.8
	bass := 0.7 * 0.8
	for i, v := range out {
		want := 0.0
		switch i {
		case 441:
			want = drums
		case 1323:
			want = bass
		}
		if math.Abs(v-want) > 1e-9 {
			t.Errorf("sample %d: want %v, got %v", i, want, v)
		}
	}
	if want, got := 0, g.Active(); want != got {
		t.Errorf("want %d active voices, got %d", want, got)
	}
}

func TestSchedulePastStartsNow(t *testing.T) {
	g := NewGraph(SampleRate)
	g.Render(BufferSize, nil)
	g.Schedule(impulse{1}, BusDrums, 0)
	out := g.Render(BufferSize, nil)
	if out[0] == 0 {
		t.Error("voice scheduled in the past did not start at the next block")
	}
}

func TestSilenceDropsPendingVoices(t *testing.T) {
	g := NewGraph(SampleRate)
	g.Schedule(impulse{1}, BusDrums, 0.5)
	g.Schedule(impulse{1}, BusDrums, 1)
	g.Render(BufferSize, nil)
	if want, got := 2, g.Active(); want != got {
		t.Fatalf("want %d pending voices, got %d", want, got)
	}

	g.Silence()
	out := g.Render(2*SampleRate, nil)
	for i, v := range out {
		if v != 0 {
			t.Fatalf("sample %d: expected silence, got %v", i, v)
		}
	}
	if want, got := 0, g.Active(); want != got {
		t.Errorf("want %d active voices, got %d", want, got)
	}

	// voices scheduled after Silence still play
	g.Schedule(impulse{1}, BusDrums, 0)
	out = g.Render(BufferSize, nil)
	if out[0] == 0 {
		t.Error("voice scheduled after Silence did not play")
	}
}

func TestScheduleAfterSilenceBeforeMix(t *testing.T) {
	g := NewGraph(SampleRate)
	g.Schedule(impulse{1}, BusDrums, 0.005)
	g.Silence()
	g.Schedule(impulse{1}, BusDrums, 0.01)
	out := g.Render(BufferSize, nil)
	for i, v := range out {
		want := 0.0
		if i == 441 {
			want = 0.9 * 0.8
		}
		if math.Abs(v-want) > 1e-9 {
			t.Errorf("sample %d: want %v, got %v", i, want, v)
		}
	}

	// pending from an earlier block, silenced and replaced without a block in between
	g.Schedule(impulse{1}, BusDrums, 0.5)
	g.Render(BufferSize, nil)
	g.Silence()
	g.Schedule(impulse{0.5}, BusDrums, 0.5)
	g.Silence()
	g.Schedule(impulse{0.25}, BusDrums, 0.5)
	out = g.Render(SampleRate, nil)
	if want, got := 0.25*0.9*0.8, out[22050-2*BufferSize]; math.Abs(want-got) > 1e-9 {
		t.Errorf("want only the last voice, got %v", got)
	}
}

func TestBusLevels(t *testing.T) {
	g := NewGraph(SampleRate)
	if err := g.Set(PropDrums, 0.); err != nil {
		t.Fatal(err)
	}
	if err := g.Set(PropMaster, 2.); err == nil {
		t.Error("expected error for level out of range")
	}
	g.Schedule(impulse{1}, BusDrums, 0)
	g.Schedule(impulse{0.5}, BusPad, 0)
	out := g.Render(BufferSize, nil)
	if want, got := 0.5*0.5*0.8, out[0]; math.Abs(want-got) > 1e-9 {
		t.Errorf("want %v, got %v", want, got)
	}
}

func TestLevelKeys(t *testing.T) {
	g := NewGraph(SampleRate)
	want := []string{PropBass, PropDrums, PropFX, PropMaster, PropPad}
	if got := g.Keys(); !reflect.DeepEqual(want, got) {
		t.Errorf("want %v, got %v", want, got)
	}
}

func TestRenderTicksEveryBlock(t *testing.T) {
	g := NewGraph(SampleRate)
	var ticks []float64
	g.Render(3*BufferSize+10, func(now float64) {
		ticks = append(ticks, now)
	})
	if want, got := 4, len(ticks); want != got {
		t.Fatalf("want %d ticks, got %d", want, got)
	}
	for i, now := range ticks {
		want := float64(i*BufferSize) / SampleRate
		if math.Abs(now-want) > 1e-12 {
			t.Errorf("tick %d: want %v, got %v", i, want, now)
		}
	}
}

func TestPresets(t *testing.T) {
	g := NewGraph(SampleRate)
	if err := LoadPreset("practice", g); err != nil {
		t.Fatal(err)
	}
	v, err := g.Get(PropPad)
	if err != nil {
		t.Fatal(err)
	}
	if want, got := 0., v.(float64); want != got {
		t.Errorf("want %v, got %v", want, got)
	}
	if err := LoadPreset("nope", g); err == nil {
		t.Error("expected error for unknown preset")
	}
	for _, name := range Presets() {
		if err := LoadPreset(name, g); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}
