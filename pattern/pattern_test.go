package pattern

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParseDrum(t *testing.T) {
	p, err := ParseDrum("test", `
		kick '1,3
		snare '2 0.5   # backbeat
	`)
	if err != nil {
		t.Fatal(err)
	}
	want := []DrumHit{
		{Beat: 0, Velocity: 1, Sound: Kick},
		{Beat: 1, Velocity: 0.5, Sound: Snare},
		{Beat: 2, Velocity: 1, Sound: Kick},
	}
	if !reflect.DeepEqual(want, p.Hits) {
		t.Errorf("want %v, got %v", want, p.Hits)
	}
	if want, got := 1, p.MeasuresPerLoop; want != got {
		t.Errorf("want %d measures, got %d", want, got)
	}
}

func TestParseEighths(t *testing.T) {
	p, err := ParseDrum("hats", "hihat '*/*")
	if err != nil {
		t.Fatal(err)
	}
	if want, got := 8, len(p.Hits); want != got {
		t.Fatalf("want %d hits, got %d", want, got)
	}
	for i, h := range p.Hits {
		if want, got := i/2, h.Beat; want != got {
			t.Errorf("hit %d: want beat %d, got %d", i, want, got)
		}
		if want, got := float64(i%2)*0.5, h.Subdivision; want != got {
			t.Errorf("hit %d: want subdivision %v, got %v", i, want, got)
		}
	}
}

func TestParseSixteenths(t *testing.T) {
	p, err := ParseDrum("x", "clap '4//4 0.3")
	if err != nil {
		t.Fatal(err)
	}
	want := []DrumHit{{Beat: 3, Subdivision: 0.75, Velocity: 0.3, Sound: Clap}}
	if !reflect.DeepEqual(want, p.Hits) {
		t.Errorf("want %v, got %v", want, p.Hits)
	}
}

func TestParseMeasures(t *testing.T) {
	p, err := ParseDrum("two", "kick '1\nmeasure\nsnare '1")
	if err != nil {
		t.Fatal(err)
	}
	if want, got := 2, p.MeasuresPerLoop; want != got {
		t.Fatalf("want %d measures, got %d", want, got)
	}
	want := []DrumHit{
		{Beat: 0, Velocity: 1, Sound: Kick},
		{Beat: 4, Velocity: 1, Sound: Snare},
	}
	if !reflect.DeepEqual(want, p.Hits) {
		t.Errorf("want %v, got %v", want, p.Hits)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"cowbell '1",
		"kick 1",
		"kick '1 loud",
		"kick '1 2",
		"kick '1 0.5 0.5",
		"kick '*///*",
		"measure 2",
		"kick '",
	}
	for _, src := range tests {
		if _, err := ParseDrum("bad", src); err == nil {
			t.Errorf("%q: expected error", src)
		}
	}

	_, err := ParseDrum("bad", "cowbell '1")
	if !errors.Is(err, ErrUnknown) {
		t.Errorf("expected ErrUnknown, got %v", err)
	}
}

func TestParseDrums(t *testing.T) {
	src := `
drum a
kick '1
drum b
snare '2
measure
snare '2
`
	patterns, err := ParseDrums(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if want, got := 2, len(patterns); want != got {
		t.Fatalf("want %d patterns, got %d", want, got)
	}
	if want, got := "b", patterns[1].ID; want != got {
		t.Errorf("want %s, got %s", want, got)
	}
	if want, got := 2, patterns[1].MeasuresPerLoop; want != got {
		t.Errorf("want %d measures, got %d", want, got)
	}

	if _, err := ParseDrums(strings.NewReader("kick '1")); err == nil {
		t.Error("expected error for hits before a drum line")
	}
}

func TestHitsAtWraps(t *testing.T) {
	p, err := NewDrumPattern("loop", 4, []DrumHit{
		{Beat: 15, Sound: Snare, Velocity: 1},
		{Beat: 0, Subdivision: 0.5, Sound: HiHat, Velocity: 1},
		{Beat: 0, Sound: Kick, Velocity: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	// a 16 measure song plays the 4 measure loop four times
	for measure := 0; measure < 16; measure++ {
		hits := p.HitsAt(measure * BeatsPerMeasure)
		if measure%4 == 0 {
			if want, got := 2, len(hits); want != got {
				t.Errorf("measure %d: want %d hits, got %d", measure, want, got)
			} else if hits[0].Sound != Kick || hits[1].Sound != HiHat {
				t.Errorf("measure %d: hits not ordered: %v", measure, hits)
			}
		} else if len(hits) != 0 {
			t.Errorf("measure %d: unexpected hits %v", measure, hits)
		}
	}
	if want, got := 1, len(p.HitsAt(31)); want != got {
		t.Errorf("want %d hits, got %d", want, got)
	}
}

func TestPatternValidation(t *testing.T) {
	if _, err := NewDrumPattern("x", 1, []DrumHit{{Beat: 4, Velocity: 1}}); err == nil {
		t.Error("expected error for beat outside the loop")
	}
	if _, err := NewDrumPattern("x", 1, []DrumHit{{Subdivision: 1, Velocity: 1}}); err == nil {
		t.Error("expected error for subdivision 1")
	}
	if _, err := NewDrumPattern("x", 0, nil); err == nil {
		t.Error("expected error for zero measures")
	}
	if _, err := NewBassPattern("x", 1, true, []BassNote{{Velocity: 1}}); err == nil {
		t.Error("expected error for zero duration")
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	for _, id := range []string{"four-on-floor", "backbeat", "breakbeat", "metronome"} {
		if _, err := r.Drum(id); err != nil {
			t.Errorf("drum %s: %v", id, err)
		}
	}
	p, _ := r.Drum("breakbeat")
	if want, got := 2, p.MeasuresPerLoop; want != got {
		t.Errorf("want %d measures, got %d", want, got)
	}
	walking, err := r.Bass("walking")
	if err != nil {
		t.Fatal(err)
	}
	if !walking.FollowsRoot {
		t.Error("walking bass should follow the root")
	}
	if want, got := 4, walking.NotesAt(9)[0].Interval; want != got {
		t.Errorf("want interval %d, got %d", want, got)
	}

	if _, err := r.Drum("polka"); !errors.Is(err, ErrUnknown) {
		t.Errorf("expected ErrUnknown, got %v", err)
	}
	if _, err := r.Bass("polka"); !errors.Is(err, ErrUnknown) {
		t.Errorf("expected ErrUnknown, got %v", err)
	}

	custom, err := ParseDrum("four-on-floor", "kick '1")
	if err != nil {
		t.Fatal(err)
	}
	r.AddDrum(custom)
	p, _ = r.Drum("four-on-floor")
	if want, got := 1, len(p.Hits); want != got {
		t.Errorf("want %d hits after replacing, got %d", want, got)
	}

	ids := r.DrumIDs()
	if want, got := "backbeat", ids[0]; want != got {
		t.Errorf("want %s first, got %s", want, got)
	}
}
