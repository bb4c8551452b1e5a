package song

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func words(ws ...string) []Beat {
	var beats []Beat
	for _, w := range ws {
		if w == "-" {
			beats = append(beats, Beat{Items: []Item{{Rest: true}}})
		} else {
			beats = append(beats, Beat{Items: []Item{{Word: w}}})
		}
	}
	return beats
}

func testSong() *Song {
	return &Song{
		ID:         "test",
		BPM:        120,
		Difficulty: Normal,
		Drums:      "four-on-floor",
		Sections: []Section{
			{Name: "a", Measures: []Measure{{Beats: words("one", "-", "two", "three")}}},
			{Name: "b", Repeat: 2, Measures: []Measure{{Beats: words("-", "four", "-", "-")}}},
		},
	}
}

func TestFlatten(t *testing.T) {
	f, err := Flatten(testSong())
	if err != nil {
		t.Fatal(err)
	}
	var texts []string
	for _, w := range f.Words {
		texts = append(texts, w.Text)
	}
	if want := []string{"one", "two", "three", "four", "four"}; !reflect.DeepEqual(want, texts) {
		t.Errorf("want %v, got %v", want, texts)
	}
	if want, got := 500*time.Millisecond, f.BeatDuration; want != got {
		t.Errorf("want beat %v, got %v", want, got)
	}
	if want, got := 4*time.Second, f.LeadIn; want != got {
		t.Errorf("want lead-in %v, got %v", want, got)
	}
	seen := make(map[time.Duration]bool)
	for i, w := range f.Words {
		if want := f.LeadIn + time.Duration(i)*f.BeatDuration; w.Expected != want {
			t.Errorf("word %d: want %v, got %v", i, want, w.Expected)
		}
		if seen[w.Expected] {
			t.Errorf("word %d: duplicate time %v", i, w.Expected)
		}
		seen[w.Expected] = true
	}
	if want, got := 2, f.Words[4].Measure; want != got {
		t.Errorf("want measure %d, got %d", want, got)
	}
	if want, got := 6*time.Second, f.Length(); want != got {
		t.Errorf("want length %v, got %v", want, got)
	}
}

func TestFlattenMultipleItemsPerBeat(t *testing.T) {
	s := testSong()
	s.Sections[0].Measures[0].Beats[1] = Beat{Items: []Item{{Word: "x"}, {Word: "y"}}}
	f, err := Flatten(s)
	if err != nil {
		t.Fatal(err)
	}
	if want, got := 7, len(f.Words); want != got {
		t.Fatalf("want %d words, got %d", want, got)
	}
	if f.Words[1].Expected == f.Words[2].Expected {
		t.Error("items on the same beat share a timestamp")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(s *Song)
	}{
		{"no id", func(s *Song) { s.ID = "" }},
		{"no tempo", func(s *Song) { s.BPM = 0 }},
		{"bad difficulty", func(s *Song) { s.Difficulty = "brutal" }},
		{"no sections", func(s *Song) { s.Sections = nil }},
		{"empty section", func(s *Song) { s.Sections[0].Measures = nil }},
		{"three beats", func(s *Song) { s.Sections[0].Measures[0].Beats = words("a", "b", "c") }},
		{"empty beat", func(s *Song) { s.Sections[0].Measures[0].Beats[0].Items = nil }},
		{"blank word", func(s *Song) { s.Sections[0].Measures[0].Beats[0].Items[0].Word = "  " }},
		{"only rests", func(s *Song) {
			for i := range s.Sections {
				s.Sections[i].Measures = []Measure{{Beats: words("-", "-", "-", "-")}}
			}
		}},
	}
	for _, test := range tests {
		s := testSong()
		test.modify(s)
		if err := s.Validate(); !errors.Is(err, ErrInvalid) {
			t.Errorf("%s: expected ErrInvalid, got %v", test.name, err)
		}
		if _, err := Flatten(s); err == nil {
			t.Errorf("%s: flatten accepted an invalid song", test.name)
		}
	}
	if err := testSong().Validate(); err != nil {
		t.Error(err)
	}
}

func TestLoad(t *testing.T) {
	src := `{
		"id": "json",
		"bpm": 90,
		"drums": "backbeat",
		"sections": [{
			"name": "a",
			"measures": [{"beats": [
				{"items": [{"word": "hello", "root": 3}]},
				{"items": [{"rest": true}]},
				{"items": [{"word": "world"}]},
				{"items": [{"rest": true}]}
			]}]
		}]
	}`
	s, err := Load(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if want, got := Normal, s.Difficulty; want != got {
		t.Errorf("want default difficulty %v, got %v", want, got)
	}
	root := s.Sections[0].Measures[0].Beats[0].Items[0].Root
	if root == nil || *root != 3 {
		t.Errorf("want root 3, got %v", root)
	}

	if _, err := Load(strings.NewReader(`{"id": "x", "bpm": 90, "tempo": 1}`)); err == nil {
		t.Error("expected error for unknown field")
	}
	if _, err := Load(strings.NewReader(`{"id": "x", "bpm": 90}`)); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "song.json")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err != nil {
		t.Error(err)
	}
}

func TestDifficulty(t *testing.T) {
	for _, d := range []Difficulty{Easy, Normal, Hard} {
		c, err := d.Timing()
		if err != nil {
			t.Fatal(err)
		}
		if err := c.Validate(); err != nil {
			t.Errorf("%s: %v", d, err)
		}
	}
	c, _ := Normal.Timing()
	want := TimingConfig{Perfect: 50 * time.Millisecond, Good: 100 * time.Millisecond, Accept: 200 * time.Millisecond}
	if want != c {
		t.Errorf("want %v, got %v", want, c)
	}
	if _, err := ParseDifficulty("impossible"); err == nil {
		t.Error("expected error for unknown difficulty")
	}
	bad := TimingConfig{Perfect: 100, Good: 50, Accept: 200}
	if err := bad.Validate(); err == nil {
		t.Error("expected error for descending windows")
	}
}

func TestBuiltins(t *testing.T) {
	songs := Builtins()
	if len(songs) == 0 {
		t.Fatal("no built-in songs")
	}
	for _, s := range songs {
		if _, err := Flatten(s); err != nil {
			t.Errorf("%s: %v", s.ID, err)
		}
	}
	s, err := Builtin("night-drive")
	if err != nil {
		t.Fatal(err)
	}
	f, _ := Flatten(s)
	var roots int
	for _, w := range f.Words {
		if w.Root != nil {
			roots++
		}
	}
	if want, got := 6, roots; want != got {
		t.Errorf("want %d root changes, got %d", want, got)
	}
	if want, got := 8, s.Measures(); want != got {
		t.Errorf("want %d measures, got %d", want, got)
	}
	if _, err := Builtin("nope"); err == nil {
		t.Error("expected error for unknown song")
	}
}
