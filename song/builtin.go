package song

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Built-in songs are written one measure per line: four space separated
// beats, "-" for a rest and word@n for a word that moves the root to n.
var builtins = []*Song{
	{
		ID:         "first-steps",
		Title:      "First Steps",
		BPM:        80,
		Key:        "A",
		Difficulty: Easy,
		Drums:      "four-on-floor",
		Bass:       "root-pulse",
		Sections: []Section{
			{Name: "intro", Measures: measures(
				"the - cat -",
				"sat - on -",
			)},
			{Name: "verse", Repeat: 2, Measures: measures(
				"a - mat -",
				"in - the sun",
			)},
		},
	},
	{
		ID:         "night-drive",
		Title:      "Night Drive",
		BPM:        100,
		Key:        "A",
		Difficulty: Normal,
		Drums:      "backbeat",
		Bass:       "walking",
		Pad:        true,
		Sections: []Section{
			{Name: "verse", Measures: measures(
				"city lights fade slow",
				"engine@5 hums - low",
				"empty roads ahead -",
				"turn@7 the radio on",
			)},
			{Name: "chorus", Repeat: 2, Measures: measures(
				"drive@0 into the night",
				"stars@5 above - bright",
			)},
		},
	},
	{
		ID:         "breakneck",
		Title:      "Breakneck",
		BPM:        132,
		Key:        "E",
		Difficulty: Hard,
		Drums:      "breakbeat",
		Bass:       "octaves",
		Sections: []Section{
			{Name: "run", Repeat: 2, Measures: measures(
				"quick brown fox jumps",
				"over@3 lazy dogs again",
				"pack my box with",
				"five@-2 dozen liquor jugs",
			)},
		},
	},
	{
		ID:         "metronome",
		Title:      "Metronome Drill",
		BPM:        90,
		Difficulty: Normal,
		Drums:      "metronome",
		Sections: []Section{
			{Name: "drill", Repeat: 4, Measures: measures(
				"tick tock tick tock",
			)},
		},
	},
}

func measures(lines ...string) []Measure {
	out := make([]Measure, len(lines))
	for i, line := range lines {
		fields := strings.Fields(line)
		if len(fields) != BeatsPerMeasure {
			panic(fmt.Sprintf("built-in song measure %q: want %d beats", line, BeatsPerMeasure))
		}
		for _, f := range fields {
			out[i].Beats = append(out[i].Beats, Beat{Items: []Item{item(f)}})
		}
	}
	return out
}

func item(field string) Item {
	if field == "-" {
		return Item{Rest: true}
	}
	word, root, ok := strings.Cut(field, "@")
	if !ok {
		return Item{Word: word}
	}
	n, err := strconv.Atoi(root)
	if err != nil {
		panic(fmt.Sprintf("built-in song item %q: %v", field, err))
	}
	return Item{Word: word, Root: &n}
}

// Builtin returns the built-in song with the given id.
func Builtin(id string) (*Song, error) {
	for _, s := range builtins {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, fmt.Errorf("unknown song: %s", id)
}

// Builtins returns the built-in songs sorted by id.
func Builtins() []*Song {
	out := make([]*Song, len(builtins))
	copy(out, builtins)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
