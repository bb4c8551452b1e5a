package pattern

import (
	"fmt"
	"sort"
	"strings"
)

var builtinDrums = `
drum four-on-floor
kick '*
snare '2,4 0.8
hihat '*/2 0.5

drum backbeat
kick '1,3
kick '3/2 0.7
snare '2,4 0.9
hihat '*/* 0.4

drum half-time
kick '1
snare '3
hihat '*/* 0.35
openhat '4/2 0.4

drum breakbeat       # two measure loop
kick '1
kick '2/2 0.8
snare '2,4
hihat '*/* 0.4
measure
kick '1/2 0.9
kick '3
snare '2,4
hihat '*/* 0.4
openhat '4/2 0.5

drum minimal
rim '*/2 0.5
kick '1

drum metronome
rim '* 0.6
`

var builtinBass = []struct {
	id          string
	measures    int
	followsRoot bool
	notes       []BassNote
}{
	{
		id:          "root-pulse",
		measures:    1,
		followsRoot: true,
		notes: []BassNote{
			{Beat: 0, Velocity: 0.9, Duration: 0.9},
			{Beat: 1, Velocity: 0.7, Duration: 0.9},
			{Beat: 2, Velocity: 0.9, Duration: 0.9},
			{Beat: 3, Velocity: 0.7, Duration: 0.9},
		},
	},
	{
		id:          "octaves",
		measures:    1,
		followsRoot: true,
		notes: []BassNote{
			{Beat: 0, Velocity: 0.9, Duration: 0.45},
			{Beat: 0, Subdivision: 0.5, Velocity: 0.6, Interval: 12, Duration: 0.45},
			{Beat: 1, Velocity: 0.8, Duration: 0.45},
			{Beat: 1, Subdivision: 0.5, Velocity: 0.6, Interval: 12, Duration: 0.45},
			{Beat: 2, Velocity: 0.9, Duration: 0.45},
			{Beat: 2, Subdivision: 0.5, Velocity: 0.6, Interval: 12, Duration: 0.45},
			{Beat: 3, Velocity: 0.8, Duration: 0.45},
			{Beat: 3, Subdivision: 0.5, Velocity: 0.6, Interval: 12, Duration: 0.45},
		},
	},
	{
		id:          "walking",
		measures:    2,
		followsRoot: true,
		notes: []BassNote{
			{Beat: 0, Velocity: 0.9, Duration: 0.95},
			{Beat: 1, Velocity: 0.7, Interval: 4, Duration: 0.95},
			{Beat: 2, Velocity: 0.8, Interval: 7, Duration: 0.95},
			{Beat: 3, Velocity: 0.7, Interval: 9, Duration: 0.95},
			{Beat: 4, Velocity: 0.9, Interval: 12, Duration: 0.95},
			{Beat: 5, Velocity: 0.7, Interval: 9, Duration: 0.95},
			{Beat: 6, Velocity: 0.8, Interval: 7, Duration: 0.95},
			{Beat: 7, Velocity: 0.7, Interval: 4, Duration: 0.95},
		},
	},
	{
		id:       "drone",
		measures: 1,
		notes: []BassNote{
			{Beat: 0, Velocity: 0.8, Duration: 3.8},
		},
	},
}

// Registry maps pattern ids to patterns.
type Registry struct {
	drums map[string]*DrumPattern
	bass  map[string]*BassPattern
}

// NewRegistry returns a registry holding the built-in patterns.
func NewRegistry() *Registry {
	r := &Registry{
		drums: make(map[string]*DrumPattern),
		bass:  make(map[string]*BassPattern),
	}
	drums, err := ParseDrums(strings.NewReader(builtinDrums))
	if err != nil {
		panic(fmt.Sprintf("built-in drum patterns: %v", err))
	}
	for _, p := range drums {
		r.AddDrum(p)
	}
	for _, b := range builtinBass {
		p, err := NewBassPattern(b.id, b.measures, b.followsRoot, b.notes)
		if err != nil {
			panic(fmt.Sprintf("built-in bass patterns: %v", err))
		}
		r.AddBass(p)
	}
	return r
}

// AddDrum adds p, replacing a pattern with the same id.
func (r *Registry) AddDrum(p *DrumPattern) { r.drums[p.ID] = p }

func (r *Registry) AddBass(p *BassPattern) { r.bass[p.ID] = p }

func (r *Registry) Drum(id string) (*DrumPattern, error) {
	p, ok := r.drums[id]
	if !ok {
		return nil, fmt.Errorf("%w: drum %s", ErrUnknown, id)
	}
	return p, nil
}

func (r *Registry) Bass(id string) (*BassPattern, error) {
	p, ok := r.bass[id]
	if !ok {
		return nil, fmt.Errorf("%w: bass %s", ErrUnknown, id)
	}
	return p, nil
}

func (r *Registry) DrumIDs() []string { return sortedKeys(r.drums) }

func (r *Registry) BassIDs() []string { return sortedKeys(r.bass) }

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
