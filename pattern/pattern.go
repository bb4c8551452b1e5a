// Package pattern holds the drum and bass patterns that accompany a song.
// Patterns are immutable once built and loop over a fixed number of 4/4
// measures.
package pattern

import (
	"errors"
	"fmt"
	"sort"
)

// BeatsPerMeasure is fixed: only a quarter-note grid in 4/4 is supported.
const BeatsPerMeasure = 4

// ErrUnknown is returned for pattern ids or sounds that do not exist.
var ErrUnknown = errors.New("unknown pattern")

type DrumSound int

const (
	Kick DrumSound = iota
	Snare
	HiHat
	OpenHat
	Clap
	Rim
	numSounds
)

var soundNames = [numSounds]string{"kick", "snare", "hihat", "openhat", "clap", "rim"}

func (s DrumSound) String() string {
	if s < 0 || s >= numSounds {
		return fmt.Sprintf("sound(%d)", int(s))
	}
	return soundNames[s]
}

func ParseSound(name string) (DrumSound, error) {
	for i, n := range soundNames {
		if n == name {
			return DrumSound(i), nil
		}
	}
	return 0, fmt.Errorf("%w sound: %s", ErrUnknown, name)
}

// DrumHit is a single drum hit. Beat is the absolute beat within the pattern
// loop and Subdivision the fraction of a beat after it, in [0, 1).
type DrumHit struct {
	Beat        int
	Subdivision float64
	Velocity    float64
	Sound       DrumSound
}

type DrumPattern struct {
	ID              string
	MeasuresPerLoop int
	Hits            []DrumHit // sorted by beat and subdivision
}

// NewDrumPattern validates and sorts hits.
func NewDrumPattern(id string, measures int, hits []DrumHit) (*DrumPattern, error) {
	if measures <= 0 {
		return nil, fmt.Errorf("drum pattern %s: invalid measure count %d", id, measures)
	}
	beats := measures * BeatsPerMeasure
	sorted := make([]DrumHit, len(hits))
	copy(sorted, hits)
	for _, h := range sorted {
		if err := checkPosition(h.Beat, h.Subdivision, h.Velocity, beats); err != nil {
			return nil, fmt.Errorf("drum pattern %s: %s: %w", id, h.Sound, err)
		}
		if h.Sound < 0 || h.Sound >= numSounds {
			return nil, fmt.Errorf("drum pattern %s: %w sound %d", id, ErrUnknown, int(h.Sound))
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Beat != b.Beat {
			return a.Beat < b.Beat
		}
		if a.Subdivision != b.Subdivision {
			return a.Subdivision < b.Subdivision
		}
		return a.Sound < b.Sound
	})
	return &DrumPattern{ID: id, MeasuresPerLoop: measures, Hits: sorted}, nil
}

// Beats is the loop length in beats.
func (p *DrumPattern) Beats() int { return p.MeasuresPerLoop * BeatsPerMeasure }

// HitsAt returns the hits on beat, which is taken modulo the loop length.
func (p *DrumPattern) HitsAt(beat int) []DrumHit {
	beat = wrap(beat, p.Beats())
	i := sort.Search(len(p.Hits), func(i int) bool { return p.Hits[i].Beat >= beat })
	j := i
	for j < len(p.Hits) && p.Hits[j].Beat == beat {
		j++
	}
	return p.Hits[i:j]
}

// BassNote is a single bass note. Interval is in semitones above the base
// frequency (and the current root when the pattern follows it). Duration is
// in beats.
type BassNote struct {
	Beat        int
	Subdivision float64
	Velocity    float64
	Interval    int
	Duration    float64
}

type BassPattern struct {
	ID              string
	MeasuresPerLoop int
	FollowsRoot     bool
	Notes           []BassNote // sorted by beat and subdivision
}

func NewBassPattern(id string, measures int, followsRoot bool, notes []BassNote) (*BassPattern, error) {
	if measures <= 0 {
		return nil, fmt.Errorf("bass pattern %s: invalid measure count %d", id, measures)
	}
	beats := measures * BeatsPerMeasure
	sorted := make([]BassNote, len(notes))
	copy(sorted, notes)
	for _, n := range sorted {
		if err := checkPosition(n.Beat, n.Subdivision, n.Velocity, beats); err != nil {
			return nil, fmt.Errorf("bass pattern %s: %w", id, err)
		}
		if n.Duration <= 0 {
			return nil, fmt.Errorf("bass pattern %s: invalid duration %v", id, n.Duration)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Beat != b.Beat {
			return a.Beat < b.Beat
		}
		return a.Subdivision < b.Subdivision
	})
	return &BassPattern{ID: id, MeasuresPerLoop: measures, FollowsRoot: followsRoot, Notes: sorted}, nil
}

func (p *BassPattern) Beats() int { return p.MeasuresPerLoop * BeatsPerMeasure }

// NotesAt returns the notes on beat, which is taken modulo the loop length.
func (p *BassPattern) NotesAt(beat int) []BassNote {
	beat = wrap(beat, p.Beats())
	i := sort.Search(len(p.Notes), func(i int) bool { return p.Notes[i].Beat >= beat })
	j := i
	for j < len(p.Notes) && p.Notes[j].Beat == beat {
		j++
	}
	return p.Notes[i:j]
}

func checkPosition(beat int, sub, velocity float64, beats int) error {
	if beat < 0 || beat >= beats {
		return fmt.Errorf("beat %d out of range 0-%d", beat, beats-1)
	}
	if sub < 0 || sub >= 1 {
		return fmt.Errorf("subdivision %v out of range [0, 1)", sub)
	}
	if velocity < 0 || velocity > 1 {
		return fmt.Errorf("velocity %v out of range [0, 1]", velocity)
	}
	return nil
}

func wrap(beat, n int) int {
	if n <= 0 {
		return 0
	}
	beat %= n
	if beat < 0 {
		beat += n
	}
	return beat
}
