// Package song describes the songs that are played: tempo, accompaniment
// and the words to type, laid out in sections of 4/4 measures.
package song

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const BeatsPerMeasure = 4

// ErrInvalid is returned for songs that are structurally incomplete.
var ErrInvalid = errors.New("invalid song")

type Song struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	BPM        float64    `json:"bpm"`
	Key        string     `json:"key,omitempty"`
	Difficulty Difficulty `json:"difficulty"`
	Drums      string     `json:"drums"`
	Bass       string     `json:"bass,omitempty"`
	Pad        bool       `json:"pad"`
	Sections   []Section  `json:"sections"`
}

type Section struct {
	Name     string    `json:"name"`
	Repeat   int       `json:"repeat,omitempty"` // 0 plays the section once
	Measures []Measure `json:"measures"`
}

type Measure struct {
	Beats []Beat `json:"beats"`
}

type Beat struct {
	Items []Item `json:"items"`
}

// Item is a rest or a word to type. Root, when set, changes the musical
// root once the word is typed correctly.
type Item struct {
	Rest bool   `json:"rest,omitempty"`
	Word string `json:"word,omitempty"`
	Root *int   `json:"root,omitempty"`
}

func (s Section) repeats() int {
	if s.Repeat < 1 {
		return 1
	}
	return s.Repeat
}

// Validate checks the structure of the song, not its musical content.
func (s *Song) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalid)
	}
	if s.BPM <= 0 {
		return fmt.Errorf("%w: %s: tempo must be positive, got %v", ErrInvalid, s.ID, s.BPM)
	}
	if _, err := s.Difficulty.Timing(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalid, s.ID, err)
	}
	if len(s.Sections) == 0 {
		return fmt.Errorf("%w: %s: no sections", ErrInvalid, s.ID)
	}
	var words int
	for _, sec := range s.Sections {
		if len(sec.Measures) == 0 {
			return fmt.Errorf("%w: %s: section %q has no measures", ErrInvalid, s.ID, sec.Name)
		}
		for m, measure := range sec.Measures {
			if len(measure.Beats) != BeatsPerMeasure {
				return fmt.Errorf("%w: %s: section %q measure %d has %d beats",
					ErrInvalid, s.ID, sec.Name, m+1, len(measure.Beats))
			}
			for b, beat := range measure.Beats {
				if len(beat.Items) == 0 {
					return fmt.Errorf("%w: %s: section %q measure %d beat %d is empty",
						ErrInvalid, s.ID, sec.Name, m+1, b+1)
				}
				for _, item := range beat.Items {
					if item.Rest {
						continue
					}
					if strings.TrimSpace(item.Word) == "" {
						return fmt.Errorf("%w: %s: section %q measure %d beat %d has an empty word",
							ErrInvalid, s.ID, sec.Name, m+1, b+1)
					}
					words += sec.repeats()
				}
			}
		}
	}
	if words == 0 {
		return fmt.Errorf("%w: %s: no words", ErrInvalid, s.ID)
	}
	return nil
}

// Measures returns the number of measures played, counting repeats.
func (s *Song) Measures() int {
	var n int
	for _, sec := range s.Sections {
		n += len(sec.Measures) * sec.repeats()
	}
	return n
}

// Load decodes and validates a JSON song.
func Load(r io.Reader) (*Song, error) {
	var s Song
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode song: %w", err)
	}
	if s.Difficulty == "" {
		s.Difficulty = Normal
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func LoadFile(path string) (*Song, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
