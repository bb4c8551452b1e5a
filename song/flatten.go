package song

import "time"

// LeadInBeats is the number of beats of accompaniment before the first word.
const LeadInBeats = 8

// Word is a flattened, non-rest item with its expected time relative to the
// playback origin.
type Word struct {
	Text     string
	Root     *int
	Expected time.Duration
	Measure  int // measure of the song the word was written in
}

// Flat is a song flattened into the ordered words to type.
type Flat struct {
	Song         *Song
	Words        []Word
	BeatDuration time.Duration
	LeadIn       time.Duration
}

// BeatDuration is the length of a quarter note at bpm.
func BeatDuration(bpm float64) time.Duration {
	return time.Duration(float64(time.Minute) / bpm)
}

// Flatten expands sections and repeats and drops rests. Word i is expected
// at LeadIn + i beats, so every word gets its own beat on the grid.
func Flatten(s *Song) (*Flat, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	f := &Flat{
		Song:         s,
		BeatDuration: BeatDuration(s.BPM),
	}
	f.LeadIn = LeadInBeats * f.BeatDuration

	var measure int
	for _, sec := range s.Sections {
		for r := 0; r < sec.repeats(); r++ {
			for _, m := range sec.Measures {
				for _, beat := range m.Beats {
					for _, item := range beat.Items {
						if item.Rest {
							continue
						}
						f.Words = append(f.Words, Word{
							Text:     item.Word,
							Root:     item.Root,
							Expected: f.LeadIn + time.Duration(len(f.Words))*f.BeatDuration,
							Measure:  measure,
						})
					}
				}
				measure++
			}
		}
	}
	return f, nil
}

// Length is the expected time of the last word.
func (f *Flat) Length() time.Duration {
	if len(f.Words) == 0 {
		return f.LeadIn
	}
	return f.Words[len(f.Words)-1].Expected
}
