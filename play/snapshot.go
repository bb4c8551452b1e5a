package play

import (
	"time"

	"github.com/google/uuid"
)

// Snapshot is a read-only copy of the session state handed to subscribers.
type Snapshot struct {
	State     State         `json:"state"`
	SessionID uuid.UUID     `json:"sessionId"`
	SongID    string        `json:"songId,omitempty"`
	Index     int           `json:"index"`
	Words     []string      `json:"words"`
	Expected  time.Duration `json:"expected"` // expected time of the current word
	Beat      int           `json:"beat"`
	Measure   int           `json:"measure"`
	Score     int           `json:"score"`
	Combo     int           `json:"combo"`
	BestCombo int           `json:"bestCombo"`
	Counts    Counts        `json:"counts"`
	Origin    time.Time     `json:"origin"`
	Elapsed   time.Duration `json:"elapsed"`
	Countdown int           `json:"countdown"`
	Last      *Result       `json:"last,omitempty"`
}

// Current returns the word to type next, or "" when there is none.
func (s Snapshot) Current() string {
	if s.Index < len(s.Words) {
		return s.Words[s.Index]
	}
	return ""
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (t Timing) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// Snapshot returns the current state.
func (e *Evaluator) Snapshot() Snapshot {
	return e.snapshot(e.now())
}

func (e *Evaluator) snapshot(now time.Time) Snapshot {
	s := Snapshot{
		State:     e.state,
		SessionID: e.session,
		Index:     e.index,
		Beat:      e.beat,
		Measure:   e.measure,
		Score:     e.score,
		Combo:     e.combo,
		BestCombo: e.bestCombo,
		Counts:    e.counts,
		Origin:    e.origin,
		Elapsed:   e.elapsed(now),
		Countdown: e.countdown,
	}
	if e.flat != nil {
		s.SongID = e.flat.Song.ID
	}
	s.Words = make([]string, len(e.words))
	for i, w := range e.words {
		s.Words[i] = w.Text
	}
	if e.index < len(e.words) {
		s.Expected = e.words[e.index].Expected
	}
	if e.last != nil {
		last := *e.last
		s.Last = &last
	}
	return s
}
