package play

import (
	"time"

	"github.com/google/uuid"
)

// Counts holds the number of words per timing category. Wrong counts
// submissions that did not match the current word.
type Counts struct {
	Perfect int `json:"perfect"`
	Good    int `json:"good"`
	Early   int `json:"early"`
	Late    int `json:"late"`
	Miss    int `json:"miss"`
	Wrong   int `json:"wrong"`
}

func (c *Counts) add(t Timing) {
	switch t {
	case Perfect:
		c.Perfect++
	case Good:
		c.Good++
	case Early:
		c.Early++
	case Late:
		c.Late++
	default:
		c.Miss++
	}
}

// Hits is the number of words typed within the accept window.
func (c Counts) Hits() int { return c.Perfect + c.Good + c.Early + c.Late }

// SongResults is the record of a completed session.
type SongResults struct {
	SessionID         uuid.UUID     `json:"sessionId"`
	SongID            string        `json:"songId"`
	Counts            Counts        `json:"counts"`
	Words             int           `json:"words"`
	Accuracy          float64       `json:"accuracy"` // percent of words hit
	Score             int           `json:"score"`
	MaxCombo          int           `json:"maxCombo"`
	TotalTime         time.Duration `json:"totalTime"`
	AverageOffsetMs   float64       `json:"averageOffsetMs"`   // mean absolute offset of hits
	AverageResponseMs float64       `json:"averageResponseMs"` // mean time from a word becoming current to its hit
	CompletedAt       time.Time     `json:"completedAt"`
}

func (e *Evaluator) results() SongResults {
	r := SongResults{
		SessionID:   e.session,
		Counts:      e.counts,
		Words:       len(e.words),
		Score:       e.score,
		MaxCombo:    e.bestCombo,
		TotalTime:   e.completedAt.Sub(e.origin),
		CompletedAt: e.completedAt,
	}
	if e.flat != nil {
		r.SongID = e.flat.Song.ID
	}
	if r.Words > 0 {
		r.Accuracy = 100 * float64(e.counts.Hits()) / float64(r.Words)
	}
	if hits := e.counts.Hits(); hits > 0 {
		r.AverageOffsetMs = ms(e.offsetSum) / float64(hits)
		r.AverageResponseMs = ms(e.responseSum) / float64(hits)
	}
	return r
}

func ms(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }
