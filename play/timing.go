package play

import (
	"time"

	"github.com/mrdg/typebeat/song"
)

type Timing int

const (
	Miss Timing = iota
	Perfect
	Good
	Early
	Late
)

func (t Timing) String() string {
	switch t {
	case Perfect:
		return "perfect"
	case Good:
		return "good"
	case Early:
		return "early"
	case Late:
		return "late"
	default:
		return "miss"
	}
}

// Hit reports whether t keeps the combo going.
func (t Timing) Hit() bool { return t != Miss }

// Classify maps an offset from the expected time to a timing category. An
// offset exactly on a window boundary falls in the tighter window.
func Classify(offset time.Duration, c song.TimingConfig) Timing {
	abs := offset
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs <= c.Perfect:
		return Perfect
	case abs <= c.Good:
		return Good
	case abs <= c.Accept:
		if offset < 0 {
			return Early
		}
		return Late
	default:
		return Miss
	}
}
