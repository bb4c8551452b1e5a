package dub

import (
	"fmt"
	"math"
)

type matchItem struct {
	level   int
	matcher matcher
}

type matcher interface {
	match(i int) bool
}

type rangeMatch struct {
	start, end int
}

func (r rangeMatch) match(i int) bool {
	return (i >= r.start || r.start == -1) && (i <= r.end || r.end == -1)
}

var matchAll = rangeMatch{-1, -1}

type listMatch []int

func (l listMatch) match(i int) bool {
	for _, k := range l {
		if k == i {
			return true
		}
	}
	return false
}

// EvalMatchExpr expands expr into a step sequence for a measure of the given
// number of quarter-note beats, each divided into stepsPerBeat steps. Level 0
// of the expression selects beats, level 1 eighths, level 2 sixteenths and so
// on. Selected steps are 1, all others 0.
func EvalMatchExpr(expr MatchExpr, beats, stepsPerBeat int) ([]int, error) {
	if beats <= 0 || stepsPerBeat <= 0 {
		return nil, fmt.Errorf("invalid grid: %d beats of %d steps", beats, stepsPerBeat)
	}
	seq := make([]int, beats*stepsPerBeat)

	for i := len(expr.matchers) - 1; i >= 0; i-- {
		item := expr.matchers[i]
		notesPerBeat := int(math.Pow(2.0, float64(item.level)))
		if notesPerBeat > stepsPerBeat {
			return nil, fmt.Errorf("can't match on 1/%d notes with %d steps per beat", 4*notesPerBeat, stepsPerBeat)
		}
		skip := stepsPerBeat / notesPerBeat

		for note, steps := 0, 0; note < len(seq); note += skip {
			// calculate a note number relative to other notes on the same division, e.g.
			// the 16th notes within a beat are numbered 0 to 3
			noteNum := steps % notesPerBeat
			if notesPerBeat == 1 {
				noteNum = steps
			}
			steps++

			// add 1 because match expects note numbers to start at 1
			if item.matcher.match(noteNum + 1) {
				if i == len(expr.matchers)-1 {
					seq[note] = 1
				}
			} else {
				// zero steps that are unmatched by the current level
				for i := note; i < note+skip; i++ {
					seq[i] = 0
				}
			}
		}
	}
	return seq, nil
}
