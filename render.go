package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/mrdg/typebeat/play"
	"github.com/mrdg/typebeat/song"
)

const upcomingWords = 3

// prompt renders the session state as the readline prompt.
func prompt(s play.Snapshot) string {
	switch s.State {
	case play.Countdown:
		return fmt.Sprintf("%s  get ready > ", numIcon(s.Countdown))
	case play.Playing:
		return fmt.Sprintf("%s %s %s > ", beatIcons(s.Beat), renderWords(s), renderScore(s))
	case play.Paused:
		return fmt.Sprintf("%s %s > ", colorize("paused", colorMagenta), renderScore(s))
	case play.Complete:
		return fmt.Sprintf("%s %s > ", colorize("done", colorGreen), renderScore(s))
	default:
		return fmt.Sprintf("%s > ", colorize(s.SongID, colorBlue))
	}
}

func beatIcons(beat int) string {
	var icons []string
	for i := 0; i < song.BeatsPerMeasure; i++ {
		if i == beat {
			icons = append(icons, numIcon(i+1))
		} else {
			icons = append(icons, "·")
		}
	}
	return strings.Join(icons, " ")
}

func renderWords(s play.Snapshot) string {
	if s.Index >= len(s.Words) {
		return ""
	}
	words := []string{colorize(s.Words[s.Index], colorYellow)}
	for i := s.Index + 1; i < len(s.Words) && i <= s.Index+upcomingWords; i++ {
		words = append(words, s.Words[i])
	}
	return strings.Join(words, " ")
}

func renderScore(s play.Snapshot) string {
	score := fmt.Sprintf("%d", s.Score)
	if s.Combo > 0 {
		score += fmt.Sprintf(" x%d", s.Combo)
		if tier := play.Tier(s.Combo); tier.Name != "" {
			score += " " + colorize(tier.Name, colorRed)
		}
	}
	return score
}

var timingColors = map[play.Timing]int{
	play.Perfect: colorGreen,
	play.Good:    colorBlue,
	play.Early:   colorYellow,
	play.Late:    colorYellow,
	play.Miss:    colorRed,
}

func renderResult(res play.Result) string {
	if res.Expected == "" {
		return "not playing, :start to begin"
	}
	if !res.Correct {
		return fmt.Sprintf("%s (expected %s)", colorize("wrong", colorRed), res.Expected)
	}
	offset := fmt.Sprintf("%+dms", res.Offset.Milliseconds())
	if res.Points == 0 {
		return fmt.Sprintf("%s %s", colorize(res.Timing.String(), timingColors[res.Timing]), offset)
	}
	return fmt.Sprintf("%s %s +%d", colorize(res.Timing.String(), timingColors[res.Timing]), offset, res.Points)
}

func renderResults(w io.Writer, r play.SongResults) {
	fmt.Fprintf(w, "%s %s\n", colorize("results", colorMagenta), r.SongID)
	fmt.Fprintf(w, "  score     %d\n", r.Score)
	fmt.Fprintf(w, "  accuracy  %.1f%% of %d words\n", r.Accuracy, r.Words)
	fmt.Fprintf(w, "  max combo %d\n", r.MaxCombo)
	rows := []struct {
		timing play.Timing
		n      int
	}{
		{play.Perfect, r.Counts.Perfect},
		{play.Good, r.Counts.Good},
		{play.Early, r.Counts.Early},
		{play.Late, r.Counts.Late},
		{play.Miss, r.Counts.Miss},
	}
	for _, row := range rows {
		name := row.timing.String()
		name += strings.Repeat(" ", 9-len(name))
		fmt.Fprintf(w, "  %s %d\n", colorize(name, timingColors[row.timing]), row.n)
	}
	fmt.Fprintf(w, "  wrong     %d\n", r.Counts.Wrong)
	fmt.Fprintf(w, "  offset    %.1fms avg\n", r.AverageOffsetMs)
	fmt.Fprintf(w, "  response  %.1fms avg\n", r.AverageResponseMs)
	fmt.Fprintf(w, "  time      %s\n", r.TotalTime.Round(time.Millisecond))
}

func displayName(filename string) string {
	filename = filepath.Base(filename)
	return filename[:len(filename)-len(filepath.Ext(filename))]
}

func numIcon(n int) string {
	// https://www.unicode.org/emoji/charts/full-emoji-list.html#0030_fe0f_20e3
	return string([]byte{48 + byte(n%10), 239, 184, 143, 226, 131, 163})
}

const (
	colorBlack = iota + 30
	colorRed
	colorGreen
	colorYellow
	colorBlue
	colorMagenta
)

func colorize(text string, color int) string {
	return fmt.Sprintf("\033[%dm%s\033[0m", color, text)
}
