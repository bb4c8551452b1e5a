package song

import (
	"fmt"
	"time"
)

type Difficulty string

const (
	Easy   Difficulty = "easy"
	Normal Difficulty = "normal"
	Hard   Difficulty = "hard"
)

// TimingConfig holds the timing windows around the expected time of a word.
// An offset is compared against them by absolute value.
type TimingConfig struct {
	Perfect time.Duration
	Good    time.Duration
	Accept  time.Duration
}

func (c TimingConfig) Validate() error {
	if c.Perfect < 0 || c.Perfect > c.Good || c.Good > c.Accept {
		return fmt.Errorf("timing windows must be ascending: %v, %v, %v", c.Perfect, c.Good, c.Accept)
	}
	return nil
}

var timings = map[Difficulty]TimingConfig{
	Easy:   {Perfect: 80 * time.Millisecond, Good: 160 * time.Millisecond, Accept: 300 * time.Millisecond},
	Normal: {Perfect: 50 * time.Millisecond, Good: 100 * time.Millisecond, Accept: 200 * time.Millisecond},
	Hard:   {Perfect: 35 * time.Millisecond, Good: 70 * time.Millisecond, Accept: 140 * time.Millisecond},
}

func (d Difficulty) Timing() (TimingConfig, error) {
	c, ok := timings[d]
	if !ok {
		return TimingConfig{}, fmt.Errorf("unknown difficulty: %q", string(d))
	}
	return c, nil
}

func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(s)
	if _, err := d.Timing(); err != nil {
		return "", err
	}
	return d, nil
}
