package pattern

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/mrdg/typebeat/dub"
)

// Patterns are written one hit line per sound on a 16 step grid:
//
//	kick '1,3
//	snare '2,4 0.8
//	hihat '*/* 0.4
//	measure
//	kick '1:4
//
// A measure line starts the next measure of the loop. In a file with several
// patterns each one starts with a "drum <id>" line.
const stepsPerBeat = 4

const defaultVelocity = 1.0

type drumBuilder struct {
	id      string
	measure int
	hits    []DrumHit
}

// ParseDrum parses a single pattern definition.
func ParseDrum(id, src string) (*DrumPattern, error) {
	b := &drumBuilder{id: id}
	for i, line := range strings.Split(src, "\n") {
		line = stripComment(line)
		if line == "" {
			continue
		}
		cmd, err := dub.Parse(line)
		if err != nil {
			return nil, fmt.Errorf("drum pattern %s: line %d: %w", id, i+1, err)
		}
		if err := b.add(cmd); err != nil {
			return nil, fmt.Errorf("drum pattern %s: line %d: %w", id, i+1, err)
		}
	}
	return b.build()
}

// ParseDrums reads a file of pattern definitions.
func ParseDrums(r io.Reader) ([]*DrumPattern, error) {
	var (
		patterns []*DrumPattern
		current  *drumBuilder
	)
	flush := func() error {
		if current == nil {
			return nil
		}
		p, err := current.build()
		if err != nil {
			return err
		}
		patterns = append(patterns, p)
		return nil
	}

	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		line := stripComment(scanner.Text())
		if line == "" {
			continue
		}
		cmd, err := dub.Parse(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		if cmd.Name == "drum" {
			if len(cmd.Args) != 1 {
				return nil, fmt.Errorf("line %d: drum: want a pattern id", n)
			}
			id, ok := cmd.Args[0].(dub.Identifier)
			if !ok {
				return nil, fmt.Errorf("line %d: drum: invalid pattern id %v", n, cmd.Args[0])
			}
			if err := flush(); err != nil {
				return nil, err
			}
			current = &drumBuilder{id: string(id)}
			continue
		}
		if current == nil {
			return nil, fmt.Errorf("line %d: %s before the first drum line", n, cmd.Name)
		}
		if err := current.add(cmd); err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return patterns, nil
}

func (b *drumBuilder) add(cmd dub.Command) error {
	if cmd.Name == "measure" {
		if len(cmd.Args) != 0 {
			return fmt.Errorf("measure takes no arguments")
		}
		b.measure++
		return nil
	}
	sound, err := ParseSound(string(cmd.Name))
	if err != nil {
		return err
	}
	if len(cmd.Args) < 1 || len(cmd.Args) > 2 {
		return fmt.Errorf("%s: want a step expression and an optional velocity", sound)
	}
	expr, ok := cmd.Args[0].(dub.MatchExpr)
	if !ok {
		return fmt.Errorf("%s: expected a step expression, got %v", sound, cmd.Args[0])
	}
	velocity := defaultVelocity
	if len(cmd.Args) == 2 {
		switch v := cmd.Args[1].(type) {
		case dub.Float:
			velocity = float64(v)
		case dub.Int:
			velocity = float64(v)
		default:
			return fmt.Errorf("%s: expected a velocity, got %v", sound, v)
		}
	}
	steps, err := dub.EvalMatchExpr(expr, BeatsPerMeasure, stepsPerBeat)
	if err != nil {
		return fmt.Errorf("%s: %w", sound, err)
	}
	for step, on := range steps {
		if on == 0 {
			continue
		}
		b.hits = append(b.hits, DrumHit{
			Beat:        b.measure*BeatsPerMeasure + step/stepsPerBeat,
			Subdivision: float64(step%stepsPerBeat) / stepsPerBeat,
			Velocity:    velocity,
			Sound:       sound,
		})
	}
	return nil
}

func (b *drumBuilder) build() (*DrumPattern, error) {
	return NewDrumPattern(b.id, b.measure+1, b.hits)
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}
