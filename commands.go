package main

import (
	"fmt"
	"strings"

	"github.com/mrdg/typebeat/audio"
	"github.com/mrdg/typebeat/dub"
	"github.com/mrdg/typebeat/pattern"
)

type command struct {
	name  string
	help  string
	run   func(*env, []dub.Node) (dub.Node, error)
	arity int // -n means len(args) must be >= n
}

var commands []command

func init() {
	commands = []command{
		{"start", "start the song", startCommand, 0},
		{"pause", "pause the song", pauseCommand, 0},
		{"resume", "resume a paused song", resumeCommand, 0},
		{"stop", "stop the song", stopCommand, 0},
		{"load", "load <song>: load a built-in song or a JSON file", loadCommand, 1},
		{"volume", "volume <bus> [level]: show or set a bus level in [0, 1]", volumeCommand, -1},
		{"mix", "mix <preset>: apply a mix preset", mixCommand, 1},
		{"levels", "show the level of every bus", levelsCommand, 0},
		{"sample", "sample <sound> <file>: play a drum sound from a WAV file", sampleCommand, 2},
		{"results", "show the results of the last song", resultsCommand, 0},
		{"patterns", "list the drum and bass patterns", patternsCommand, 0},
		{"help", "list the commands", helpCommand, 0},
		{"quit", "exit", quitCommand, 0},
	}
}

func startCommand(env *env, args []dub.Node) (dub.Node, error) {
	return nil, env.runner.Start()
}

func pauseCommand(env *env, args []dub.Node) (dub.Node, error) {
	return nil, env.runner.Pause()
}

func resumeCommand(env *env, args []dub.Node) (dub.Node, error) {
	return nil, env.runner.Resume()
}

func stopCommand(env *env, args []dub.Node) (dub.Node, error) {
	return nil, env.runner.Stop()
}

func loadCommand(env *env, args []dub.Node) (dub.Node, error) {
	var name string
	if err := readArgs(args, &name); err != nil {
		return nil, err
	}
	s, err := loadSong([]string{name})
	if err != nil {
		return nil, err
	}
	if err := env.runner.LoadSong(s); err != nil {
		return nil, err
	}
	env.song = s
	return dub.String(fmt.Sprintf("loaded %s (%.0f bpm, %s)", s.Title, s.BPM, s.Difficulty)), nil
}

func volumeCommand(env *env, args []dub.Node) (dub.Node, error) {
	var bus string
	if len(args) == 1 {
		if err := readArgs(args, &bus); err != nil {
			return nil, err
		}
		v, err := env.engine.Volume(bus)
		return dub.Float(v), err
	}
	var level float64
	if err := readArgs(args, &bus, &level); err != nil {
		return nil, err
	}
	return nil, env.do(func() error { return env.engine.SetVolume(bus, level) })
}

func mixCommand(env *env, args []dub.Node) (dub.Node, error) {
	var name string
	if err := readArgs(args, &name); err != nil {
		return nil, err
	}
	return nil, env.do(func() error { return audio.LoadPreset(name, env.graph) })
}

func levelsCommand(env *env, args []dub.Node) (dub.Node, error) {
	var lines []string
	for _, key := range env.graph.Keys() {
		v, err := env.graph.Get(key)
		if err != nil {
			return nil, err
		}
		lines = append(lines, fmt.Sprintf("%-7s %.2f", key, v))
	}
	return dub.String(strings.Join(lines, "\n")), nil
}

func sampleCommand(env *env, args []dub.Node) (dub.Node, error) {
	var name, file string
	if err := readArgs(args, &name, &file); err != nil {
		return nil, err
	}
	sound, err := pattern.ParseSound(name)
	if err != nil {
		return nil, err
	}
	if err := env.do(func() error { return env.engine.LoadSample(sound, file) }); err != nil {
		return nil, err
	}
	return dub.String(fmt.Sprintf("%s: %s", sound, displayName(file))), nil
}

func resultsCommand(env *env, args []dub.Node) (dub.Node, error) {
	r, err := env.runner.Results()
	if err != nil {
		return nil, err
	}
	renderResults(env.out, r)
	return nil, nil
}

func patternsCommand(env *env, args []dub.Node) (dub.Node, error) {
	return dub.String(fmt.Sprintf("drums: %s\nbass: %s",
		strings.Join(env.patterns.DrumIDs(), ", "),
		strings.Join(env.patterns.BassIDs(), ", "))), nil
}

func helpCommand(env *env, args []dub.Node) (dub.Node, error) {
	var lines []string
	for _, cmd := range commands {
		lines = append(lines, fmt.Sprintf(":%-9s %s", cmd.name, cmd.help))
	}
	return dub.String(strings.Join(lines, "\n")), nil
}

func quitCommand(env *env, args []dub.Node) (dub.Node, error) {
	return nil, errQuit
}

func readArgs(args []dub.Node, slots ...interface{}) error {
	if len(args) != len(slots) {
		return fmt.Errorf("wrong number of arguments: want %d, got %d", len(slots), len(args))
	}
	for n, arg := range args {
		dest := slots[n]
		switch p := dest.(type) {
		case *string:
			switch s := arg.(type) {
			case dub.String:
				*p = string(s)
			case dub.Identifier:
				*p = string(s)
			default:
				return fmt.Errorf("argument error: expected a string or identifier")
			}
		case *float64:
			switch v := arg.(type) {
			case dub.Float:
				*p = float64(v)
			case dub.Int:
				*p = float64(v)
			default:
				return fmt.Errorf("argument error: expected a number")
			}
		case *int:
			n, ok := arg.(dub.Int)
			if !ok {
				return fmt.Errorf("argument error: expected an integer")
			}
			*p = int(n)
		default:
			panic("readArgs: unhandled destination type: " + fmt.Sprint(p))
		}
	}
	return nil
}
