package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/chzyer/readline"

	"github.com/mrdg/typebeat/audio"
	"github.com/mrdg/typebeat/dub"
	"github.com/mrdg/typebeat/engine"
	"github.com/mrdg/typebeat/pattern"
	"github.com/mrdg/typebeat/play"
	"github.com/mrdg/typebeat/song"
)

const redrawDelay = 20 * time.Millisecond

var errQuit = errors.New("quit")

type env struct {
	runner   *play.Runner
	engine   *engine.Engine
	graph    *audio.Graph
	patterns *pattern.Registry
	song     *song.Song
	out      io.Writer
}

func (e *env) eval(input string) (dub.Node, error) {
	command, err := dub.Parse(input)
	if err != nil {
		return nil, err
	}
	name := string(command.Name)
	for _, cmd := range commands {
		if name != cmd.name {
			continue
		}
		if cmd.arity < 0 {
			arity := -cmd.arity
			if len(command.Args) < arity {
				return nil, fmt.Errorf("%s: wrong number of arguments: need at least %v, got %v",
					cmd.name, arity, len(command.Args))
			}
		} else if len(command.Args) != cmd.arity {
			return nil, fmt.Errorf("%s: wrong number of arguments: want %v, got %v",
				cmd.name, cmd.arity, len(command.Args))
		}
		result, err := cmd.run(e, command.Args)
		if err != nil {
			if errors.Is(err, errQuit) {
				return nil, err
			}
			return result, fmt.Errorf("%s error: %w", cmd.name, err)
		}
		return result, nil
	}
	return nil, fmt.Errorf("unknown command: %s", name)
}

// do runs f on the session goroutine.
func (e *env) do(f func() error) error {
	var err error
	if derr := e.runner.Do(func() { err = f() }); derr != nil {
		return derr
	}
	return err
}

// watch keeps the prompt in sync with the session and prints the results
// when a song completes.
func (e *env) watch(rl *readline.Instance) (unsubscribe func(), err error) {
	var (
		mu   sync.Mutex
		last play.Snapshot
	)
	redraw := debounce.New(redrawDelay)
	return e.runner.Subscribe(func(s play.Snapshot) {
		mu.Lock()
		prev := last
		last = s
		mu.Unlock()

		if s.State == play.Complete && prev.State != play.Complete {
			// the subscriber runs on the session goroutine
			go e.printResults()
		}
		redraw(func() {
			mu.Lock()
			s := last
			mu.Unlock()
			rl.SetPrompt(prompt(s))
			rl.Refresh()
		})
	})
}

func (e *env) printResults() {
	r, err := e.runner.Results()
	if err != nil {
		return
	}
	renderResults(e.out, r)
}

func repl(env *env) error {
	rl, err := readline.New("> ")
	if err != nil {
		return err
	}
	defer rl.Close()
	env.out = rl.Stdout()

	unsubscribe, err := env.watch(rl)
	if err != nil {
		return err
	}
	defer unsubscribe()

	if s, err := env.runner.Snapshot(); err == nil {
		rl.SetPrompt(prompt(s))
	}
	fmt.Fprintf(env.out, "%s at %.0f bpm, %s. :start to begin, :help for commands\n",
		colorize(env.song.Title, colorBlue), env.song.BPM, env.song.Difficulty)

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				return nil
			}
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			fmt.Fprintln(env.out, err)
			continue
		}
		line = strings.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		if strings.HasPrefix(line, ":") {
			result, err := env.eval(line[1:])
			if errors.Is(err, errQuit) {
				return nil
			}
			if err != nil {
				fmt.Fprintln(env.out, err)
			} else if result != nil {
				fmt.Fprintln(env.out, result)
			}
			continue
		}

		res, err := env.runner.Submit(line)
		if err != nil {
			return err
		}
		fmt.Fprintln(env.out, renderResult(res))
	}
}
