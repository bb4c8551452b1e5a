package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrdg/typebeat/audio"
	"github.com/mrdg/typebeat/engine"
	"github.com/mrdg/typebeat/httpapi"
	"github.com/mrdg/typebeat/log"
	"github.com/mrdg/typebeat/pattern"
	"github.com/mrdg/typebeat/play"
	"github.com/mrdg/typebeat/song"
)

const defaultSong = "first-steps"

type options struct {
	logLevel   string
	difficulty string
	bpm        float64
	patterns   string

	backend string
	mix     string
	volumes map[string]float64
	http    string

	output string
}

var opts = options{volumes: make(map[string]float64)}

var rootCmd = &cobra.Command{
	Use:   "typebeat",
	Short: "Type words in time with a drum groove",
	Long: `typebeat plays a song's accompaniment and scores every word you type
by how close to its beat it lands.`,
	SilenceUsage: true,
}

var playCmd = &cobra.Command{
	Use:   "play [song]",
	Short: "Play a song interactively",
	Long: `Play a built-in song by id or a song from a JSON file. Lines starting
with ':' are commands, see :help.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "debug, info, warn, error or none")
	rootCmd.PersistentFlags().StringVar(&opts.difficulty, "difficulty", "", "override the song difficulty: easy, normal or hard")
	rootCmd.PersistentFlags().Float64Var(&opts.bpm, "bpm", 0, "override the song tempo")
	rootCmd.PersistentFlags().StringVar(&opts.patterns, "patterns", "", "file with extra drum pattern definitions")
	rootCmd.PersistentFlags().StringVar(&opts.mix, "mix", "default", "mix preset: "+strings.Join(audio.Presets(), ", "))
	for _, bus := range []string{"master", "drums", "bass", "pad"} {
		rootCmd.PersistentFlags().Float64(bus, 0, bus+" volume in [0, 1]")
	}

	playCmd.Flags().StringVar(&opts.backend, "backend", "portaudio", "audio output: portaudio, oto or none")
	playCmd.Flags().StringVar(&opts.http, "http", "", "serve the session state as JSON on this address")

	rootCmd.AddCommand(playCmd)
}

func main() {
	cobra.CheckErr(rootCmd.Execute())
}

func newLogger() *log.Logger {
	return log.New(os.Stderr, log.LevelFromString(opts.logLevel))
}

// readVolumes collects the volume flags that were set on the command line.
func readVolumes(cmd *cobra.Command) error {
	for _, bus := range []string{"master", "drums", "bass", "pad"} {
		f := cmd.Flags().Lookup(bus)
		if f == nil || !f.Changed {
			continue
		}
		v, err := cmd.Flags().GetFloat64(bus)
		if err != nil {
			return err
		}
		opts.volumes[bus] = v
	}
	return nil
}

// loadSong returns the song named by args: a JSON file when the argument is
// a path, a built-in song otherwise. Flag overrides are applied to a copy.
func loadSong(args []string) (*song.Song, error) {
	name := defaultSong
	if len(args) > 0 {
		name = args[0]
	}
	var (
		s   *song.Song
		err error
	)
	if strings.HasSuffix(name, ".json") || strings.ContainsRune(name, os.PathSeparator) {
		s, err = song.LoadFile(name)
	} else {
		s, err = song.Builtin(name)
	}
	if err != nil {
		return nil, err
	}
	cp := *s
	if opts.difficulty != "" {
		d, err := song.ParseDifficulty(opts.difficulty)
		if err != nil {
			return nil, err
		}
		cp.Difficulty = d
	}
	if opts.bpm > 0 {
		cp.BPM = opts.bpm
	}
	return &cp, nil
}

func loadPatterns() (*pattern.Registry, error) {
	reg := pattern.NewRegistry()
	if opts.patterns == "" {
		return reg, nil
	}
	f, err := os.Open(opts.patterns)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	patterns, err := pattern.ParseDrums(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opts.patterns, err)
	}
	for _, p := range patterns {
		reg.AddDrum(p)
	}
	return reg, nil
}

// newEngine creates a graph with the mix settings applied and an engine
// attached to it.
func newEngine(logger *log.Logger) (*audio.Graph, *engine.Engine, error) {
	g := audio.NewGraph(audio.SampleRate)
	if err := audio.LoadPreset(opts.mix, g); err != nil {
		return nil, nil, err
	}
	eng := engine.New(logger)
	eng.Initialize(g)
	for bus, v := range opts.volumes {
		if err := eng.SetVolume(bus, v); err != nil {
			return nil, nil, fmt.Errorf("--%s: %w", bus, err)
		}
	}
	return g, eng, nil
}

func newSink(g *audio.Graph) (audio.Sink, error) {
	switch opts.backend {
	case "portaudio":
		return audio.NewPortAudioSink(g)
	case "oto":
		return audio.NewOtoSink(g)
	case "none":
		return audio.NewNullSink(g), nil
	default:
		return nil, fmt.Errorf("unknown backend: %s", opts.backend)
	}
}

func runPlay(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	if err := readVolumes(cmd); err != nil {
		return err
	}
	s, err := loadSong(args)
	if err != nil {
		return err
	}
	reg, err := loadPatterns()
	if err != nil {
		return err
	}
	g, eng, err := newEngine(logger)
	if err != nil {
		return err
	}
	sink, err := newSink(g)
	if err != nil {
		return err
	}
	defer sink.Close()
	if err := sink.Start(); err != nil {
		return err
	}

	latency := sink.Latency()
	logger.Debugf("output latency %s", latency)
	eval := play.New(play.Config{Music: eng, Patterns: reg, Log: logger, Latency: latency})
	runner := play.NewRunner(eval, eng, logger)
	defer runner.Close()
	if err := runner.LoadSong(s); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if opts.http != "" {
		srv := httpapi.New(runner, reg, logger)
		go func() {
			if err := srv.ListenAndServe(ctx, opts.http); err != nil {
				logger.Errorf("http: %v", err)
			}
		}()
	}

	env := &env{
		runner:   runner,
		engine:   eng,
		graph:    g,
		patterns: reg,
		song:     s,
	}
	return repl(env)
}
