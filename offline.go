package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrdg/typebeat/audio"
	"github.com/mrdg/typebeat/log"
	"github.com/mrdg/typebeat/pattern"
	"github.com/mrdg/typebeat/play"
	"github.com/mrdg/typebeat/song"
)

// tail is rendered after the last word so the final sounds ring out.
const tail = 2 * time.Second

var renderCmd = &cobra.Command{
	Use:   "render [song]",
	Short: "Render a song to a WAV file",
	Long: `Render the accompaniment of a song with every word typed on its beat,
including the countdown and the chords of root changes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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
		samples, results, err := renderSong(s, reg, logger)
		if err != nil {
			return err
		}
		if err := audio.WriteWAVFile(opts.output, samples, audio.SampleRate); err != nil {
			return err
		}
		logger.Infof("wrote %s (%s)", opts.output, results.TotalTime.Round(time.Millisecond))
		renderResults(os.Stdout, results)
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVarP(&opts.output, "output", "o", "out.wav", "output file")
	rootCmd.AddCommand(renderCmd)
}

// renderSong plays s offline: the graph is rendered block by block and the
// session is driven from the graph clock, submitting each word at the first
// block after its expected time.
func renderSong(s *song.Song, reg *pattern.Registry, logger *log.Logger) ([]float64, play.SongResults, error) {
	flat, err := song.Flatten(s)
	if err != nil {
		return nil, play.SongResults{}, err
	}
	g, eng, err := newEngine(logger)
	if err != nil {
		return nil, play.SongResults{}, err
	}

	epoch := time.Unix(0, 0)
	now := func() time.Time {
		return epoch.Add(time.Duration(g.Now() * float64(time.Second)))
	}
	eval := play.New(play.Config{Music: eng, Patterns: reg, Log: logger, Now: now})
	if err := eval.LoadSong(s); err != nil {
		return nil, play.SongResults{}, err
	}
	eval.Start()

	length := play.CountdownTicks*play.CountdownInterval + flat.Length() + tail
	frames := int(length.Seconds() * audio.SampleRate)
	samples := g.Render(frames, func(float64) {
		eval.Frame()
		if snap := eval.Snapshot(); snap.State == play.Playing {
			if now().Sub(snap.Origin) >= snap.Expected {
				eval.Submit(snap.Current())
			}
		}
		eng.Tick()
	})

	results, err := eval.Results()
	if err != nil {
		return nil, results, fmt.Errorf("render %s: %w", s.ID, err)
	}
	return samples, results, nil
}
