package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrdg/typebeat/audio"
	"github.com/mrdg/typebeat/song"
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List drum and bass patterns",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadPatterns()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s\n", colorize("drums", colorGreen), strings.Join(reg.DrumIDs(), " "))
		fmt.Fprintf(out, "%s  %s\n", colorize("bass", colorGreen), strings.Join(reg.BassIDs(), " "))
		fmt.Fprintf(out, "%s   %s\n", colorize("mix", colorGreen), strings.Join(audio.Presets(), " "))
		return nil
	},
}

var songsCmd = &cobra.Command{
	Use:   "songs",
	Short: "List the built-in songs",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, s := range song.Builtins() {
			flat, err := song.Flatten(s)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%-14s %-22s %3.0f bpm  %-6s %3d words\n",
				s.ID, s.Title, s.BPM, s.Difficulty, len(flat.Words))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(patternsCmd, songsCmd)
}
