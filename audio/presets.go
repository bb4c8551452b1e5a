package audio

import (
	"fmt"
	"sort"
)

type Device interface {
	Set(key string, val interface{}) error
	Get(key string) (interface{}, error)
}

type preset map[string]interface{}

// mix presets for the graph bus levels
var presets = map[string]preset{
	"default": {
		PropMaster: 0.8,
		PropDrums:  0.9,
		PropBass:   0.7,
		PropPad:    0.5,
		PropFX:     0.6,
	},
	"drums-forward": {
		PropDrums: 1.,
		PropBass:  0.5,
		PropPad:   0.25,
	},
	"ambient": {
		PropDrums: 0.4,
		PropBass:  0.5,
		PropPad:   0.9,
		PropFX:    0.8,
	},
	"practice": {
		PropDrums: 1.,
		PropBass:  0.,
		PropPad:   0.,
		PropFX:    1.,
	},
}

func LoadPreset(name string, d Device) error {
	p, ok := presets[name]
	if !ok {
		return fmt.Errorf("unknown preset: %v", name)
	}
	for k, v := range p {
		if err := d.Set(k, v); err != nil {
			return err
		}
	}
	return nil
}

// Presets returns the names of the mix presets.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
