// Package web is the browser front end: a Web Audio player for rendered
// sounds and a slider panel for editing parameters.
package web

import (
	"errors"
	"fmt"

	"github.com/simukka/pfxr/audio"
)

// ErrUnknownPreset is returned for a name missing from audio.Library.
var ErrUnknownPreset = errors.New("unknown preset")

// sliderSteps is the resolution of a continuous slider.
const sliderSteps = 1000

// Slider is the view of one audio.Field in the editor panel.
type Slider struct {
	Index int
	Name  string
	Label string
	Min   float64
	Max   float64
	Step  float64
	Value float64
}

// SliderGroup is a titled block of sliders.
type SliderGroup struct {
	Name    string
	Sliders []Slider
}

// Layout groups the fields of s for the panel, keeping field order within
// each group and groups in order of first appearance.
func Layout(s audio.Sound) []SliderGroup {
	var groups []SliderGroup
	index := make(map[string]int)
	for i, f := range audio.Fields {
		g, ok := index[f.Group]
		if !ok {
			g = len(groups)
			index[f.Group] = g
			groups = append(groups, SliderGroup{Name: f.Group})
		}
		groups[g].Sliders = append(groups[g].Sliders, Slider{
			Index: i,
			Name:  f.Name,
			Label: f.Label,
			Min:   float64(f.Min),
			Max:   float64(f.Max),
			Step:  sliderStep(f),
			Value: float64(f.Get(&s)),
		})
	}
	return groups
}

// fieldSetters returns one setter per field, in field order, each writing
// a slider value into *s.
func fieldSetters(s *audio.Sound) []func(float64) {
	setters := make([]func(float64), len(audio.Fields))
	for i := range audio.Fields {
		f := audio.Fields[i]
		setters[i] = func(v float64) {
			f.Set(s, float32(v))
		}
	}
	return setters
}

func sliderStep(f audio.Field) float64 {
	if f.Integer {
		return 1
	}
	return float64(f.Max-f.Min) / sliderSteps
}

// FormatValue renders a field value for the label next to its slider.
func FormatValue(f audio.Field, v float64) string {
	switch {
	case f.Integer && f.Name == "waveForm":
		return audio.WaveForm(int(v)).String()
	case f.Integer:
		return fmt.Sprintf("%d", int(v))
	case f.Max-f.Min >= 100:
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.3f", v)
}

// Generate resolves a template name and seed to parameters.
func Generate(template string, seed uint32) (audio.Sound, error) {
	t, err := audio.ParseTemplate(template)
	if err != nil {
		return audio.Sound{}, err
	}
	return audio.ApplyTemplate(t, seed), nil
}

// DataURL renders s as a WAV data URL for an <audio> element or fetch.
func DataURL(s audio.Sound) (string, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}
	return audio.WAVDataURL(audio.Render(s).Data())
}

// PresetSound looks up a library preset by name, case-insensitively.
func PresetSound(name string) (audio.Preset, audio.Sound, error) {
	p, ok := audio.LookupPreset(name)
	if !ok {
		return audio.Preset{}, audio.Sound{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return p, p.Sound(), nil
}

// PresetNames lists library preset names, all of them for an empty
// category.
func PresetNames(category string) []string {
	presets := audio.Library
	if category != "" {
		presets = audio.PresetsByCategory(category)
	}
	names := make([]string, len(presets))
	for i, p := range presets {
		names[i] = p.Name
	}
	return names
}
