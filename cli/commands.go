//go:build !js
// +build !js

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/simukka/pfxr/audio"
)

var errNoSource = errors.New("one of -t or -fx is required")

// soundFlags selects a sound by template and seed or by parameter string.
type soundFlags struct {
	template string
	seed     uint
	fx       string
}

func (sf *soundFlags) register(fs *flag.FlagSet, withFX bool) {
	fs.StringVar(&sf.template, "t", "", "template name (pickup, laser, jump, ...)")
	fs.UintVar(&sf.seed, "seed", 0, "random seed; 0 picks one from the clock")
	if withFX {
		fs.StringVar(&sf.fx, "fx", "", "?fx= URL or comma separated parameter list")
	}
}

func (sf *soundFlags) set() bool {
	return sf.template != "" || sf.fx != ""
}

func (sf *soundFlags) sound() (audio.Sound, error) {
	if sf.fx != "" {
		s := audio.ParseParams(sf.fx)
		return s, s.Validate()
	}
	if sf.template == "" {
		return audio.Sound{}, errNoSource
	}
	if sf.seed > 0xFFFFFFFF {
		return audio.Sound{}, fmt.Errorf("seed %d out of range", sf.seed)
	}
	t, err := audio.ParseTemplate(sf.template)
	if err != nil {
		return audio.Sound{}, err
	}
	return audio.ApplyTemplate(t, uint32(sf.seed)), nil
}

func runTemplate(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("template")
	var sf soundFlags
	sf.register(fs, false)
	out := fs.String("o", "", "output WAV file, or - for stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if sf.template == "" {
		return errors.New("-t is required")
	}
	return a.renderTo(sf, *out)
}

func runRender(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("render")
	var sf soundFlags
	fs.StringVar(&sf.fx, "fx", "", "?fx= URL or comma separated parameter list")
	out := fs.String("o", "", "output WAV file, or - for stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if sf.fx == "" {
		return errors.New("-fx is required")
	}
	return a.renderTo(sf, *out)
}

func (a *app) renderTo(sf soundFlags, out string) error {
	if out == "" {
		return errors.New("-o is required")
	}
	s, err := sf.sound()
	if err != nil {
		return err
	}
	buf := audio.Render(s)
	if err := a.writeWAV(out, buf.Data()); err != nil {
		return err
	}
	a.log.WithFields(logrus.Fields{
		"output":  out,
		"samples": buf.Len,
		"fx":      audio.EncodeURL(s),
	}).Info("Rendered")
	return nil
}

func runURL(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("url")
	var sf soundFlags
	sf.register(fs, false)
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := sf.sound()
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, audio.EncodeURL(s))
	return nil
}

type infoReport struct {
	Source string             `json:"source"`
	FX     string             `json:"fx,omitempty"`
	Params map[string]float32 `json:"params,omitempty"`
	audio.Stats
}

func runInfo(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("info")
	var sf soundFlags
	sf.register(fs, true)
	wavPath := fs.String("wav", "", "analyze a 16-bit mono WAV file instead")
	asJSON := fs.Bool("json", false, "print JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var rep infoReport
	switch {
	case *wavPath != "":
		f, err := os.Open(*wavPath)
		if err != nil {
			return err
		}
		defer f.Close()
		_, samples, err := audio.DecodeWAV(f)
		if err != nil {
			return fmt.Errorf("%s: %w", *wavPath, err)
		}
		rep.Source = *wavPath
		rep.Stats = audio.Analyze(samples)
	case sf.set():
		s, err := sf.sound()
		if err != nil {
			return err
		}
		rep.Source = "params"
		rep.FX = audio.EncodeURL(s)
		rep.Params = s.Map()
		rep.Stats = audio.Analyze(audio.Render(s).Data())
	default:
		return errors.New("one of -t, -fx or -wav is required")
	}

	if *asJSON {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}

	w := a.stdout
	fmt.Fprintf(w, "source:     %s\n", rep.Source)
	if rep.FX != "" {
		fmt.Fprintf(w, "fx:         %s\n", rep.FX)
	}
	fmt.Fprintf(w, "samples:    %d\n", rep.Samples)
	fmt.Fprintf(w, "duration:   %.3fs\n", rep.Duration)
	fmt.Fprintf(w, "peak:       %.4f\n", rep.Peak)
	fmt.Fprintf(w, "rms:        %.4f\n", rep.RMS)
	fmt.Fprintf(w, "crossings:  %d\n", rep.ZeroCrossings)
	fmt.Fprintf(w, "dominant:   %.1f Hz\n", rep.DominantHz)
	return nil
}

var errUnknownPreset = errors.New("unknown preset")

func runLibrary(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("library")
	dir := fs.String("dir", "", "directory to write <name>.wav files into; empty lists the presets")
	category := fs.String("category", "", "only presets in this category (Player, Pickup, Enemy, UI)")
	name := fs.String("name", "", "only the named preset")
	if err := fs.Parse(args); err != nil {
		return err
	}

	presets, err := selectPresets(*category, *name)
	if err != nil {
		return err
	}

	if *dir == "" {
		for _, p := range presets {
			fmt.Fprintf(a.stdout, "%-13s %-7s %-10s %10d  %s\n", p.Name, p.Category, p.Template, p.Seed, p.Description)
		}
		return nil
	}

	if err := os.MkdirAll(*dir, 0o755); err != nil {
		return err
	}
	for _, p := range presets {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(*dir, p.Name+".wav")
		if err := audio.WriteWAVFile(path, audio.Render(p.Sound()).Data()); err != nil {
			return fmt.Errorf("%s: %w", p.Name, err)
		}
		a.log.WithFields(logrus.Fields{
			"preset": p.Name,
			"path":   path,
		}).Debug("Exported preset")
	}
	a.log.WithField("count", len(presets)).Info("Library exported")
	return nil
}

// selectPresets narrows the library to one preset or one category.
func selectPresets(category, name string) ([]audio.Preset, error) {
	switch {
	case name != "":
		p, ok := audio.LookupPreset(name)
		if !ok || (category != "" && p.Category != category) {
			return nil, fmt.Errorf("%w: %q", errUnknownPreset, name)
		}
		return []audio.Preset{p}, nil
	case category != "":
		presets := audio.PresetsByCategory(category)
		if len(presets) == 0 {
			return nil, fmt.Errorf("no presets in category %q", category)
		}
		return presets, nil
	}
	return audio.Library, nil
}

func runPlay(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("play")
	var sf soundFlags
	sf.register(fs, true)
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := sf.sound()
	if err != nil {
		return err
	}

	samples := audio.Render(s).Data()
	a.log.WithFields(logrus.Fields{
		"fx":      audio.EncodeURL(s),
		"samples": len(samples),
	}).Info("Playing")
	return play(ctx, samples)
}
