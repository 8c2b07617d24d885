package audio

import (
	"math"
	"strings"
)

// Field describes one Sound parameter: its wire name, display label and
// valid range. Fields lists them in encoding order.
type Field struct {
	Name    string
	Label   string
	Group   string
	Min     float32
	Max     float32
	Integer bool

	get func(*Sound) float32
	set func(*Sound, float32)
}

// Get reads the field from s.
func (f Field) Get(s *Sound) float32 {
	return f.get(s)
}

// Set writes v into the field of s. Integer fields truncate toward zero;
// NaN leaves an integer field unchanged.
func (f Field) Set(s *Sound, v float32) {
	if f.Integer && v != v {
		return
	}
	f.set(s, v)
}

// Fields is the ordered parameter schema. The codec, the RANDOM template,
// the server's JSON view and the editor panel all iterate it.
var Fields = [FieldCount]Field{
	{
		Name: "waveForm", Label: "Waveform", Group: "Oscillator", Min: 0, Max: 3, Integer: true,
		get: func(s *Sound) float32 { return float32(s.WaveForm) },
		set: func(s *Sound, v float32) { s.WaveForm = truncWaveForm(v) },
	},
	{
		Name: "volume", Label: "Volume", Group: "Oscillator", Min: 0, Max: 1,
		get: func(s *Sound) float32 { return s.Volume },
		set: func(s *Sound, v float32) { s.Volume = v },
	},
	{
		Name: "attackTime", Label: "Attack", Group: "Envelope", Min: 0, Max: 2,
		get: func(s *Sound) float32 { return s.AttackTime },
		set: func(s *Sound, v float32) { s.AttackTime = v },
	},
	{
		Name: "sustainTime", Label: "Sustain", Group: "Envelope", Min: 0, Max: 2,
		get: func(s *Sound) float32 { return s.SustainTime },
		set: func(s *Sound, v float32) { s.SustainTime = v },
	},
	{
		Name: "sustainPunch", Label: "Punch", Group: "Envelope", Min: 0, Max: 1,
		get: func(s *Sound) float32 { return s.SustainPunch },
		set: func(s *Sound, v float32) { s.SustainPunch = v },
	},
	{
		Name: "decayTime", Label: "Decay", Group: "Envelope", Min: 0, Max: 2,
		get: func(s *Sound) float32 { return s.DecayTime },
		set: func(s *Sound, v float32) { s.DecayTime = v },
	},
	{
		Name: "frequency", Label: "Frequency", Group: "Pitch", Min: 0, Max: 4000,
		get: func(s *Sound) float32 { return s.Frequency },
		set: func(s *Sound, v float32) { s.Frequency = v },
	},
	{
		Name: "pitchDelta", Label: "Pitch delta", Group: "Pitch", Min: -4000, Max: 4000,
		get: func(s *Sound) float32 { return s.PitchDelta },
		set: func(s *Sound, v float32) { s.PitchDelta = v },
	},
	{
		Name: "pitchDuration", Label: "Pitch duration", Group: "Pitch", Min: 0, Max: 1,
		get: func(s *Sound) float32 { return s.PitchDuration },
		set: func(s *Sound, v float32) { s.PitchDuration = v },
	},
	{
		Name: "pitchDelay", Label: "Pitch delay", Group: "Pitch", Min: 0, Max: 1,
		get: func(s *Sound) float32 { return s.PitchDelay },
		set: func(s *Sound, v float32) { s.PitchDelay = v },
	},
	{
		Name: "vibratoRate", Label: "Vibrato rate", Group: "Vibrato", Min: 0, Max: 70,
		get: func(s *Sound) float32 { return s.VibratoRate },
		set: func(s *Sound, v float32) { s.VibratoRate = v },
	},
	{
		Name: "vibratoDepth", Label: "Vibrato depth", Group: "Vibrato", Min: 0, Max: 100,
		get: func(s *Sound) float32 { return s.VibratoDepth },
		set: func(s *Sound, v float32) { s.VibratoDepth = v },
	},
	{
		Name: "tremoloRate", Label: "Tremolo rate", Group: "Tremolo", Min: 0, Max: 70,
		get: func(s *Sound) float32 { return s.TremoloRate },
		set: func(s *Sound, v float32) { s.TremoloRate = v },
	},
	{
		Name: "tremoloDepth", Label: "Tremolo depth", Group: "Tremolo", Min: 0, Max: 1,
		get: func(s *Sound) float32 { return s.TremoloDepth },
		set: func(s *Sound, v float32) { s.TremoloDepth = v },
	},
	{
		Name: "highPassCutoff", Label: "High-pass cutoff", Group: "Filters", Min: 0, Max: 4000,
		get: func(s *Sound) float32 { return s.HighPassCutoff },
		set: func(s *Sound, v float32) { s.HighPassCutoff = v },
	},
	{
		Name: "highPassResonance", Label: "High-pass resonance", Group: "Filters", Min: 0, Max: 30,
		get: func(s *Sound) float32 { return s.HighPassResonance },
		set: func(s *Sound, v float32) { s.HighPassResonance = v },
	},
	{
		Name: "lowPassCutoff", Label: "Low-pass cutoff", Group: "Filters", Min: 0, Max: 4000,
		get: func(s *Sound) float32 { return s.LowPassCutoff },
		set: func(s *Sound, v float32) { s.LowPassCutoff = v },
	},
	{
		Name: "lowPassResonance", Label: "Low-pass resonance", Group: "Filters", Min: 0, Max: 30,
		get: func(s *Sound) float32 { return s.LowPassResonance },
		set: func(s *Sound, v float32) { s.LowPassResonance = v },
	},
	{
		Name: "phaserBaseFrequency", Label: "Phaser base", Group: "Phaser", Min: 0, Max: 1000,
		get: func(s *Sound) float32 { return s.PhaserBaseFrequency },
		set: func(s *Sound, v float32) { s.PhaserBaseFrequency = v },
	},
	{
		Name: "phaserLfoFrequency", Label: "Phaser LFO", Group: "Phaser", Min: 0, Max: 200,
		get: func(s *Sound) float32 { return s.PhaserLfoFrequency },
		set: func(s *Sound, v float32) { s.PhaserLfoFrequency = v },
	},
	{
		Name: "phaserDepth", Label: "Phaser depth", Group: "Phaser", Min: 0, Max: 1000,
		get: func(s *Sound) float32 { return s.PhaserDepth },
		set: func(s *Sound, v float32) { s.PhaserDepth = v },
	},
	{
		Name: "noiseAmount", Label: "Noise", Group: "Noise", Min: 0, Max: 500,
		get: func(s *Sound) float32 { return s.NoiseAmount },
		set: func(s *Sound, v float32) { s.NoiseAmount = v },
	},
}

// FieldByName looks up a field by its wire name, case-insensitively.
func FieldByName(name string) (Field, bool) {
	for _, f := range Fields {
		if strings.EqualFold(f.Name, name) {
			return f, true
		}
	}
	return Field{}, false
}

// Map returns the parameters keyed by field name.
func (s Sound) Map() map[string]float32 {
	m := make(map[string]float32, FieldCount)
	for _, f := range Fields {
		m[f.Name] = f.Get(&s)
	}
	return m
}

// truncWaveForm truncates v toward zero, saturating at the int32 range.
func truncWaveForm(v float32) WaveForm {
	switch {
	case v >= 1<<31:
		return WaveForm(math.MaxInt32)
	case v <= -(1 << 31):
		return WaveForm(math.MinInt32)
	}
	return WaveForm(int32(v))
}
