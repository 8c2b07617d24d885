package audio

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNilSound        = errors.New("nil sound")
	ErrNilBuffer       = errors.New("nil buffer")
	ErrNoSamples       = errors.New("no samples")
	ErrInvalidSound    = errors.New("invalid sound")
	ErrUnknownTemplate = errors.New("unknown template")
	ErrInvalidWAV      = errors.New("invalid wav header")
)

// WaveForm selects the oscillator shape.
type WaveForm int

const (
	WaveSine     WaveForm = 0
	WaveSawtooth WaveForm = 1
	WaveSquare   WaveForm = 2
	WaveTriangle WaveForm = 3
)

func (w WaveForm) String() string {
	switch w {
	case WaveSine:
		return "sine"
	case WaveSawtooth:
		return "sawtooth"
	case WaveSquare:
		return "square"
	case WaveTriangle:
		return "triangle"
	default:
		return "unknown"
	}
}

// Valid reports whether w is one of the four oscillator shapes.
func (w WaveForm) Valid() bool {
	return w >= WaveSine && w <= WaveTriangle
}

// ParseWaveForm parses a waveform name, case-insensitively.
func ParseWaveForm(name string) (WaveForm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sine":
		return WaveSine, nil
	case "sawtooth", "saw":
		return WaveSawtooth, nil
	case "square":
		return WaveSquare, nil
	case "triangle":
		return WaveTriangle, nil
	}
	return WaveSine, fmt.Errorf("%w: waveform %q", ErrInvalidSound, name)
}

// Sound holds every parameter of one sound effect. Times are in seconds,
// frequencies in Hz.
type Sound struct {
	WaveForm WaveForm
	Volume   float32 // 0-1

	// Envelope
	AttackTime   float32
	SustainTime  float32
	SustainPunch float32 // 0-1, drop below full level after sustain
	DecayTime    float32

	// Pitch
	Frequency     float32
	PitchDelta    float32 // Hz added by the end of the sweep
	PitchDuration float32 // fraction of the sweep that is applied
	PitchDelay    float32 // seconds before the sweep starts

	// Vibrato
	VibratoRate  float32
	VibratoDepth float32 // Hz

	// Tremolo
	TremoloRate  float32
	TremoloDepth float32 // 0-1

	// Filters
	HighPassCutoff    float32
	HighPassResonance float32
	LowPassCutoff     float32
	LowPassResonance  float32

	// Phaser
	PhaserBaseFrequency float32
	PhaserLfoFrequency  float32
	PhaserDepth         float32

	// Noise distortion
	NoiseAmount float32
}

// DefaultSound returns the baseline every template starts from.
func DefaultSound() Sound {
	return Sound{
		WaveForm:            WaveSine,
		Volume:              0.5,
		SustainTime:         0.07,
		DecayTime:           0.3,
		Frequency:           700,
		PitchDuration:       1,
		LowPassCutoff:       4000,
		PhaserBaseFrequency: 100,
		PhaserLfoFrequency:  50,
	}
}

// Duration returns the total length in seconds.
func (s Sound) Duration() float32 {
	return s.AttackTime + s.SustainTime + s.DecayTime
}

// SampleCount returns how many samples a render of s produces.
func (s Sound) SampleCount() int {
	return sampleCount(s.Duration(), MaxSamples)
}

// Validate checks that time fields are non-negative and the waveform is known.
func (s Sound) Validate() error {
	times := []struct {
		name string
		v    float32
	}{
		{"attackTime", s.AttackTime},
		{"sustainTime", s.SustainTime},
		{"decayTime", s.DecayTime},
		{"pitchDelay", s.PitchDelay},
	}
	for _, f := range times {
		// NaN fails this too.
		if !(f.v >= 0) {
			return fmt.Errorf("%w: %s must be non-negative, got %v", ErrInvalidSound, f.name, f.v)
		}
	}
	if !s.WaveForm.Valid() {
		return fmt.Errorf("%w: waveForm %d out of range", ErrInvalidSound, int(s.WaveForm))
	}
	return nil
}

// sampleCount converts a duration to a sample count within [0, capacity].
func sampleCount(duration float32, capacity int) int {
	if capacity > MaxSamples {
		capacity = MaxSamples
	}
	if capacity <= 0 {
		return 0
	}
	n := duration * SampleRate
	if !(n > 0) {
		return 0
	}
	if n >= float32(capacity) {
		return capacity
	}
	return int(n)
}
