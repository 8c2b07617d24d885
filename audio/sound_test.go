package audio

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSound(t *testing.T) {
	s := DefaultSound()

	assert.Equal(t, WaveSine, s.WaveForm)
	assert.Equal(t, float32(0.5), s.Volume)
	assert.Equal(t, float32(0), s.AttackTime)
	assert.Equal(t, float32(0.07), s.SustainTime)
	assert.Equal(t, float32(0.3), s.DecayTime)
	assert.Equal(t, float32(700), s.Frequency)
	assert.Equal(t, float32(1), s.PitchDuration)
	assert.Equal(t, float32(4000), s.LowPassCutoff)
	assert.Equal(t, float32(100), s.PhaserBaseFrequency)
	assert.Equal(t, float32(50), s.PhaserLfoFrequency)
	assert.Zero(t, s.NoiseAmount)
	assert.Zero(t, s.PhaserDepth)
	assert.NoError(t, s.Validate())
}

func TestSound_SampleCount(t *testing.T) {
	tests := []struct {
		name string
		s    Sound
		want int
	}{
		{"default", DefaultSound(), 16317},
		{"zero", Sound{}, 0},
		{"one second", Sound{SustainTime: 1}, SampleRate},
		{"capped", Sound{SustainTime: 10}, MaxSamples},
		{"negative", Sound{SustainTime: -1}, 0},
		{"nan", Sound{SustainTime: float32(math.NaN())}, 0},
		{"inf", Sound{SustainTime: float32(math.Inf(1))}, MaxSamples},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.s.SampleCount())
		})
	}
}

func TestSound_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Sound)
		field  string
	}{
		{"negative attack", func(s *Sound) { s.AttackTime = -0.1 }, "attackTime"},
		{"negative sustain", func(s *Sound) { s.SustainTime = -1 }, "sustainTime"},
		{"nan decay", func(s *Sound) { s.DecayTime = float32(math.NaN()) }, "decayTime"},
		{"negative delay", func(s *Sound) { s.PitchDelay = -0.5 }, "pitchDelay"},
		{"bad waveform", func(s *Sound) { s.WaveForm = 7 }, "waveForm"},
		{"negative waveform", func(s *Sound) { s.WaveForm = -1 }, "waveForm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSound()
			tt.modify(&s)
			err := s.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidSound))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestWaveForm_StringAndParse(t *testing.T) {
	for _, w := range []WaveForm{WaveSine, WaveSawtooth, WaveSquare, WaveTriangle} {
		got, err := ParseWaveForm(w.String())
		require.NoError(t, err)
		assert.Equal(t, w, got)
	}

	got, err := ParseWaveForm(" Saw ")
	require.NoError(t, err)
	assert.Equal(t, WaveSawtooth, got)

	_, err = ParseWaveForm("noise")
	assert.ErrorIs(t, err, ErrInvalidSound)
	assert.Equal(t, "unknown", WaveForm(9).String())
}

func TestFields_Schema(t *testing.T) {
	require.Len(t, Fields, FieldCount)

	names := make(map[string]bool)
	for i, f := range Fields {
		assert.NotEmpty(t, f.Name, "field %d", i)
		assert.False(t, names[f.Name], "duplicate field %s", f.Name)
		names[f.Name] = true
		assert.LessOrEqual(t, f.Min, f.Max, f.Name)
	}

	assert.Equal(t, "waveForm", Fields[0].Name)
	assert.True(t, Fields[0].Integer)
	assert.Equal(t, "noiseAmount", Fields[FieldCount-1].Name)
}

func TestFields_GetSetRoundTrip(t *testing.T) {
	var s Sound
	for i, f := range Fields {
		f.Set(&s, float32(i+1))
	}
	for i, f := range Fields {
		assert.Equal(t, float32(i+1), f.Get(&s), f.Name)
	}

	assert.Equal(t, WaveForm(1), s.WaveForm)
	assert.Equal(t, float32(7), s.Frequency)
	assert.Equal(t, float32(22), s.NoiseAmount)
}

func TestFields_IntegerTruncates(t *testing.T) {
	s := DefaultSound()
	wf := Fields[0]

	wf.Set(&s, 2.9)
	assert.Equal(t, WaveSquare, s.WaveForm)

	wf.Set(&s, float32(math.NaN()))
	assert.Equal(t, WaveSquare, s.WaveForm)

	wf.Set(&s, 1e20)
	assert.Equal(t, WaveForm(math.MaxInt32), s.WaveForm)
}

func TestFieldByName(t *testing.T) {
	f, ok := FieldByName("lowPassCutoff")
	require.True(t, ok)
	assert.Equal(t, float32(4000), f.Max)

	s := DefaultSound()
	f, ok = FieldByName("FREQUENCY")
	require.True(t, ok)
	f.Set(&s, 440)
	assert.Equal(t, float32(440), s.Frequency)

	_, ok = FieldByName("slide")
	assert.False(t, ok)
}

func TestSound_Map(t *testing.T) {
	m := DefaultSound().Map()
	assert.Len(t, m, FieldCount)
	assert.Equal(t, float32(700), m["frequency"])
	assert.Equal(t, float32(0), m["waveForm"])
}
