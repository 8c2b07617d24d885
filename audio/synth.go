package audio

import "math"

// Arithmetic in this file is float32. Products that feed a sum are wrapped
// in an explicit float32 conversion so the compiler cannot fuse them into
// FMA instructions; output must match bit for bit on every platform.

// Buffer holds rendered samples. Samples is the capacity and is never grown;
// Len is how many samples the last render wrote.
type Buffer struct {
	Samples []float32
	Len     int
}

// NewBuffer allocates a buffer for up to capacity samples, clamped to
// [0, MaxSamples].
func NewBuffer(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	if capacity > MaxSamples {
		capacity = MaxSamples
	}
	return &Buffer{Samples: make([]float32, capacity)}
}

// Cap returns the number of samples the buffer can hold.
func (b *Buffer) Cap() int {
	return len(b.Samples)
}

// Data returns the rendered samples.
func (b *Buffer) Data() []float32 {
	return b.Samples[:b.Len]
}

// Render allocates a buffer sized for s and renders into it.
func Render(s Sound) *Buffer {
	buf := NewBuffer(s.SampleCount())
	// Neither argument is nil.
	_ = RenderInto(&s, buf)
	return buf
}

// RenderInto renders s into buf. Output longer than the buffer's capacity is
// truncated. The sound is not validated: degenerate values render silence or
// are skipped stage by stage, never NaN from the envelope.
func RenderInto(s *Sound, buf *Buffer) error {
	if s == nil {
		return ErrNilSound
	}
	if buf == nil {
		return ErrNilBuffer
	}

	v := newVoice(s)
	n := sampleCount(v.duration, len(buf.Samples))
	buf.Len = 0
	for i := 0; i < n; i++ {
		buf.Samples[i] = v.next(i, buf.Samples)
	}
	buf.Len = n
	return nil
}

// voice holds the state of a single render.
type voice struct {
	s        *Sound
	duration float32

	phase        float32
	vibratoPhase float32
	tremoloPhase float32
	phaserPhase  float32

	noiseSeed uint32
	noiseAmt  float32

	lowPass  biquad
	highPass biquad
}

func newVoice(s *Sound) *voice {
	v := &voice{
		s:        s,
		duration: s.Duration(),
		noiseSeed: noiseSeed(
			float32(float32(s.Frequency*1000)+float32(s.NoiseAmount*100)) + float32(s.Volume*1000),
		),
		noiseAmt: s.NoiseAmount / 100,
	}

	if s.LowPassCutoff > 0 {
		v.lowPass = lowPassCoeffs(s.LowPassCutoff, resonanceQ(s.LowPassResonance))
	}
	if s.HighPassCutoff > 0 {
		v.highPass = highPassCoeffs(s.HighPassCutoff, resonanceQ(s.HighPassResonance))
	}
	return v
}

// next computes sample i. out holds samples 0..i-1 of this render.
func (v *voice) next(i int, out []float32) float32 {
	s := v.s
	t := float32(i) / SampleRate

	env := v.envelope(i, t)
	freq := v.pitch(t)

	// Vibrato
	if s.VibratoRate > 0 && s.VibratoDepth > 0 {
		freq = freq + float32(sinf(v.vibratoPhase)*s.VibratoDepth)
		v.vibratoPhase = advance(v.vibratoPhase, s.VibratoRate)
	}

	// Oscillator
	var sample float32
	if freq > 0 {
		sample = waveSample(s.WaveForm, v.phase)
		v.phase = v.phase + freq/SampleRate
		if v.phase >= 1 {
			v.phase -= 1
			if v.phase >= 1 {
				v.phase -= floorf(v.phase)
			}
		}
	}

	if s.NoiseAmount > 0 {
		sample = v.distort(sample)
	}

	// Phaser: mixes in a sample already written by this render.
	if s.PhaserDepth > 0 {
		pf := s.PhaserBaseFrequency + float32(sinf(v.phaserPhase)*s.PhaserDepth)
		delay := SampleRate / (pf + 1)
		if delay >= 1 && delay < float32(i)+1 {
			sample = sample + float32(out[i-int(delay)]*0.5)
		}
		v.phaserPhase = advance(v.phaserPhase, s.PhaserLfoFrequency)
	}

	// Filters
	if s.LowPassCutoff > 0 && s.LowPassCutoff < lowPassOpen {
		sample = v.lowPass.process(sample)
	}
	if s.HighPassCutoff > 0 {
		sample = v.highPass.process(sample)
	}

	sample *= env

	// Tremolo
	if s.TremoloRate > 0 && s.TremoloDepth > 0 {
		trem := 1 - float32(s.TremoloDepth*(1+sinf(v.tremoloPhase))*0.5)
		sample *= trem
		v.tremoloPhase = advance(v.tremoloPhase, s.TremoloRate)
	}

	sample *= s.Volume
	return clamp(sample, -1, 1)
}

// envelope returns the attack/sustain/decay gain at sample i.
func (v *voice) envelope(i int, t float32) float32 {
	s := v.s
	punched := 1 - s.SustainPunch

	var env float32
	switch {
	case s.AttackTime > 0 && t < s.AttackTime:
		env = punched * (t / s.AttackTime)
	case s.AttackTime == 0 && i == 0:
		// A zero-length attack completes on the first sample.
		env = punched
	case t < s.AttackTime+s.SustainTime:
		env = 1
	case s.DecayTime > 0:
		env = punched * (1 - (t-s.AttackTime-s.SustainTime)/s.DecayTime)
	}

	if env < 0 {
		return 0
	}
	return env
}

// pitch returns the base frequency plus the sweep offset at time t.
func (v *voice) pitch(t float32) float32 {
	s := v.s
	freq := s.Frequency
	if s.PitchDelta == 0 || !(t >= s.PitchDelay) {
		return freq
	}

	var progress float32
	if span := v.duration - s.PitchDelay; span > 0 {
		progress = (t - s.PitchDelay) / span
	}
	if progress > s.PitchDuration {
		progress = s.PitchDuration
	}
	return freq + float32(s.PitchDelta*progress)
}

// distort runs the sample through the noise curve using two draws of the
// per-render noise stream.
func (v *voice) distort(x float32) float32 {
	r1 := v.nextNoise()
	r2 := v.nextNoise()

	amt := v.noiseAmt
	factor := 3 + float32(r1*amt)
	num := factor * x * 20 * deg
	den := math.Pi + float64(r2*amt*absf(x))
	return clamp(float32(float64(num)/den), -1, 1)
}

func (v *voice) nextNoise() float32 {
	v.noiseSeed = (v.noiseSeed*noiseMul + noiseInc) & noiseMask
	return float32(v.noiseSeed) / float32(noiseMask)
}

// noiseSeed converts the seed hash to an unsigned state, saturating values
// outside the uint32 range. NaN seeds 0.
func noiseSeed(h float32) uint32 {
	switch {
	case !(h > 0):
		return 0
	case h >= 1<<32:
		return math.MaxUint32
	}
	return uint32(h)
}

var deg = float32(math.Pi / 180)

// waveSample evaluates the oscillator at phase. Unknown waveforms render as
// sine.
func waveSample(w WaveForm, phase float32) float32 {
	switch w {
	case WaveSawtooth:
		return 2 * (phase - floorf(phase+0.5))
	case WaveSquare:
		if phase-floorf(phase) < 0.5 {
			return -1
		}
		return 1
	case WaveTriangle:
		f := phase - floorf(phase)
		if f < 0.5 {
			return float32(4*f) - 1
		}
		return 3 - float32(4*f)
	default:
		return sinf(float32(float64(phase*2) * math.Pi))
	}
}

// advance steps an LFO phase by 2π·rate/SampleRate. The increment is
// computed in float64 and the sum stored back as float32.
func advance(phase, rate float32) float32 {
	return float32(float64(phase) + float64(rate*2)*math.Pi/SampleRate)
}

// biquad is a direct-form I second-order section with coefficients
// normalized by a0.
type biquad struct {
	b0, b1, b2 float32
	a1, a2     float32

	x1, x2 float32
	y1, y2 float32
}

func resonanceQ(res float32) float32 {
	if res > 0 {
		return res
	}
	return defaultQ
}

func lowPassCoeffs(freq, q float32) biquad {
	w := float32(2 * math.Pi * float64(freq) / SampleRate)
	cosW := cosf(w)
	alpha := sinf(w) / (2 * q)

	a0 := 1 + alpha
	return biquad{
		b0: (1 - cosW) / 2 / a0,
		b1: (1 - cosW) / a0,
		b2: (1 - cosW) / 2 / a0,
		a1: -2 * cosW / a0,
		a2: (1 - alpha) / a0,
	}
}

func highPassCoeffs(freq, q float32) biquad {
	w := float32(2 * math.Pi * float64(freq) / SampleRate)
	cosW := cosf(w)
	alpha := sinf(w) / (2 * q)

	a0 := 1 + alpha
	return biquad{
		b0: (1 + cosW) / 2 / a0,
		b1: -(1 + cosW) / a0,
		b2: (1 + cosW) / 2 / a0,
		a1: -2 * cosW / a0,
		a2: (1 - alpha) / a0,
	}
}

func (f *biquad) process(in float32) float32 {
	out := float32(f.b0*in) + float32(f.b1*f.x1) + float32(f.b2*f.x2) -
		float32(f.a1*f.y1) - float32(f.a2*f.y2)

	f.x2, f.x1 = f.x1, in
	f.y2, f.y1 = f.y1, out
	return out
}

func sinf(x float32) float32 {
	return float32(math.Sin(float64(x)))
}

func cosf(x float32) float32 {
	return float32(math.Cos(float64(x)))
}

func floorf(x float32) float32 {
	return float32(math.Floor(float64(x)))
}

func absf(x float32) float32 {
	return math.Float32frombits(math.Float32bits(x) &^ (1 << 31))
}

// clamp limits v to [lo, hi]. NaN becomes 0.
func clamp(v, lo, hi float32) float32 {
	if v != v {
		return 0
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
