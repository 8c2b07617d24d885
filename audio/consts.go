package audio

// Output format of every render.
const (
	SampleRate  = 44100
	MaxDuration = 4.0
	MaxSamples  = SampleRate * 4

	// FieldCount is the number of parameters in a Sound and in its
	// encoded form.
	FieldCount = 22
)

// ParamsKey is the query key that carries encoded parameters.
const ParamsKey = "fx"

// Filter stage limits.
const (
	// The low-pass stage is bypassed at or above this cutoff.
	lowPassOpen float32 = 4000

	// Q used when a filter's resonance is not positive.
	defaultQ float32 = 0.707
)

// Noise stream constants (glibc-style LCG, 31-bit output).
const (
	noiseMul  uint32 = 1103515245
	noiseInc  uint32 = 12345
	noiseMask uint32 = 0x7fffffff
)

// WAV container constants for PCM16 mono.
const (
	wavHeaderSize    = 44
	wavFmtChunkSize  = 16
	wavFormatPCM     = 1
	wavChannels      = 1
	wavBitsPerSample = 16
	wavBlockAlign    = wavChannels * wavBitsPerSample / 8
	wavByteRate      = SampleRate * wavBlockAlign
	wavDataURLPrefix = "data:audio/wav;base64,"
)
