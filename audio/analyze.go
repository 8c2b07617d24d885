package audio

import (
	"math"

	"github.com/ktye/fft"
)

const (
	minSpectrumSize = 256
	maxSpectrumSize = 8192
)

// Stats summarizes a rendered buffer.
type Stats struct {
	Samples       int     `json:"samples"`
	Duration      float64 `json:"duration"`
	Peak          float64 `json:"peak"`
	RMS           float64 `json:"rms"`
	ZeroCrossings int     `json:"zeroCrossings"`
	DominantHz    float64 `json:"dominantHz"`
}

// Analyze computes level statistics and the dominant frequency of samples.
// DominantHz is 0 when there are fewer than 256 samples or no energy.
func Analyze(samples []float32) Stats {
	st := Stats{
		Samples:  len(samples),
		Duration: float64(len(samples)) / SampleRate,
	}
	if len(samples) == 0 {
		return st
	}

	var sum float64
	for i, s := range samples {
		v := float64(s)
		sum += v * v
		if a := math.Abs(v); a > st.Peak {
			st.Peak = a
		}
		if i > 0 && (samples[i-1] < 0) != (s < 0) {
			st.ZeroCrossings++
		}
	}
	st.RMS = math.Sqrt(sum / float64(len(samples)))
	st.DominantHz = dominantFrequency(samples)
	return st
}

// dominantFrequency returns the centre frequency of the strongest FFT bin of
// a Hann-windowed frame taken from the start of samples.
func dominantFrequency(samples []float32) float64 {
	n := spectrumSize(len(samples))
	if n == 0 {
		return 0
	}

	f, err := fft.New(n)
	if err != nil {
		return 0
	}

	frame := make([]complex128, n)
	for i := range frame {
		w := (1 - math.Cos(2*math.Pi*float64(i)/float64(n))) / 2
		frame[i] = complex(float64(samples[i])*w, 0)
	}
	spectrum := f.Transform(frame)

	best, bestMag := 0, 0.0
	for k := 1; k <= n/2; k++ {
		re, im := real(spectrum[k]), imag(spectrum[k])
		if mag := re*re + im*im; mag > bestMag {
			best, bestMag = k, mag
		}
	}
	return float64(best) * SampleRate / float64(n)
}

// spectrumSize returns the largest power of two not above min(n, 8192), or 0
// if that is below 256.
func spectrumSize(n int) int {
	if n > maxSpectrumSize {
		n = maxSpectrumSize
	}
	if n < minSpectrumSize {
		return 0
	}
	size := minSpectrumSize
	for size*2 <= n {
		size *= 2
	}
	return size
}
