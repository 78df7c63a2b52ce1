package analysis

import (
	"errors"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

var ErrTooFewSamples = errors.New("too few samples")

// Spectrum returns the magnitude of each frequency bin up to Nyquist, with
// the mean removed so a resting offset does not swamp bin zero.
func Spectrum(samples []float64) []float64 {
	if len(samples) == 0 {
		return nil
	}
	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(len(samples))

	centered := make([]float64, len(samples))
	for i, v := range samples {
		centered[i] = v - mean
	}

	bins := fft.FFTReal(centered)
	ps := make([]float64, len(bins)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(bins[i])
	}
	return ps
}

// DominantFrequency finds the strongest non-zero frequency in samples taken
// at sampleRate per unit time. A flat signal reports zero.
func DominantFrequency(samples []float64, sampleRate float64) (float64, error) {
	if len(samples) < 4 {
		return 0, ErrTooFewSamples
	}
	ps := Spectrum(samples)
	best, peak := 0, 0.0
	for i := 1; i < len(ps); i++ {
		if ps[i] > peak {
			best, peak = i, ps[i]
		}
	}
	return float64(best) * sampleRate / float64(len(samples)), nil
}
