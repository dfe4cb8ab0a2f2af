package dsp

import "github.com/chewxy/math32"

// MoogFilter is a classic Moog-style resonant low pass ladder filter.
//
// Derived from the MusicDSP model in
// https://github.com/ddiakopoulos/MoogLadders/blob/master/src/MusicDSPModel.h.
type MoogFilter struct {
	cutoff    float32
	resonance float32
	stage     [4]float32
	delay     [4]float32
	p         float32
	k         float32
	t1        float32
	t2        float32
}

const (
	// DefaultCutoffFrequency is the cutoff used by NewMoogFilter.
	DefaultCutoffFrequency float32 = 8000.0
	// DefaultResonance is the resonance used by NewMoogFilter.
	DefaultResonance float32 = 0.1
)

// NewMoogFilter creates a filter with the default cutoff and resonance.
func NewMoogFilter(sampleRate SampleRate) MoogFilter {
	f := MoogFilter{}
	f.SetCutoff(sampleRate, DefaultCutoffFrequency, DefaultResonance)
	return f
}

// SetCutoff sets the cutoff frequency in Hz and the resonance in 0..1.
func (f *MoogFilter) SetCutoff(sampleRate SampleRate, cutoffFrequency, resonance float32) {
	f.cutoff = 2.0 * cutoffFrequency * sampleRate.SecondsPerSample()
	f.p = f.cutoff * (1.8 - 0.8*f.cutoff)
	f.k = 2.0*math32.Sin(f.cutoff*math32.Pi*0.5) - 1.0
	f.t1 = (1.0 - f.p) * 1.386249
	f.t2 = 12.0 + f.t1*f.t1
	f.resonance = resonance * (f.t2 + 6.0*f.t1) / (f.t2 - 6.0*f.t1)
}

// Process filters a single sample.
func (f *MoogFilter) Process(sample float32) float32 {
	x := sample - f.resonance*f.stage[3]

	// Four cascaded one-pole filters (bilinear transform).
	f.stage[0] = clamp(x*f.p+f.delay[0]*f.p-f.k*f.stage[0], -1.0, 1.0)
	f.stage[1] = f.stage[0]*f.p + f.delay[1]*f.p - f.k*clamp(f.stage[1], -1.0, 1.0)
	f.stage[2] = f.stage[1]*f.p + f.delay[2]*f.p - f.k*clamp(f.stage[2], -1.0, 1.0)
	f.stage[3] = f.stage[2]*f.p + f.delay[3]*f.p - f.k*clamp(f.stage[3], -1.0, 1.0)

	// Clipping band-limited sigmoid.
	f.stage[3] -= (f.stage[3] * f.stage[3] * f.stage[3]) / 6.0
	f.stage[3] = clamp(f.stage[3], -1.0, 1.0)

	f.delay[0] = x
	f.delay[1] = f.stage[0]
	f.delay[2] = f.stage[1]
	f.delay[3] = f.stage[2]

	return f.stage[3]
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
