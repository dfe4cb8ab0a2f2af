package dsp

// SampleRate caches the seconds-per-sample reciprocal so the hot paths never
// divide.
type SampleRate struct {
	secondsPerSample float32
}

// NewSampleRate creates a new sample rate from samples per second.
func NewSampleRate(sampleRate float32) SampleRate {
	return SampleRate{secondsPerSample: 1.0 / sampleRate}
}

// SampleRate returns the sample rate in samples per second.
func (s SampleRate) SampleRate() float32 {
	return 1.0 / s.secondsPerSample
}

// SecondsPerSample returns the duration of a single sample in seconds.
func (s SampleRate) SecondsPerSample() float32 {
	return s.secondsPerSample
}

// NormalizedFrequency returns freq as a ratio of the sample rate.
func (s SampleRate) NormalizedFrequency(freq float32) float32 {
	return s.secondsPerSample * freq
}
