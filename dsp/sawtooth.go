package dsp

// Sawtooth is a naive sawtooth oscillator spanning -1..1.
type Sawtooth struct {
	amplitude          float32
	amplitudePerSample float32
}

// NewSawtooth creates a sawtooth wave at the given frequency.
func NewSawtooth(sampleRate SampleRate, frequency float32) Sawtooth {
	s := Sawtooth{}
	s.SetFrequency(sampleRate, frequency)
	return s
}

// SetFrequency changes the frequency without resetting the phase.
func (s *Sawtooth) SetFrequency(sampleRate SampleRate, frequency float32) {
	const amplitudePerCycle = 2.0
	s.amplitudePerSample = amplitudePerCycle * frequency * sampleRate.SecondsPerSample()
}

// NextSample advances the wave by one sample and returns its value.
func (s *Sawtooth) NextSample() float32 {
	s.amplitude += s.amplitudePerSample
	if s.amplitude > 1.0 {
		s.amplitude -= 2.0
	}
	return s.amplitude
}
