package dsp

// EnvelopeParams holds the per-sample deltas of an ADSR envelope. They are
// shared between all voices of an instrument so that retuning the envelope
// does not have to touch every voice.
type EnvelopeParams struct {
	attackDelta  float32
	decayDelta   float32 // negative
	releaseDelta float32 // negative
	sustainAmp   float32
}

// NewEnvelopeParams computes the stage deltas from stage durations in seconds
// and the sustain level.
func NewEnvelopeParams(sampleRate SampleRate, attackSeconds, decaySeconds, sustainAmp, releaseSeconds float32) EnvelopeParams {
	attackFrames := sampleRate.SampleRate() * attackSeconds
	decayFrames := sampleRate.SampleRate() * decaySeconds
	releaseFrames := sampleRate.SampleRate() * releaseSeconds
	return EnvelopeParams{
		attackDelta:  1.0 / attackFrames,
		decayDelta:   -(1.0 - sustainAmp) / decayFrames,
		releaseDelta: -sustainAmp / releaseFrames,
		sustainAmp:   sustainAmp,
	}
}

type envelopeStage int

const (
	stageAttack envelopeStage = iota
	stageDecay
	stageSustain
	stageRelease
	stageDone
)

// Envelope tracks the amp of a single voice through the ADSR stages.
type Envelope struct {
	stage envelopeStage
	amp   float32
}

// NewEnvelope creates an envelope at the start of its attack stage.
func NewEnvelope() Envelope {
	return Envelope{stage: stageAttack}
}

// NextSample advances the envelope by one sample and returns the amp.
func (e *Envelope) NextSample(params EnvelopeParams) float32 {
	switch e.stage {
	case stageAttack:
		e.amp += params.attackDelta
		if e.amp >= 1.0 {
			e.amp = 1.0
			e.stage = stageDecay
		}
	case stageDecay:
		e.amp += params.decayDelta
		if e.amp <= params.sustainAmp {
			e.amp = params.sustainAmp
			e.stage = stageSustain
		}
	case stageSustain:
	case stageRelease:
		e.amp += params.releaseDelta
		if e.amp < 0.0 {
			e.amp = 0.0
			e.stage = stageDone
		}
	case stageDone:
	}
	return e.amp
}

// Release moves the envelope into its release stage.
func (e *Envelope) Release(params EnvelopeParams) {
	if e.amp > params.sustainAmp {
		e.amp = params.sustainAmp
	}
	e.stage = stageRelease
}

// IsActive returns false once the envelope has fully decayed.
func (e *Envelope) IsActive() bool {
	return e.stage != stageDone
}
