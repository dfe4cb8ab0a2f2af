package instrument

import (
	"gitlab.com/gomidi/midi/v2"

	"github.com/wmedrano/bats-go"
	"github.com/wmedrano/bats-go/dsp"
)

// Toof parameter ids.
const (
	ToofParamBypassFilter    uint32 = 1
	ToofParamFilterCutoff    uint32 = 2
	ToofParamFilterResonance uint32 = 3
	ToofParamPolyphonic      uint32 = 4
)

const toofMaxVoices = 16

// Toof is a sawtooth synth with an ADSR envelope and a Moog low pass filter.
// It is monophonic unless the polyphonic parameter is enabled.
type Toof struct {
	bypassFilter    bool
	isPolyphonic    bool
	sampleRate      dsp.SampleRate
	envelope        dsp.EnvelopeParams
	filter          dsp.MoogFilter
	filterCutoff    float32
	filterResonance float32
	voices          [toofMaxVoices]toofVoice
	voiceCount      int
}

// toofVoice is a single sounding note.
type toofVoice struct {
	key      uint8
	wave     dsp.Sawtooth
	envelope dsp.Envelope
}

var toofMetadata = bats.Metadata{
	Name: "toof",
	Params: []bats.Param{
		{
			ID:           ToofParamBypassFilter,
			Name:         "bypass filter",
			Type:         bats.ParamTypeBool,
			DefaultValue: 0.45,
			MinValue:     0.45,
			MaxValue:     0.55,
		},
		{
			ID:           ToofParamFilterCutoff,
			Name:         "filter cutoff",
			Type:         bats.ParamTypeFrequency,
			DefaultValue: dsp.DefaultCutoffFrequency,
			MinValue:     50.0,
			MaxValue:     9000.0,
		},
		{
			ID:           ToofParamFilterResonance,
			Name:         "filter resonance",
			Type:         bats.ParamTypePercent,
			DefaultValue: dsp.DefaultResonance,
			MinValue:     0.01,
			MaxValue:     0.70,
		},
		{
			ID:           ToofParamPolyphonic,
			Name:         "polyphonic",
			Type:         bats.ParamTypeBool,
			DefaultValue: 0.45,
			MinValue:     0.45,
			MaxValue:     0.55,
		},
	},
}

// NewToof creates a toof instrument at the given sample rate.
func NewToof(sampleRate dsp.SampleRate) Toof {
	return Toof{
		sampleRate:      sampleRate,
		envelope:        dsp.NewEnvelopeParams(sampleRate, 0.005, 0.08, 0.4, 0.05),
		filter:          dsp.NewMoogFilter(sampleRate),
		filterCutoff:    dsp.DefaultCutoffFrequency,
		filterResonance: dsp.DefaultResonance,
	}
}

// Metadata implements bats.Instrument.
func (t *Toof) Metadata() *bats.Metadata {
	return &toofMetadata
}

// HandleEvent implements bats.Instrument. Note ons trigger or retune voices,
// note offs (and zero-velocity note ons) release them, and a reset silences
// everything.
func (t *Toof) HandleEvent(msg midi.Message) {
	var channel, key, velocity uint8
	switch {
	case msg.GetNoteStart(&channel, &key, &velocity):
		t.noteOn(key)
	case msg.GetNoteEnd(&channel, &key):
		t.noteOff(key)
	case msg.Is(midi.ResetMsg):
		t.voiceCount = 0
	}
}

func (t *Toof) noteOn(key uint8) {
	if t.isPolyphonic || t.voiceCount == 0 {
		if t.voiceCount == toofMaxVoices {
			copy(t.voices[:], t.voices[1:])
			t.voiceCount--
		}
		t.voices[t.voiceCount] = newToofVoice(t.sampleRate, key)
		t.voiceCount++
		return
	}
	t.voices[0].setNote(t.sampleRate, key)
}

func (t *Toof) noteOff(key uint8) {
	for i := 0; i < t.voiceCount; i++ {
		if t.voices[i].key == key {
			t.voices[i].envelope.Release(t.envelope)
		}
	}
}

// RenderFrame implements bats.Instrument.
func (t *Toof) RenderFrame() (float32, float32) {
	var v float32
	kept := 0
	for i := 0; i < t.voiceCount; i++ {
		v += t.voices[i].nextSample(t.envelope)
		if t.voices[i].envelope.IsActive() {
			t.voices[kept] = t.voices[i]
			kept++
		}
	}
	t.voiceCount = kept
	if t.bypassFilter {
		return v, v
	}
	filtered := t.filter.Process(v)
	return filtered, filtered
}

// Param implements bats.Instrument.
func (t *Toof) Param(id uint32) float32 {
	switch id {
	case ToofParamBypassFilter:
		return boolParamValue(t.bypassFilter)
	case ToofParamFilterCutoff:
		return t.filterCutoff
	case ToofParamFilterResonance:
		return t.filterResonance
	case ToofParamPolyphonic:
		return boolParamValue(t.isPolyphonic)
	}
	return 0.0
}

// SetParam implements bats.Instrument.
func (t *Toof) SetParam(id uint32, value float32) {
	switch id {
	case ToofParamBypassFilter:
		t.bypassFilter = value >= 0.5
	case ToofParamFilterCutoff:
		t.filterCutoff = value
		t.filter.SetCutoff(t.sampleRate, t.filterCutoff, t.filterResonance)
	case ToofParamFilterResonance:
		t.filterResonance = value
		t.filter.SetCutoff(t.sampleRate, t.filterCutoff, t.filterResonance)
	case ToofParamPolyphonic:
		t.isPolyphonic = value >= 0.5
	}
}

// BatchCleanup implements bats.Instrument.
func (t *Toof) BatchCleanup() {}

func boolParamValue(on bool) float32 {
	if on {
		return 0.6
	}
	return 0.4
}

func newToofVoice(sampleRate dsp.SampleRate, key uint8) toofVoice {
	return toofVoice{
		key:      key,
		wave:     dsp.NewSawtooth(sampleRate, dsp.NoteFrequency(key)),
		envelope: dsp.NewEnvelope(),
	}
}

func (v *toofVoice) setNote(sampleRate dsp.SampleRate, key uint8) {
	v.key = key
	v.wave.SetFrequency(sampleRate, dsp.NoteFrequency(key))
	v.envelope = dsp.NewEnvelope()
}

func (v *toofVoice) nextSample(params dsp.EnvelopeParams) float32 {
	return v.wave.NextSample() * v.envelope.NextSample(params)
}
