package instrument_test

import (
	"testing"

	"gitlab.com/gomidi/midi/v2"

	"github.com/wmedrano/bats-go"
	"github.com/wmedrano/bats-go/dsp"
	"github.com/wmedrano/bats-go/instrument"
)

var toofSampleRate = dsp.NewSampleRate(44100.0)

func renderToof(toof *instrument.Toof, events []bats.TimedMessage, frames int) dsp.Buffers {
	buffers := dsp.NewBuffers(frames)
	bats.ProcessBatch(toof, events, buffers.Left, buffers.Right)
	return buffers
}

func TestToofIsSilentByDefault(t *testing.T) {
	toof := instrument.NewToof(toofSampleRate)
	if out := renderToof(&toof, nil, 64); !out.IsSilent() {
		t.Error("toof produced sound without any notes")
	}
}

func TestToofPlaysNotes(t *testing.T) {
	toof := instrument.NewToof(toofSampleRate)
	events := []bats.TimedMessage{{Frame: 0, Message: midi.NoteOn(0, 60, 100)}}
	if out := renderToof(&toof, events, 64); out.IsSilent() {
		t.Error("toof produced silence for a pressed note")
	}
}

func TestToofNoteOffReleasesVoice(t *testing.T) {
	toof := instrument.NewToof(toofSampleRate)
	events := []bats.TimedMessage{
		{Frame: 0, Message: midi.NoteOn(0, 60, 100)},
		{Frame: 0, Message: midi.NoteOff(0, 60)},
	}
	// The release stage lasts 0.05s, about 2205 frames.
	out := renderToof(&toof, events, 8192)
	tail := dsp.Buffers{Left: out.Left[4096:], Right: out.Right[4096:]}
	if !tail.IsSilent() {
		t.Error("toof still sounding long after note off")
	}
}

func TestToofResetSilencesAllVoices(t *testing.T) {
	toof := instrument.NewToof(toofSampleRate)
	toof.SetParam(instrument.ToofParamPolyphonic, 0.6)
	// The filter state rings for a few frames after its input goes quiet, so
	// bypass it to assert exact silence.
	toof.SetParam(instrument.ToofParamBypassFilter, 0.6)
	events := []bats.TimedMessage{
		{Frame: 0, Message: midi.NoteOn(0, 60, 100)},
		{Frame: 0, Message: midi.NoteOn(0, 64, 100)},
		{Frame: 4, Message: midi.Reset()},
	}
	out := renderToof(&toof, events, 64)
	tail := dsp.Buffers{Left: out.Left[4:], Right: out.Right[4:]}
	if !tail.IsSilent() {
		t.Error("toof still sounding after reset")
	}
}

func TestToofPolyphonicSumsVoices(t *testing.T) {
	poly := instrument.NewToof(toofSampleRate)
	poly.SetParam(instrument.ToofParamBypassFilter, 0.6)
	poly.SetParam(instrument.ToofParamPolyphonic, 0.6)
	a := instrument.NewToof(toofSampleRate)
	a.SetParam(instrument.ToofParamBypassFilter, 0.6)
	b := instrument.NewToof(toofSampleRate)
	b.SetParam(instrument.ToofParamBypassFilter, 0.6)

	both := []bats.TimedMessage{
		{Frame: 0, Message: midi.NoteOn(0, 60, 100)},
		{Frame: 0, Message: midi.NoteOn(0, 64, 100)},
	}
	gotOut := renderToof(&poly, both, 128)
	aOut := renderToof(&a, both[:1], 128)
	bOut := renderToof(&b, both[1:], 128)
	for i := range gotOut.Left {
		if want := aOut.Left[i] + bOut.Left[i]; gotOut.Left[i] != want {
			t.Fatalf("left[%d] = %v, want %v", i, gotOut.Left[i], want)
		}
	}
}

func TestToofMonophonicRetunesHeldVoice(t *testing.T) {
	toof := instrument.NewToof(toofSampleRate)
	toof.SetParam(instrument.ToofParamBypassFilter, 0.6)
	events := []bats.TimedMessage{
		{Frame: 0, Message: midi.NoteOn(0, 60, 100)},
		// The second press retunes the held voice instead of adding one, so
		// releasing the new key silences the instrument.
		{Frame: 0, Message: midi.NoteOn(0, 64, 100)},
		{Frame: 0, Message: midi.NoteOff(0, 64)},
	}
	out := renderToof(&toof, events, 8192)
	tail := dsp.Buffers{Left: out.Left[4096:], Right: out.Right[4096:]}
	if !tail.IsSilent() {
		t.Error("monophonic toof kept sounding after releasing the held key")
	}
}

func TestToofBoolParamsReadBack(t *testing.T) {
	toof := instrument.NewToof(toofSampleRate)
	if got := toof.Param(instrument.ToofParamBypassFilter); got != 0.4 {
		t.Errorf("bypass filter = %v, want 0.4", got)
	}
	toof.SetParam(instrument.ToofParamBypassFilter, 0.6)
	if got := toof.Param(instrument.ToofParamBypassFilter); got != 0.6 {
		t.Errorf("bypass filter after set = %v, want 0.6", got)
	}
	toof.SetParam(instrument.ToofParamBypassFilter, 0.1)
	if got := toof.Param(instrument.ToofParamBypassFilter); got != 0.4 {
		t.Errorf("bypass filter after clear = %v, want 0.4", got)
	}
}

func TestToofFilterParamsReadBack(t *testing.T) {
	toof := instrument.NewToof(toofSampleRate)
	if got := toof.Param(instrument.ToofParamFilterCutoff); got != dsp.DefaultCutoffFrequency {
		t.Errorf("cutoff = %v, want %v", got, dsp.DefaultCutoffFrequency)
	}
	toof.SetParam(instrument.ToofParamFilterCutoff, 2000.0)
	if got := toof.Param(instrument.ToofParamFilterCutoff); got != 2000.0 {
		t.Errorf("cutoff after set = %v, want 2000", got)
	}
}

func TestToofMetadataDescribesParams(t *testing.T) {
	toof := instrument.NewToof(toofSampleRate)
	md := toof.Metadata()
	if md.Name != "toof" {
		t.Errorf("name = %q, want toof", md.Name)
	}
	for _, id := range []uint32{
		instrument.ToofParamBypassFilter,
		instrument.ToofParamFilterCutoff,
		instrument.ToofParamFilterResonance,
		instrument.ToofParamPolyphonic,
	} {
		if _, ok := md.ParamByID(id); !ok {
			t.Errorf("param %d missing from metadata", id)
		}
	}
}
