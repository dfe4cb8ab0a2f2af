package engine_test

import (
	"testing"

	"gitlab.com/gomidi/midi/v2"

	"github.com/wmedrano/bats-go"
	"github.com/wmedrano/bats-go/dsp"
	"github.com/wmedrano/bats-go/engine"
	"github.com/wmedrano/bats-go/instrument"
)

const testSampleRate = 16.0

func newTestTransport(bufferSize int) *engine.Transport {
	tr := engine.NewTransport(dsp.NewSampleRate(testSampleRate), bufferSize, 240.0)
	buffers := dsp.NewBuffers(bufferSize)
	tr.Process(buffers.Left, buffers.Right)
	return tr
}

func newToofTrack(bufferSize int) engine.Track {
	track := engine.NewTrack(bufferSize)
	track.Plugin = instrument.NewPlugin(instrument.KindToof, dsp.NewSampleRate(testSampleRate))
	return track
}

func TestTrackPlaysStoredSequence(t *testing.T) {
	tr := newTestTransport(16)
	track := newToofTrack(16)
	track.Sequence = append(track.Sequence, bats.Event{
		Position: dsp.MinPosition,
		Message:  midi.NoteOn(0, 69, 100),
	})
	tmp := make([]bats.TimedMessage, 0, 64)
	track.Process(engine.TrackProcessContext{
		Transport: tr,
		TmpMidi:   &tmp,
	})
	if track.Output.IsSilent() {
		t.Error("track with a due sequence event produced silence")
	}
}

func TestTrackSkipsOutOfWindowEvents(t *testing.T) {
	tr := newTestTransport(16)
	track := newToofTrack(16)
	// The buffer covers beats 0 through 4 only.
	track.Sequence = append(track.Sequence, bats.Event{
		Position: dsp.NewPosition(8.0),
		Message:  midi.NoteOn(0, 69, 100),
	})
	tmp := make([]bats.TimedMessage, 0, 64)
	track.Process(engine.TrackProcessContext{
		Transport: tr,
		TmpMidi:   &tmp,
	})
	if !track.Output.IsSilent() {
		t.Error("track with an unreachable sequence event produced sound")
	}
}

func TestTrackPlaysLiveInput(t *testing.T) {
	tr := newTestTransport(16)
	track := newToofTrack(16)
	tmp := make([]bats.TimedMessage, 0, 64)
	track.Process(engine.TrackProcessContext{
		Transport: tr,
		MidiIn:    []bats.TimedMessage{{Frame: 0, Message: midi.NoteOn(0, 69, 100)}},
		TmpMidi:   &tmp,
	})
	if track.Output.IsSilent() {
		t.Error("track with live input produced silence")
	}
	if len(track.Sequence) != 0 {
		t.Errorf("sequence has %v events with recording disabled, want 0", len(track.Sequence))
	}
}

func TestTrackRecordsLiveInput(t *testing.T) {
	tr := newTestTransport(16)
	track := newToofTrack(16)
	track.Sequence = append(track.Sequence, bats.Event{
		Position: dsp.NewPosition(2.0),
		Message:  midi.NoteOff(0, 69),
	})
	tmp := make([]bats.TimedMessage, 0, 64)
	track.Process(engine.TrackProcessContext{
		RecordToSequence: true,
		Transport:        tr,
		MidiIn:           []bats.TimedMessage{{Frame: 3, Message: midi.NoteOn(0, 69, 100)}},
		TmpMidi:          &tmp,
	})
	if len(track.Sequence) != 2 {
		t.Fatalf("sequence has %v events, want 2", len(track.Sequence))
	}
	if want := dsp.NewPosition(0.75); track.Sequence[0].Position != want {
		t.Errorf("recorded event at %v, want %v", track.Sequence[0].Position, want)
	}
	if want := dsp.NewPosition(2.0); track.Sequence[1].Position != want {
		t.Errorf("sequence no longer sorted, second event at %v, want %v", track.Sequence[1].Position, want)
	}
}

func TestTrackMergesSequenceAndLiveInputInFrameOrder(t *testing.T) {
	tr := newTestTransport(16)
	track := newToofTrack(16)
	track.Sequence = append(track.Sequence,
		bats.Event{Position: dsp.NewPosition(0.5), Message: midi.NoteOn(0, 60, 100)},
		bats.Event{Position: dsp.NewPosition(2.0), Message: midi.NoteOff(0, 60)},
	)
	tmp := make([]bats.TimedMessage, 0, 64)
	track.Process(engine.TrackProcessContext{
		Transport: tr,
		MidiIn: []bats.TimedMessage{
			{Frame: 5, Message: midi.NoteOn(0, 64, 100)},
			{Frame: 12, Message: midi.NoteOff(0, 64)},
		},
		TmpMidi: &tmp,
	})
	if len(tmp) != 4 {
		t.Fatalf("merged list has %v messages, want 4", len(tmp))
	}
	for i := 1; i < len(tmp); i++ {
		if tmp[i-1].Frame > tmp[i].Frame {
			t.Fatalf("merged list not frame-ordered: frame %v before frame %v", tmp[i-1].Frame, tmp[i].Frame)
		}
	}
}

func TestTrackWithEmptyPluginIsSilent(t *testing.T) {
	tr := newTestTransport(16)
	track := engine.NewTrack(16)
	tmp := make([]bats.TimedMessage, 0, 64)
	track.Process(engine.TrackProcessContext{
		Transport: tr,
		MidiIn:    []bats.TimedMessage{{Frame: 0, Message: midi.NoteOn(0, 69, 100)}},
		TmpMidi:   &tmp,
	})
	if !track.Output.IsSilent() {
		t.Error("track without an instrument produced sound")
	}
}
