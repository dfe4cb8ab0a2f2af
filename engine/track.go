package engine

import (
	"github.com/wmedrano/bats-go"
	"github.com/wmedrano/bats-go/dsp"
	"github.com/wmedrano/bats-go/instrument"
)

// sequenceCapacity is the number of events a track sequence can hold before
// recording has to allocate.
const sequenceCapacity = 4096

// Track is an instrument with a volume, a loop-relative MIDI sequence and its
// own output buffers.
type Track struct {
	// Plugin is the instrument rendering this track. The empty plugin
	// renders silence.
	Plugin instrument.AnyPlugin
	// Volume is the mix weight of the track output.
	Volume float32
	// Enabled is cleared by the engine when the instrument misbehaves; a
	// disabled track is skipped entirely.
	Enabled bool
	// Output holds the most recently rendered buffer.
	Output dsp.Buffers
	// Sequence is the stored MIDI loop, sorted by position.
	Sequence []bats.Event
}

// TrackProcessContext carries the per-buffer inputs of Track.Process.
type TrackProcessContext struct {
	// RecordToSequence folds MidiIn into the track sequence.
	RecordToSequence bool
	// Transport supplies the position windows for the buffer.
	Transport *Transport
	// MidiIn is the live input for this buffer, tagged with frame offsets.
	MidiIn []bats.TimedMessage
	// TmpMidi is scratch space for the merged event list. It is owned by the
	// caller so that one pre-sized buffer serves every track.
	TmpMidi *[]bats.TimedMessage
}

// NewTrack creates an empty track with pre-sized buffers.
func NewTrack(bufferSize int) Track {
	return Track{
		Volume:   1.0,
		Enabled:  true,
		Output:   dsp.NewBuffers(bufferSize),
		Sequence: make([]bats.Event, 0, sequenceCapacity),
	}
}

// Process renders the current buffer into t.Output. The stored sequence is
// replayed against the transport windows, live input is merged in, and, when
// recording, the live input is folded back into the sequence.
func (t *Track) Process(ctx TrackProcessContext) {
	tmp := (*ctx.TmpMidi)[:0]
	tmp = ctx.Transport.SequenceToFrames(tmp, t.Sequence)
	if len(ctx.MidiIn) != 0 {
		// Stored events are already frame-ordered; a sort is only needed
		// when the two sources are interleaved.
		shouldSort := len(tmp) != 0
		tmp = append(tmp, ctx.MidiIn...)
		if shouldSort {
			bats.SortTimedMessagesByFrame(tmp)
		}
		if ctx.RecordToSequence {
			t.Sequence = ctx.Transport.PushToSequence(t.Sequence, ctx.MidiIn)
		}
	}
	*ctx.TmpMidi = tmp
	frames := min(ctx.Transport.FrameCount(), len(t.Output.Left))
	bats.ProcessBatch(t.Plugin.Instrument(), tmp, t.Output.Left[:frames], t.Output.Right[:frames])
}
