package engine

import (
	"log"

	"github.com/viterin/vek/vek32"

	"github.com/wmedrano/bats-go"
	"github.com/wmedrano/bats-go/dsp"
)

// NumTracks is the fixed number of tracks an engine owns. Tracks are never
// added or removed, only reconfigured.
const NumTracks = 8

// Engine owns the transport and the tracks and mixes their output. It is
// driven by the audio thread, which is its sole mutator: the control thread
// reaches it exclusively through the command queue.
type Engine struct {
	// Transport is the musical clock shared by all tracks.
	Transport *Transport
	// Tracks is the fixed track set.
	Tracks [NumTracks]Track
	// ArmedTrack receives the live MIDI input. An out of range index arms
	// nothing.
	ArmedTrack int
	// RecordingEnabled folds live input into the armed track's sequence.
	RecordingEnabled bool

	sampleRate dsp.SampleRate
	bufferSize int
	midiBuffer []bats.TimedMessage
	mixBuffer  []float32
}

// New creates an engine with empty tracks. All per-buffer scratch space is
// allocated here; Process never allocates.
func New(sampleRate dsp.SampleRate, bufferSize int, bpm float32) *Engine {
	e := &Engine{
		Transport:  NewTransport(sampleRate, bufferSize, bpm),
		sampleRate: sampleRate,
		bufferSize: bufferSize,
		midiBuffer: make([]bats.TimedMessage, 0, bufferSize*8),
		mixBuffer:  make([]float32, bufferSize),
	}
	for i := range e.Tracks {
		e.Tracks[i] = NewTrack(bufferSize)
	}
	return e
}

// SampleRate returns the sample rate the engine was built with.
func (e *Engine) SampleRate() dsp.SampleRate {
	return e.sampleRate
}

// BufferSize returns the buffer size the engine was built with.
func (e *Engine) BufferSize() int {
	return e.bufferSize
}

// Process renders one buffer: the transport advances and writes the
// metronome into left/right, every enabled track renders with the armed
// track receiving midiIn, and the track outputs are mixed in scaled by their
// volumes.
func (e *Engine) Process(midiIn []bats.TimedMessage, left, right []float32) {
	samples := min(len(left), len(right))
	e.Transport.Process(left, right)
	for i := range e.Tracks {
		track := &e.Tracks[i]
		if !track.Enabled {
			continue
		}
		trackIn := midiIn
		if i != e.ArmedTrack {
			trackIn = nil
		}
		track.Process(TrackProcessContext{
			RecordToSequence: e.RecordingEnabled && i == e.ArmedTrack,
			Transport:        e.Transport,
			MidiIn:           trackIn,
			TmpMidi:          &e.midiBuffer,
		})
		if dsp.HasNonFinite(track.Output.Left[:samples]) || dsp.HasNonFinite(track.Output.Right[:samples]) {
			track.Enabled = false
			log.Printf("track %d produced non-finite output, disabling", i)
			continue
		}
		e.mix(left[:samples], track.Output.Left[:samples], track.Volume)
		e.mix(right[:samples], track.Output.Right[:samples], track.Volume)
	}
}

func (e *Engine) mix(dst, src []float32, volume float32) {
	scaled := e.mixBuffer[:len(src)]
	vek32.MulNumber_Into(scaled, src, volume)
	vek32.Add_Inplace(dst, scaled)
}
