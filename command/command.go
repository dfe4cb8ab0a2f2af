// Package command defines the mutation protocol between the control thread
// and the audio thread: a closed set of command values, a bounded
// single-producer single-consumer queue, and an undo stack for the inverses
// the commands return.
package command

import (
	"log"

	"github.com/wmedrano/bats-go"
	"github.com/wmedrano/bats-go/engine"
	"github.com/wmedrano/bats-go/instrument"
)

// DefaultMetronomeVolume is the volume ToggleMetronome switches to when the
// metronome is off.
const DefaultMetronomeVolume float32 = 0.5

// Command is a single engine mutation. Execute applies it and returns the
// command that reverses it. Commands are plain values; they carry everything
// they need and hold no references into the engine.
type Command interface {
	Execute(e *engine.Engine) Command
}

type (
	// None does nothing. It is returned as the inverse whenever a mutation
	// target does not exist, so Execute always has some command to return.
	None struct{}

	// ToggleMetronome flips the metronome between silent and
	// DefaultMetronomeVolume. It is its own inverse.
	ToggleMetronome struct{}

	// SetMetronomeVolume sets the metronome volume.
	SetMetronomeVolume struct {
		Volume float32
	}

	// SetTransportBPM sets the transport tempo. Values <= 0 are rejected.
	SetTransportBPM struct {
		BPM float32
	}

	// SetPlugin assigns an instrument to a track. Assigning the empty plugin
	// removes the current one.
	SetPlugin struct {
		TrackID int
		Plugin  instrument.AnyPlugin
	}

	// SetArmedTrack selects the track that receives live MIDI input.
	SetArmedTrack struct {
		TrackID int
	}

	// SetTrackVolume sets a track's mix volume.
	SetTrackVolume struct {
		TrackID int
		Volume  float32
	}

	// SetParam sets an instrument parameter on a track.
	SetParam struct {
		TrackID int
		ParamID uint32
		Value   float32
	}

	// SetSequence replaces a track's stored sequence. The previous sequence
	// travels back inside the inverse, so neither thread holds it twice.
	SetSequence struct {
		TrackID  int
		Sequence []bats.Event
	}

	// SetRecording enables or disables folding live input into the armed
	// track's sequence.
	SetRecording struct {
		Enabled bool
	}
)

// Execute implements Command.
func (c None) Execute(e *engine.Engine) Command {
	return None{}
}

// Execute implements Command.
func (c ToggleMetronome) Execute(e *engine.Engine) Command {
	if e.Transport.MetronomeVolume != 0 {
		e.Transport.MetronomeVolume = 0
	} else {
		e.Transport.MetronomeVolume = DefaultMetronomeVolume
	}
	return ToggleMetronome{}
}

// Execute implements Command.
func (c SetMetronomeVolume) Execute(e *engine.Engine) Command {
	old := e.Transport.MetronomeVolume
	e.Transport.MetronomeVolume = c.Volume
	return SetMetronomeVolume{Volume: old}
}

// Execute implements Command.
func (c SetTransportBPM) Execute(e *engine.Engine) Command {
	if c.BPM <= 0 {
		log.Printf("bpm must be > 0, will not set bpm to %v", c.BPM)
		return None{}
	}
	old := e.Transport.BPM()
	e.Transport.SetBPM(e.SampleRate(), c.BPM)
	return SetTransportBPM{BPM: old}
}

// Execute implements Command.
func (c SetPlugin) Execute(e *engine.Engine) Command {
	if c.TrackID < 0 || c.TrackID >= len(e.Tracks) {
		return None{}
	}
	track := &e.Tracks[c.TrackID]
	if c.Plugin.IsEmpty() && track.Plugin.IsEmpty() {
		return None{}
	}
	undo := SetPlugin{TrackID: c.TrackID, Plugin: track.Plugin}
	track.Plugin = c.Plugin
	return undo
}

// Execute implements Command.
func (c SetArmedTrack) Execute(e *engine.Engine) Command {
	undo := SetArmedTrack{TrackID: e.ArmedTrack}
	e.ArmedTrack = c.TrackID
	return undo
}

// Execute implements Command.
func (c SetTrackVolume) Execute(e *engine.Engine) Command {
	if c.TrackID < 0 || c.TrackID >= len(e.Tracks) {
		return None{}
	}
	track := &e.Tracks[c.TrackID]
	undo := SetTrackVolume{TrackID: c.TrackID, Volume: track.Volume}
	track.Volume = c.Volume
	return undo
}

// Execute implements Command.
func (c SetParam) Execute(e *engine.Engine) Command {
	if c.TrackID < 0 || c.TrackID >= len(e.Tracks) {
		log.Printf("track %d does not exist, will not set param %d to %v", c.TrackID, c.ParamID, c.Value)
		return None{}
	}
	track := &e.Tracks[c.TrackID]
	if track.Plugin.IsEmpty() {
		return None{}
	}
	inst := track.Plugin.Instrument()
	undo := SetParam{TrackID: c.TrackID, ParamID: c.ParamID, Value: inst.Param(c.ParamID)}
	inst.SetParam(c.ParamID, c.Value)
	return undo
}

// Execute implements Command.
func (c SetSequence) Execute(e *engine.Engine) Command {
	if c.TrackID < 0 || c.TrackID >= len(e.Tracks) {
		log.Printf("track %d does not exist, will not set the sequence", c.TrackID)
		return None{}
	}
	track := &e.Tracks[c.TrackID]
	undo := SetSequence{TrackID: c.TrackID, Sequence: track.Sequence}
	track.Sequence = c.Sequence
	return undo
}

// Execute implements Command.
func (c SetRecording) Execute(e *engine.Engine) Command {
	undo := SetRecording{Enabled: e.RecordingEnabled}
	e.RecordingEnabled = c.Enabled
	return undo
}
