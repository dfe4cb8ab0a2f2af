package bats

import "gitlab.com/gomidi/midi/v2"

type (
	// Instrument is the capability tracks drive. Implementations render one
	// frame at a time and consume MIDI events between frames; they must not
	// allocate or block, as all methods run on the audio thread.
	Instrument interface {
		// Metadata returns the static name and parameter descriptions.
		Metadata() *Metadata
		// HandleEvent applies a MIDI message to the instrument state.
		HandleEvent(msg midi.Message)
		// RenderFrame produces the next left/right sample pair.
		RenderFrame() (left, right float32)
		// Param returns the current value of a parameter, or 0 for unknown
		// ids.
		Param(id uint32) float32
		// SetParam sets a parameter; unknown ids are ignored.
		SetParam(id uint32, value float32)
		// BatchCleanup runs after a batch of frames has been rendered.
		BatchCleanup()
	}

	// Metadata describes an instrument to the UI and to parameter commands.
	Metadata struct {
		Name   string
		Params []Param
	}

	// ParamType tags how a parameter value should be interpreted.
	ParamType int

	// Param describes a single instrument parameter.
	Param struct {
		// ID is unique within the instrument.
		ID uint32
		// Name is the human readable parameter name.
		Name string
		// Type is the parameter type tag.
		Type ParamType
		// DefaultValue is the initial value.
		DefaultValue float32
		// MinValue is the minimum value, inclusive.
		MinValue float32
		// MaxValue is the maximum value, inclusive.
		MaxValue float32
	}
)

const (
	// ParamTypeFloat is a plain floating point value.
	ParamTypeFloat ParamType = iota
	// ParamTypeBool is a toggle where >= 0.5 is on and < 0.5 is off.
	ParamTypeBool
	// ParamTypePercent is a ratio between 0 and 1.
	ParamTypePercent
	// ParamTypeFrequency is a frequency in Hz.
	ParamTypeFrequency
)

// ParamByID returns the parameter description with the given id.
func (m *Metadata) ParamByID(id uint32) (Param, bool) {
	for _, p := range m.Params {
		if p.ID == id {
			return p, true
		}
	}
	return Param{}, false
}

// ProcessBatch renders len(left) frames with the instrument, applying each
// event once the render reaches its frame. Events must be sorted by frame.
func ProcessBatch(inst Instrument, events []TimedMessage, left, right []float32) {
	next := 0
	for i := range left {
		for next < len(events) && uint32(i) >= events[next].Frame {
			inst.HandleEvent(events[next].Message)
			next++
		}
		left[i], right[i] = inst.RenderFrame()
	}
	for next < len(events) {
		inst.HandleEvent(events[next].Message)
		next++
	}
	inst.BatchCleanup()
}
