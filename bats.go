// Package bats contains the domain types of the bats looper engine: the
// frame-tagged MIDI events exchanged with the audio driver, the loop-relative
// sequence events stored on tracks, and the instrument capability that tracks
// render through.
package bats

import (
	"slices"

	"gitlab.com/gomidi/midi/v2"

	"github.com/wmedrano/bats-go/dsp"
)

type (
	// TimedMessage is a MIDI message tagged with the buffer frame it occurs
	// in. The audio driver boundary delivers live input as TimedMessages and
	// tracks produce them when replaying their sequences.
	TimedMessage struct {
		Frame   uint32
		Message midi.Message
	}

	// Event is a MIDI message stored in a track sequence at a loop-relative
	// position. Sequences are kept sorted by Position.
	Event struct {
		Position dsp.Position
		Message  midi.Message
	}
)

// SortEventsByPosition sorts a sequence in place by ascending position. The
// sort is stable so simultaneous events keep their insertion order.
func SortEventsByPosition(events []Event) {
	slices.SortStableFunc(events, func(a, b Event) int {
		switch {
		case a.Position < b.Position:
			return -1
		case a.Position > b.Position:
			return 1
		}
		return 0
	})
}

// SortTimedMessagesByFrame sorts frame-tagged messages in place by ascending
// frame, preserving the order of messages within the same frame.
func SortTimedMessagesByFrame(messages []TimedMessage) {
	slices.SortStableFunc(messages, func(a, b TimedMessage) int {
		switch {
		case a.Frame < b.Frame:
			return -1
		case a.Frame > b.Frame:
			return 1
		}
		return 0
	})
}
