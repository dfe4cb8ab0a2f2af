package dsp

import (
	"fmt"
	"math"
)

// Position is a point on the musical timeline. The high 32 bits hold the beat
// number and the low 32 bits the sub-beat, giving a resolution of 1/2^32 of a
// beat. Arithmetic wraps modulo 2^64; the transport relies on this for its
// loop semantics, so there is no overflow error.
type Position uint64

const (
	// MinPosition is the smallest representable position.
	MinPosition Position = 0
	// MaxPosition is the largest representable position.
	MaxPosition Position = math.MaxUint64
	// PositionDelta is the smallest non-zero increment.
	PositionDelta Position = 1
)

const subBeatScale = float64(1 << 32)

// NewPosition creates a position from a floating point beat count. The
// integer part becomes the beat and the fractional part is scaled to the
// sub-beat.
func NewPosition(beat float64) Position {
	whole, frac := math.Modf(beat)
	sub := uint64(frac * subBeatScale)
	if sub > math.MaxUint32 {
		sub = math.MaxUint32
	}
	return PositionFromComponents(uint32(whole), uint32(sub))
}

// PositionFromComponents creates a position from an exact beat and sub-beat.
func PositionFromComponents(beat, subBeat uint32) Position {
	return Position(uint64(beat)<<32 + uint64(subBeat))
}

// PositionDeltaFromBPM returns the amount a position advances in a single
// sample at the given tempo.
func PositionDeltaFromBPM(sampleRate SampleRate, bpm float32) Position {
	beatsPerSecond := float64(bpm) / 60.0
	return NewPosition(beatsPerSecond * float64(sampleRate.SecondsPerSample()))
}

// Beat returns the integer beat component.
func (p Position) Beat() uint32 {
	return uint32(p >> 32)
}

// SubBeat returns the fractional sub-beat component.
func (p Position) SubBeat() uint32 {
	return uint32(p)
}

// Add returns the wrapping sum of two positions.
func (p Position) Add(o Position) Position {
	return p + o
}

// WithBeat returns p with the beat component replaced and the sub-beat kept.
func (p Position) WithBeat(beat uint32) Position {
	return PositionFromComponents(beat, p.SubBeat())
}

func (p Position) String() string {
	return fmt.Sprintf("Position{beat: %d, subBeat: %d}", p.Beat(), p.SubBeat())
}
