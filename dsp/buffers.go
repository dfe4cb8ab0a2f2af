package dsp

import "github.com/chewxy/math32"

// Buffers is a pair of left/right audio buffers of equal length.
type Buffers struct {
	Left  []float32
	Right []float32
}

// NewBuffers allocates zeroed stereo buffers of the given length.
func NewBuffers(length int) Buffers {
	return Buffers{
		Left:  make([]float32, length),
		Right: make([]float32, length),
	}
}

// IsSilent returns true if every sample in both channels is exactly zero.
func (b Buffers) IsSilent() bool {
	for _, v := range b.Left {
		if v != 0.0 {
			return false
		}
	}
	for _, v := range b.Right {
		if v != 0.0 {
			return false
		}
	}
	return true
}

// HasNonFinite reports whether xs contains a NaN or infinity.
func HasNonFinite(xs []float32) bool {
	for _, v := range xs {
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			return true
		}
	}
	return false
}

// NoteFrequency returns the equal-temperament frequency of a MIDI key number,
// tuned to A4 (key 69) = 440 Hz.
func NoteFrequency(key uint8) float32 {
	return 440.0 * math32.Exp2((float32(key)-69.0)/12.0)
}
