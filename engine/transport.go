// Package engine contains the real-time core of the looper: the transport
// clock, track sequencing, the mixer, and the builder that reconstructs an
// engine from a configuration snapshot.
package engine

import (
	"github.com/wmedrano/bats-go"
	"github.com/wmedrano/bats-go/dsp"
)

// MeasureBeats is the loop length in beats. The transport reduces its beat
// counter modulo this value, so positions always stay within a single
// measure.
const MeasureBeats = 16

// Metronome trigger pitches. The loop boundary, the measure subdivisions and
// the ordinary beats each get a distinct pitch.
const (
	metronomeBeatKey        uint8 = 60 // C4
	metronomeSubdivisionKey uint8 = 72 // C5
	metronomeLoopKey        uint8 = 79 // G5
)

// Transport advances the musical clock one position per sample and keeps a
// cache of the per-frame positions for the current buffer. It also owns the
// metronome synth, whose signal it writes into the output buffers on every
// Process call.
type Transport struct {
	// MetronomeVolume scales the metronome signal; 0 silences it.
	MetronomeVolume float32

	// cache holds samples+1 positions: cache[0] repeats the last entry of the
	// previous buffer (MaxPosition before the first buffer) and each later
	// entry advances the clock by one sample. Frame i owns the half-open
	// window (cache[i], cache[i+1]).
	cache     []dsp.Position
	bpm       float32
	position  dsp.Position
	perSample dsp.Position
	synth     metronomeSynth
}

// NewTransport creates a transport. The per-sample increment is precomputed
// from the BPM and sample rate.
func NewTransport(sampleRate dsp.SampleRate, bufferSize int, bpm float32) *Transport {
	return &Transport{
		cache:     make([]dsp.Position, 0, bufferSize+1),
		bpm:       bpm,
		perSample: dsp.PositionDeltaFromBPM(sampleRate, bpm),
		synth:     newMetronomeSynth(sampleRate),
	}
}

// SetBPM recomputes the per-sample increment. The current position is kept.
func (t *Transport) SetBPM(sampleRate dsp.SampleRate, bpm float32) {
	t.bpm = bpm
	t.perSample = dsp.PositionDeltaFromBPM(sampleRate, bpm)
}

// BPM returns the current beats per minute.
func (t *Transport) BPM() float32 {
	return t.bpm
}

// SetSynthDecay sets the metronome click decay. Durations <= 0 produce a
// single-sample click.
func (t *Transport) SetSynthDecay(sampleRate dsp.SampleRate, durationSeconds float32) {
	if durationSeconds <= 0.0 {
		t.synth.ampDelta = -1.0
		return
	}
	frames := durationSeconds / sampleRate.SecondsPerSample()
	t.synth.ampDelta = -1.0 / frames
}

// Process advances the clock by min(len(left), len(right)) samples,
// regenerating the position cache, and writes the metronome signal into left
// and right scaled by MetronomeVolume.
func (t *Transport) Process(left, right []float32) {
	samples := min(len(left), len(right))
	t.populateCache(samples)
	t.populateMetronomeSound(left[:samples], right[:samples])
}

func (t *Transport) populateCache(samples int) {
	previous := dsp.MaxPosition
	if len(t.cache) > 0 {
		previous = t.cache[len(t.cache)-1]
	}
	t.cache = append(t.cache[:0], previous)
	for i := 0; i < samples; i++ {
		t.cache = append(t.cache, t.position)
		t.position = t.position.Add(t.perSample)
		if t.position.Beat() >= MeasureBeats {
			t.position = t.position.WithBeat(t.position.Beat() % MeasureBeats)
		}
	}
}

// RangeForFrame returns the half-open position window of the given frame.
// The window may wrap: its start can compare greater than its end at the
// measure loop boundary.
func (t *Transport) RangeForFrame(frame int) (start, end dsp.Position) {
	return t.cache[frame], t.cache[frame+1]
}

// FrameCount returns the number of frames covered by the current cache.
func (t *Transport) FrameCount() int {
	if len(t.cache) == 0 {
		return 0
	}
	return len(t.cache) - 1
}

// positionInRange tests whether p falls in the half-open window [start, end).
// A window whose start compares greater than its end wraps around and is
// treated as the complement of [end, start).
func positionInRange(p, start, end dsp.Position) bool {
	if start < end {
		return start <= p && p < end
	}
	return !(end <= p && p < start)
}

// SequenceToFrames appends the events of the sequence that are due in the
// current buffer to dst, tagged with the frame they fall in. The sequence is
// treated as a loop: after the last event the scan wraps back to the first,
// but only the first wrap per buffer emits events. If dst already contained
// messages and new ones were appended, dst is re-sorted by frame.
func (t *Transport) SequenceToFrames(dst []bats.TimedMessage, sequence []bats.Event) []bats.TimedMessage {
	if len(sequence) == 0 {
		return dst
	}
	initialLen := len(dst)
	start, _ := t.RangeForFrame(0)
	// The index len(sequence) stands in for a placeholder event at
	// MaxPosition; consuming it is what wraps the scan back to the start.
	next := len(sequence)
	for i, e := range sequence {
		if e.Position >= start {
			next = i
			break
		}
	}
	wrapped := false
	for frame := 0; frame < t.FrameCount(); frame++ {
		windowStart, windowEnd := t.RangeForFrame(frame)
		for {
			pos := dsp.MaxPosition
			if next < len(sequence) {
				pos = sequence[next].Position
			}
			if !positionInRange(pos, windowStart, windowEnd) {
				break
			}
			if next == len(sequence) {
				if wrapped {
					break
				}
				wrapped = true
				next = 0
				continue
			}
			dst = append(dst, bats.TimedMessage{Frame: uint32(frame), Message: sequence[next].Message})
			next++
		}
	}
	if initialLen != 0 && len(dst) != initialLen {
		bats.SortTimedMessagesByFrame(dst)
	}
	return dst
}

// PushToSequence inserts the live messages into the sequence at the position
// window they occurred in and returns the sequence sorted by position.
func (t *Transport) PushToSequence(sequence []bats.Event, midiIn []bats.TimedMessage) []bats.Event {
	for _, m := range midiIn {
		_, position := t.RangeForFrame(int(m.Frame))
		sequence = append(sequence, bats.Event{Position: position, Message: m.Message})
	}
	bats.SortEventsByPosition(sequence)
	return sequence
}

func (t *Transport) populateMetronomeSound(left, right []float32) {
	for i := range left {
		prev, cur := t.RangeForFrame(i)
		if prev.Beat() != cur.Beat() {
			key := metronomeBeatKey
			switch {
			case cur.Beat() == 0:
				key = metronomeLoopKey
			case cur.Beat()%4 == 0:
				key = metronomeSubdivisionKey
			}
			t.synth.handleNote(key)
		}
		v := t.synth.process() * t.MetronomeVolume
		left[i] = v
		right[i] = v
	}
}

// metronomeSynth is a small decaying sawtooth used for the metronome clicks.
type metronomeSynth struct {
	sampleRate dsp.SampleRate
	amp        float32
	ampDelta   float32
	wave       dsp.Sawtooth
}

const metronomeDecaySeconds = 0.1

func newMetronomeSynth(sampleRate dsp.SampleRate) metronomeSynth {
	frames := metronomeDecaySeconds / sampleRate.SecondsPerSample()
	return metronomeSynth{
		sampleRate: sampleRate,
		ampDelta:   -1.0 / frames,
		wave:       dsp.NewSawtooth(sampleRate, 100.0),
	}
}

func (m *metronomeSynth) handleNote(key uint8) {
	m.wave = dsp.NewSawtooth(m.sampleRate, dsp.NoteFrequency(key))
	m.amp = 1.0
}

func (m *metronomeSynth) process() float32 {
	if m.amp == 0.0 {
		return 0.0
	}
	v := m.amp * m.wave.NextSample()
	m.amp += m.ampDelta
	if m.amp < 0.0 {
		m.amp = 0.0
	}
	return v
}
