// Package gomidi adapts rtmidi input devices to the frame-tagged MIDI
// messages the engine consumes.
package gomidi

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/wmedrano/bats-go"
	"github.com/wmedrano/bats-go/dsp"
)

type (
	// Context owns the rtmidi driver and at most one open input device.
	// Incoming messages are buffered on an internal channel and handed to the
	// audio thread one buffer at a time through CollectFrames.
	Context struct {
		driver *rtmididrv.Driver
		in     drivers.In
		events chan timestampedMsg

		// clockMs is the driver timestamp corresponding to frame 0 of the
		// current buffer. It is set from the first message seen and advanced
		// by one buffer length per CollectFrames call.
		clockMs  float64
		clockSet bool
		// pending holds messages timestamped past the current buffer, waiting
		// for the buffer they belong to.
		pending []timestampedMsg
		buf     []bats.TimedMessage
	}

	timestampedMsg struct {
		ms  int32
		msg midi.Message
	}
)

// NewContext opens the rtmidi driver. A nil driver is tolerated; the context
// then simply never produces messages.
func NewContext() *Context {
	c := &Context{
		events:  make(chan timestampedMsg, 1024),
		pending: make([]timestampedMsg, 0, 1024),
		buf:     make([]bats.TimedMessage, 0, 1024),
	}
	c.driver, _ = rtmididrv.New()
	return c
}

// InputNames lists the names of the available input devices.
func (c *Context) InputNames() []string {
	if c.driver == nil {
		return nil
	}
	ins, err := c.driver.Ins()
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(ins))
	for _, in := range ins {
		names = append(names, in.String())
	}
	return names
}

// HasDeviceOpen returns true when an input device is open.
func (c *Context) HasDeviceOpen() bool {
	return c.in != nil && c.in.IsOpen()
}

// TryToOpenBy opens the first input device whose name starts with namePrefix,
// or simply the first device when takeFirst is set. The currently open device
// is closed first.
func (c *Context) TryToOpenBy(namePrefix string, takeFirst bool) error {
	if c.driver == nil {
		return errors.New("no midi driver available")
	}
	ins, err := c.driver.Ins()
	if err != nil {
		return fmt.Errorf("listing midi inputs failed: %w", err)
	}
	for _, in := range ins {
		if takeFirst || strings.HasPrefix(in.String(), namePrefix) {
			return c.open(in)
		}
	}
	if takeFirst {
		return errors.New("could not find any midi input")
	}
	return fmt.Errorf("could not find a midi input starting with %q", namePrefix)
}

func (c *Context) open(in drivers.In) error {
	if c.in == in {
		return nil
	}
	if c.HasDeviceOpen() {
		c.in.Close()
	}
	c.in = in
	if err := in.Open(); err != nil {
		c.in = nil
		return fmt.Errorf("opening midi input failed: %w", err)
	}
	if _, err := midi.ListenTo(in, c.handleMessage); err != nil {
		in.Close()
		c.in = nil
		return fmt.Errorf("listening to midi input failed: %w", err)
	}
	return nil
}

// Close closes the open device and the driver.
func (c *Context) Close() {
	if c.driver == nil {
		return
	}
	if c.HasDeviceOpen() {
		c.in.Close()
	}
	c.driver.Close()
}

// handleMessage runs on the rtmidi listener goroutine. A full channel drops
// the message rather than block.
func (c *Context) handleMessage(msg midi.Message, timestampms int32) {
	select {
	case c.events <- timestampedMsg{ms: timestampms, msg: msg}:
	default:
	}
}

// CollectFrames drains the incoming messages and tags each with the frame it
// falls in within a buffer of the given length. Messages timestamped before
// the buffer are clamped to frame 0; messages timestamped past its end are
// held back and delivered on the call for the buffer they belong to, so the
// result stays frame-ordered. The returned slice is reused across calls.
func (c *Context) CollectFrames(sampleRate dsp.SampleRate, frames int) []bats.TimedMessage {
	c.buf = c.buf[:0]
	deferred := c.pending[:0]
	for _, e := range c.pending {
		deferred = c.placeMessage(deferred, e, sampleRate, frames)
	}
	for {
		select {
		case e := <-c.events:
			if !c.keepMessage(e.msg) {
				continue
			}
			if !c.clockSet {
				c.clockMs = float64(e.ms)
				c.clockSet = true
			}
			deferred = c.placeMessage(deferred, e, sampleRate, frames)
		default:
			c.pending = deferred
			if c.clockSet {
				c.clockMs += float64(frames) * 1000.0 * float64(sampleRate.SecondsPerSample())
			}
			return c.buf
		}
	}
}

// placeMessage appends e to c.buf tagged with its frame in the current
// buffer, or to deferred when its timestamp lies past the buffer end.
func (c *Context) placeMessage(deferred []timestampedMsg, e timestampedMsg, sampleRate dsp.SampleRate, frames int) []timestampedMsg {
	frame := int((float64(e.ms) - c.clockMs) * float64(sampleRate.SampleRate()) / 1000.0)
	if frame >= frames {
		return append(deferred, e)
	}
	if frame < 0 {
		frame = 0
	}
	c.buf = append(c.buf, bats.TimedMessage{Frame: uint32(frame), Message: e.msg})
	return deferred
}

func (c *Context) keepMessage(msg midi.Message) bool {
	var channel, key, velocity uint8
	switch {
	case msg.GetNoteStart(&channel, &key, &velocity):
		return true
	case msg.GetNoteEnd(&channel, &key):
		return true
	case msg.Is(midi.ResetMsg):
		return true
	case msg.Is(midi.TimingClockMsg) || msg.Is(midi.ActiveSenseMsg):
		return false
	}
	log.Printf("dropping unsupported midi message %v", msg)
	return false
}
