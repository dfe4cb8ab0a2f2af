// Package oto plays the engine output through the system audio device. The
// device pulls samples through an io.Reader, so the render callback runs on
// the driver's schedule one fixed-size buffer at a time.
package oto

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/ebitengine/oto/v3"

	"github.com/wmedrano/bats-go"
)

// Context is an open connection to the audio device.
type Context struct {
	ctx *oto.Context
}

// NewContext opens the audio device at the given sample rate and waits until
// it is ready.
func NewContext(sampleRate int) (*Context, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot create audio context: %w", err)
	}
	<-ready
	return &Context{ctx: ctx}, nil
}

// NewPlayer creates a player that fills the device from render, bufferSize
// frames at a time, and starts it.
func (c *Context) NewPlayer(bufferSize int, render bats.RenderFunc) *Player {
	p := &Player{
		render: render,
		left:   make([]float32, bufferSize),
		right:  make([]float32, bufferSize),
	}
	p.player = c.ctx.NewPlayer(p)
	p.player.SetBufferSize(bufferSize * frameBytes)
	p.player.Play()
	return p
}

// frameBytes is the size of one stereo float32 frame on the wire.
const frameBytes = 8

// Player renders audio on demand and encodes it for the device.
type Player struct {
	player  *oto.Player
	render  bats.RenderFunc
	left    []float32
	right   []float32
	buf     []byte
	pending []byte
}

// Read implements io.Reader for oto.Player. Whole buffers are rendered at a
// time; leftover bytes are carried over to the next call.
func (p *Player) Read(dst []byte) (int, error) {
	n := 0
	for n < len(dst) {
		if len(p.pending) == 0 {
			p.render(p.left, p.right)
			p.pending = p.encode()
		}
		copied := copy(dst[n:], p.pending)
		p.pending = p.pending[copied:]
		n += copied
	}
	return n, nil
}

func (p *Player) encode() []byte {
	if p.buf == nil {
		p.buf = make([]byte, len(p.left)*frameBytes)
	}
	for i := range p.left {
		binary.LittleEndian.PutUint32(p.buf[i*frameBytes:], math.Float32bits(p.left[i]))
		binary.LittleEndian.PutUint32(p.buf[i*frameBytes+4:], math.Float32bits(p.right[i]))
	}
	return p.buf
}

// Close stops playback and releases the player.
func (p *Player) Close() error {
	if err := p.player.Close(); err != nil {
		return fmt.Errorf("cannot close audio player: %w", err)
	}
	return nil
}
