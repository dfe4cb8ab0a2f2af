package instrument

import (
	"gitlab.com/gomidi/midi/v2"

	"github.com/wmedrano/bats-go"
)

// Empty is an instrument that ignores all input and renders silence.
type Empty struct{}

var emptyMetadata = bats.Metadata{Name: "empty"}

func (Empty) Metadata() *bats.Metadata        { return &emptyMetadata }
func (Empty) HandleEvent(midi.Message)        {}
func (Empty) RenderFrame() (float32, float32) { return 0.0, 0.0 }
func (Empty) Param(uint32) float32            { return 0.0 }
func (Empty) SetParam(uint32, float32)        {}
func (Empty) BatchCleanup()                   {}
