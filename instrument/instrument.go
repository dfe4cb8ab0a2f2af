// Package instrument implements the closed set of built-in instruments behind
// the bats.Instrument capability, and the AnyPlugin tagged union the engine
// stores on tracks.
package instrument

import (
	"fmt"

	"github.com/wmedrano/bats-go"
	"github.com/wmedrano/bats-go/dsp"
)

// Kind is the configuration tag selecting an instrument variant. The set is
// closed; Validate rejects anything else.
type Kind string

const (
	// KindEmpty is a track with no instrument; it renders silence.
	KindEmpty Kind = "empty"
	// KindToof is the built-in sawtooth synth.
	KindToof Kind = "toof"
)

// AllKinds lists every valid instrument kind.
var AllKinds = []Kind{KindEmpty, KindToof}

// Validate returns an error if the kind is not one of the closed set. An
// empty string is accepted and treated as KindEmpty.
func (k Kind) Validate() error {
	switch k {
	case KindEmpty, KindToof, "":
		return nil
	}
	return fmt.Errorf("unknown instrument kind %q", string(k))
}

// AnyPlugin holds one instrument of the closed set by value, avoiding
// interface indirection for the instrument state in the render path. The zero
// value is the empty instrument.
type AnyPlugin struct {
	kind Kind
	toof Toof
}

// NewPlugin builds an instrument of the given kind. Unknown kinds build the
// empty instrument.
func NewPlugin(kind Kind, sampleRate dsp.SampleRate) AnyPlugin {
	switch kind {
	case KindToof:
		return AnyPlugin{kind: KindToof, toof: NewToof(sampleRate)}
	}
	return AnyPlugin{kind: KindEmpty}
}

// Kind returns the tag of the contained instrument.
func (p *AnyPlugin) Kind() Kind {
	if p.kind == "" {
		return KindEmpty
	}
	return p.kind
}

// IsEmpty returns true when no instrument is assigned.
func (p *AnyPlugin) IsEmpty() bool {
	return p.Kind() == KindEmpty
}

// Instrument returns the contained instrument.
func (p *AnyPlugin) Instrument() bats.Instrument {
	switch p.Kind() {
	case KindToof:
		return &p.toof
	}
	return Empty{}
}
