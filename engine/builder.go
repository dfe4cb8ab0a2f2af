package engine

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/wmedrano/bats-go/dsp"
	"github.com/wmedrano/bats-go/instrument"
)

type (
	// Builder is the persisted configuration snapshot: everything needed to
	// reconstruct an engine deterministically, excluding live sequence and
	// parameter state.
	Builder struct {
		SampleRate float32                 `yaml:"samplerate" json:"samplerate"`
		BufferSize int                     `yaml:"buffersize" json:"buffersize"`
		BPM        float32                 `yaml:"bpm" json:"bpm"`
		Tracks     [NumTracks]TrackBuilder `yaml:"tracks" json:"tracks"`
	}

	// TrackBuilder configures a single track. A nil Volume means the default
	// of 1.0; an explicit 0 builds a muted track.
	TrackBuilder struct {
		Plugin instrument.Kind `yaml:"plugin" json:"plugin"`
		Volume *float32        `yaml:"volume,omitempty" json:"volume,omitempty"`
	}
)

// DefaultBuilder returns a builder for a silent engine at common settings.
func DefaultBuilder() Builder {
	b := Builder{
		SampleRate: 44100,
		BufferSize: 512,
		BPM:        120,
	}
	for i := range b.Tracks {
		b.Tracks[i] = TrackBuilder{Plugin: instrument.KindEmpty}
	}
	return b
}

// Validate checks the snapshot for values Build cannot work with.
func (b *Builder) Validate() error {
	if b.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be > 0, got %v", b.SampleRate)
	}
	if b.BufferSize <= 0 {
		return fmt.Errorf("buffer size must be > 0, got %v", b.BufferSize)
	}
	if b.BPM <= 0 {
		return fmt.Errorf("bpm must be > 0, got %v", b.BPM)
	}
	for i, t := range b.Tracks {
		if err := t.Plugin.Validate(); err != nil {
			return fmt.Errorf("track %d: %w", i, err)
		}
	}
	return nil
}

// Build constructs the engine the snapshot describes.
func (b *Builder) Build() (*Engine, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	sampleRate := dsp.NewSampleRate(b.SampleRate)
	e := New(sampleRate, b.BufferSize, b.BPM)
	for i, t := range b.Tracks {
		e.Tracks[i].Plugin = instrument.NewPlugin(t.Plugin, sampleRate)
		if t.Volume != nil {
			e.Tracks[i].Volume = *t.Volume
		}
	}
	return e, nil
}

// ReadBuilder parses a snapshot from JSON or YAML, trying JSON first.
func ReadBuilder(r io.Reader) (Builder, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Builder{}, fmt.Errorf("could not read builder: %w", err)
	}
	var b Builder
	if errJSON := json.Unmarshal(data, &b); errJSON != nil {
		if errYaml := yaml.Unmarshal(data, &b); errYaml != nil {
			return Builder{}, fmt.Errorf("builder could not be parsed as .json (%v) or .yml (%v)", errJSON, errYaml)
		}
	}
	return b, nil
}

// WriteBuilder writes the snapshot as YAML.
func WriteBuilder(w io.Writer, b Builder) error {
	data, err := yaml.Marshal(b)
	if err != nil {
		return fmt.Errorf("could not marshal builder: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("could not write builder: %w", err)
	}
	return nil
}
