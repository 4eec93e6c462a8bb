// SPDX-License-Identifier: EPL-2.0

package meta

import (
	"io"
	"sync"
)

// Info is the format record a probe produces. Fields that could not be
// determined from the stream keep their zero value.
type Info struct {
	// Format key of the stream (e.g. "mp3", "wav", "ogg vorbis").
	Format string
	// Lossless is true for uncompressed or losslessly packed audio.
	Lossless bool
	// BitrateBps is the data rate in bits per second. For variable
	// bitrate streams this is the rate of the last inspected frame
	// unless the prober derived a better figure.
	BitrateBps int
	// SampleRateHz of the audio stream.
	SampleRateHz int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels int
	// Duration of the stream in seconds. 0 when unknown.
	Duration float64
	// CodecProfile labels the encoding strategy ("CBR", "V2", ...).
	CodecProfile string
	// Encoder identity, when the stream names one (e.g. "LAME 3.99r").
	Encoder string
	// SampleCount is the total number of samples per channel. 0 when unknown.
	SampleCount int64
	// Warnings collects non-fatal anomalies seen while probing. They are
	// informational and do not invalidate the record.
	Warnings []string
}

// Options carries stream geometry and probe behavior that a sequential
// reader cannot provide. The zero value is valid: unknown size, no
// leading bytes, no full-stream duration scan.
type Options struct {
	// TotalBytes is the full size of the underlying stream, <= 0 when unknown.
	TotalBytes int64
	// LeadingBytes counts bytes consumed before the reader's first byte,
	// such as a container tag skipped by the caller.
	LeadingBytes int64
	// Duration requests scanning the whole stream when that is the only
	// way to compute a precise duration.
	Duration bool
}

// Prober extracts an Info record from an input reader without decoding
// audio samples.
type Prober interface {
	Probe(r io.Reader, opt Options) (*Info, error)
}

// Registry for probers by format key (e.g., "wav", "mp3", "ogg vorbis").
type Registry struct {
	probers map[string]Prober

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		probers: make(map[string]Prober),
		mtx:     &sync.Mutex{},
	}
}

func (r *Registry) Register(format string, p Prober) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.probers[format] = p
}

func (r *Registry) Get(format string) (Prober, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	p, ok := r.probers[format]
	return p, ok
}
