// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"

	"github.com/ik5/audmeta/meta"
	"github.com/ik5/audmeta/utils"
)

// oggReader is an interface for oggvorbis.Reader to allow testing
type oggReader interface {
	SampleRate() int
	Channels() int
	Length() int64
}

// Prober extracts metadata from Ogg Vorbis streams. The zero value
// opens real streams.
type Prober struct {
	// newReader is replaced in tests. nil means oggvorbis.NewReader.
	newReader func(r io.Reader) (oggReader, error)
}

// Probe decodes the Vorbis identification headers. When the reader can
// seek, the total sample count and duration are derived from the last
// Ogg page; the bit rate is then estimated from Options.TotalBytes.
func (p Prober) Probe(r io.Reader, opt meta.Options) (*meta.Info, error) {
	open := p.newReader
	if open == nil {
		open = openOggStream
	}

	dec, err := open(r)
	if err != nil {
		return nil, fmt.Errorf("reading vorbis headers: %w", err)
	}

	info := &meta.Info{
		Format:       "ogg vorbis",
		Lossless:     false,
		SampleRateHz: dec.SampleRate(),
		Channels:     dec.Channels(),
	}

	// Length is zero when the stream does not support seeking.
	if n := dec.Length(); n > 0 {
		info.SampleCount = n
		info.Duration = utils.SampleDuration(n, dec.SampleRate())

		if opt.TotalBytes > 0 && info.Duration > 0 {
			audioBytes := opt.TotalBytes - opt.LeadingBytes
			info.BitrateBps = int(float64(audioBytes*8) / info.Duration)
		}
	}

	return info, nil
}

func openOggStream(r io.Reader) (oggReader, error) {
	return oggvorbis.NewReader(r)
}
