// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"fmt"
	"io"

	goaiff "github.com/go-audio/aiff"

	"github.com/ik5/audmeta/meta"
	"github.com/ik5/audmeta/utils"
)

// Prober extracts metadata from AIFF files.
type Prober struct{}

// Probe parses the FORM chunks and derives duration from the COMM
// frame count. The sound data is not read.
func (Prober) Probe(r io.Reader, opt meta.Options) (*meta.Info, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		// go-audio needs seeking, so a plain reader is buffered whole.
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading aiff data: %w", err)
		}

		rs = bytes.NewReader(data)
	}

	dec := goaiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}

	dec.ReadInfo()

	format := dec.Format()
	if format == nil || format.SampleRate == 0 {
		return nil, ErrUnsupportedAiffLayout
	}

	info := &meta.Info{
		Format:       "aiff",
		Lossless:     true,
		SampleRateHz: format.SampleRate,
		Channels:     format.NumChannels,
		BitrateBps:   format.SampleRate * format.NumChannels * int(dec.BitDepth),
		SampleCount:  int64(dec.NumSampleFrames),
	}
	info.Duration = utils.SampleDuration(info.SampleCount, info.SampleRateHz)

	return info, nil
}
