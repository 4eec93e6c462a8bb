// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"fmt"
	"io"

	gowav "github.com/go-audio/wav"

	"github.com/ik5/audmeta/meta"
	"github.com/ik5/audmeta/utils"
)

// Prober extracts metadata from RIFF/WAVE files.
type Prober struct{}

// Probe parses the RIFF headers and locates the PCM chunk to derive the
// sample count and duration. The samples themselves are not read.
func (Prober) Probe(r io.Reader, opt meta.Options) (*meta.Info, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		// go-audio needs seeking, so a plain reader is buffered whole.
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading wav data: %w", err)
		}

		rs = bytes.NewReader(data)
	}

	dec := gowav.NewDecoder(rs)

	dec.ReadInfo()
	if dec.NumChans == 0 || dec.SampleRate == 0 {
		return nil, ErrNotWavFile
	}

	info := &meta.Info{
		Format:       "wav",
		Lossless:     dec.WavAudioFormat == 1 || dec.WavAudioFormat == 3,
		SampleRateHz: int(dec.SampleRate),
		Channels:     int(dec.NumChans),
		BitrateBps:   int(dec.AvgBytesPerSec) * 8,
	}

	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("locating wav data chunk: %w", err)
	}

	frameBytes := int64(dec.NumChans) * int64(dec.BitDepth) / 8
	if frameBytes == 0 {
		return nil, ErrUnsupportedWavLayout
	}

	info.SampleCount = dec.PCMLen() / frameBytes
	info.Duration = utils.SampleDuration(info.SampleCount, info.SampleRateHz)

	return info, nil
}
