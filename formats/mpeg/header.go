// SPDX-License-Identifier: EPL-2.0

package mpeg

import (
	"bytes"
	"fmt"

	"github.com/eaburns/bit"
)

// Version is the MPEG audio standard a frame belongs to. The value is
// the raw 2-bit code taken from the header.
type Version uint8

const (
	MPEG25 Version = iota
	MPEGReserved
	MPEG2
	MPEG1
)

func (v Version) String() string {
	switch v {
	case MPEG1:
		return "1"
	case MPEG2:
		return "2"
	case MPEG25:
		return "2.5"
	}

	return "reserved"
}

// Layer is the MPEG audio layer, again as the raw 2-bit header code.
type Layer uint8

const (
	LayerReserved Layer = iota
	LayerIII
	LayerII
	LayerI
)

func (l Layer) String() string {
	switch l {
	case LayerI:
		return "I"
	case LayerII:
		return "II"
	case LayerIII:
		return "III"
	}

	return "reserved"
}

// ChannelMode is the 2-bit channel mode code.
type ChannelMode uint8

const (
	Stereo ChannelMode = iota
	JointStereo
	DualChannel
	Mono
)

func (m ChannelMode) String() string {
	switch m {
	case Stereo:
		return "stereo"
	case JointStereo:
		return "joint stereo"
	case DualChannel:
		return "dual channel"
	}

	return "mono"
}

// Channels returns the channel count the mode implies.
func (m ChannelMode) Channels() int {
	if m == Mono {
		return 1
	}

	return 2
}

// bitrateKbps maps [version][layer][bitrate index] to kbps. Rows for
// reserved codes stay zero, as do index 0 (free format) and index 15
// (reserved). MPEG-2.5 shares the MPEG-2 rows.
var bitrateKbps = [4][4][16]int{
	MPEG1: {
		LayerI:   {0, 32, 64, 96, 128, 160, 192, 224, 256, 288, 320, 352, 384, 416, 448},
		LayerII:  {0, 32, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 384},
		LayerIII: {0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320},
	},
	MPEG2: {
		LayerI:   {0, 32, 48, 56, 64, 80, 96, 112, 128, 144, 160, 176, 192, 224, 256},
		LayerII:  {0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160},
		LayerIII: {0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160},
	},
	MPEG25: {
		LayerI:   {0, 32, 48, 56, 64, 80, 96, 112, 128, 144, 160, 176, 192, 224, 256},
		LayerII:  {0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160},
		LayerIII: {0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160},
	},
}

// sampleRateHz maps [version][sample rate index] to Hz. Index 3 is
// reserved and stays zero.
var sampleRateHz = [4][4]int{
	MPEG1:  {44100, 48000, 32000},
	MPEG2:  {22050, 24000, 16000},
	MPEG25: {11025, 12000, 8000},
}

// samplesPerFrame maps [version][layer] to the PCM samples one frame
// carries per channel.
var samplesPerFrame = [4][4]int{
	MPEG1:  {LayerI: 384, LayerII: 1152, LayerIII: 1152},
	MPEG2:  {LayerI: 384, LayerII: 1152, LayerIII: 576},
	MPEG25: {LayerI: 384, LayerII: 1152, LayerIII: 576},
}

// FrameHeader holds the fields of one decoded MPEG audio frame header.
// A value is only produced when version, layer, bitrate and sample rate
// all resolved to usable values.
type FrameHeader struct {
	Version         Version
	Layer           Layer
	Protection      bool // a 16-bit CRC follows the header
	BitrateIndex    uint8
	SampleRateIndex uint8
	Padding         bool
	Private         bool
	ChannelMode     ChannelMode
	ModeExtension   uint8
	Copyrighted     bool
	Original        bool
	Emphasis        uint8

	// Resolved from the lookup tables at decode time.
	BitrateBps   int
	SampleRateHz int
}

// DecodeHeader extracts the fields of a 4-byte frame header. The caller
// locates the 11-bit sync prefix; the sync bits are consumed here but
// not re-validated. Field widths, most significant bit first:
//
//	sync 11, version 2, layer 2, protection 1, bitrate index 4,
//	sample rate index 2, padding 1, private 1, channel mode 2,
//	mode extension 2, copyright 1, original 1, emphasis 2
func DecodeHeader(buf [4]byte) (FrameHeader, error) {
	br := bit.NewReader(bytes.NewReader(buf[:]))

	fields, err := br.ReadFields(11, 2, 2, 1, 4, 2, 1, 1, 2, 2, 1, 1, 2)
	if err != nil {
		return FrameHeader{}, fmt.Errorf("reading header fields: %w", err)
	}

	h := FrameHeader{
		Version:         Version(fields[1]),
		Layer:           Layer(fields[2]),
		Protection:      fields[3] == 0,
		BitrateIndex:    uint8(fields[4]),
		SampleRateIndex: uint8(fields[5]),
		Padding:         fields[6] == 1,
		Private:         fields[7] == 1,
		ChannelMode:     ChannelMode(fields[8]),
		ModeExtension:   uint8(fields[9]),
		Copyrighted:     fields[10] == 1,
		Original:        fields[11] == 1,
		Emphasis:        uint8(fields[12]),
	}

	if h.Layer == LayerReserved {
		return FrameHeader{}, ErrInvalidLayer
	}

	if h.Version == MPEGReserved {
		return FrameHeader{}, ErrInvalidVersion
	}

	kbps := bitrateKbps[h.Version][h.Layer][h.BitrateIndex]
	if kbps == 0 {
		return FrameHeader{}, ErrUndeterminedBitrate
	}
	h.BitrateBps = kbps * 1000

	rate := sampleRateHz[h.Version][h.SampleRateIndex]
	if rate == 0 {
		return FrameHeader{}, ErrUndeterminedSampleRate
	}
	h.SampleRateHz = rate

	return h, nil
}

// SamplesPerFrame returns the per-channel sample count of one frame.
func (h FrameHeader) SamplesPerFrame() int {
	return samplesPerFrame[h.Version][h.Layer]
}

// SlotSize is the padding unit: 4 bytes for Layer I, 1 byte otherwise.
func (h FrameHeader) SlotSize() int {
	if h.Layer == LayerI {
		return 4
	}

	return 1
}

// SideInfoLength returns the byte length of the Layer III side
// information block that sits between the header (or CRC) and the
// main data.
func (h FrameHeader) SideInfoLength() int {
	if h.Version == MPEG1 {
		if h.ChannelMode == Mono {
			return 17
		}

		return 32
	}

	if h.ChannelMode == Mono {
		return 9
	}

	return 17
}

// Channels returns the channel count of the frame.
func (h FrameHeader) Channels() int {
	return h.ChannelMode.Channels()
}

// FrameSize returns the whole frame length in bytes, header and padding
// included. The division truncates; samples per frame divides by 8
// exactly for every version and layer.
func (h FrameHeader) FrameSize() int {
	size := h.SamplesPerFrame() / 8 * h.BitrateBps / h.SampleRateHz
	if h.Padding {
		size += h.SlotSize()
	}

	return size
}
