// SPDX-License-Identifier: EPL-2.0

// Package metatest builds synthetic audio stream fixtures for tests.
package metatest

import (
	"encoding/binary"
	"fmt"
)

// Raw header field codes. Values follow the MPEG header bit layout
// (without importing the probing packages, to avoid cycles through
// their internal tests).
const (
	CodeMPEG25 uint8 = 0
	CodeMPEG2  uint8 = 2
	CodeMPEG1  uint8 = 3

	CodeLayerIII uint8 = 1
	CodeLayerII  uint8 = 2
	CodeLayerI   uint8 = 3

	CodeStereo      uint8 = 0
	CodeJointStereo uint8 = 1
	CodeDualChannel uint8 = 2
	CodeMono        uint8 = 3
)

// Lookup tables copied from the published MPEG header tables, so
// fixtures are packed and sized independently of the code they test.
var (
	bitrateKbps = [4][4][16]int{
		CodeMPEG1: {
			CodeLayerI:   {0, 32, 64, 96, 128, 160, 192, 224, 256, 288, 320, 352, 384, 416, 448},
			CodeLayerII:  {0, 32, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 384},
			CodeLayerIII: {0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320},
		},
		CodeMPEG2: {
			CodeLayerI:   {0, 32, 48, 56, 64, 80, 96, 112, 128, 144, 160, 176, 192, 224, 256},
			CodeLayerII:  {0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160},
			CodeLayerIII: {0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160},
		},
		CodeMPEG25: {
			CodeLayerI:   {0, 32, 48, 56, 64, 80, 96, 112, 128, 144, 160, 176, 192, 224, 256},
			CodeLayerII:  {0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160},
			CodeLayerIII: {0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160},
		},
	}

	sampleRateHz = [4][4]int{
		CodeMPEG1:  {44100, 48000, 32000},
		CodeMPEG2:  {22050, 24000, 16000},
		CodeMPEG25: {11025, 12000, 8000},
	}

	samplesPerFrame = [4][4]int{
		CodeMPEG1:  {CodeLayerI: 384, CodeLayerII: 1152, CodeLayerIII: 1152},
		CodeMPEG2:  {CodeLayerI: 384, CodeLayerII: 1152, CodeLayerIII: 576},
		CodeMPEG25: {CodeLayerI: 384, CodeLayerII: 1152, CodeLayerIII: 576},
	}
)

// FrameSpec describes one synthetic MPEG audio frame field by field.
type FrameSpec struct {
	Version         uint8
	Layer           uint8
	CRC             bool // protection bit cleared, 16-bit CRC present
	CRCValue        uint16
	BitrateIndex    uint8
	SampleRateIndex uint8
	Padding         bool
	Private         bool
	ChannelMode     uint8
	ModeExtension   uint8
	Copyright       bool
	Original        bool
	Emphasis        uint8
}

// MP3 returns an MPEG-1 Layer III frame spec for the given bitrate in
// kbps and sample rate in Hz. Values outside the header tables panic:
// fixtures are meant to be built from valid table points.
func MP3(kbps, rateHz int, mono bool) FrameSpec {
	spec := FrameSpec{
		Version:     CodeMPEG1,
		Layer:       CodeLayerIII,
		ChannelMode: CodeStereo,
		Original:    true,
	}
	if mono {
		spec.ChannelMode = CodeMono
	}

	found := false
	for i, v := range bitrateKbps[spec.Version][spec.Layer] {
		if i > 0 && v == kbps {
			spec.BitrateIndex = uint8(i)
			found = true
			break
		}
	}
	if !found {
		panic(fmt.Sprintf("metatest: no bitrate index for %d kbps", kbps))
	}

	found = false
	for i, v := range sampleRateHz[spec.Version] {
		if v != 0 && v == rateHz {
			spec.SampleRateIndex = uint8(i)
			found = true
			break
		}
	}
	if !found {
		panic(fmt.Sprintf("metatest: no sample rate index for %d Hz", rateHz))
	}

	return spec
}

// BitrateBps resolves the configured bitrate in bits per second. Zero
// means the index has no usable table value.
func (s FrameSpec) BitrateBps() int {
	return bitrateKbps[s.Version][s.Layer][s.BitrateIndex] * 1000
}

// SampleRate resolves the sample rate in Hz, zero for reserved indexes.
func (s FrameSpec) SampleRate() int {
	return sampleRateHz[s.Version][s.SampleRateIndex]
}

// SamplesPerFrame resolves the per-channel sample count of one frame.
func (s FrameSpec) SamplesPerFrame() int {
	return samplesPerFrame[s.Version][s.Layer]
}

// Header packs the fields into a 4-byte frame header.
func (s FrameSpec) Header() [4]byte {
	var b [4]byte

	b[0] = 0xFF
	b[1] = 0xE0 | s.Version<<3 | s.Layer<<1
	if !s.CRC {
		b[1] |= 0x01
	}

	b[2] = s.BitrateIndex<<4 | s.SampleRateIndex<<2
	if s.Padding {
		b[2] |= 0x02
	}
	if s.Private {
		b[2] |= 0x01
	}

	b[3] = s.ChannelMode<<6 | (s.ModeExtension&0x03)<<4 | s.Emphasis&0x03
	if s.Copyright {
		b[3] |= 0x08
	}
	if s.Original {
		b[3] |= 0x04
	}

	return b
}

// FrameSize computes the byte length the header fields imply.
func (s FrameSpec) FrameSize() int {
	kbps := bitrateKbps[s.Version][s.Layer][s.BitrateIndex]
	rate := sampleRateHz[s.Version][s.SampleRateIndex]
	if kbps == 0 || rate == 0 {
		panic("metatest: frame spec has no computable size")
	}

	size := samplesPerFrame[s.Version][s.Layer] / 8 * kbps * 1000 / rate
	if s.Padding {
		if s.Layer == CodeLayerI {
			size += 4
		} else {
			size++
		}
	}

	return size
}

// SideInfoLen is the Layer III side information length the version and
// channel mode imply.
func (s FrameSpec) SideInfoLen() int {
	if s.Version == CodeMPEG1 {
		if s.ChannelMode == CodeMono {
			return 17
		}
		return 32
	}

	if s.ChannelMode == CodeMono {
		return 9
	}
	return 17
}

// Frame renders the whole frame: header, optional CRC, zero-filled body.
func (s FrameSpec) Frame() []byte {
	buf := make([]byte, s.FrameSize())

	h := s.Header()
	copy(buf, h[:])
	if s.CRC {
		binary.BigEndian.PutUint16(buf[4:6], s.CRCValue)
	}

	return buf
}

// Stream concatenates rendered frames.
func Stream(specs ...FrameSpec) []byte {
	var out []byte
	for _, s := range specs {
		out = append(out, s.Frame()...)
	}

	return out
}

// Repeat renders n copies of one frame back to back.
func Repeat(s FrameSpec, n int) []byte {
	frame := s.Frame()

	out := make([]byte, 0, n*len(frame))
	for range n {
		out = append(out, frame...)
	}

	return out
}

// Garbage returns n bytes of deterministic filler containing no 0xFF,
// so it can never begin a sync word.
func Garbage(n int) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = byte(i % 251)
	}

	return buf
}

// XingSpec fills the Xing or Info tag image placed inside a frame.
type XingSpec struct {
	ID          string // "Xing" or "Info"
	FramesValid bool
	FrameCount  uint32
	StreamSize  uint32
	VBRScale    uint32
	Encoder     string
	Revision    uint8
	VBRMethod   uint8
}

// XingFrame renders fs with the tag image at the body offset the
// header implies. Panics when the frame cannot hold the tag.
func XingFrame(fs FrameSpec, xs XingSpec) []byte {
	frame := fs.Frame()

	off := 4
	if fs.CRC {
		off += 2
	}
	off += fs.SideInfoLen()

	if off+4+136 > len(frame) {
		panic("metatest: frame too small for a xing tag")
	}

	copy(frame[off:], xs.ID)

	tag := frame[off+4:]
	if xs.FramesValid {
		tag[3] |= 0x01
	}
	binary.BigEndian.PutUint32(tag[4:8], xs.FrameCount)
	binary.BigEndian.PutUint32(tag[108:112], xs.StreamSize)
	binary.BigEndian.PutUint32(tag[112:116], xs.VBRScale)
	copy(tag[116:125], xs.Encoder)
	tag[125] = xs.Revision<<4 | xs.VBRMethod&0x0F

	return frame
}

// LAMEFrame renders fs with a bare LAME version tag in the body.
func LAMEFrame(fs FrameSpec, version string) []byte {
	frame := fs.Frame()

	off := 4
	if fs.CRC {
		off += 2
	}
	off += fs.SideInfoLen()

	if off+10 > len(frame) {
		panic("metatest: frame too small for a lame tag")
	}

	copy(frame[off:], "LAME")
	copy(frame[off+4:off+10], version)

	return frame
}
