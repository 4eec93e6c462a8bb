// SPDX-License-Identifier: EPL-2.0

package metatest

import (
	"encoding/binary"
	"math/bits"
)

// AIFF16 renders a minimal FORM/AIFF image with a COMM chunk and a
// zero-filled 16-bit SSND chunk of the given frame count.
func AIFF16(sampleRate, channels, frames int) []byte {
	dataSize := frames * channels * 2
	ssndSize := 8 + dataSize // offset and block size fields, then data

	buf := make([]byte, 0, 12+26+8+ssndSize)
	buf = append(buf, "FORM"...)
	buf = binary.BigEndian.AppendUint32(buf, uint32(4+8+18+8+ssndSize))
	buf = append(buf, "AIFF"...)

	buf = append(buf, "COMM"...)
	buf = binary.BigEndian.AppendUint32(buf, 18)
	buf = binary.BigEndian.AppendUint16(buf, uint16(channels))
	buf = binary.BigEndian.AppendUint32(buf, uint32(frames))
	buf = binary.BigEndian.AppendUint16(buf, 16) // bit depth
	buf = append(buf, extended80(uint32(sampleRate))...)

	buf = append(buf, "SSND"...)
	buf = binary.BigEndian.AppendUint32(buf, uint32(ssndSize))
	buf = append(buf, make([]byte, ssndSize)...)

	return buf
}

// extended80 encodes a sample rate as the 80-bit extended float the
// COMM chunk carries.
func extended80(rate uint32) []byte {
	out := make([]byte, 10)
	if rate == 0 {
		return out
	}

	p := bits.Len32(rate) - 1
	binary.BigEndian.PutUint16(out[0:2], uint16(16383+p))
	binary.BigEndian.PutUint64(out[2:10], uint64(rate)<<(63-p))

	return out
}
