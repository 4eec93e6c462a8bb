// SPDX-License-Identifier: EPL-2.0

package mpeg

import (
	"encoding/binary"
	"strings"

	"github.com/ik5/audmeta/utils"
)

// xingTagLength is the byte count of the tag image that follows the
// 4-byte "Xing" or "Info" id inside the first frame.
const xingTagLength = 136

// xingInfoTag is the decoded form of that image. Layout, relative to
// the byte after the id:
//
//	flags       [0:4]
//	frame count [4:8]     big endian
//	seek table  [8:108]   100 bytes, unused here
//	stream size [108:112] big endian
//	vbr scale   [112:116] big endian
//	encoder     [116:125] NUL or space padded
//	revision and vbr method nibbles at [125], rest reserved
type xingInfoTag struct {
	flags      [4]byte
	frameCount uint32
	streamSize uint32
	vbrScale   uint32
	encoder    string
	revision   uint8
	vbrMethod  uint8
}

// frameCountValid reports whether the frame-count field carries data.
func (t xingInfoTag) frameCountValid() bool {
	return t.flags[3]&0x01 != 0
}

func decodeXingTag(buf []byte) xingInfoTag {
	var t xingInfoTag

	copy(t.flags[:], buf[0:4])
	t.frameCount = binary.BigEndian.Uint32(buf[4:8])
	t.streamSize = binary.BigEndian.Uint32(buf[108:112])
	t.vbrScale = binary.BigEndian.Uint32(buf[112:116])
	t.encoder = normalizeEncoder(utils.TrimPadded(buf[116:125]))
	t.revision = buf[125] >> 4
	t.vbrMethod = buf[125] & 0x0F

	return t
}

// normalizeEncoder restores the space the 9-byte encoder field squeezes
// out of names like "LAME3.99r", so every source reports "LAME x.yz".
func normalizeEncoder(name string) string {
	if strings.HasPrefix(name, "LAME") && len(name) > 4 && name[4] != ' ' {
		return "LAME " + name[4:]
	}

	return name
}
