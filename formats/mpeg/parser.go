// SPDX-License-Identifier: EPL-2.0

package mpeg

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ik5/audmeta/meta"
	"github.com/ik5/audmeta/utils"
)

// classifyAfterFrames is how many accepted frame headers the parser
// collects before deciding between CBR and VBR.
const classifyAfterFrames = 3

// Prober extracts stream metadata from MPEG-1/2 Layer III elementary
// streams. The compressed audio payload is skipped, never decoded.
type Prober struct{}

// Probe scans r until the stream is classified or exhausted and returns
// the collected metadata. Running out of input is not an error; fields
// that could not be determined stay at their zero values. Each call
// runs on fresh state, so a Prober is safe for concurrent use.
func (Prober) Probe(r io.Reader, opt meta.Options) (*meta.Info, error) {
	p := &parser{
		r:     r,
		opt:   opt,
		sync:  synchronizer{r: r},
		state: stateSeeking,
		info: &meta.Info{
			Format:   "mp3",
			Lossless: false,
		},
	}

	if err := p.run(); err != nil {
		return nil, err
	}

	return p.info, nil
}

type parseState uint8

const (
	// stateSeeking scans for the next frame sync prefix.
	stateSeeking parseState = iota
	// stateHeaderPending completes and decodes the 4-byte header.
	stateHeaderPending
	// stateSideInfoSkip consumes the optional CRC and the side info.
	stateSideInfoSkip
	// stateTagDispatch reads the 4-byte tag id and decodes Xing, Info
	// or LAME payloads when present.
	stateTagDispatch
	// stateFrameSkip discards the rest of the current frame.
	stateFrameSkip
	// stateFinalizing ends the scan.
	stateFinalizing
)

// parser holds the walk state for a single Probe call.
type parser struct {
	r    io.Reader
	opt  meta.Options
	sync synchronizer
	info *meta.Info

	state parseState
	hbuf  [4]byte

	// Per accepted frame.
	hdr       FrameHeader
	frameSize int
	offset    int // bytes of the current frame consumed so far
	crc       uint16
	hasCRC    bool

	// Across frames.
	frameCount int
	bitrates   []int
	spf        int  // latched samples per frame for the end-of-stream estimate
	vbrArmed   bool // accumulate frames until EOF for the estimate
	xingDur    bool // duration already derived from a Xing frame count
}

func (p *parser) run() error {
	for p.state != stateFinalizing {
		var err error

		switch p.state {
		case stateSeeking:
			err = p.seek()
		case stateHeaderPending:
			err = p.readHeader()
		case stateSideInfoSkip:
			err = p.skipSideInfo()
		case stateTagDispatch:
			err = p.dispatchTag()
		case stateFrameSkip:
			err = p.skipFrame()
		}

		if err == io.EOF {
			break
		}

		if err != nil {
			return err
		}
	}

	p.finalize()

	return nil
}

// seek locks onto the next sync prefix. Bytes dropped on the way are
// reported once, then the count starts over.
func (p *parser) seek() error {
	b0, b1, skipped, err := p.sync.lock()
	if err != nil {
		return err
	}

	if skipped > 0 {
		p.warnf("resynchronized after skipping %d bytes", skipped)
	}

	p.hbuf[0], p.hbuf[1] = b0, b1
	p.state = stateHeaderPending

	return nil
}

// readHeader completes the header, decodes it and either accepts the
// frame or rejects it and falls back to scanning. Scanning resumes at
// the next unread byte; the bytes of a rejected header are not
// revisited.
func (p *parser) readHeader() error {
	if err := p.readExact(p.hbuf[2:4]); err != nil {
		return err
	}

	hdr, err := DecodeHeader(p.hbuf)
	if err != nil {
		p.warnf("dropping sync candidate: %v", err)
		p.state = stateSeeking

		return nil
	}

	if (hdr.Version != MPEG1 && hdr.Version != MPEG2) || hdr.Layer != LayerIII {
		p.warnf("skipping non-mp3 frame (mpeg %s layer %s)", hdr.Version, hdr.Layer)
		p.state = stateSeeking

		return nil
	}

	p.hdr = hdr
	p.frameSize = hdr.FrameSize()
	p.offset = 4
	p.hasCRC = false
	p.frameCount++

	p.info.BitrateBps = hdr.BitrateBps
	p.info.SampleRateHz = hdr.SampleRateHz
	p.info.Channels = hdr.Channels()

	if len(p.bitrates) < classifyAfterFrames {
		p.bitrates = append(p.bitrates, hdr.BitrateBps)
	}

	if p.frameCount == classifyAfterFrames {
		p.classify()

		return nil
	}

	if p.frameCount == classifyAfterFrames+1 && !p.xingDur {
		p.spf = hdr.SamplesPerFrame()
		p.vbrArmed = true
	}

	p.state = stateSideInfoSkip

	return nil
}

// classify runs once, on the third accepted frame. Three equal bitrates
// mean CBR and the scan stops. Unequal bitrates mean VBR: the scan
// stops too unless a duration was asked for, in which case frames keep
// being counted until the stream ends.
func (p *parser) classify() {
	if p.bitrates[0] == p.bitrates[1] && p.bitrates[1] == p.bitrates[2] {
		p.info.CodecProfile = "CBR"

		if p.opt.TotalBytes > 0 && !p.xingDur {
			audioBytes := p.opt.TotalBytes - p.opt.LeadingBytes
			p.info.Duration = float64(audioBytes*8) / float64(p.info.BitrateBps)
		}

		p.state = stateFinalizing

		return
	}

	if !p.opt.Duration {
		p.state = stateFinalizing

		return
	}

	p.state = stateSideInfoSkip
}

// skipSideInfo consumes the CRC, when the header announced one, and the
// side information block.
func (p *parser) skipSideInfo() error {
	if p.hdr.Protection {
		var buf [2]byte

		if err := p.readExact(buf[:]); err != nil {
			return err
		}

		p.crc = binary.BigEndian.Uint16(buf[:])
		p.hasCRC = true
		p.offset += 2
	}

	n := p.hdr.SideInfoLength()
	if err := p.skip(n); err != nil {
		return err
	}

	p.offset += n
	p.state = stateTagDispatch

	return nil
}

// dispatchTag reads the 4-byte id that follows the side info and
// decodes the tag kinds it knows. Unknown ids are left to the frame
// skip.
func (p *parser) dispatchTag() error {
	var id [4]byte

	if err := p.readExact(id[:]); err != nil {
		return err
	}
	p.offset += 4

	switch string(id[:]) {
	case "Xing", "Info":
		if err := p.readXingTag(string(id[:])); err != nil {
			return err
		}
	case "LAME":
		var version [6]byte

		if err := p.readExact(version[:]); err != nil {
			return err
		}
		p.offset += 6

		p.info.Encoder = "LAME " + utils.TrimPadded(version[:])
	}

	p.state = stateFrameSkip

	return nil
}

// readXingTag decodes the 136-byte Xing/Info image. The frame count,
// when flagged valid, is authoritative for duration: an "Info" id pins
// the profile to CBR, a "Xing" id derives it from the VBR scale.
func (p *parser) readXingTag(id string) error {
	buf := make([]byte, xingTagLength)

	if err := p.readExact(buf); err != nil {
		return err
	}
	p.offset += xingTagLength

	tag := decodeXingTag(buf)

	if tag.encoder != "" {
		p.info.Encoder = tag.encoder
	}

	if !tag.frameCountValid() || tag.frameCount == 0 {
		return nil
	}

	p.info.SampleCount = int64(tag.frameCount) * int64(p.hdr.SamplesPerFrame())
	p.info.Duration = utils.SampleDuration(p.info.SampleCount, p.hdr.SampleRateHz)
	p.xingDur = true

	if id == "Info" {
		p.info.CodecProfile = "CBR"
	} else {
		p.info.CodecProfile = fmt.Sprintf("V%d", (100-int(tag.vbrScale))/10)
	}

	return nil
}

// skipFrame discards whatever the current frame still holds and goes
// back to scanning.
func (p *parser) skipFrame() error {
	left := p.frameSize - p.offset
	if left < 0 {
		return fmt.Errorf("%w: read %d bytes of a %d byte frame",
			ErrFrameOverrun, p.offset, p.frameSize)
	}

	if err := p.skip(left); err != nil {
		return err
	}

	p.state = stateSeeking

	return nil
}

// finalize fills in the end-of-stream VBR estimate when it was armed
// and nothing better came along.
func (p *parser) finalize() {
	if !p.vbrArmed || p.xingDur {
		return
	}

	p.info.SampleCount = int64(p.frameCount) * int64(p.spf)
	p.info.Duration = utils.SampleDuration(p.info.SampleCount, p.info.SampleRateHz)
}

// readExact fills buf completely. A short read means the stream is
// done and surfaces as io.EOF; any other failure is fatal.
func (p *parser) readExact(buf []byte) error {
	if _, err := io.ReadFull(p.r, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return io.EOF
		}

		return fmt.Errorf("reading frame data: %w", err)
	}

	return nil
}

// skip discards n bytes.
func (p *parser) skip(n int) error {
	if n == 0 {
		return nil
	}

	if _, err := io.CopyN(io.Discard, p.r, int64(n)); err != nil {
		if err == io.EOF {
			return io.EOF
		}

		return fmt.Errorf("skipping frame data: %w", err)
	}

	return nil
}

func (p *parser) warnf(format string, args ...any) {
	p.info.Warnings = append(p.info.Warnings, fmt.Sprintf(format, args...))
}
