// SPDX-License-Identifier: EPL-2.0

package mpeg

import (
	"bytes"
	"errors"
	"io"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/ik5/audmeta/internal/metatest"
	"github.com/ik5/audmeta/meta"
)

var _ meta.Prober = Prober{}

func probe(t *testing.T, data []byte, opt meta.Options) *meta.Info {
	t.Helper()

	info, err := Prober{}.Probe(bytes.NewReader(data), opt)
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}

	return info
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// countingReader tracks how many bytes the parser actually consumed.
type countingReader struct {
	r io.Reader
	n int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += n

	return n, err
}

func TestProbe_CBRStream(t *testing.T) {
	t.Parallel()

	data := metatest.Repeat(metatest.MP3(128, 44100, false), 3)

	info := probe(t, data, meta.Options{})

	if info.Format != "mp3" {
		t.Errorf("Format = %q, want %q", info.Format, "mp3")
	}

	if info.Lossless {
		t.Error("Lossless = true, want false")
	}

	if info.BitrateBps != 128000 {
		t.Errorf("BitrateBps = %d, want 128000", info.BitrateBps)
	}

	if info.SampleRateHz != 44100 {
		t.Errorf("SampleRateHz = %d, want 44100", info.SampleRateHz)
	}

	if info.Channels != 2 {
		t.Errorf("Channels = %d, want 2", info.Channels)
	}

	if info.CodecProfile != "CBR" {
		t.Errorf("CodecProfile = %q, want %q", info.CodecProfile, "CBR")
	}

	if len(info.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", info.Warnings)
	}
}

func TestProbe_CBRMono(t *testing.T) {
	t.Parallel()

	data := metatest.Repeat(metatest.MP3(128, 44100, true), 3)

	info := probe(t, data, meta.Options{})

	if info.Channels != 1 {
		t.Errorf("Channels = %d, want 1", info.Channels)
	}
}

func TestProbe_EndToEndMonoStream(t *testing.T) {
	t.Parallel()

	frame := metatest.MP3(128, 44100, true)
	data := metatest.Repeat(frame, 10)

	info := probe(t, data, meta.Options{TotalBytes: int64(len(data))})

	if info.Format != "mp3" {
		t.Errorf("Format = %q, want %q", info.Format, "mp3")
	}

	if info.BitrateBps != 128000 {
		t.Errorf("BitrateBps = %d, want 128000", info.BitrateBps)
	}

	if info.SampleRateHz != 44100 {
		t.Errorf("SampleRateHz = %d, want 44100", info.SampleRateHz)
	}

	if info.Channels != 1 {
		t.Errorf("Channels = %d, want 1", info.Channels)
	}

	if info.CodecProfile != "CBR" {
		t.Errorf("CodecProfile = %q, want %q", info.CodecProfile, "CBR")
	}

	wantBytes := float64(len(data)*8) / 128000.0
	if !almostEqual(info.Duration, wantBytes) {
		t.Errorf("Duration = %v, want %v from the stream size", info.Duration, wantBytes)
	}

	wantFrames := float64(10*1152) / 44100.0
	if math.Abs(info.Duration-wantFrames) > 0.01 {
		t.Errorf("Duration = %v, inconsistent with %v from 10 frames", info.Duration, wantFrames)
	}
}

// TestProbe_CBRStopsAtThirdHeader feeds ten frames and checks the scan
// ends right after the third header: two whole frames plus four bytes.
func TestProbe_CBRStopsAtThirdHeader(t *testing.T) {
	t.Parallel()

	data := metatest.Repeat(metatest.MP3(128, 44100, false), 10)
	counter := &countingReader{r: bytes.NewReader(data)}

	info, err := Prober{}.Probe(counter, meta.Options{Duration: true})
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}

	if info.CodecProfile != "CBR" {
		t.Errorf("CodecProfile = %q, want %q", info.CodecProfile, "CBR")
	}

	want := 2*417 + 4
	if counter.n != want {
		t.Errorf("consumed %d bytes, want %d", counter.n, want)
	}
}

func TestProbe_CBRDurationFromStreamSize(t *testing.T) {
	t.Parallel()

	data := metatest.Repeat(metatest.MP3(128, 44100, false), 10)

	info := probe(t, data, meta.Options{TotalBytes: int64(len(data))})

	want := float64(len(data)*8) / 128000.0
	if !almostEqual(info.Duration, want) {
		t.Errorf("Duration = %v, want %v", info.Duration, want)
	}
}

func TestProbe_CBRDurationExcludesLeadingBytes(t *testing.T) {
	t.Parallel()

	data := metatest.Repeat(metatest.MP3(128, 44100, false), 10)

	info := probe(t, data, meta.Options{
		TotalBytes:   int64(len(data)) + 100,
		LeadingBytes: 100,
	})

	want := float64(len(data)*8) / 128000.0
	if !almostEqual(info.Duration, want) {
		t.Errorf("Duration = %v, want %v", info.Duration, want)
	}
}

func TestProbe_CBRUnknownSizeHasNoDuration(t *testing.T) {
	t.Parallel()

	data := metatest.Repeat(metatest.MP3(128, 44100, false), 3)

	info := probe(t, data, meta.Options{})

	if info.Duration != 0 {
		t.Errorf("Duration = %v, want 0 without a stream size", info.Duration)
	}
}

func TestProbe_LeadingGarbageIsReported(t *testing.T) {
	t.Parallel()

	garbage := 37
	data := append(metatest.Garbage(garbage), metatest.Repeat(metatest.MP3(128, 44100, false), 3)...)

	info := probe(t, data, meta.Options{})

	if info.BitrateBps != 128000 {
		t.Errorf("BitrateBps = %d, want 128000", info.BitrateBps)
	}

	if len(info.Warnings) != 1 {
		t.Fatalf("Warnings = %v, want exactly one", info.Warnings)
	}

	want := "resynchronized after skipping 37 bytes"
	if info.Warnings[0] != want {
		t.Errorf("Warnings[0] = %q, want %q", info.Warnings[0], want)
	}
}

// TestProbe_VBRStopsWithoutDurationRequest checks that three differing
// bitrates end the scan when no duration was asked for.
func TestProbe_VBRStopsWithoutDurationRequest(t *testing.T) {
	t.Parallel()

	data := metatest.Stream(
		metatest.MP3(128, 44100, false),
		metatest.MP3(160, 44100, false),
		metatest.MP3(192, 44100, false),
		metatest.MP3(128, 44100, false),
		metatest.MP3(160, 44100, false),
		metatest.MP3(192, 44100, false),
	)
	counter := &countingReader{r: bytes.NewReader(data)}

	info, err := Prober{}.Probe(counter, meta.Options{})
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}

	if info.CodecProfile != "" {
		t.Errorf("CodecProfile = %q, want empty for unclassified VBR", info.CodecProfile)
	}

	if info.Duration != 0 {
		t.Errorf("Duration = %v, want 0", info.Duration)
	}

	// Two whole frames (417 and 522 bytes) plus the third header.
	want := 417 + 522 + 4
	if counter.n != want {
		t.Errorf("consumed %d bytes, want %d", counter.n, want)
	}
}

func TestProbe_VBRWalksToEndForDuration(t *testing.T) {
	t.Parallel()

	specs := make([]metatest.FrameSpec, 0, 8)
	for i := range 8 {
		if i%2 == 0 {
			specs = append(specs, metatest.MP3(128, 44100, false))
		} else {
			specs = append(specs, metatest.MP3(160, 44100, false))
		}
	}

	info := probe(t, metatest.Stream(specs...), meta.Options{Duration: true})

	wantSamples := int64(8 * 1152)
	if info.SampleCount != wantSamples {
		t.Errorf("SampleCount = %d, want %d", info.SampleCount, wantSamples)
	}

	wantDuration := float64(wantSamples) / 44100.0
	if !almostEqual(info.Duration, wantDuration) {
		t.Errorf("Duration = %v, want %v", info.Duration, wantDuration)
	}

	if info.CodecProfile != "" {
		t.Errorf("CodecProfile = %q, want empty without a Xing tag", info.CodecProfile)
	}
}

func TestProbe_XingFrameCountSetsDuration(t *testing.T) {
	t.Parallel()

	first := metatest.XingFrame(metatest.MP3(128, 44100, false), metatest.XingSpec{
		ID:          "Xing",
		FramesValid: true,
		FrameCount:  1000,
		VBRScale:    78,
		Encoder:     "LAME3.99r",
	})

	data := append(first, metatest.Stream(
		metatest.MP3(160, 44100, false),
		metatest.MP3(192, 44100, false),
	)...)

	info := probe(t, data, meta.Options{Duration: true})

	wantSamples := int64(1000 * 1152)
	if info.SampleCount != wantSamples {
		t.Errorf("SampleCount = %d, want %d", info.SampleCount, wantSamples)
	}

	wantDuration := float64(wantSamples) / 44100.0
	if !almostEqual(info.Duration, wantDuration) {
		t.Errorf("Duration = %v, want %v", info.Duration, wantDuration)
	}

	if info.CodecProfile != "V2" {
		t.Errorf("CodecProfile = %q, want %q", info.CodecProfile, "V2")
	}

	if info.Encoder != "LAME 3.99r" {
		t.Errorf("Encoder = %q, want %q", info.Encoder, "LAME 3.99r")
	}
}

// TestProbe_XingBeatsEndOfStreamEstimate checks that the walked frame
// count never replaces a duration the Xing tag already supplied.
func TestProbe_XingBeatsEndOfStreamEstimate(t *testing.T) {
	t.Parallel()

	first := metatest.XingFrame(metatest.MP3(128, 44100, false), metatest.XingSpec{
		ID:          "Xing",
		FramesValid: true,
		FrameCount:  1000,
		VBRScale:    50,
	})

	rest := metatest.Stream(
		metatest.MP3(160, 44100, false),
		metatest.MP3(192, 44100, false),
		metatest.MP3(160, 44100, false),
		metatest.MP3(192, 44100, false),
		metatest.MP3(160, 44100, false),
	)

	info := probe(t, append(first, rest...), meta.Options{Duration: true})

	wantSamples := int64(1000 * 1152)
	if info.SampleCount != wantSamples {
		t.Errorf("SampleCount = %d, want %d from the tag, not the walk", info.SampleCount, wantSamples)
	}

	wantDuration := float64(wantSamples) / 44100.0
	if !almostEqual(info.Duration, wantDuration) {
		t.Errorf("Duration = %v, want %v", info.Duration, wantDuration)
	}
}

// TestProbe_InfoTagPinsCBR checks the Info id forces the CBR profile
// and its frame count beats the stream-size arithmetic.
func TestProbe_InfoTagPinsCBR(t *testing.T) {
	t.Parallel()

	first := metatest.XingFrame(metatest.MP3(128, 44100, false), metatest.XingSpec{
		ID:          "Info",
		FramesValid: true,
		FrameCount:  500,
		Encoder:     "LAME3.99r",
	})

	data := append(first, metatest.Repeat(metatest.MP3(128, 44100, false), 2)...)

	info := probe(t, data, meta.Options{TotalBytes: 100000})

	if info.CodecProfile != "CBR" {
		t.Errorf("CodecProfile = %q, want %q", info.CodecProfile, "CBR")
	}

	wantDuration := float64(500*1152) / 44100.0
	if !almostEqual(info.Duration, wantDuration) {
		t.Errorf("Duration = %v, want %v from the tag", info.Duration, wantDuration)
	}

	if info.Encoder != "LAME 3.99r" {
		t.Errorf("Encoder = %q, want %q", info.Encoder, "LAME 3.99r")
	}
}

func TestProbe_XingInvalidFrameCountStillYieldsEncoder(t *testing.T) {
	t.Parallel()

	first := metatest.XingFrame(metatest.MP3(128, 44100, false), metatest.XingSpec{
		ID:          "Xing",
		FramesValid: false,
		FrameCount:  1000,
		Encoder:     "LAME3.99r",
	})

	data := append(first, metatest.Repeat(metatest.MP3(128, 44100, false), 2)...)

	info := probe(t, data, meta.Options{})

	if info.Encoder != "LAME 3.99r" {
		t.Errorf("Encoder = %q, want %q", info.Encoder, "LAME 3.99r")
	}

	if info.Duration != 0 {
		t.Errorf("Duration = %v, want 0 with the frames flag unset", info.Duration)
	}

	if info.SampleCount != 0 {
		t.Errorf("SampleCount = %d, want 0", info.SampleCount)
	}

	// Classification still runs on the frame headers themselves.
	if info.CodecProfile != "CBR" {
		t.Errorf("CodecProfile = %q, want %q", info.CodecProfile, "CBR")
	}
}

func TestProbe_LAMETag(t *testing.T) {
	t.Parallel()

	first := metatest.LAMEFrame(metatest.MP3(128, 44100, false), "3.99r")
	data := append(first, metatest.Repeat(metatest.MP3(128, 44100, false), 2)...)

	info := probe(t, data, meta.Options{})

	if info.Encoder != "LAME 3.99r" {
		t.Errorf("Encoder = %q, want %q", info.Encoder, "LAME 3.99r")
	}
}

// TestProbe_LAMETagBehindCRC checks the tag offset accounts for the
// 16-bit CRC that protected frames carry.
func TestProbe_LAMETagBehindCRC(t *testing.T) {
	t.Parallel()

	spec := metatest.MP3(128, 44100, false)
	spec.CRC = true
	spec.CRCValue = 0xBEEF

	data := append(metatest.LAMEFrame(spec, "3.100"), metatest.Repeat(spec, 2)...)

	info := probe(t, data, meta.Options{})

	if info.Encoder != "LAME 3.100" {
		t.Errorf("Encoder = %q, want %q", info.Encoder, "LAME 3.100")
	}
}

func TestProbe_EmptyInput(t *testing.T) {
	t.Parallel()

	info := probe(t, nil, meta.Options{})

	if info.Format != "mp3" {
		t.Errorf("Format = %q, want %q", info.Format, "mp3")
	}

	if info.BitrateBps != 0 || info.Duration != 0 || info.CodecProfile != "" {
		t.Errorf("fields = (%d, %v, %q), want zero values",
			info.BitrateBps, info.Duration, info.CodecProfile)
	}

	if len(info.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", info.Warnings)
	}
}

func TestProbe_GarbageOnly(t *testing.T) {
	t.Parallel()

	info := probe(t, metatest.Garbage(500), meta.Options{})

	if info.BitrateBps != 0 {
		t.Errorf("BitrateBps = %d, want 0", info.BitrateBps)
	}

	if len(info.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none when sync never locked", info.Warnings)
	}
}

func TestProbe_TruncatedHeader(t *testing.T) {
	t.Parallel()

	info := probe(t, []byte{0xFF, 0xFB}, meta.Options{})

	if info.BitrateBps != 0 {
		t.Errorf("BitrateBps = %d, want 0", info.BitrateBps)
	}
}

func TestProbe_SingleFrame(t *testing.T) {
	t.Parallel()

	info := probe(t, metatest.MP3(128, 44100, false).Frame(), meta.Options{})

	if info.BitrateBps != 128000 {
		t.Errorf("BitrateBps = %d, want 128000", info.BitrateBps)
	}

	// One frame is not enough to classify.
	if info.CodecProfile != "" {
		t.Errorf("CodecProfile = %q, want empty", info.CodecProfile)
	}
}

func TestProbe_TruncatedInsideTag(t *testing.T) {
	t.Parallel()

	frame := metatest.XingFrame(metatest.MP3(128, 44100, false), metatest.XingSpec{
		ID:          "Xing",
		FramesValid: true,
		FrameCount:  1000,
	})

	// Cut in the middle of the 136-byte tag image.
	info := probe(t, frame[:4+32+4+50], meta.Options{})

	if info.Duration != 0 {
		t.Errorf("Duration = %v, want 0 for a truncated tag", info.Duration)
	}

	if info.BitrateBps != 128000 {
		t.Errorf("BitrateBps = %d, want 128000 from the accepted header", info.BitrateBps)
	}
}

func TestProbe_FreeBitrateRejected(t *testing.T) {
	t.Parallel()

	bad := metatest.MP3(128, 44100, false)
	bad.BitrateIndex = 0
	badHeader := bad.Header()

	data := append(badHeader[:], metatest.Repeat(metatest.MP3(128, 44100, false), 3)...)

	info := probe(t, data, meta.Options{})

	if info.CodecProfile != "CBR" {
		t.Errorf("CodecProfile = %q, want %q after recovering", info.CodecProfile, "CBR")
	}

	if len(info.Warnings) == 0 || !strings.Contains(info.Warnings[0], "cannot determine bitrate") {
		t.Errorf("Warnings = %v, want a bitrate rejection first", info.Warnings)
	}
}

func TestProbe_LayerIISkipped(t *testing.T) {
	t.Parallel()

	layer2 := metatest.FrameSpec{
		Version:      metatest.CodeMPEG1,
		Layer:        metatest.CodeLayerII,
		BitrateIndex: 8, // 128 kbps
	}
	l2Header := layer2.Header()

	data := append(l2Header[:], metatest.Repeat(metatest.MP3(128, 44100, false), 3)...)

	info := probe(t, data, meta.Options{})

	if info.CodecProfile != "CBR" {
		t.Errorf("CodecProfile = %q, want %q", info.CodecProfile, "CBR")
	}

	if len(info.Warnings) == 0 || !strings.Contains(info.Warnings[0], "layer II") {
		t.Errorf("Warnings = %v, want a layer II skip first", info.Warnings)
	}
}

func TestProbe_MPEG25Skipped(t *testing.T) {
	t.Parallel()

	v25 := metatest.FrameSpec{
		Version:      metatest.CodeMPEG25,
		Layer:        metatest.CodeLayerIII,
		BitrateIndex: 1,
	}
	v25Header := v25.Header()

	data := append(v25Header[:], metatest.Repeat(metatest.MP3(128, 44100, false), 3)...)

	info := probe(t, data, meta.Options{})

	if len(info.Warnings) == 0 || !strings.Contains(info.Warnings[0], "mpeg 2.5") {
		t.Errorf("Warnings = %v, want an mpeg 2.5 skip first", info.Warnings)
	}
}

func TestProbe_MPEG2Stream(t *testing.T) {
	t.Parallel()

	spec := metatest.FrameSpec{
		Version:         metatest.CodeMPEG2,
		Layer:           metatest.CodeLayerIII,
		BitrateIndex:    8, // 64 kbps
		SampleRateIndex: 0, // 22050 Hz
		ChannelMode:     metatest.CodeMono,
	}

	info := probe(t, metatest.Repeat(spec, 3), meta.Options{})

	if info.BitrateBps != 64000 {
		t.Errorf("BitrateBps = %d, want 64000", info.BitrateBps)
	}

	if info.SampleRateHz != 22050 {
		t.Errorf("SampleRateHz = %d, want 22050", info.SampleRateHz)
	}

	if info.Channels != 1 {
		t.Errorf("Channels = %d, want 1", info.Channels)
	}

	if info.CodecProfile != "CBR" {
		t.Errorf("CodecProfile = %q, want %q", info.CodecProfile, "CBR")
	}
}

// TestProbe_FrameOverrun uses the smallest MPEG-2 stereo frame, whose
// side info and tag id overrun the 24 computed bytes.
func TestProbe_FrameOverrun(t *testing.T) {
	t.Parallel()

	spec := metatest.FrameSpec{
		Version:         metatest.CodeMPEG2,
		Layer:           metatest.CodeLayerIII,
		BitrateIndex:    1, // 8 kbps
		SampleRateIndex: 1, // 24000 Hz
		ChannelMode:     metatest.CodeStereo,
	}

	_, err := Prober{}.Probe(bytes.NewReader(metatest.Repeat(spec, 2)), meta.Options{})
	if !errors.Is(err, ErrFrameOverrun) {
		t.Errorf("Probe() error = %v, want ErrFrameOverrun", err)
	}
}

func TestProbe_ReaderFailureIsFatal(t *testing.T) {
	t.Parallel()

	broken := errors.New("disk detached")
	frame := metatest.MP3(128, 44100, false).Frame()

	_, err := Prober{}.Probe(&failingReader{data: frame[:100], err: broken}, meta.Options{})
	if !errors.Is(err, broken) {
		t.Errorf("Probe() error = %v, want wrapped %v", err, broken)
	}
}

// TestProbe_Idempotent runs the same bytes twice and expects identical
// records, warnings included.
func TestProbe_Idempotent(t *testing.T) {
	t.Parallel()

	first := metatest.XingFrame(metatest.MP3(128, 44100, false), metatest.XingSpec{
		ID:          "Xing",
		FramesValid: true,
		FrameCount:  250,
		VBRScale:    60,
		Encoder:     "LAME3.100",
	})

	data := append(metatest.Garbage(11), first...)
	data = append(data, metatest.Stream(
		metatest.MP3(160, 44100, false),
		metatest.MP3(192, 44100, false),
	)...)

	opt := meta.Options{TotalBytes: int64(len(data)), Duration: true}

	a := probe(t, data, opt)
	b := probe(t, data, opt)

	if !reflect.DeepEqual(a, b) {
		t.Errorf("repeated Probe() = %+v, want %+v", b, a)
	}
}

// TestParser_StateWalk steps the machine through one protected frame
// and checks every transition.
func TestParser_StateWalk(t *testing.T) {
	t.Parallel()

	spec := metatest.MP3(128, 44100, false)
	spec.CRC = true
	spec.CRCValue = 0xBEEF

	r := bytes.NewReader(metatest.LAMEFrame(spec, "3.99r"))
	p := &parser{
		r:     r,
		sync:  synchronizer{r: r},
		info:  &meta.Info{},
		state: stateSeeking,
	}

	if err := p.seek(); err != nil {
		t.Fatalf("seek() error = %v", err)
	}
	if p.state != stateHeaderPending {
		t.Fatalf("state after seek = %d, want stateHeaderPending", p.state)
	}

	if err := p.readHeader(); err != nil {
		t.Fatalf("readHeader() error = %v", err)
	}
	if p.state != stateSideInfoSkip {
		t.Fatalf("state after readHeader = %d, want stateSideInfoSkip", p.state)
	}

	if err := p.skipSideInfo(); err != nil {
		t.Fatalf("skipSideInfo() error = %v", err)
	}
	if p.state != stateTagDispatch {
		t.Fatalf("state after skipSideInfo = %d, want stateTagDispatch", p.state)
	}
	if !p.hasCRC || p.crc != 0xBEEF {
		t.Errorf("crc = (%t, %#x), want (true, 0xbeef)", p.hasCRC, p.crc)
	}

	if err := p.dispatchTag(); err != nil {
		t.Fatalf("dispatchTag() error = %v", err)
	}
	if p.state != stateFrameSkip {
		t.Fatalf("state after dispatchTag = %d, want stateFrameSkip", p.state)
	}
	if p.info.Encoder != "LAME 3.99r" {
		t.Errorf("Encoder = %q, want %q", p.info.Encoder, "LAME 3.99r")
	}

	if err := p.skipFrame(); err != nil {
		t.Fatalf("skipFrame() error = %v", err)
	}
	if p.state != stateSeeking {
		t.Fatalf("state after skipFrame = %d, want stateSeeking", p.state)
	}
}

// BenchmarkProbe_CBR measures the three-frame fast path.
func BenchmarkProbe_CBR(b *testing.B) {
	data := metatest.Repeat(metatest.MP3(128, 44100, false), 4)
	opt := meta.Options{TotalBytes: int64(len(data))}

	b.ResetTimer()
	b.ReportAllocs()

	for b.Loop() {
		_, _ = Prober{}.Probe(bytes.NewReader(data), opt)
	}
}

// BenchmarkProbe_VBRWalk measures a full walk over sixty frames.
func BenchmarkProbe_VBRWalk(b *testing.B) {
	specs := make([]metatest.FrameSpec, 0, 60)
	for i := range 60 {
		if i%2 == 0 {
			specs = append(specs, metatest.MP3(128, 44100, false))
		} else {
			specs = append(specs, metatest.MP3(192, 44100, false))
		}
	}
	data := metatest.Stream(specs...)

	b.ResetTimer()
	b.ReportAllocs()

	for b.Loop() {
		_, _ = Prober{}.Probe(bytes.NewReader(data), meta.Options{Duration: true})
	}
}
