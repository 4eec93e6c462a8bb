// SPDX-License-Identifier: EPL-2.0

// Package mpeg probes MPEG audio elementary streams for metadata.
//
// This package reads frame headers of MPEG-1/2 Layer III (MP3) streams
// to derive bitrate, sample rate, channel count, CBR/VBR classification
// and duration. The compressed audio payload is skipped, never decoded:
// no PCM samples are produced.
//
// # Supported Input
//
// The prober handles:
//   - MPEG-1 and MPEG-2 Layer III frames
//   - CRC protected and unprotected frames
//   - Xing, Info and LAME tags in the first frames
//   - Streams with leading garbage before the first sync word
//
// Frames of other MPEG versions or layers are reported in the warnings
// and skipped.
//
// # Probing a Stream
//
// Use the Prober through the meta.Prober interface:
//
//	prober := mpeg.Prober{}
//	file, _ := os.Open("audio.mp3")
//	info, err := prober.Probe(file, meta.Options{
//	    TotalBytes: fileSize,
//	    Duration:   true,
//	})
//	if err != nil {
//	    // Handle error
//	}
//	fmt.Println(info.BitrateBps, info.Duration)
//
// # Classification
//
// After three accepted frames the stream is classified:
//   - Equal bitrates: CBR. Duration comes from the stream size when
//     known, and scanning stops.
//   - Differing bitrates: VBR. Scanning stops unless Options.Duration
//     asks for a full walk, in which case frames are counted to the
//     end of the stream.
//
// A valid frame count in a Xing or Info tag overrides both estimates.
//
// # Error Handling
//
// Running out of input is never an error: whatever was determined by
// then is returned, missing fields stay zero. Malformed sync words and
// rejected headers surface as warnings on the Info record. Only broken
// readers and frames whose substructures overrun the frame size abort
// the probe.
//
// # Limitations
//
// Note:
//   - Free-format streams (bitrate index 0) are not supported
//   - Layer I and Layer II frames are recognized but not probed
//   - Container formats (ID3 wrapping aside) are out of scope; strip
//     leading tags and pass their size as Options.LeadingBytes
package mpeg
