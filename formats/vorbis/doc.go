// SPDX-License-Identifier: EPL-2.0

// Package vorbis probes Ogg Vorbis streams for metadata.
//
// This package uses github.com/jfreymuth/oggvorbis to decode the Vorbis
// identification headers. Vorbis is a free, open-source lossy audio
// compression format; only its headers are read, the audio packets are
// never decoded.
//
// # Probing Vorbis Files
//
// Use the Prober through the meta.Prober interface:
//
//	prober := vorbis.Prober{}
//	file, _ := os.Open("audio.ogg")
//	info, err := prober.Probe(file, meta.Options{TotalBytes: size})
//	if err != nil {
//	    // Handle error
//	}
//	fmt.Println(info.SampleRateHz, info.Duration)
//
// # Duration and Bit Rate
//
// A seekable reader lets the final Ogg page supply the total sample
// count, which yields the duration. Vorbis streams carry no reliable
// bit rate of their own, so when Options.TotalBytes is known the
// average bit rate is estimated as payload bytes over duration.
//
// Non-seekable input still yields format, sample rate and channels;
// sample count, duration and bit rate stay unset.
//
// # Limitations
//
// Note:
//   - Chained Ogg streams report the first chain only
//   - The nominal bitrate of the identification header is not used
package vorbis
