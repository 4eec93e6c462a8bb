// SPDX-License-Identifier: EPL-2.0

// Package audmeta provides audio stream metadata extraction for Go
// applications.
//
// This package inspects audio files and streams to report format,
// bit rate, sample rate, channel count, duration and related facts.
// It never decodes audio samples: probing a multi-hour file costs a
// handful of header reads.
//
// # Supported Formats
//
// The package ships probers for the following formats:
//   - MP3 (MPEG-1/2 Layer III) via formats/mpeg
//   - WAV via formats/wav
//   - Ogg Vorbis via formats/vorbis
//   - AIFF via formats/aiff
//
// # Quick Start
//
// The simplest way to inspect a file is the package-level Probe:
//
//	file, _ := os.Open("audio.mp3")
//	st, _ := file.Stat()
//
//	info, err := audmeta.Probe("mp3", file, meta.Options{
//	    TotalBytes: st.Size(),
//	    Duration:   true,
//	})
//	if err != nil {
//	    // Handle error
//	}
//
//	fmt.Println(info.BitrateBps, info.Duration, info.CodecProfile)
//
// # The Prober Registry
//
// Probers implement the meta.Prober interface and live in a
// meta.Registry keyed by format name. DefaultRegistry returns all
// built-in probers; custom registries can mix in probers of your own:
//
//	reg := meta.NewRegistry()
//	reg.Register("mp3", mpeg.Prober{})
//	reg.Register("flac", myFlacProber{})
//
//	prober, ok := reg.Get("mp3")
//
// # Options
//
// Sequential readers cannot report their own size, so callers pass
// stream geometry through meta.Options:
//   - TotalBytes: full stream size, enables CBR duration and Vorbis
//     bit rate estimates
//   - LeadingBytes: bytes the caller already consumed (container tags)
//   - Duration: walk whole VBR streams for an exact duration
//
// # Warnings
//
// Probers report recoverable anomalies (leading garbage, skipped
// frames) as strings on meta.Info.Warnings instead of failing the
// probe.
//
// See the individual subpackages for more detailed documentation.
package audmeta
