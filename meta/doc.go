// SPDX-License-Identifier: EPL-2.0

// Package meta defines the types shared by all format probers.
//
// This package contains the core probing building blocks:
//   - Info, the format record a probe produces
//   - Options, stream geometry a sequential reader cannot provide
//   - Prober, the interface every format package implements
//   - Registry, for prober registration by format key
//
// # The Info Record
//
// Probing a stream yields a single Info value:
//
//	type Info struct {
//	    Format       string
//	    Lossless     bool
//	    BitrateBps   int
//	    SampleRateHz int
//	    Channels     int
//	    Duration     float64
//	    CodecProfile string
//	    Encoder      string
//	    SampleCount  int64
//	    Warnings     []string
//	}
//
// Optional fields keep their zero value when the stream did not carry
// enough information to fill them. A short stream is not an error; the
// record simply stays partial.
//
// # Warnings
//
// Probers accumulate non-fatal anomalies (lost synchronization, frames
// with reserved field values, and similar) as strings on the record.
// Warnings never affect the validity of the other fields and are never
// mixed with fatal errors, which are returned through the error value
// instead.
//
// # Options
//
// Some facts cannot be read from a sequential stream: its total size,
// and how many bytes a caller already consumed before handing over the
// reader (a skipped ID3v2 tag, for example). Callers pass those in:
//
//	info, err := prober.Probe(f, meta.Options{
//	    TotalBytes:   fileSize,
//	    LeadingBytes: id3Size,
//	    Duration:     true,
//	})
//
// The zero Options value is valid and means: size unknown, nothing
// skipped, do not scan the whole stream just for duration.
//
// # Prober Registry
//
// The registry allows dynamic prober registration:
//
//	registry := meta.NewRegistry()
//	registry.Register("mp3", mpeg.Prober{})
//
//	prober, ok := registry.Get("mp3")
//
// The format packages in this module register under "mp3", "wav",
// "ogg vorbis" and "aiff".
package meta
