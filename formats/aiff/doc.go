// SPDX-License-Identifier: EPL-2.0

// Package aiff probes AIFF (Audio Interchange File Format) files for
// metadata.
//
// This package uses github.com/go-audio/aiff to parse the FORM chunks.
// AIFF is Apple's standard audio file format, commonly used on macOS.
// Only the chunk headers are read; the sample data is never decoded.
//
// # Probing AIFF Files
//
// Use the Prober through the meta.Prober interface:
//
//	prober := aiff.Prober{}
//	file, _ := os.Open("audio.aif")
//	info, err := prober.Probe(file, meta.Options{})
//	if err != nil {
//	    // Handle error
//	}
//	fmt.Println(info.Channels, info.Duration)
//
// Readers that cannot seek are buffered in memory first, since the
// chunk walk needs to seek.
//
// # Error Handling
//
// The package defines two error values:
//   - ErrNotAiffFile: The input is not a valid AIFF file
//   - ErrUnsupportedAiffLayout: Parsed, but the COMM chunk is unusable
//
// # AIFF vs. WAV
//
// AIFF is similar to WAV but:
//   - Uses big-endian byte order (WAV uses little-endian)
//   - Originated on Apple platforms (WAV on Windows)
//   - Stores sample rate as 80-bit float (WAV uses 32-bit int)
//
// The COMM chunk carries an exact frame count, so AIFF duration needs
// no arithmetic on chunk sizes.
//
// # File Extensions
//
// AIFF files typically use:
//   - .aif or .aiff for standard AIFF
//   - .aifc for AIFF-C (compressed)
package aiff
