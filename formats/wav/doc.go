// SPDX-License-Identifier: EPL-2.0

// Package wav probes RIFF/WAVE files for metadata.
//
// This package reads the RIFF headers to derive channel count, sample
// rate, bit rate, sample count and duration. It uses the
// github.com/go-audio library for robust WAV file handling; the audio
// samples themselves are never decoded.
//
// # Probing WAV Files
//
// Use the Prober through the meta.Prober interface:
//
//	prober := wav.Prober{}
//	file, _ := os.Open("audio.wav")
//	info, err := prober.Probe(file, meta.Options{})
//	if err != nil {
//	    // Handle error
//	}
//	fmt.Println(info.SampleRateHz, info.Duration)
//
// Readers that cannot seek are buffered in memory first, since the RIFF
// chunk walk needs to seek.
//
// # Error Handling
//
// ErrNotWavFile reports input whose headers do not parse as RIFF/WAVE.
// ErrUnsupportedWavLayout reports a fmt chunk that declares no usable
// frame size. A parseable file without a data chunk surfaces as a
// wrapped lookup error instead.
//
// # File Format
//
// WAV files consist of:
//   - RIFF header (12 bytes)
//   - fmt chunk: audio format, sample rate, channels, bit depth
//   - data chunk: actual audio samples
//
// Duration is PCM chunk size divided by the byte rate the fmt chunk
// declares, so it reflects the recorded audio, not the file size.
package wav
