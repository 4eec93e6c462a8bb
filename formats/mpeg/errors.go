// SPDX-License-Identifier: EPL-2.0

package mpeg

import "errors"

var (
	// ErrInvalidLayer indicates the 2-bit layer index holds the reserved code.
	ErrInvalidLayer = errors.New("invalid mpeg layer index")

	// ErrInvalidVersion indicates the 2-bit version index holds the reserved code.
	ErrInvalidVersion = errors.New("invalid mpeg version index")

	// ErrUndeterminedBitrate indicates the bitrate index resolved to no
	// usable rate: either the free-format code 0 or the reserved code 15.
	ErrUndeterminedBitrate = errors.New("cannot determine bitrate")

	// ErrUndeterminedSampleRate indicates the reserved sample-rate index.
	ErrUndeterminedSampleRate = errors.New("cannot determine sample rate")

	// ErrFrameOverrun indicates the frame substructures (CRC, side
	// information, embedded tag) ran past the computed frame size.
	ErrFrameOverrun = errors.New("frame substructures exceed frame size")
)
