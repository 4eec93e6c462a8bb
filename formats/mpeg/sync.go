// SPDX-License-Identifier: EPL-2.0

package mpeg

import (
	"fmt"
	"io"
)

// synchronizer walks a sequential byte stream looking for the 11-bit
// frame sync prefix. It never seeks and never re-reads a byte.
type synchronizer struct {
	r   io.Reader
	buf [1]byte
}

// lock advances the stream to the next sync prefix and returns its two
// bytes along with the count of bytes discarded on the way. When the
// byte after a 0xFF fails the check, both bytes are dropped without
// re-examining the second one, so a sync word starting at that second
// byte is missed until the next 0xFF.
func (s *synchronizer) lock() (byte, byte, int, error) {
	skipped := 0

	for {
		b, err := s.readByte()
		if err != nil {
			return 0, 0, skipped, err
		}

		if b != 0xFF {
			skipped++
			continue
		}

		next, err := s.readByte()
		if err != nil {
			return 0, 0, skipped, err
		}

		if next&0xE0 != 0xE0 {
			skipped += 2
			continue
		}

		return b, next, skipped, nil
	}
}

func (s *synchronizer) readByte() (byte, error) {
	if _, err := io.ReadFull(s.r, s.buf[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return 0, io.EOF
		}

		return 0, fmt.Errorf("scanning for frame sync: %w", err)
	}

	return s.buf[0], nil
}
