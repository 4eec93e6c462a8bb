// SPDX-License-Identifier: EPL-2.0

package utils

// TrimPadded converts a fixed-width field to a string, dropping the
// trailing NUL and space bytes encoders use as padding.
func TrimPadded(b []byte) string {
	end := len(b)
	for end > 0 && (b[end-1] == 0 || b[end-1] == ' ') {
		end--
	}

	return string(b[:end])
}
