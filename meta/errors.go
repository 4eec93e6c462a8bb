// SPDX-License-Identifier: EPL-2.0

package meta

import "errors"

var (
	ErrUnknownFormat = errors.New("no prober registered for format")
)
