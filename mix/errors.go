// SPDX-License-Identifier: EPL-2.0

package mix

import "errors"

var (
	ErrInvalidChannels = errors.New("channel count must be between 1 and 8")
	ErrInvalidPeriod   = errors.New("period must be positive")
	ErrUnknownKernel   = errors.New("unknown mixing kernel")
)
