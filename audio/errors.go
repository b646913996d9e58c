// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize  = errors.New("dst size must be multiple of channels")
	ErrNoChannels      = errors.New("source has no channels")
	ErrTooManyChannels = errors.New("source has more channels than the mixer supports")
	ErrChannelLength   = errors.New("channels differ in length")
	ErrInvalidRate     = errors.New("sample rate must be positive")
	ErrUnknownFormat   = errors.New("no decoder registered for format")
)
