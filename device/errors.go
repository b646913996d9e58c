// SPDX-License-Identifier: EPL-2.0

package device

import "errors"

var (
	ErrClosed         = errors.New("device is closed")
	ErrRunning        = errors.New("device is already running")
	ErrQueueFull      = errors.New("device control queue is full")
	ErrFormatMismatch = errors.New("buffer sample rate differs from device rate")
	ErrNoBuffer       = errors.New("voice has no buffer")
	ErrTooManyVoices  = errors.New("device voice limit reached")
)
