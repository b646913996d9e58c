// SPDX-License-Identifier: EPL-2.0

package vorbis

import "errors"

// ErrNotVorbis is returned when the stream has no valid Vorbis headers.
var ErrNotVorbis = errors.New("not an Ogg Vorbis stream")
