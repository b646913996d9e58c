// SPDX-License-Identifier: EPL-2.0

package mp3

import "errors"

// ErrNotMP3 is returned when go-mp3 cannot find a valid frame header.
var ErrNotMP3 = errors.New("not an MP3 stream")
