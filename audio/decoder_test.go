// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"io"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/internal/audiotest"
)

type rawDecoder struct{}

func (rawDecoder) Decode(io.Reader) (audio.Source, error) {
	return audiotest.NewSilentSource(8000, 1, 10), nil
}
