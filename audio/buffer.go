// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ik5/audmix/mix"
)

// maxIdleReads bounds how many empty reads Load tolerates before giving up.
const maxIdleReads = 100

// Buffer is fully decoded PCM stored one slice per channel, the layout the
// mixer reads source channels in.
type Buffer struct {
	sampleRate int
	channels   [][]float32
}

// NewBuffer wraps planar channel data. All channels must be the same length.
func NewBuffer(sampleRate int, channels [][]float32) (*Buffer, error) {
	if sampleRate <= 0 {
		return nil, ErrInvalidRate
	}
	if len(channels) == 0 {
		return nil, ErrNoChannels
	}
	if len(channels) > mix.MaxChannels {
		return nil, ErrTooManyChannels
	}
	for _, ch := range channels[1:] {
		if len(ch) != len(channels[0]) {
			return nil, ErrChannelLength
		}
	}

	return &Buffer{sampleRate: sampleRate, channels: channels}, nil
}

// Load drains src into a Buffer, splitting interleaved samples into
// channels. A trailing partial frame is dropped. Load does not close src.
func Load(src Source) (*Buffer, error) {
	channels := src.Channels()
	if channels <= 0 {
		return nil, ErrNoChannels
	}
	if channels > mix.MaxChannels {
		return nil, ErrTooManyChannels
	}

	var interleaved []float32
	chunk := make([]float32, 4096*channels)
	idle := 0
	for {
		n, err := src.ReadSamples(chunk)
		interleaved = append(interleaved, chunk[:n]...)

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("loading source: %w", err)
		}

		if n > 0 {
			idle = 0
			continue
		}
		idle++
		if idle > maxIdleReads {
			return nil, fmt.Errorf("loading source: %w", io.ErrNoProgress)
		}
	}

	frames := len(interleaved) / channels
	planar := make([][]float32, channels)
	for c := range planar {
		planar[c] = make([]float32, frames)
	}
	for f := range frames {
		base := f * channels
		for c := range channels {
			planar[c][f] = interleaved[base+c]
		}
	}

	return NewBuffer(src.SampleRate(), planar)
}

// SampleRate, Channels and Frames describe the decoded PCM; every channel
// holds Frames samples.
func (b *Buffer) SampleRate() int { return b.sampleRate }
func (b *Buffer) Channels() int   { return len(b.channels) }
func (b *Buffer) Frames() int     { return len(b.channels[0]) }

// Channel returns the samples of channel i. The slice is shared, not copied.
func (b *Buffer) Channel(i int) []float32 { return b.channels[i] }

// Duration is the playing time of the buffer at its own sample rate.
func (b *Buffer) Duration() time.Duration {
	return time.Duration(b.Frames()) * time.Second / time.Duration(b.sampleRate)
}
