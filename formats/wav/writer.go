// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/ik5/audmix/internal/pcm"
	"github.com/ik5/audmix/utils"
)

// Writer encodes interleaved float32 periods as integer PCM WAV.
type Writer struct {
	enc      *gowav.Encoder
	buf      *goaudio.IntBuffer
	bitDepth int
	frames   int
	closed   bool
}

func NewWriter(w io.WriteSeeker, sampleRate, channels, bitDepth int) (*Writer, error) {
	if channels <= 0 {
		return nil, ErrInvalidChannels
	}
	if !pcm.SupportedBitDepth(bitDepth) {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}

	return &Writer{
		enc: gowav.NewEncoder(w, sampleRate, bitDepth, channels, formatPCM),
		buf: &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: bitDepth,
		},
		bitDepth: bitDepth,
	}, nil
}

// WritePeriod appends interleaved samples. len(samples) must be a multiple
// of the channel count.
func (w *Writer) WritePeriod(samples []float32) error {
	if w.closed {
		return ErrWriterClosed
	}

	channels := w.buf.Format.NumChannels
	if len(samples)%channels != 0 {
		return fmt.Errorf("wav: %d samples for %d channels: %w", len(samples), channels, io.ErrShortWrite)
	}
	if len(samples) == 0 {
		return nil
	}

	if cap(w.buf.Data) < len(samples) {
		w.buf.Data = make([]int, len(samples))
	}
	w.buf.Data = w.buf.Data[:len(samples)]
	for i, s := range samples {
		w.buf.Data[i] = utils.Float32ToPCM(s, w.bitDepth)
	}

	if err := w.enc.Write(w.buf); err != nil {
		return fmt.Errorf("writing wav samples: %w", err)
	}
	w.frames += len(samples) / channels

	return nil
}

// Frames returns the number of frames written so far.
func (w *Writer) Frames() int { return w.frames }

// Close finalizes the WAV header. It does not close the underlying writer.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.enc.Close(); err != nil {
		return fmt.Errorf("finalizing wav: %w", err)
	}

	return nil
}
