// SPDX-License-Identifier: EPL-2.0

// Package pcm adapts the go-audio integer PCM decoders to float32 sources.
package pcm

import (
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"

	"github.com/ik5/audmix/utils"
)

var (
	ErrNoFormat            = errors.New("decoder reported no format")
	ErrUnsupportedBitDepth = errors.New("only 16, 24 and 32-bit PCM are supported")
)

// Reader is the part of the go-audio wav and aiff decoders a Source needs.
type Reader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Source reads integer PCM from a Reader and normalizes it to [-1, 1).
type Source struct {
	dec        Reader
	sampleRate int
	channels   int
	bitDepth   int
	buf        *goaudio.IntBuffer
}

// SupportedBitDepth reports whether bitDepth can be decoded and encoded.
func SupportedBitDepth(bitDepth int) bool {
	return bitDepth == 16 || bitDepth == 24 || bitDepth == 32
}

func NewSource(dec Reader, bitDepth int) (*Source, error) {
	if !SupportedBitDepth(bitDepth) {
		return nil, fmt.Errorf("%w: got %d", ErrUnsupportedBitDepth, bitDepth)
	}

	format := dec.Format()
	if format == nil || format.NumChannels <= 0 {
		return nil, ErrNoFormat
	}

	return &Source{
		dec:        dec,
		sampleRate: format.SampleRate,
		channels:   format.NumChannels,
		bitDepth:   bitDepth,
		buf: &goaudio.IntBuffer{
			Format:         format,
			Data:           make([]int, 4096*format.NumChannels),
			SourceBitDepth: bitDepth,
		},
	}, nil
}

func (s *Source) SampleRate() int { return s.sampleRate }
func (s *Source) Channels() int   { return s.channels }
func (s *Source) BitDepth() int   { return s.bitDepth }
func (s *Source) Close() error    { return nil }

func (s *Source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	if cap(s.buf.Data) < len(dst) {
		s.buf.Data = make([]int, len(dst))
	}
	s.buf.Data = s.buf.Data[:len(dst)]

	n, err := s.dec.PCMBuffer(s.buf)
	for i := range n {
		dst[i] = utils.PCMToFloat32(s.buf.Data[i], s.bitDepth)
	}

	if err != nil && !errors.Is(err, io.EOF) {
		return n, fmt.Errorf("reading pcm: %w", err)
	}
	// The go-audio decoders signal the end of data with a short read.
	if n == 0 || n < len(dst) || errors.Is(err, io.EOF) {
		return n, io.EOF
	}

	return n, nil
}
