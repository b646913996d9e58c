// SPDX-License-Identifier: EPL-2.0

package pcm

import (
	"errors"
	"io"
	"testing"

	goaudio "github.com/go-audio/audio"
)

// mockReader simulates the go-audio decoders for testing
type mockReader struct {
	format  *goaudio.Format
	samples []int
	offset  int
	err     error
}

func (m *mockReader) Format() *goaudio.Format { return m.format }

func (m *mockReader) PCMBuffer(buf *goaudio.IntBuffer) (int, error) {
	if m.err != nil {
		return 0, m.err
	}

	n := copy(buf.Data, m.samples[m.offset:])
	m.offset += n

	return n, nil
}

func stereo(samples ...int) *mockReader {
	return &mockReader{
		format:  &goaudio.Format{SampleRate: 44100, NumChannels: 2},
		samples: samples,
	}
}

func TestNewSource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		dec      Reader
		bitDepth int
		wantErr  error
	}{
		{name: "16-bit", dec: stereo(), bitDepth: 16},
		{name: "24-bit", dec: stereo(), bitDepth: 24},
		{name: "32-bit", dec: stereo(), bitDepth: 32},
		{name: "8-bit", dec: stereo(), bitDepth: 8, wantErr: ErrUnsupportedBitDepth},
		{name: "no format", dec: &mockReader{}, bitDepth: 16, wantErr: ErrNoFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src, err := NewSource(tt.dec, tt.bitDepth)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewSource() error = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if src.Channels() != 2 || src.SampleRate() != 44100 || src.BitDepth() != tt.bitDepth {
				t.Errorf("metadata = %d ch, %d Hz, %d bits", src.Channels(), src.SampleRate(), src.BitDepth())
			}
		})
	}
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	src, err := NewSource(stereo(0, 16384, -16384, -32768, 8192, 0), 16)
	if err != nil {
		t.Fatalf("NewSource() error = %v", err)
	}

	buf := make([]float32, 4)
	n, err := src.ReadSamples(buf)
	if err != nil || n != 4 {
		t.Fatalf("ReadSamples() = %d, %v, want 4, nil", n, err)
	}
	for i, want := range []float32{0, 0.5, -0.5, -1} {
		if buf[i] != want {
			t.Errorf("buf[%d] = %v, want %v", i, buf[i], want)
		}
	}

	n, err = src.ReadSamples(buf)
	if !errors.Is(err, io.EOF) || n != 2 {
		t.Fatalf("short ReadSamples() = %d, %v, want 2, io.EOF", n, err)
	}
	if buf[0] != 0.25 {
		t.Errorf("buf[0] = %v, want 0.25", buf[0])
	}

	n, err = src.ReadSamples(buf)
	if !errors.Is(err, io.EOF) || n != 0 {
		t.Errorf("final ReadSamples() = %d, %v, want 0, io.EOF", n, err)
	}
}

func TestSource_ReadSamples_Error(t *testing.T) {
	t.Parallel()

	dec := stereo(1, 2)
	dec.err = io.ErrUnexpectedEOF
	src, err := NewSource(dec, 16)
	if err != nil {
		t.Fatalf("NewSource() error = %v", err)
	}

	if _, err := src.ReadSamples(make([]float32, 2)); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadSamples() error = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestSource_ReadSamples_Empty(t *testing.T) {
	t.Parallel()

	src, err := NewSource(stereo(1, 2), 24)
	if err != nil {
		t.Fatalf("NewSource() error = %v", err)
	}

	if n, err := src.ReadSamples(nil); n != 0 || err != nil {
		t.Errorf("ReadSamples(nil) = %d, %v, want 0, nil", n, err)
	}
}
