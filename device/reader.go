// SPDX-License-Identifier: EPL-2.0

package device

import (
	"encoding/binary"
	"io"
	"math"
)

const bytesPerSample = 4

// Reader renders a device on demand as little-endian float32 bytes, the
// pull model live audio backends expect.
type Reader struct {
	dev *Device
	buf []float32
}

func NewReader(d *Device) *Reader {
	return &Reader{
		dev: d,
		buf: make([]float32, d.cfg.Period*d.cfg.Channels),
	}
}

// Read fills p with whole frames. It returns io.ErrShortBuffer when p cannot
// hold a single frame and io.EOF once the device is closed.
func (r *Reader) Read(p []byte) (int, error) {
	frameBytes := r.dev.cfg.Channels * bytesPerSample
	if len(p) < frameBytes {
		return 0, io.ErrShortBuffer
	}

	written := 0
	for len(p)-written >= frameBytes {
		want := min((len(p)-written)/bytesPerSample, len(r.buf))
		n := r.dev.Render(r.buf[:want])
		if n == 0 {
			break
		}

		for _, s := range r.buf[:n] {
			binary.LittleEndian.PutUint32(p[written:], math.Float32bits(s))
			written += bytesPerSample
		}
	}

	if written == 0 {
		return 0, io.EOF
	}

	return written, nil
}
