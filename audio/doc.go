// SPDX-License-Identifier: EPL-2.0

// Package audio holds the input side of the mixer: streaming sources,
// decoder registration and the planar buffers voices play from.
//
// # Source Interface
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    Close() error
//	}
//
// Decoders in the formats packages and MonoMixer implement it, so they can
// be chained:
//
//	src, _ := mp3.Decoder{}.Decode(f)
//	mono := audio.NewMonoMixer(src)
//
// # Buffers
//
// Load drains a Source into a Buffer, which stores one slice per channel.
// That is the layout the mixer reads a source channel at a time:
//
//	buf, err := audio.Load(mono)
//	left := buf.Channel(0)
//
// Buffers are immutable once loaded and can be shared by any number of
// voices.
//
// # Format Registry
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	dec, err := registry.ForPath("take1.WAV")
//
// Keys are case-insensitive. ForPath returns ErrUnknownFormat for
// unregistered extensions.
//
// # Sample Format
//
// Samples are float32 normalized to [-1, 1]. Integer PCM is scaled by
// 2^(bits-1), so the most negative code maps to exactly -1.
//
// # Error Handling
//
// ReadSamples returns io.EOF, possibly together with the last samples, when
// the stream is finished:
//
//	for {
//	    n, err := source.ReadSamples(buf)
//	    process(buf[:n])
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	}
package audio
