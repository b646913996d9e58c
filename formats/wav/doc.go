// SPDX-License-Identifier: EPL-2.0

// Package wav reads PCM WAV files into audio sources and writes mixed
// periods back out as multi-channel PCM WAV.
//
// # Decoding
//
//	decoder := wav.Decoder{}
//	src, err := decoder.Decode(file)
//
// 16, 24 and 32-bit integer PCM are supported. Samples are normalized to
// float32 in [-1, 1).
//
// # Encoding
//
// Writer implements the device sink interface, so a device can render
// straight into a file:
//
//	out, _ := os.Create("mix.wav")
//	w, _ := wav.NewWriter(out, 44100, 2, 16)
//	defer w.Close()
//	dev.Run(ctx, w)
//
// The output must be seekable; the header sizes are patched on Close.
package wav
