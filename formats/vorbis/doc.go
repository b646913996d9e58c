// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis files into an audio.Source using
// github.com/jfreymuth/oggvorbis.
//
// Samples come out interleaved ([L0, R0, L1, R1, ...]) as float32 in
// [-1, 1] with the file's own channel count and sample rate.
//
//	f, _ := os.Open("loop.ogg")
//	src, err := vorbis.Decoder{}.Decode(f)
//	if err != nil {
//	    // handle error
//	}
//	buf, err := audio.Load(src)
package vorbis
