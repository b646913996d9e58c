// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF (Audio Interchange File Format) files using
// github.com/go-audio/aiff.
//
// 16, 24 and 32-bit integer PCM is supported with any channel count up to
// the mixer limit. Samples are normalized to float32 in [-1, 1).
//
//	f, _ := os.Open("drums.aif")
//	src, err := aiff.Decoder{}.Decode(f)
//	if errors.Is(err, aiff.ErrUnsupportedBitDepth) {
//	    // 8-bit or compressed AIFF-C
//	}
//
// AIFF is big-endian and stores its rate as an 80-bit float; go-audio hides
// both differences from WAV.
package aiff
