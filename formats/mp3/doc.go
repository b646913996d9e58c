// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MP3 files into an audio.Source.
//
// Decoding is done by github.com/hajimehoshi/go-mp3, which always produces
// interleaved stereo 16-bit PCM. The source normalizes it to float32 in
// [-1, 1).
//
//	f, _ := os.Open("music.mp3")
//	src, err := mp3.Decoder{}.Decode(f)
//	if err != nil {
//	    // handle error
//	}
//	buf, err := audio.Load(src)
//
// The loaded buffer can then be played on a device voice. Devices do not
// resample, so the file's rate must match the device rate.
//
// # Limitations
//
//   - Output is always stereo. Mono files are duplicated on both channels.
//   - Decoding only.
package mp3
