// SPDX-License-Identifier: EPL-2.0

// Package audmix mixes decoded audio buffers into multi-channel output with
// per-source gain, panning and low-pass filtering, free of the clicks that
// appear when sources start, stop or change between render periods.
//
// # Packages
//
//   - mix: the mixing core. Two-pole low-pass filter, gain ramps,
//     accumulator kernels and the click-removal ledger.
//   - device: voices, the control queue and the render loop built on mix.
//   - audio: the Source interface, decoder registry and planar Buffer.
//   - formats/wav, formats/mp3, formats/vorbis, formats/aiff: decoders.
//     formats/wav also writes rendered output.
//   - output/oto: live playback through the system audio device.
//
// # Quick Start
//
// Decode each input into a Buffer and mix them down to a WAV file:
//
//	f, _ := os.Open("voice.wav")
//	src, _ := wav.Decoder{}.Decode(f)
//	buf, _ := audio.Load(src)
//
//	out, _ := os.Create("mix.wav")
//	defer out.Close()
//
//	cfg := device.DefaultConfig()
//	cfg.SampleRate = buf.SampleRate()
//	frames, err := audmix.MixToWAV(out, cfg, 16, []audmix.Track{
//	    {Buffer: buf, Params: device.Params{Gain: 0.8, Pan: 0.5, GainHF: 1}},
//	})
//
// # Live Playback
//
// For real-time use open a device, start voices on it and let an output
// pull from it:
//
//	dev, _ := device.Open(device.DefaultConfig())
//	player, _ := oto.New(dev, 0)
//	_ = player.Play()
//
//	v := device.NewVoice(buf)
//	v.SetLoop(true)
//	_ = dev.Play(v)
//
//	// later, from any goroutine
//	v.SetParams(device.Params{Gain: 0.3, Pan: -1, GainHF: 0.2})
//
// # Click Removal
//
// Every period, each source records the jump its first sample causes in a
// pre-correction and the value it would continue with in a post-correction.
// The corrections of a source that keeps playing cancel out. When a source
// starts, stops or is replaced the leftover is faded out over the following
// samples instead of being heard as a click.
//
// # Performance
//
// Rendering does not allocate, lock or log once a device is open. The
// accumulator kernel is picked at startup from the CPU's vector features
// and all kernels produce bit-identical output.
package audmix
