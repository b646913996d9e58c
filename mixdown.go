// SPDX-License-Identifier: EPL-2.0

package audmix

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/device"
	"github.com/ik5/audmix/formats/wav"
)

var ErrNoTracks = errors.New("nothing to mix")

// Track is one input of a mixdown.
type Track struct {
	Buffer *audio.Buffer
	Params device.Params
}

// Mixdown plays every track once from the start on a fresh device and feeds
// the rendered periods to sink until all of them have finished, including
// the click-removal fade after the last sample, so the output ends in
// silence. It returns the number of frames written.
//
// The device format comes from cfg. Every buffer must already be at
// cfg.SampleRate; nothing is resampled.
//
// Example:
//
//	drums, _ := audio.Load(drumSrc)
//	bass, _ := audio.Load(bassSrc)
//	frames, err := audmix.Mixdown(device.DefaultConfig(), sink, []audmix.Track{
//	    {Buffer: drums, Params: device.DefaultParams()},
//	    {Buffer: bass, Params: device.Params{Gain: 0.7, Pan: -0.3, GainHF: 1}},
//	})
func Mixdown(cfg device.Config, sink device.Sink, tracks []Track, opts ...device.Option) (int, error) {
	if len(tracks) == 0 {
		return 0, ErrNoTracks
	}
	cfg.QueueSize = max(cfg.QueueSize, len(tracks))
	cfg.MaxVoices = max(cfg.MaxVoices, len(tracks))

	d, err := device.Open(cfg, opts...)
	if err != nil {
		return 0, fmt.Errorf("%w", err)
	}
	defer d.Close()

	for i, t := range tracks {
		v := device.NewVoice(t.Buffer)
		v.SetParams(t.Params)
		if err := d.Play(v); err != nil {
			return 0, fmt.Errorf("track %d: %w", i, err)
		}
	}

	buf := make([]float32, cfg.Period*cfg.Channels)
	frames := 0
	for !d.Idle() || !d.Settled() {
		n := d.Render(buf)
		if err := sink.WritePeriod(buf[:n]); err != nil {
			return frames, fmt.Errorf("writing mixdown: %w", err)
		}
		frames += n / cfg.Channels
	}

	return frames, nil
}

// MixToWAV runs Mixdown into a bitDepth-bit PCM WAV written to w.
func MixToWAV(w io.WriteSeeker, cfg device.Config, bitDepth int, tracks []Track, opts ...device.Option) (int, error) {
	if len(tracks) == 0 {
		return 0, ErrNoTracks
	}

	out, err := wav.NewWriter(w, cfg.SampleRate, cfg.Channels, bitDepth)
	if err != nil {
		return 0, fmt.Errorf("%w", err)
	}

	frames, err := Mixdown(cfg, out, tracks, opts...)
	if err != nil {
		return frames, err
	}

	if err := out.Close(); err != nil {
		return frames, fmt.Errorf("%w", err)
	}

	return frames, nil
}
