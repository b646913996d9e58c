// SPDX-License-Identifier: EPL-2.0

// Command audmix mixes audio files into a WAV file or plays them live.
//
//	audmix -out mix.wav drums.wav bass.ogg@0.8,-0.5 vocals.mp3@1,0,0.3
//	audmix -play -loop ambience.ogg
//
// Each input may carry @gain,pan,gainhf. Defaults come from the AUDMIX_*
// environment variables and are overridden by flags.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ik5/audmix"
	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/device"
	"github.com/ik5/audmix/formats/aiff"
	"github.com/ik5/audmix/formats/mp3"
	"github.com/ik5/audmix/formats/vorbis"
	"github.com/ik5/audmix/formats/wav"
	"github.com/ik5/audmix/internal/config"
	"github.com/ik5/audmix/output/oto"
)

var errUsage = errors.New("usage: audmix [-out file.wav | -play] input[@gain,pan,gainhf] ...")

type input struct {
	path   string
	params device.Params
}

func main() {
	log := logrus.New()
	if err := run(log, os.Args[1:]); err != nil {
		log.WithError(err).Fatal("audmix failed")
	}
}

func run(log *logrus.Logger, args []string) error {
	cfg := config.Load()

	fs := flag.NewFlagSet("audmix", flag.ContinueOnError)
	out := fs.String("out", "", "write the mix to this WAV file")
	play := fs.Bool("play", false, "play the mix on the default audio output")
	loop := fs.Bool("loop", false, "loop every input (with -play)")
	mono := fs.Bool("mono", false, "fold every input to mono before mixing")
	fs.IntVar(&cfg.SampleRate, "rate", cfg.SampleRate, "output sample rate in Hz; 0 uses the first input's rate")
	fs.IntVar(&cfg.Channels, "channels", cfg.Channels, "output channels")
	fs.IntVar(&cfg.Period, "period", cfg.Period, "frames per mixing pass")
	fs.StringVar(&cfg.Kernel, "kernel", cfg.Kernel, "mixing kernel: scalar, lanes2, lanes4 or auto")
	fs.IntVar(&cfg.BitDepth, "bits", cfg.BitDepth, "WAV bit depth: 16, 24 or 32")
	fs.StringVar(&cfg.LogLevel, "log", cfg.LogLevel, "log level")
	if err := fs.Parse(args); err != nil {
		return err
	}
	log.SetLevel(cfg.Level())

	if fs.NArg() == 0 || (*out == "") == !*play {
		return errUsage
	}

	inputs := make([]input, 0, fs.NArg())
	for _, arg := range fs.Args() {
		in, err := parseInput(arg)
		if err != nil {
			return err
		}
		inputs = append(inputs, in)
	}

	reg := newRegistry()
	tracks := make([]audmix.Track, 0, len(inputs))
	for _, in := range inputs {
		buf, err := load(reg, in.path, *mono)
		if err != nil {
			return err
		}
		log.WithFields(logrus.Fields{
			"file":     in.path,
			"rate":     buf.SampleRate(),
			"channels": buf.Channels(),
			"duration": buf.Duration(),
		}).Info("loaded input")
		tracks = append(tracks, audmix.Track{Buffer: buf, Params: in.params})
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = tracks[0].Buffer.SampleRate()
	}

	if *play {
		return playLive(log, cfg.Device(), tracks, *loop)
	}

	return writeFile(log, cfg, *out, tracks)
}

// parseInput splits "path@gain,pan,gainhf". Missing values keep their defaults.
func parseInput(arg string) (input, error) {
	in := input{path: arg, params: device.DefaultParams()}

	i := strings.LastIndexByte(arg, '@')
	if i < 0 {
		return in, nil
	}
	in.path = arg[:i]

	fields := []*float32{&in.params.Gain, &in.params.Pan, &in.params.GainHF}
	parts := strings.Split(arg[i+1:], ",")
	if len(parts) > len(fields) {
		return in, fmt.Errorf("%s: too many mix parameters", arg)
	}
	for j, p := range parts {
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 32)
		if err != nil {
			return in, fmt.Errorf("%s: %w", arg, err)
		}
		*fields[j] = float32(v)
	}

	return in, nil
}

func newRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	reg.Register("aif", aiff.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	return reg
}

func load(reg *audio.Registry, path string, mono bool) (*audio.Buffer, error) {
	dec, err := reg.ForPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, err := dec.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if mono {
		src = audio.NewMonoMixer(src)
	}
	defer src.Close()

	buf, err := audio.Load(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	return buf, nil
}

func writeFile(log *logrus.Logger, cfg config.Config, path string, tracks []audmix.Track) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	frames, err := audmix.MixToWAV(f, cfg.Device(), cfg.BitDepth, tracks, device.WithLogger(log))
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"file":   path,
		"frames": frames,
		"bits":   cfg.BitDepth,
	}).Info("mix written")

	return f.Close()
}

func playLive(log *logrus.Logger, cfg device.Config, tracks []audmix.Track, loop bool) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	dev, err := device.Open(cfg, device.WithLogger(log))
	if err != nil {
		return err
	}
	defer dev.Close()

	player, err := oto.New(dev, 0)
	if err != nil {
		return err
	}
	defer player.Close()

	for _, t := range tracks {
		v := device.NewVoice(t.Buffer)
		v.SetParams(t.Params)
		v.SetLoop(loop)
		if err := dev.Play(v); err != nil {
			return err
		}
	}
	if err := player.Play(); err != nil {
		return err
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("interrupted, stopping playback")
			return player.Err()
		case <-ticker.C:
			if dev.Idle() && dev.Settled() {
				log.Info("playback finished")
				return player.Err()
			}
		}
	}
}
