// SPDX-License-Identifier: EPL-2.0

// Package oto plays a device through the system audio output using
// github.com/ebitengine/oto/v3.
//
// oto pulls float32 samples from a device.Reader on its own goroutine, so
// the device's render loop runs at the pace of the sound card. Only one
// Player can exist per process because oto allows a single context.
package oto

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	otov3 "github.com/ebitengine/oto/v3"

	"github.com/ik5/audmix/device"
)

var ErrPlayerClosed = errors.New("player is closed")

// DefaultBufferSize is the amount of audio oto keeps queued.
const DefaultBufferSize = 100 * time.Millisecond

// stream is the part of *otov3.Player the Player drives.
type stream interface {
	Play()
	Pause()
	IsPlaying() bool
	Err() error
	Close() error
}

type Player struct {
	stream stream

	mtx    sync.Mutex
	closed bool
}

// New opens the system output in the device's format and attaches a player
// that reads from it. Playback starts with Play.
func New(d *device.Device, bufferSize time.Duration) (*Player, error) {
	cfg := d.Config()
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}

	ctx, ready, err := otov3.NewContext(&otov3.NewContextOptions{
		SampleRate:   cfg.SampleRate,
		ChannelCount: cfg.Channels,
		Format:       otov3.FormatFloat32LE,
		BufferSize:   bufferSize,
	})
	if err != nil {
		return nil, fmt.Errorf("opening audio output: %w", err)
	}
	<-ready

	return newPlayer(func(r io.Reader) stream { return ctx.NewPlayer(r) }, device.NewReader(d)), nil
}

func newPlayer(open func(io.Reader) stream, r io.Reader) *Player {
	return &Player{stream: open(r)}
}

func (p *Player) Play() error {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	if p.closed {
		return ErrPlayerClosed
	}
	p.stream.Play()

	return nil
}

func (p *Player) Pause() error {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	if p.closed {
		return ErrPlayerClosed
	}
	p.stream.Pause()

	return nil
}

func (p *Player) IsPlaying() bool {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	return !p.closed && p.stream.IsPlaying()
}

// Err reports an error the output hit while pulling samples, such as the
// device reader returning io.EOF after the device was closed.
func (p *Player) Err() error {
	return p.stream.Err()
}

func (p *Player) Close() error {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	if err := p.stream.Close(); err != nil {
		return fmt.Errorf("closing audio output: %w", err)
	}

	return nil
}
