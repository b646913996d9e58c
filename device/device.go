// SPDX-License-Identifier: EPL-2.0

package device

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/ik5/audmix/mix"
)

type opcode uint8

const (
	opPlay opcode = iota + 1
	opStop
)

func (o opcode) String() string {
	switch o {
	case opPlay:
		return "play"
	case opStop:
		return "stop"
	default:
		return "unknown"
	}
}

type request struct {
	op    opcode
	voice *Voice
}

// Sink consumes rendered periods of interleaved float32 samples.
type Sink interface {
	WritePeriod(samples []float32) error
}

// Option customizes a Device.
type Option func(*Device)

// WithLogger sets the logger for lifecycle and control events. The default
// is the logrus standard logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(d *Device) {
		d.log = log
	}
}

// Device renders every playing voice into periods of interleaved samples.
//
// Play, Stop and Close may be called from any goroutine. Render, Run and
// reads from a Reader drive the render loop and must not overlap.
type Device struct {
	cfg Config
	log logrus.FieldLogger

	requests chan request
	closed   atomic.Bool
	running  atomic.Bool
	once     sync.Once

	// pending counts requests sent but not yet applied. A play request is
	// counted by active before it leaves pending, so Idle never sees a gap.
	pending atomic.Int32
	active  atomic.Int32
	settled atomic.Bool

	// render goroutine only
	ctx     *mix.Context
	voices  []*Voice
	scratch []float32
	cw      float32
}

// Open validates cfg and allocates everything the render loop needs.
func Open(cfg Config, opts ...Option) (*Device, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("opening device: %w", err)
	}

	kernel, err := mix.KernelByName(cfg.Kernel)
	if err != nil {
		return nil, fmt.Errorf("opening device: %w", err)
	}

	ctx, err := mix.NewContext(cfg.Channels, cfg.Period, kernel)
	if err != nil {
		return nil, fmt.Errorf("opening device: %w", err)
	}

	d := &Device{
		cfg:      cfg,
		log:      logrus.StandardLogger(),
		requests: make(chan request, cfg.QueueSize),
		ctx:      ctx,
		voices:   make([]*Voice, 0, cfg.MaxVoices),
		scratch:  make([]float32, cfg.Period+1),
		cw:       mix.CosW(mix.LowPassFreqRef, float64(cfg.SampleRate)),
	}
	d.settled.Store(true)
	for _, opt := range opts {
		opt(d)
	}

	d.log.WithFields(logrus.Fields{
		"rate":     cfg.SampleRate,
		"channels": cfg.Channels,
		"period":   cfg.Period,
		"kernel":   kernel.Name,
	}).Info("device opened")

	return d, nil
}

// Config is the configuration the device was opened with.
func (d *Device) Config() Config { return d.cfg }

// Kernel is the accumulator implementation the device mixes with.
func (d *Device) Kernel() mix.Kernel { return d.ctx.Kernel() }

// Play queues v to start from its first frame at the next period. Playing
// a voice that is already playing restarts it. A new voice is refused with
// ErrTooManyVoices once the playing and queued voices reach
// Config.MaxVoices.
func (d *Device) Play(v *Voice) error {
	if v.buf == nil {
		return ErrNoBuffer
	}
	if v.buf.SampleRate() != d.cfg.SampleRate {
		return fmt.Errorf("%w: buffer %d Hz, device %d Hz", ErrFormatMismatch, v.buf.SampleRate(), d.cfg.SampleRate)
	}
	if v.State() != Playing && int(d.active.Load()+d.pending.Load()) >= d.cfg.MaxVoices {
		d.log.WithFields(logrus.Fields{
			"voice": v.id,
			"limit": d.cfg.MaxVoices,
		}).Warn("voice limit reached")
		return ErrTooManyVoices
	}

	return d.send(request{op: opPlay, voice: v})
}

// Stop queues v to fade out over the next period.
func (d *Device) Stop(v *Voice) error {
	return d.send(request{op: opStop, voice: v})
}

func (d *Device) send(req request) error {
	if d.closed.Load() {
		return ErrClosed
	}

	fields := logrus.Fields{"voice": req.voice.id, "op": req.op}
	d.pending.Add(1)
	select {
	case d.requests <- req:
		d.log.WithFields(fields).Debug("request queued")
		return nil
	default:
		d.pending.Add(-1)
		d.log.WithFields(fields).Warn("control queue full")
		return ErrQueueFull
	}
}

// Active is the number of voices that were playing after the last period.
func (d *Device) Active() int { return int(d.active.Load()) }

// Idle reports whether nothing is playing and no request is waiting. It is
// safe to call while another goroutine renders.
func (d *Device) Idle() bool {
	return d.pending.Load() == 0 && d.active.Load() == 0
}

// Settled reports whether the last period left no click correction to fade
// out. An idle device that is also settled renders only silence.
func (d *Device) Settled() bool { return d.settled.Load() }

// drain applies every queued request without blocking.
func (d *Device) drain() {
	for {
		select {
		case req := <-d.requests:
			d.apply(req)
			d.pending.Add(-1)
		default:
			return
		}
	}
}

func (d *Device) apply(req request) {
	v := req.voice

	switch req.op {
	case opPlay:
		if v.State() != Playing {
			// Play checks the limit before queueing; racing callers can
			// still overshoot it and the extra voice is dropped here.
			if len(d.voices) == cap(d.voices) {
				v.state.Store(int32(Stopped))
				return
			}
			d.voices = append(d.voices, v)
			d.active.Store(int32(len(d.voices)))
		}
		v.start()
	case opStop:
		if v.State() == Playing {
			v.stopping = true
		}
	}
}

// mixPeriod renders n frames, n at most one period, into the dry buffer.
func (d *Device) mixPeriod(n int) {
	d.drain()
	d.ctx.Begin(n)

	kept := d.voices[:0]
	for _, v := range d.voices {
		if v.render(d.ctx, d.scratch, n, d.cw) {
			v.state.Store(int32(Stopped))
			continue
		}
		kept = append(kept, v)
	}
	clear(d.voices[len(kept):])
	d.voices = kept

	d.ctx.Finish(n)
	// settled is published before active so that a reader who sees the
	// last voice gone also sees the ledger state of that period.
	d.settled.Store(d.ctx.Settled())
	d.active.Store(int32(len(kept)))
}

// Render fills dst with as many whole frames as fit, in period-sized
// passes, and returns the number of samples written. It returns 0 once the
// device is closed.
func (d *Device) Render(dst []float32) int {
	if d.closed.Load() {
		return 0
	}

	channels := d.cfg.Channels
	frames := len(dst) / channels
	written := 0
	for frames > 0 {
		n := min(frames, d.cfg.Period)
		d.mixPeriod(n)
		written += d.ctx.Interleave(dst[written:], n)
		frames -= n
	}

	return written
}

// Run renders one period after another into sink until ctx is cancelled,
// the device is closed or the sink fails. A period already being rendered
// is always written before Run returns.
func (d *Device) Run(ctx context.Context, sink Sink) error {
	if d.closed.Load() {
		return ErrClosed
	}
	if !d.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer d.running.Store(false)

	d.log.Info("render loop started")
	defer d.log.Info("render loop stopped")

	buf := make([]float32, d.cfg.Period*d.cfg.Channels)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n := d.Render(buf)
		if n == 0 {
			return nil
		}
		if err := sink.WritePeriod(buf[:n]); err != nil {
			d.log.WithError(err).Error("sink write failed")
			return fmt.Errorf("writing period: %w", err)
		}
	}
}

// Close stops accepting requests and ends Run and Render. Closing twice is
// a no-op.
func (d *Device) Close() error {
	d.once.Do(func() {
		d.closed.Store(true)
		d.log.Info("device closed")
	})

	return nil
}
