// SPDX-License-Identifier: EPL-2.0

package device

import (
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/mix"
)

// State is the playback state of a voice.
type State int32

const (
	Initial State = iota
	Playing
	Stopped
)

func (s State) String() string {
	switch s {
	case Initial:
		return "initial"
	case Playing:
		return "playing"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Params are the user-facing mixing parameters of a voice.
type Params struct {
	// Gain is the linear volume, 0 or more.
	Gain float32
	// Pan places a mono voice between -1 (left) and 1 (right).
	Pan float32
	// GainHF is the linear gain at 5 kHz of the voice's low-pass filter,
	// between 0 and 1. 1 leaves the signal unfiltered.
	GainHF float32
}

// DefaultParams plays a voice unfiltered at unity gain, centred.
func DefaultParams() Params {
	return Params{Gain: 1, GainHF: 1}
}

func (p Params) sanitize() Params {
	p.Gain = max(p.Gain, 0)
	p.Pan = min(max(p.Pan, -1), 1)
	p.GainHF = min(max(p.GainHF, 0), 1)
	return p
}

// Voice is one playing instance of a buffer.
//
// SetParams, SetLoop and State are safe to call from any goroutine. Every
// other field is owned by the render goroutine of the device playing the
// voice.
type Voice struct {
	id     uuid.UUID
	buf    *audio.Buffer
	params atomic.Pointer[Params]
	loop   atomic.Bool
	state  atomic.Int32

	// render goroutine only
	cursor   int
	fresh    bool
	stopping bool
	direct   mix.DirectParams
}

func NewVoice(buf *audio.Buffer) *Voice {
	v := &Voice{id: uuid.New(), buf: buf}
	p := DefaultParams()
	v.params.Store(&p)

	return v
}

func (v *Voice) ID() uuid.UUID         { return v.id }
func (v *Voice) Buffer() *audio.Buffer { return v.buf }
func (v *Voice) State() State          { return State(v.state.Load()) }
func (v *Voice) Params() Params        { return *v.params.Load() }
func (v *Voice) Looping() bool         { return v.loop.Load() }

// SetParams publishes new parameters. The render goroutine picks them up at
// the start of the next period and ramps towards them across it.
func (v *Voice) SetParams(p Params) {
	p = p.sanitize()
	v.params.Store(&p)
}

// SetLoop makes the voice restart from its first frame when it reaches the end.
func (v *Voice) SetLoop(loop bool) {
	v.loop.Store(loop)
}

// start rewinds the voice and clears its filter and gain state.
func (v *Voice) start() {
	v.cursor = 0
	v.fresh = true
	v.stopping = false
	v.direct.Reset()
	v.state.Store(int32(Playing))
}

// render mixes the next n frames of the voice into ctx. It reports whether
// the voice is finished after this period.
func (v *Voice) render(ctx *mix.Context, scratch []float32, n int, cw float32) bool {
	p := v.params.Load()
	srcChannels := v.buf.Channels()
	outChannels := ctx.Channels()
	coeff := mix.LowPassCoeff(p.GainHF, cw)

	for c := range srcChannels {
		v.direct.Filters[c].Coeff = coeff

		var target mix.Frame
		if !v.stopping {
			target = PanGains(*p, srcChannels, c, outChannels)
		}

		row := &v.direct.Gains[c]
		switch {
		case v.fresh:
			row.Set(target)
		case row.Target() != target:
			row.Ramp(target, n)
		}
	}
	v.fresh = false

	frames := v.buf.Frames()
	loop := v.loop.Load()
	ended := false

	pos := 0
	for pos < n {
		left := frames - v.cursor
		if left <= 0 {
			if loop && frames > 0 {
				v.cursor = 0
				continue
			}

			// Run the filter over silence to the end of the period so the
			// voice decays instead of cutting off.
			pad := scratch[:n-pos]
			clear(pad)
			for c := range srcChannels {
				ctx.MixDirect(&v.direct, c, mix.Block{Data: pad, Offset: pos, Length: len(pad), Total: n})
			}
			ended = true
			break
		}

		length := min(n-pos, left)
		end := v.cursor + length
		wrap := end == frames && loop

		for c := range srcChannels {
			src := v.buf.Channel(c)

			var data []float32
			switch {
			case end < frames:
				data = src[v.cursor : end+1]
			case wrap:
				data = scratch[:length+1]
				copy(data, src[v.cursor:end])
				data[length] = src[0]
			default:
				data = src[v.cursor:end]
			}

			ctx.MixDirect(&v.direct, c, mix.Block{Data: data, Offset: pos, Length: length, Total: n})
		}

		v.cursor = end
		pos += length
	}

	return ended || v.stopping
}
