// SPDX-License-Identifier: EPL-2.0

package device

import (
	"math"

	"github.com/ik5/audmix/mix"
)

// PanGains returns the gains source channel srcChan of a srcChannels-wide
// buffer should be mixed with onto an outChannels-wide device.
//
// Mono sources are panned between front left and front right with a
// constant-power law. Other sources map channel i onto output i, folding
// the channels the device lacks onto its last channel.
func PanGains(p Params, srcChannels, srcChan, outChannels int) mix.Frame {
	var g mix.Frame

	if srcChannels == 1 {
		if outChannels == 1 {
			g[mix.FrontLeft] = p.Gain
			return g
		}

		angle := float64(p.Pan+1) * math.Pi / 4
		g[mix.FrontLeft] = p.Gain * float32(math.Cos(angle))
		g[mix.FrontRight] = p.Gain * float32(math.Sin(angle))
		return g
	}

	out := min(srcChan, outChannels-1)
	g[out] = p.Gain

	return g
}
