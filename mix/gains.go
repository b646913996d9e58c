// SPDX-License-Identifier: EPL-2.0

package mix

// GainRow maps one source channel onto every output channel.
//
// Current is the gain applied to the next sample. While a ramp is active,
// Step is added to Current after each sample and the row snaps onto its
// target after the last step so rounding never accumulates across blocks.
type GainRow struct {
	Current Frame
	Step    Frame

	target Frame
	left   int
}

// Set applies target immediately with no ramp.
func (g *GainRow) Set(target Frame) {
	g.Current = target
	g.Step = Frame{}
	g.target = target
	g.left = 0
}

// Ramp moves the row linearly from Current to target over length samples.
func (g *GainRow) Ramp(target Frame, length int) {
	if length <= 0 || target == g.Current {
		g.Set(target)
		return
	}

	n := float32(length)
	for c := range g.Step {
		g.Step[c] = (target[c] - g.Current[c]) / n
	}
	g.target = target
	g.left = length
}

// Advance moves the row one sample along its ramp.
func (g *GainRow) Advance() {
	if g.left == 0 {
		return
	}

	g.left--
	if g.left == 0 {
		g.Current = g.target
		g.Step = Frame{}
		return
	}

	for c := range g.Current {
		g.Current[c] += g.Step[c]
	}
}

// Ramping reports whether a ramp is still in progress.
func (g *GainRow) Ramping() bool { return g.left > 0 }

// Target returns the gains the row is heading to.
func (g *GainRow) Target() Frame { return g.target }

// Silent reports whether the row contributes nothing now and will keep
// contributing nothing.
func (g *GainRow) Silent() bool {
	return g.left == 0 && g.Current == Frame{}
}
