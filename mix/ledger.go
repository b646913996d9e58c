// SPDX-License-Identifier: EPL-2.0

package mix

const (
	// Pending offsets smaller than one 16-bit step are inaudible and dropped.
	clickThreshold = 1.0 / 32768.0
	clickDecay     = 1.0 / 256.0
)

// Ledger records the jumps sources introduce at period boundaries.
//
// Pre holds corrections to fade out during the current period. Post holds
// corrections produced at the end of the current period; they move into Pre
// when the period is finished.
type Ledger struct {
	Pre  Frame
	Post Frame
}

// Apply fades the Pre corrections into dry for the first channels output
// channels and then carries Post over into Pre.
func (l *Ledger) Apply(dry []Frame, channels int) {
	for c := range channels {
		offset := l.Pre[c]
		if offset < clickThreshold && offset > -clickThreshold {
			offset = 0
		} else {
			for i := range dry {
				dry[i][c] += offset
				offset -= float32(offset * clickDecay)
			}
		}

		l.Pre[c] = offset + l.Post[c]
		l.Post[c] = 0
	}
}

// Settled reports whether no correction is left to fade out. Once a ledger
// with no sources feeding it is settled, every further period is silent.
func (l *Ledger) Settled() bool {
	var zero Frame
	return l.Pre == zero && l.Post == zero
}

// Reset drops every pending correction.
func (l *Ledger) Reset() {
	l.Pre = Frame{}
	l.Post = Frame{}
}
