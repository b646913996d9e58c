// SPDX-License-Identifier: EPL-2.0

package mix

// Context is the render state of one output device: the dry buffer every
// source is mixed into and the click-removal ledger. It lives from device
// open to device close and is only touched by the render goroutine.
type Context struct {
	channels int
	dry      []Frame
	ledger   Ledger
	kernel   Kernel
}

// NewContext allocates a context for channels output channels and periods of
// up to period samples. A zero Kernel selects DetectKernel.
func NewContext(channels, period int, k Kernel) (*Context, error) {
	if channels < 1 || channels > MaxChannels {
		return nil, ErrInvalidChannels
	}
	if period < 1 {
		return nil, ErrInvalidPeriod
	}
	if k.direct == nil {
		k = DetectKernel()
	}

	return &Context{
		channels: channels,
		dry:      make([]Frame, period),
		kernel:   k,
	}, nil
}

func (c *Context) Channels() int  { return c.channels }
func (c *Context) Period() int    { return len(c.dry) }
func (c *Context) Kernel() Kernel { return c.kernel }

// Ledger returns the live ledger, not a copy. Changes through it affect the
// next Finish.
func (c *Context) Ledger() *Ledger { return &c.ledger }

// Settled reports whether the ledger has nothing left to fade out.
func (c *Context) Settled() bool { return c.ledger.Settled() }

// Dry exposes the dry buffer. Callers may add to it between Begin and Finish.
func (c *Context) Dry() []Frame { return c.dry }

// Begin clears the first n frames of the dry buffer for a new period.
func (c *Context) Begin(n int) {
	clear(c.dry[:n])
}

// MixDirect filters one block of a source channel, scales it by the
// channel's gain row and adds it to the dry buffer, recording boundary
// corrections in the ledger.
func (c *Context) MixDirect(p *DirectParams, srcChan int, b Block) {
	c.kernel.direct(c, p, srcChan, b)
}

// Finish runs the click-removal stage over the first n frames.
func (c *Context) Finish(n int) {
	c.ledger.Apply(c.dry[:n], c.channels)
}

// Interleave copies the first n frames into dst as interleaved samples of
// the context's channels and returns the number of samples written.
func (c *Context) Interleave(dst []float32, n int) int {
	ch := c.channels
	for i := range n {
		copy(dst[i*ch:(i+1)*ch], c.dry[i][:ch])
	}

	return n * ch
}

// Reset zeroes the dry buffer and the ledger.
func (c *Context) Reset() {
	clear(c.dry)
	c.ledger.Reset()
}
