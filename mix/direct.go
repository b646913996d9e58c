// SPDX-License-Identifier: EPL-2.0

package mix

import "fmt"

// DirectParams is the per-source state of the direct mixing path, indexed by
// source channel.
type DirectParams struct {
	Filters [MaxChannels]LowPass
	Gains   [MaxChannels]GainRow
}

// Reset clears filter history and gains, ready for a new voice.
func (p *DirectParams) Reset() {
	for i := range p.Filters {
		p.Filters[i].Reset()
		p.Gains[i].Set(Frame{})
	}
}

// Block describes one run of samples of a single source channel.
type Block struct {
	// Data holds at least Length samples. When it holds one more, that
	// sample is the one that follows the block; otherwise silence follows.
	Data []float32
	// Offset is where the block starts within the period.
	Offset int
	// Length is the number of samples to mix.
	Length int
	// Total is the number of samples rendered this period.
	Total int
}

func (b Block) next() float32 {
	if len(b.Data) > b.Length {
		return b.Data[b.Length]
	}
	return 0
}

func (c *Context) checkBlock(srcChan int, b Block) {
	switch {
	case srcChan < 0 || srcChan >= MaxChannels:
		panic(fmt.Sprintf("mix: source channel %d out of range", srcChan))
	case b.Offset < 0 || b.Length < 0:
		panic(fmt.Sprintf("mix: negative block geometry offset=%d length=%d", b.Offset, b.Length))
	case b.Offset+b.Length > b.Total || b.Total > len(c.dry):
		panic(fmt.Sprintf("mix: block [%d,%d) exceeds period %d (capacity %d)",
			b.Offset, b.Offset+b.Length, b.Total, len(c.dry)))
	case len(b.Data) < b.Length:
		panic(fmt.Sprintf("mix: block has %d samples, want %d", len(b.Data), b.Length))
	}
}

func mixDirect[A accumulator](c *Context, p *DirectParams, srcChan int, b Block) {
	if b.Length == 0 {
		return
	}
	c.checkBlock(srcChan, b)

	var acc A
	filter := &p.Filters[srcChan]
	row := &p.Gains[srcChan]
	dry := c.dry[b.Offset : b.Offset+b.Length]

	if b.Offset == 0 {
		acc.accumulate(&c.ledger.Pre, -filter.Peek(b.Data[0]), &row.Current)
	}

	for i, s := range b.Data[:b.Length] {
		acc.accumulate(&dry[i], filter.Apply(s), &row.Current)
		row.Advance()
	}

	if b.Offset+b.Length == b.Total {
		acc.accumulate(&c.ledger.Post, filter.Peek(b.next()), &row.Current)
	}
}
