// SPDX-License-Identifier: EPL-2.0

// Package mix implements the direct-path channel mixer and its click
// suppression bookkeeping.
//
// A device renders audio one period at a time. During a period every playing
// source channel is filtered, scaled by a row of per-output-channel gains and
// added into a shared dry buffer owned by a render Context:
//
//	ctx, _ := mix.NewContext(2, 1024, mix.DetectKernel())
//	ctx.Begin(1024)
//	ctx.MixDirect(&params, 0, mix.Block{
//	    Data:   samples, // Length samples, optionally followed by the next one
//	    Offset: 0,
//	    Length: 1024,
//	    Total:  1024,
//	})
//	ctx.Finish(1024)
//
// # Gain Rows
//
// Each source channel carries a GainRow: the gain currently applied to every
// output channel and a per-sample step. Ramping a row over a block spreads a
// gain change linearly across the block so that the row lands on its target
// after the last sample.
//
// # Click Removal
//
// When a block starts at the first sample of the period, the filtered value
// of its first sample is pre-cancelled into the ledger's Pre frame. When a
// block ends at the last sample of the period, the filtered value of the
// sample that would follow is recorded in the ledger's Post frame. Finish
// adds Pre into the dry buffer with an exponential decay and then folds Post
// into Pre for the next period. A source that keeps playing cancels its own
// entries; a source that starts or stops fades in or out instead of jumping.
//
// # Kernels
//
// The accumulate step is provided by interchangeable kernels that unroll the
// channel loop into lanes of 1, 2 or 4 channels. They are plain Go, not
// assembly, so the lane shapes only help the compiler schedule the loop. All
// of them use the same multiply-then-add order with explicit float32
// rounding, so they produce bit-identical results. DetectKernel picks one by
// CPU features.
//
// # Real-time Use
//
// Nothing in the mixing path allocates, locks or blocks. Invalid block
// geometry is a programming error and panics.
package mix
