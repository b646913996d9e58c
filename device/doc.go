// SPDX-License-Identifier: EPL-2.0

// Package device turns the mixer into a playable output: voices holding
// decoded buffers, a control queue and a period-by-period render loop.
//
// A Device owns one mix.Context. Every period it applies queued Play and
// Stop requests, lets each playing voice mix its block into the dry buffer,
// runs click removal and interleaves the result.
//
//	dev, err := device.Open(device.DefaultConfig())
//	if err != nil {
//	    // handle error
//	}
//	defer dev.Close()
//
//	v := device.NewVoice(buf)
//	v.SetParams(device.Params{Gain: 0.8, Pan: -0.5, GainHF: 1})
//	if err := dev.Play(v); err != nil {
//	    // handle error
//	}
//
//	out := make([]float32, 2048)
//	n := dev.Render(out)
//
// # Threading
//
// Play, Stop, Close and the Voice setters can be called from any goroutine.
// Parameter changes are published as immutable snapshots and picked up at
// the next period boundary, where the gains ramp to their new values over
// the whole period. The render side never blocks, logs or allocates once
// the device is open. Play refuses voices beyond Config.MaxVoices with
// ErrTooManyVoices.
//
// Idle and Settled may be polled from any goroutine. A device that is both
// idle and settled has nothing left to play and renders silence.
//
// Rendering is driven by exactly one of Render, Run or a Reader at a time.
//
// # Sample rates
//
// Devices do not resample. Play rejects buffers whose rate differs from the
// device rate with ErrFormatMismatch.
package device
