// SPDX-License-Identifier: EPL-2.0

package mix

import "math"

// LowPassFreqRef is the frequency, in Hz, at which a filter's high-frequency
// gain is specified.
const LowPassFreqRef = 5000.0

// LowPass is a two-pole recursive low-pass filter. The zero value passes
// samples through unchanged.
//
// Coeff must not change while a block is being mixed.
type LowPass struct {
	Coeff   float32
	history [2]float32
}

// Apply filters in and advances the filter history.
func (f *LowPass) Apply(in float32) float32 {
	a := f.Coeff
	out := in
	out += float32((f.history[0] - out) * a)
	f.history[0] = out
	out += float32((f.history[1] - out) * a)
	f.history[1] = out

	return out
}

// Peek returns what Apply would return for in, leaving the history untouched.
// It is used to predict boundary samples for click removal.
func (f *LowPass) Peek(in float32) float32 {
	a := f.Coeff
	out := in
	out += float32((f.history[0] - out) * a)
	out += float32((f.history[1] - out) * a)

	return out
}

// Reset clears the filter history.
func (f *LowPass) Reset() {
	f.history = [2]float32{}
}

// CosW returns cos(2*pi*freq/sampleRate), the normalized angular frequency
// term used by LowPassCoeff.
func CosW(freq, sampleRate float64) float32 {
	return float32(math.Cos(2 * math.Pi * freq / sampleRate))
}

// LowPassCoeff computes the filter coefficient that attenuates frequencies
// around cw to gainHF. A gain of (almost) 1 yields 0, a pass-through filter.
func LowPassCoeff(gainHF, cw float32) float32 {
	if gainHF >= 0.9999 {
		return 0
	}

	// Gains below 0.001 push the coefficient towards 1 and flatten the signal.
	g := max(gainHF, 0.001)
	root := float32(math.Sqrt(float64(2*g*(1-cw) - g*g*(1-cw*cw))))

	return (1 - g*cw - root) / (1 - g)
}
