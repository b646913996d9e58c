// SPDX-License-Identifier: EPL-2.0

package utils

// Clamp limits x to the normalized sample range [-1, 1].
func Clamp(x float32) float32 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}

func Float32ToInt16(x float32) int16 {
	// Use 32767 for positive max to avoid overflow
	return int16(Clamp(x) * 32767.0)
}

// Float32ToPCM scales x to a signed integer sample of bitDepth bits
// (8 to 32). Values outside [-1, 1] are clamped first.
func Float32ToPCM(x float32, bitDepth int) int {
	if bitDepth == 16 {
		return int(Float32ToInt16(x))
	}

	full := float64(int64(1)<<(bitDepth-1) - 1)
	return int(float64(Clamp(x)) * full)
}

// PCMToFloat32 normalizes a signed integer sample of bitDepth bits to
// [-1, 1).
func PCMToFloat32(v int, bitDepth int) float32 {
	return float32(float64(v) / float64(int64(1)<<(bitDepth-1)))
}
