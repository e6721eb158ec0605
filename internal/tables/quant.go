package tables

import "math"

// StepTab holds steptab[i] ~= 2^((127-i)/4) for i in 0..127, the
// quantizer step-size table used by the non-linear quantization
// primitive (§4.4.1). global_gain is derived from the same exponent
// family via global_gain = 210 + quantizer_step_size.
var StepTab [128]float64

func init() {
	for i := range StepTab {
		StepTab[i] = math.Pow(2, float64(127-i)/4)
	}
}

// Int2Idx holds round(v^0.75) for v in [0, 9999], the precomputed table
// used to avoid a floating-point pow() call per coefficient in the
// quantization inner loop (§4.4.1).
var Int2Idx [10000]int32

func init() {
	for v := range Int2Idx {
		Int2Idx[v] = int32(math.Round(math.Pow(float64(v), 0.75)))
	}
}

// MaxQuantizedMagnitude is the saturation ceiling for |ix[i]| (§4.4.1,
// §8): exceeding it means the step size is too small, and the inner
// loop's search moves to a coarser step (a larger global_gain).
const MaxQuantizedMagnitude = 8191

// MaxBigValues is the clamp on big_values (§4.4.2, §8).
const MaxBigValues = 288

// MaxPart23Length is the clamp on part2_3_length (§3, §8).
const MaxPart23Length = 4095

// MaxGlobalGain is the clamp on global_gain (§3, §8).
const MaxGlobalGain = 255
