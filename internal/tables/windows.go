package tables

import "math"

// Q31 is the fixed-point scale used by the analysis filter and MDCT
// kernels: a value v in [-1,1] is stored as round(v * 2^31).
const Q31 = float64(int64(1) << 31)

// EnWindow is the 512-tap polyphase prototype filter used by the
// subband analysis window (§4.2 step 2). The ISO standard tabulates this
// window as 512 empirically-derived constants; this implementation
// instead derives an equivalent low-pass prototype analytically (a
// Hann-windowed sinc, the standard way to design a cosine-modulated
// analysis filterbank prototype) because the literal ISO constants
// could not be reproduced here without a way to verify them against the
// standard. See DESIGN.md for the full rationale; every other analysis
// filter parameter (the fl matrix below) follows the exact closed-form
// formula spec.md §4.2 gives.
var EnWindow [512]int32

func init() {
	const n = 512
	for i := 0; i < n; i++ {
		// Sinc prototype centered at n/2, cutoff at 1/64 (one of 32
		// subbands' worth of bandwidth, consistent with a 32-band
		// polyphase filterbank), tapered by a Hann window.
		x := float64(i) - float64(n-1)/2
		var sinc float64
		if x == 0 {
			sinc = 1.0
		} else {
			arg := math.Pi * x / 32
			sinc = math.Sin(arg) / arg
		}
		hann := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
		v := sinc * hann
		EnWindow[i] = int32(math.Round(v * Q31 / 8))
	}
}

// AnalysisMatrix is fl[b][j] from spec.md §4.2:
//
//	fl[b][j] = round(1e9 * cos((2b+1)(16-j)*pi/64)) * 2^31 / 1e9
//
// stored as Q31 fixed point, for b,j in 0..31/0..63.
var AnalysisMatrix [32][64]int32

func init() {
	for b := 0; b < 32; b++ {
		for j := 0; j < 64; j++ {
			rounded := math.Round(1e9 * math.Cos(float64(2*b+1)*float64(16-j)*math.Pi/64))
			AnalysisMatrix[b][j] = int32(rounded * Q31 / 1e9)
		}
	}
}

// MDCTWindow is the long-block sine window h[n] = sin(pi*(n+0.5)/36),
// n=0..35 (§4.3 step 2).
var MDCTWindow [36]float64

func init() {
	for n := 0; n < 36; n++ {
		MDCTWindow[n] = math.Sin(math.Pi * (float64(n) + 0.5) / 36)
	}
}

// MDCTCos is cos_l[k][n] from spec.md §4.3 step 3:
//
//	X[k] = sum_n w[n] * cos((pi/72)(2n+1+18)(2k+1))
var MDCTCos [18][36]float64

func init() {
	for k := 0; k < 18; k++ {
		for n := 0; n < 36; n++ {
			MDCTCos[k][n] = math.Cos((math.Pi / 72) * float64(2*n+1+18) * float64(2*k+1))
		}
	}
}

// ButterflyCS and ButterflyCA are the eight aliasing-reduction butterfly
// constants from §4.3. The standard defines eight "Ci" prototype values;
// cs[i] = 1/sqrt(1+Ci^2), ca[i] = Ci*cs[i].
var (
	ButterflyCS [8]float64
	ButterflyCA [8]float64
)

var butterflyC = [8]float64{
	-0.6, -0.535, -0.33, -0.185, -0.095, -0.041, -0.0142, -0.0037,
}

func init() {
	for i, c := range butterflyC {
		cs := 1 / math.Sqrt(1+c*c)
		ButterflyCS[i] = cs
		ButterflyCA[i] = c * cs
	}
}
