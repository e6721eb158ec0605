// Package mdct implements the Layer III long-block MDCT, its window,
// and the inter-subband aliasing-reduction butterflies (spec.md
// section 4.3).
package mdct

import "github.com/shine-mp3/shine/internal/tables"

// Transformer carries the one piece of state the MDCT needs across
// granules: each subband's trailing 18 windowed samples, overlapped
// into the next granule's transform.
type Transformer struct {
	overlap [32][18]float64
}

// NewTransformer returns a Transformer with zeroed overlap, matching
// the standard's silence-before-start convention.
func NewTransformer() *Transformer {
	return &Transformer{}
}

// Transform takes one granule's subband samples sb[18][32] (18 new
// samples per subband, per spec.md section 4.2's 18-calls-per-granule
// cadence) and returns xr[576], the frequency-domain coefficients for
// all 32 subbands concatenated in band-major order. It then applies
// the aliasing-reduction butterflies across the 31 subband boundaries.
func (t *Transformer) Transform(sb [18][32]int32) [576]float64 {
	var xr [576]float64

	for b := 0; b < 32; b++ {
		var w [36]float64
		for n := 0; n < 18; n++ {
			w[n] = t.overlap[b][n]
		}
		for n := 0; n < 18; n++ {
			w[18+n] = float64(sb[n][b])
		}
		for n := range w {
			w[n] *= tables.MDCTWindow[n]
		}

		for k := 0; k < 18; k++ {
			var acc float64
			row := tables.MDCTCos[k]
			for n := 0; n < 36; n++ {
				acc += w[n] * row[n]
			}
			xr[b*18+k] = acc
		}

		copy(t.overlap[b][:], w[18:])
	}

	applyAliasButterflies(&xr)
	return xr
}

// applyAliasButterflies reduces inter-subband aliasing at the 31
// boundaries between adjacent 18-sample subband blocks, per spec.md
// section 4.3's butterfly step.
func applyAliasButterflies(xr *[576]float64) {
	for boundary := 0; boundary < 31; boundary++ {
		base := boundary * 18
		for i := 0; i < 8; i++ {
			ai := base + 17 - i
			bi := base + 18 + i
			a, b := xr[ai], xr[bi]
			cs, ca := tables.ButterflyCS[i], tables.ButterflyCA[i]
			xr[ai] = a*cs - b*ca
			xr[bi] = b*cs + a*ca
		}
	}
}
