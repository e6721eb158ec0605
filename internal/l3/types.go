// Package l3 defines the Layer III per-frame data model shared by the
// quantization, Huffman, and frame-formatting stages: the granule-channel
// record (gr_info) and the frame's side information, per SPEC_FULL.md
// section 3.
package l3

// GrInfo is the per (granule, channel) record described in spec.md's
// data model table.
type GrInfo struct {
	Part2_3Length      int    // 0..4095: scalefactor + Huffman bits actually transmitted
	ScalefacBits       int    // full (pre-SCFSI-omission) scalefactor bit cost
	CodeBits           int    // Huffman-coded big_values+count1 bits, excluding scalefactors
	BigValues          int    // 0..288: coefficient pairs in the large-value region
	Count1             int    // quadruples in the count1 region
	GlobalGain         int    // 0..255
	ScalefacCompress   int    // 0..15
	TableSelect        [3]int // Huffman table per big_values region
	Region0Count       int
	Region1Count       int
	Preflag            int // 0..1
	ScalefacScale      int // 0..1
	Count1TableSelect  int // 0..1
	QuantizerStepSize  int // signed internal exponent

	Scalefactors [21]int // per long-block scalefactor band
	Quantized    [576]int32
	Sign         [576]bool

	// Silent marks a granule the quantization loop could not converge
	// for and that was replaced with a silence-equivalent granule
	// (spec.md section 4.9 FAILURE SEMANTICS).
	Silent bool
}

// ScalefacBits and CodeBits exist separately from Part2_3Length because
// SCFSI (§4.4.7) is only decided after both granules of a channel are
// quantized: quant.Quantize sets Part2_3Length to ScalefacBits+CodeBits
// assuming every scalefactor is transmitted, and the pipeline corrects
// Part2_3Length for granule 1 once SCFSI reuse is known, without
// re-running the Huffman bit count.

// Rzero returns the trailing-zero count implied by BigValues and
// Count1, per spec.md section 3's invariant
// 2*BigValues + 4*Count1 + Rzero == 576.
func (g *GrInfo) Rzero() int {
	return 576 - 2*g.BigValues - 4*g.Count1
}

// SideInfo is the per-frame side information (spec.md section 3).
type SideInfo struct {
	MainDataBegin int     // bytes
	PrivateBits   int
	Scfsi         [2][4]int // MPEG-1 only: per-channel, per band-group reuse flags
	Granules      [2][2]GrInfo // [granule][channel]
}
