// Package pipeline orchestrates one encoder instance's per-frame work:
// subband analysis, MDCT, quantization, SCFSI, bit-reservoir
// accounting, and frame formatting, in the order spec.md section 4.9
// lays out.
package pipeline

import (
	"github.com/shine-mp3/shine/internal/bitstream"
	"github.com/shine-mp3/shine/internal/frameformat"
	"github.com/shine-mp3/shine/internal/l3"
	"github.com/shine-mp3/shine/internal/mdct"
	"github.com/shine-mp3/shine/internal/quant"
	"github.com/shine-mp3/shine/internal/reservoir"
	"github.com/shine-mp3/shine/internal/subband"
	"github.com/shine-mp3/shine/internal/tables"
)

// SCFSI thresholds (§4.4.7), named for the standard's own constants.
const (
	enSCFSI = 10.0
	xmSCFSI = 10.0
	enTot   = 10.0
	enDif   = 100.0
)

// Stats accumulates per-encoder diagnostics a caller may inspect.
type Stats struct {
	FramesEncoded  int
	SilentGranules int
	BytesEmitted   int
}

// Pipeline holds all per-encoder-instance mutable state: subband and
// MDCT history per channel, the bit reservoir, frame-sizing
// accumulators, and the reusable per-frame bitstream writer.
type Pipeline struct {
	Version      tables.Version
	SampleRate   int
	Channels     int
	BitrateIndex int
	SampleRateIx int
	HeaderFields frameformat.HeaderFields

	analyzers [2]*subband.Analyzer
	mdcts     [2]*mdct.Transformer

	resv    *reservoir.Reservoir
	sizing  tables.FrameSizing
	fracAcc int

	writer *bitstream.Writer
	stats  Stats
}

// New constructs a Pipeline for the given configuration. sizing must
// already be computed via tables.ComputeFrameSizing.
func New(ver tables.Version, sampleRate, channels, bitrateIdx, sampleRateIdx int, sizing tables.FrameSizing, hdr frameformat.HeaderFields) *Pipeline {
	p := &Pipeline{
		Version:      ver,
		SampleRate:   sampleRate,
		Channels:     channels,
		BitrateIndex: bitrateIdx,
		SampleRateIx: sampleRateIdx,
		HeaderFields: hdr,
		sizing:       sizing,
		writer:       bitstream.NewWriter(sizing.WholeSlotsPerFrame + 1),
	}
	for ch := 0; ch < channels; ch++ {
		p.analyzers[ch] = subband.NewAnalyzer()
		p.mdcts[ch] = mdct.NewTransformer()
	}
	p.resv = reservoir.New(sizing.MeanBits, channels)
	return p
}

// Stats returns a snapshot of the encoder's running diagnostics.
func (p *Pipeline) Stats() Stats { return p.stats }

// MainDataBeginOverflow is the largest value main_data_begin's 9-bit
// side-info field can represent (§4.8); a larger value would signal a
// reservoir-accounting defect.
const MainDataBeginOverflow = 511

// EncodeFrame consumes one frame's worth of PCM (pcm[ch] holds exactly
// granulesPerFrame*576 samples for channel ch) and returns the encoded
// frame's bytes, per spec.md section 4.9. ok is false only if the bit
// reservoir's accounting produced a main_data_begin value too large for
// its 9-bit field, which should not happen if reservoir bounds hold.
func (p *Pipeline) EncodeFrame(pcm [][]int16) (frame []byte, ok bool) {
	granules := p.Version.GranulesPerFrame()

	var si l3.SideInfo
	si.MainDataBegin = p.resv.MainDataBegin()
	if si.MainDataBegin > MainDataBeginOverflow {
		return nil, false
	}

	var xr [2][2][576]float64 // [granule][channel]
	for g := 0; g < granules; g++ {
		for ch := 0; ch < p.Channels; ch++ {
			var sb [18][32]int32
			for iter := 0; iter < 18; iter++ {
				start := (g*18 + iter) * 32
				sb[iter] = p.analyzers[ch].Analyze(pcm[ch][start : start+32])
			}
			xr[g][ch] = p.mdcts[ch].Transform(sb)
		}
	}

	pe := peEstimate(xr, granules, p.Channels)

	for g := 0; g < granules; g++ {
		for ch := 0; ch < p.Channels; ch++ {
			maxBits := p.resv.MaxReservoirBits(pe)
			gr := quant.Quantize(xr[g][ch], p.SampleRate, maxBits)
			if gr.Part2_3Length > maxBits {
				gr = silentGrInfo()
				p.stats.SilentGranules++
			}
			p.resv.Adjust(gr.Part2_3Length)
			si.Granules[g][ch] = gr
		}
	}

	if p.Version == tables.MPEG1 {
		computeSCFSI(&si, p.Channels)
		p.correctGranule1ScalefacBits(&si)
	}

	stuffing := p.resv.FrameEnd()
	p.resv.SetDrain(stuffing)

	padding := p.advancePadding()
	targetBytes := p.sizing.WholeSlotsPerFrame
	if padding {
		targetBytes++
	}
	p.HeaderFields.Padding = padding

	frameformat.WriteHeader(p.writer, p.HeaderFields)
	frameformat.WriteSideInfo(p.writer, p.Version, p.Channels, &si)
	frameformat.WriteMainData(p.writer, p.Version, p.Channels, p.SampleRate, &si)
	frameformat.WriteStuffing(p.writer, p.resv.TakeDrain(), targetBytes)

	out := p.writer.Take()
	p.stats.FramesEncoded++
	p.stats.BytesEmitted += len(out)
	return out, true
}

// advancePadding implements §4.1's fractional-slot padding decision.
func (p *Pipeline) advancePadding() bool {
	p.fracAcc += p.sizing.FracNumerator
	if p.fracAcc >= 1000 {
		p.fracAcc -= 1000
		return true
	}
	return false
}

func silentGrInfo() l3.GrInfo {
	return l3.GrInfo{Silent: true}
}

// correctGranule1ScalefacBits resolves the declared-vs-actual bit gap
// SCFSI (§4.4.7) opens up: quant.Quantize sets granule 1's
// part2_3_length assuming every scalefactor is transmitted, but
// writeScalefactors omits any band group si.Scfsi marks reused from
// granule 0. Once SCFSI is known, shrink part2_3_length to the bits
// actually written and credit the difference back to the reservoir,
// whose Adjust already charged for the inflated value.
func (p *Pipeline) correctGranule1ScalefacBits(si *l3.SideInfo) {
	for ch := 0; ch < p.Channels; ch++ {
		gr := &si.Granules[1][ch]
		actual := frameformat.ActualScalefactorBits(p.Version, si, 1, ch, gr)
		corrected := actual + gr.CodeBits
		if savings := gr.Part2_3Length - corrected; savings > 0 {
			gr.Part2_3Length = corrected
			p.resv.Credit(savings)
		}
	}
}

// peEstimate approximates perceptual entropy with a fixed scalar
// derived from the granules' peak coefficient magnitude, per spec.md
// section 4.6's "pe approximated by a fixed scalar... when no
// psycho-model is present" and resolved in SPEC_FULL.md section 8.
func peEstimate(xr [2][2][576]float64, granules, channels int) float64 {
	var maxAbs float64
	for g := 0; g < granules; g++ {
		for ch := 0; ch < channels; ch++ {
			for _, v := range xr[g][ch] {
				if v < 0 {
					v = -v
				}
				if v > maxAbs {
					maxAbs = v
				}
			}
		}
	}
	if maxAbs == 0 {
		return 0
	}
	// Bounded, monotonic in signal level; avoids requiring a full
	// psychoacoustic model while still letting max_reservoir_bits react
	// to louder material (spec.md section 4.6).
	pe := 100 * (1 - 1/(1+maxAbs/1e6))
	return pe
}

// computeSCFSI implements spec.md section 4.4.7: after both granules of
// a channel are quantized, compare per-band energies and, where similar
// enough, mark the band group reusable so granule 1 omits its own
// scalefactors for that group.
func computeSCFSI(si *l3.SideInfo, channels int) {
	groups := [4][2]int{{0, 6}, {6, 11}, {11, 16}, {16, 21}}

	for ch := 0; ch < channels; ch++ {
		gr0 := &si.Granules[0][ch]
		gr1 := &si.Granules[1][ch]
		for gi, grp := range groups {
			var en0, en1, dif float64
			for band := grp[0]; band < grp[1]; band++ {
				e0 := float64(gr0.Scalefactors[band])
				e1 := float64(gr1.Scalefactors[band])
				en0 += e0 * e0
				en1 += e1 * e1
				d := e0 - e1
				dif += d * d
			}
			total := en0 + en1
			similar := total < enTot || (dif < enDif && en0 < enSCFSI*enDif && en1 < xmSCFSI*enDif)
			if similar {
				si.Scfsi[ch][gi] = 1
			} else {
				si.Scfsi[ch][gi] = 0
			}
		}
	}
}
