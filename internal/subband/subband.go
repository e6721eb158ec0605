// Package subband implements the Layer III polyphase analysis filter
// (spec.md section 4.2): a 512-sample sliding history per channel that
// turns 32 new PCM samples into 32 subband outputs.
package subband

import "github.com/shine-mp3/shine/internal/tables"

// Analyzer holds one channel's 512-sample PCM history and ring offset.
// A frame owns one Analyzer per channel, long-lived across granules.
type Analyzer struct {
	x   [512]int32
	off int
}

// NewAnalyzer returns an Analyzer with a zeroed history, matching the
// standard's requirement that the encoder behave as if preceded by
// silence.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze shifts 32 new PCM samples into the history and returns the
// 32 subband outputs s[0..31], per spec.md section 4.2's analyze
// operation. pcm must contain exactly 32 int16 samples for one channel.
func (a *Analyzer) Analyze(pcm []int16) [32]int32 {
	if len(pcm) != 32 {
		panic("subband: Analyze requires exactly 32 samples")
	}

	// Step 1: shift the 32 new samples (scaled s<<16) into the head of
	// the history at the current offset, newest sample first as the
	// standard's reference analysis loop does.
	for i := 0; i < 32; i++ {
		pos := (a.off - i + 511) % 512
		a.x[pos] = int32(pcm[i]) << 16
	}

	// Step 2: windowing. y[i] = sum_k x[(off+i+k*64) mod 512] * enwindow[i+k*64]
	var y [64]int32
	for i := 0; i < 64; i++ {
		var acc int64
		for k := 0; k < 8; k++ {
			idx := (a.off + i + k*64) % 512
			acc += int64(a.x[idx]) * int64(tables.EnWindow[i+k*64])
		}
		y[i] = int32(acc >> 32)
	}

	// Step 3: advance the ring offset.
	a.off = (a.off + 480) % 512

	// Step 4: filter. s[b] = sum_j fl[b][j] * y[j], accumulated at 64-bit
	// precision and brought back to Q31 the same way the windowing step
	// does.
	var s [32]int32
	for b := 0; b < 32; b++ {
		var acc int64
		for j := 0; j < 64; j++ {
			acc += int64(tables.AnalysisMatrix[b][j]) * int64(y[j])
		}
		s[b] = int32(acc >> 32)
	}
	return s
}
