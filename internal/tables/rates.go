// Package tables holds the fixed, process-wide read-only tables the
// encoder pipeline consults: sample-rate/bitrate indices, the analysis
// and MDCT cosine matrices, scalefactor-band boundaries, quantization
// step tables, and the Huffman code tables. Everything here is computed
// once (at package init) and never mutated, so it is safe to share
// across Encoder instances and goroutines, matching the ownership rule
// in SPEC_FULL.md section 3 ("tables are process-wide read-only").
package tables

import "fmt"

// Version identifies the MPEG audio version, which determines granules
// per frame and side-information layout.
type Version int

const (
	MPEG2_5 Version = iota
	MPEG2
	MPEG1
)

// GranulesPerFrame returns 2 for MPEG-1, 1 for MPEG-2/2.5.
func (v Version) GranulesPerFrame() int {
	if v == MPEG1 {
		return 2
	}
	return 1
}

// SamplesPerChannelFrame returns the PCM samples per channel carried by
// one encoded frame: 1152 for MPEG-1, 576 for MPEG-2/2.5.
func (v Version) SamplesPerChannelFrame() int {
	return v.GranulesPerFrame() * 576
}

// sampleRateGroups lists the nine standard sample rates in the fixed index
// order the header's 2-bit samplerate_index field and §6's version
// grouping use: group 0 is MPEG2.5, group 1 MPEG2, group 2 MPEG1.
var sampleRateGroups = [3][3]int{
	{11025, 12000, 8000}, // MPEG2.5
	{22050, 24000, 16000}, // MPEG2
	{44100, 48000, 32000}, // MPEG1
}

// SampleRateIndex returns the (version, index) pair for a sample rate,
// or ok=false if unsupported.
func SampleRateIndex(rate int) (ver Version, index int, ok bool) {
	for v := 0; v < 3; v++ {
		for i := 0; i < 3; i++ {
			if sampleRateGroups[v][i] == rate {
				return Version(v), i, true
			}
		}
	}
	return 0, 0, false
}

// bitrateTableMPEG1 holds, per bitrate index 1..14, the bitrate in kbps
// for MPEG-1 (index by samplerate group: 0=Layer III MPEG1 applies to
// all three MPEG1 rates identically per the standard).
var bitrateTableMPEG1 = [15]int{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320}

// bitrateTableMPEG2 holds the MPEG-2/2.5 Layer III bitrate table, shared
// across all six MPEG-2/2.5 sample rates.
var bitrateTableMPEG2 = [15]int{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160}

// BitrateIndex returns the 4-bit bitrate_index for a (version, kbps)
// pair, or ok=false if that bitrate is not valid for the version.
func BitrateIndex(ver Version, kbps int) (index int, ok bool) {
	table := &bitrateTableMPEG2
	if ver == MPEG1 {
		table = &bitrateTableMPEG1
	}
	for i := 1; i <= 14; i++ {
		if table[i] == kbps {
			return i, true
		}
	}
	return 0, false
}

// ValidPair reports whether (sampleRate, kbps) is a standard Layer III
// combination, per spec.md section 6's three rate groups: the MPEG-2.5
// rates (8000/11025/12000) accept only 8..64 kbps of the MPEG-2 table.
func ValidPair(sampleRate, kbps int) bool {
	ver, _, ok := SampleRateIndex(sampleRate)
	if !ok {
		return false
	}
	_, ok = BitrateIndex(ver, kbps)
	if ok && ver == MPEG2_5 && kbps > 64 {
		return false
	}
	return ok
}

// SideInfoBits returns the side-information length in bits, per §4.1:
// MPEG-I stereo 256, mono 136; MPEG-II/2.5 stereo 136, mono 72.
func SideInfoBits(ver Version, channels int) int {
	if ver == MPEG1 {
		if channels == 2 {
			return 256
		}
		return 136
	}
	if channels == 2 {
		return 136
	}
	return 72
}

// FrameSizing holds the per-frame slot accounting derived in §4.1.
type FrameSizing struct {
	WholeSlotsPerFrame int
	FracNumerator      int // avg_slots_per_frame fractional part, as numerator/1000
	MeanBits           int // mean_bits for one granule, summed across channels
}

// ComputeFrameSizing implements §4.1's avg_slots_per_frame /
// whole_slots_per_frame / mean_bits derivation.
func ComputeFrameSizing(ver Version, sampleRate, kbps, channels int) (FrameSizing, error) {
	granules := ver.GranulesPerFrame()
	sideinfo := SideInfoBits(ver, channels)

	// avg_slots_per_frame = (granules*576 / sample_rate) * (1000*bitrate/8)
	// computed in milli-slot units to keep whole/frac split exact.
	numerator := int64(granules) * 576 * 1000 * int64(kbps) * 1000 / 8
	denom := int64(sampleRate)
	if denom == 0 {
		return FrameSizing{}, fmt.Errorf("tables: zero sample rate")
	}
	milliSlots := numerator / denom // avg_slots_per_frame * 1000

	whole := int(milliSlots / 1000)
	frac := int(milliSlots % 1000)

	meanBits := (whole*8 - 32 - sideinfo) / granules
	if meanBits < 0 {
		meanBits = 0
	}

	return FrameSizing{
		WholeSlotsPerFrame: whole,
		FracNumerator:      frac,
		MeanBits:           meanBits,
	}, nil
}
