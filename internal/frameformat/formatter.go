// Package frameformat composes the header, side information, and main
// data of one Layer III frame onto a bitstream.Writer, in the exact
// field order spec.md section 4.8 specifies.
package frameformat

import (
	"github.com/shine-mp3/shine/internal/bitstream"
	"github.com/shine-mp3/shine/internal/huffman"
	"github.com/shine-mp3/shine/internal/l3"
	"github.com/shine-mp3/shine/internal/tables"
)

// HeaderFields carries the per-frame values the 32-bit header encodes
// beyond what's fixed at construction time.
type HeaderFields struct {
	Version       tables.Version
	BitrateIndex  int
	SampleRateIdx int
	Padding       bool
	Private       bool
	ModeIdx       int // 0=stereo, 1=joint, 2=dual, 3=mono
	ModeExt       int
	Copyright     bool
	Original      bool
	Emphasis      int
}

func boolBit(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// WriteHeader emits the 32-bit frame header (§4.8 step 1).
func WriteHeader(w *bitstream.Writer, h HeaderFields) {
	w.PutBits(0x7FF, 11)
	w.PutBits(uint32(versionBits(h.Version)), 2)
	w.PutBits(1, 2) // layer III
	w.PutBits(1, 1) // protection_absent: no CRC
	w.PutBits(uint32(h.BitrateIndex), 4)
	w.PutBits(uint32(h.SampleRateIdx), 2)
	w.PutBits(boolBit(h.Padding), 1)
	w.PutBits(boolBit(h.Private), 1)
	w.PutBits(uint32(h.ModeIdx), 2)
	w.PutBits(uint32(h.ModeExt), 2)
	w.PutBits(boolBit(h.Copyright), 1)
	w.PutBits(boolBit(h.Original), 1)
	w.PutBits(uint32(h.Emphasis), 2)
}

func versionBits(v tables.Version) int {
	switch v {
	case tables.MPEG1:
		return 3
	case tables.MPEG2:
		return 2
	default:
		return 0
	}
}

// WriteSideInfo emits main_data_begin, private_bits, scfsi (MPEG-1
// only), and every granule/channel's gr_info fields (§4.8 step 2).
func WriteSideInfo(w *bitstream.Writer, ver tables.Version, channels int, si *l3.SideInfo) {
	w.PutBits(uint32(si.MainDataBegin), 9)

	privBits := privateBitsWidth(ver, channels)
	w.PutBits(uint32(si.PrivateBits), privBits)

	if ver == tables.MPEG1 {
		for ch := 0; ch < channels; ch++ {
			for g := 0; g < 4; g++ {
				w.PutBits(uint32(si.Scfsi[ch][g]), 1)
			}
		}
	}

	granules := ver.GranulesPerFrame()
	sfCompressBits := 4
	if ver != tables.MPEG1 {
		sfCompressBits = 9
	}
	for g := 0; g < granules; g++ {
		for ch := 0; ch < channels; ch++ {
			gr := &si.Granules[g][ch]
			w.PutBits(uint32(gr.Part2_3Length), 12)
			w.PutBits(uint32(gr.BigValues), 9)
			w.PutBits(uint32(gr.GlobalGain), 8)
			w.PutBits(uint32(gr.ScalefacCompress), sfCompressBits)
			w.PutBits(0, 1) // window_switching_flag: always long blocks
			for _, ts := range gr.TableSelect {
				w.PutBits(uint32(ts), 5)
			}
			w.PutBits(uint32(gr.Region0Count), 4)
			w.PutBits(uint32(gr.Region1Count), 3)
			if ver == tables.MPEG1 {
				w.PutBits(uint32(gr.Preflag), 1)
			}
			w.PutBits(uint32(gr.ScalefacScale), 1)
			w.PutBits(uint32(gr.Count1TableSelect), 1)
		}
	}
}

// WriteStuffing emits resv_drain zero bits and then pads with zero
// bytes until the frame totals targetBytes, per §4.8 step 4.
func WriteStuffing(w *bitstream.Writer, drainBits, targetBytes int) {
	w.PutBits(0, drainBits)
	w.ByteAlign()
	for w.BytesWritten() < targetBytes {
		w.PutBits(0, 8)
	}
}

func privateBitsWidth(ver tables.Version, channels int) int {
	if ver == tables.MPEG1 {
		if channels == 1 {
			return 5
		}
		return 3
	}
	if channels == 1 {
		return 1
	}
	return 2
}

// WriteMainData emits scalefactors and Huffman-coded spectra for every
// granule/channel, respecting scfsi reuse (§4.8 step 3). sampleRate
// selects the scalefactor-band partition used to split big_values into
// its three Huffman-table regions.
func WriteMainData(w *bitstream.Writer, ver tables.Version, channels, sampleRate int, si *l3.SideInfo) {
	granules := ver.GranulesPerFrame()
	for g := 0; g < granules; g++ {
		for ch := 0; ch < channels; ch++ {
			gr := &si.Granules[g][ch]
			writeScalefactors(w, ver, si, g, ch, gr)
			writeSpectrum(w, gr, sampleRate)
		}
	}
}

func writeScalefactors(w *bitstream.Writer, ver tables.Version, si *l3.SideInfo, g, ch int, gr *l3.GrInfo) {
	widths := scalefactorWidths(ver, si, g, ch, gr)
	for band, width := range widths {
		if width == 0 {
			continue
		}
		w.PutBits(uint32(gr.Scalefactors[band]), width)
	}
}

// scalefactorWidths returns, per band, the bit width actually
// transmitted for granule g/channel ch: 0 for a zero-length scalefac_compress
// slot and for a granule-1 band whose SCFSI group is reused from granule 0.
func scalefactorWidths(ver tables.Version, si *l3.SideInfo, g, ch int, gr *l3.GrInfo) [tables.NumScalefactorBands]int {
	slen1, slen2 := tables.ScalefacCompress[gr.ScalefacCompress][0], tables.ScalefacCompress[gr.ScalefacCompress][1]
	var widths [tables.NumScalefactorBands]int
	for band := 0; band < tables.NumScalefactorBands; band++ {
		width := slen1
		if band >= 11 {
			width = slen2
		}
		if width == 0 {
			continue
		}
		if ver == tables.MPEG1 && g == 1 {
			groupIdx := scfsiGroup(band)
			if groupIdx >= 0 && si.Scfsi[ch][groupIdx] == 1 {
				continue // reused from granule 0, not re-transmitted
			}
		}
		widths[band] = width
	}
	return widths
}

// ActualScalefactorBits returns the scalefactor bits writeScalefactors
// will physically emit for granule g/channel ch, honoring SCFSI reuse.
// Used by the pipeline to correct part2_3_length once SCFSI (§4.4.7) is
// resolved, since quant.Quantize sets it assuming full transmission.
func ActualScalefactorBits(ver tables.Version, si *l3.SideInfo, g, ch int, gr *l3.GrInfo) int {
	widths := scalefactorWidths(ver, si, g, ch, gr)
	total := 0
	for _, width := range widths {
		total += width
	}
	return total
}

// scfsiGroup maps a scalefactor band to its SCFSI group index (§4.4.7),
// or -1 if outside the four defined groups.
func scfsiGroup(band int) int {
	switch {
	case band <= 5:
		return 0
	case band <= 10:
		return 1
	case band <= 15:
		return 2
	case band <= 20:
		return 3
	default:
		return -1
	}
}

func writeSpectrum(w *bitstream.Writer, gr *l3.GrInfo, sampleRate int) {
	n := len(gr.Quantized)
	bigEnd := gr.BigValues * 2
	if bigEnd > n {
		bigEnd = n
	}

	if gr.BigValues > 0 {
		end0, end1 := tables.RegionPairBoundaries(sampleRate, gr.Region0Count, gr.Region1Count, gr.BigValues)
		regions := [3][2]int{{0, end0}, {end0, end1}, {end1, gr.BigValues}}
		for i, r := range regions {
			start, end := r[0]*2, r[1]*2
			if start >= end {
				continue
			}
			huffman.WriteBigValues(w, gr.TableSelect[i], gr.Quantized[start:end], gr.Sign[start:end])
		}
	}
	if gr.Count1 > 0 {
		start := bigEnd
		end := start + gr.Count1*4
		if end > n {
			end = n
		}
		huffman.WriteQuad(w, gr.Count1TableSelect, gr.Quantized[start:end], gr.Sign[start:end])
	}
}
