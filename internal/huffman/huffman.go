// Package huffman implements the Layer III Huffman coder (spec.md
// section 4.5): big_values region table selection, count1 quadruple
// coding, and the bit-counting variants both the quantization loop and
// the frame formatter need.
package huffman

import (
	"github.com/shine-mp3/shine/internal/bitstream"
	"github.com/shine-mp3/shine/internal/tables"
)

// SelectTable picks the narrowest big_values table (spec.md section
// 4.4.3's "smallest table whose linmax covers the region's max") whose
// range covers maxAbs, from the given candidate index list. Table 0 is
// never a candidate: an empty region has no table.
func SelectTable(maxAbs int32, candidates []int) int {
	best := -1
	for _, idx := range candidates {
		tbl := tables.BigValueTables[idx]
		if tbl.XLen == 0 {
			continue
		}
		linmax := int32(tbl.XLen - 1)
		if tbl.Linbits > 0 {
			linmax = int32(tbl.XLen-2) + (1 << uint(tbl.Linbits))
		}
		if linmax < maxAbs {
			continue
		}
		if best == -1 {
			best = idx
		}
	}
	if best == -1 {
		// No table in the candidate list covers maxAbs; fall back to the
		// widest linbits table available.
		best = widestTable(candidates)
	}
	return best
}

func widestTable(candidates []int) int {
	best := candidates[0]
	for _, idx := range candidates {
		if tables.BigValueTables[idx].Linbits > tables.BigValueTables[best].Linbits {
			best = idx
		}
	}
	return best
}

// CountBigValues returns the bit cost of Huffman-coding the pairs
// ix[2*i], ix[2*i+1] for i in [0, len(ix)/2) with the given table,
// including escape linbits and sign bits for non-zero magnitudes.
func CountBigValues(tableIdx int, ix []int32) int {
	tbl := tables.BigValueTables[tableIdx]
	bits := 0
	for i := 0; i+1 < len(ix); i += 2 {
		x, y := absClamp(ix[i], tbl.XLen), absClamp(ix[i+1], tbl.XLen)
		c := tbl.Entries[x][y]
		bits += c.Len
		if x == tbl.XLen-1 && tbl.Linbits > 0 {
			bits += tbl.Linbits
		}
		if y == tbl.XLen-1 && tbl.Linbits > 0 {
			bits += tbl.Linbits
		}
		if ix[i] != 0 {
			bits++
		}
		if ix[i+1] != 0 {
			bits++
		}
	}
	return bits
}

// WriteBigValues emits the Huffman-coded pairs to w, in the same order
// CountBigValues counts them.
func WriteBigValues(w *bitstream.Writer, tableIdx int, ix []int32, sign []bool) {
	tbl := tables.BigValueTables[tableIdx]
	for i := 0; i+1 < len(ix); i += 2 {
		x, y := absClamp(ix[i], tbl.XLen), absClamp(ix[i+1], tbl.XLen)
		c := tbl.Entries[x][y]
		w.PutBits(c.Code, c.Len)
		if x == tbl.XLen-1 && tbl.Linbits > 0 {
			w.PutBits(uint32(abs32(ix[i])-int32(tbl.XLen-1)), tbl.Linbits)
		}
		if ix[i] != 0 {
			w.PutBits(boolBit(sign[i]), 1)
		}
		if y == tbl.XLen-1 && tbl.Linbits > 0 {
			w.PutBits(uint32(abs32(ix[i+1])-int32(tbl.XLen-1)), tbl.Linbits)
		}
		if ix[i+1] != 0 {
			w.PutBits(boolBit(sign[i+1]), 1)
		}
	}
}

func absClamp(v int32, xlen int) int {
	a := int(abs32(v))
	if a > xlen-1 {
		a = xlen - 1
	}
	return a
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

func boolBit(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// SelectQuadTable picks count1table_select in {0,1}, returning whichever
// of the two standard quadruple tables costs fewer bits for this
// granule's count1 region.
func SelectQuadTable(ix []int32) (tableIdx int, bits int) {
	b0 := CountQuad(0, ix)
	b1 := CountQuad(1, ix)
	if b1 < b0 {
		return 1, b1
	}
	return 0, b0
}

// CountQuad returns the bit cost of Huffman-coding the count1 region
// (quadruples of values in {-1,0,1}) with the given table, including
// sign bits.
func CountQuad(tableIdx int, ix []int32) int {
	tbl := tables.QuadTables[tableIdx]
	bits := 0
	for i := 0; i+3 < len(ix); i += 4 {
		pattern := quadPattern(ix[i : i+4])
		bits += tbl.Entries[pattern].Len
		for _, v := range ix[i : i+4] {
			if v != 0 {
				bits++
			}
		}
	}
	return bits
}

// WriteQuad emits the count1 region to w.
func WriteQuad(w *bitstream.Writer, tableIdx int, ix []int32, sign []bool) {
	tbl := tables.QuadTables[tableIdx]
	for i := 0; i+3 < len(ix); i += 4 {
		pattern := quadPattern(ix[i : i+4])
		c := tbl.Entries[pattern]
		w.PutBits(c.Code, c.Len)
		for k := 0; k < 4; k++ {
			if ix[i+k] != 0 {
				w.PutBits(boolBit(sign[i+k]), 1)
			}
		}
	}
}

func quadPattern(v []int32) int {
	p := 0
	for k := 0; k < 4; k++ {
		if v[k] != 0 {
			p |= 1 << uint(3-k)
		}
	}
	return p
}
