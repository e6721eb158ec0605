package tables

import "sort"

// HuffCode is one Huffman codeword: its bit pattern (right-justified)
// and its length in bits.
type HuffCode struct {
	Code uint32
	Len  int
}

// BigValueTable is one of the 32 standard big_values Huffman tables
// (§4.5): Entries[x][y] gives the codeword for the coefficient pair
// (x,y), x,y in [0, XLen-1]. When Linbits > 0, a coded value of
// XLen-1 on either axis is an escape: Linbits additional bits carry the
// magnitude minus (XLen-1).
type BigValueTable struct {
	XLen    int
	Linbits int
	Entries [][]HuffCode
}

// QuadTable is one of the two count1 Huffman tables (§4.5): Entries[i]
// is indexed by the 4-bit pattern (v<<3)|(w<<2)|(x<<1)|y, v,w,x,y in
// {0,1}.
type QuadTable struct {
	Entries [16]HuffCode
}

// BigValueTables holds the 32 standard table_select slots. Index 0 is
// the forbidden/empty-region marker (XLen==0); indices 4 and 14 are
// reserved in the standard and also left empty. See buildBigValueTable
// and DESIGN.md on why these are a length-optimal synthetic construction rather than
// a literal transcription of the ISO tables.
var BigValueTables [32]BigValueTable

// bigValueShape gives (xlen, linbits) for each non-empty table index,
// matching the standard's table_select schedule (§4.5).
var bigValueShape = map[int][2]int{
	1: {2, 0}, 2: {3, 0}, 3: {3, 0},
	5: {4, 0}, 6: {4, 0},
	7: {6, 0}, 8: {6, 0}, 9: {6, 0},
	10: {8, 0}, 11: {8, 0}, 12: {8, 0},
	13: {16, 0},
	15: {16, 0},
	16: {16, 1}, 17: {16, 2}, 18: {16, 3}, 19: {16, 4},
	20: {16, 6}, 21: {16, 8}, 22: {16, 10}, 23: {16, 13},
	24: {16, 4}, 25: {16, 5}, 26: {16, 6}, 27: {16, 7},
	28: {16, 8}, 29: {16, 9}, 30: {16, 11}, 31: {16, 13},
}

// QuadTables holds the two count1 tables, index 0 = table A, 1 = table B.
var QuadTables [2]QuadTable

func init() {
	for idx, shape := range bigValueShape {
		xlen, linbits := shape[0], shape[1]
		BigValueTables[idx] = buildBigValueTable(xlen, linbits)
	}
	QuadTables[0] = buildQuadTable(3.0)
	QuadTables[1] = buildQuadTable(1.2)
}

// buildBigValueTable constructs a canonical Huffman code over the
// xlen*xlen (x,y) alphabet, weighting pairs near the origin most
// heavily so that small-magnitude coefficients (the common case after
// quantization) receive the shortest codes -- the same rate-distortion
// shape the standard's tables have, built with a textbook Huffman
// construction instead of transcribed ISO constants.
func buildBigValueTable(xlen, linbits int) BigValueTable {
	type sym struct {
		x, y   int
		weight float64
	}
	syms := make([]sym, 0, xlen*xlen)
	for x := 0; x < xlen; x++ {
		for y := 0; y < xlen; y++ {
			d := float64(x + y)
			syms = append(syms, sym{x, y, 1 / ((1 + d) * (1 + d))})
		}
	}
	weights := make([]float64, len(syms))
	for i, s := range syms {
		weights[i] = s.weight
	}
	lengths := huffmanLengths(weights)
	codes := canonicalCodes(lengths)

	entries := make([][]HuffCode, xlen)
	for x := range entries {
		entries[x] = make([]HuffCode, xlen)
	}
	for i, s := range syms {
		entries[s.x][s.y] = codes[i]
	}
	return BigValueTable{XLen: xlen, Linbits: linbits, Entries: entries}
}

// buildQuadTable constructs a canonical Huffman code over the 16
// quadruple values, favoring all-zero/near-zero patterns according to
// skew: a higher skew produces a more lopsided (table-A-like) code, a
// lower skew a flatter (table-B-like) one, matching how the standard's
// two count1 tables trade off average length for different signal
// statistics.
func buildQuadTable(skew float64) QuadTable {
	weights := make([]float64, 16)
	for i := 0; i < 16; i++ {
		popcount := 0
		for b := 0; b < 4; b++ {
			if i&(1<<b) != 0 {
				popcount++
			}
		}
		weights[i] = 1 / float64(1+popcount)
		for k := 0; k < int(skew); k++ {
			weights[i] *= weights[i]
			_ = k
		}
	}
	lengths := huffmanLengths(weights)
	codes := canonicalCodes(lengths)
	var qt QuadTable
	copy(qt.Entries[:], codes)
	return qt
}

// huffmanLengths runs the classic Huffman algorithm over weights and
// returns the codeword length assigned to each symbol.
func huffmanLengths(weights []float64) []int {
	type node struct {
		weight      float64
		left, right *node
		leaf        int // symbol index, -1 if internal
	}
	nodes := make([]*node, len(weights))
	for i, w := range weights {
		nodes[i] = &node{weight: w, leaf: i}
	}
	active := append([]*node(nil), nodes...)
	for len(active) > 1 {
		sort.Slice(active, func(i, j int) bool { return active[i].weight < active[j].weight })
		a, b := active[0], active[1]
		merged := &node{weight: a.weight + b.weight, left: a, right: b, leaf: -1}
		active = append(active[2:], merged)
	}
	lengths := make([]int, len(weights))
	if len(active) == 1 {
		var walk func(n *node, depth int)
		walk = func(n *node, depth int) {
			if n.leaf >= 0 {
				if depth == 0 {
					depth = 1 // single-symbol edge case
				}
				lengths[n.leaf] = depth
				return
			}
			walk(n.left, depth+1)
			walk(n.right, depth+1)
		}
		walk(active[0], 0)
	}
	return lengths
}

// canonicalCodes assigns canonical Huffman codewords from a length
// array: symbols sorted by (length, index), codes assigned in
// increasing numeric order, incrementing and left-shifting between
// length groups. This is the standard canonical-code construction and
// guarantees a valid prefix-free code for any length array Kraft-valid
// by construction (as huffmanLengths always produces).
func canonicalCodes(lengths []int) []HuffCode {
	type entry struct {
		idx int
		len int
	}
	entries := make([]entry, len(lengths))
	for i, l := range lengths {
		entries[i] = entry{i, l}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].len != entries[j].len {
			return entries[i].len < entries[j].len
		}
		return entries[i].idx < entries[j].idx
	})

	codes := make([]HuffCode, len(lengths))
	code := uint32(0)
	prevLen := 0
	for _, e := range entries {
		if e.len == 0 {
			codes[e.idx] = HuffCode{Code: 0, Len: 0}
			continue
		}
		code <<= uint(e.len - prevLen)
		codes[e.idx] = HuffCode{Code: code, Len: e.len}
		code++
		prevLen = e.len
	}
	return codes
}
