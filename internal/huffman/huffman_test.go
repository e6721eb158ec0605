package huffman

import (
	"testing"

	"github.com/shine-mp3/shine/internal/bitstream"
	"github.com/shine-mp3/shine/internal/tables"
)

var allTables = func() []int {
	var idx []int
	for i := 1; i < 32; i++ {
		if i == 4 || i == 14 {
			continue
		}
		idx = append(idx, i)
	}
	return idx
}()

func TestSelectTableCoversMaxAbs(t *testing.T) {
	for _, maxAbs := range []int32{0, 1, 3, 15, 100, 8191} {
		idx := SelectTable(maxAbs, allTables)
		if idx <= 0 {
			t.Fatalf("SelectTable(%d) = %d, want a valid non-zero table index", maxAbs, idx)
		}
		tbl := tables.BigValueTables[idx]
		linmax := int32(tbl.XLen - 1)
		if tbl.Linbits > 0 {
			linmax = int32(tbl.XLen-2) + (1 << uint(tbl.Linbits))
		}
		if linmax < maxAbs {
			t.Errorf("SelectTable(%d) = %d, whose linmax %d does not cover it", maxAbs, idx, linmax)
		}
	}
}

func TestCountAndWriteBigValuesAgree(t *testing.T) {
	ix := []int32{0, 1, 2, 3, 5, 0}
	sign := []bool{false, true, false, true, false, false}
	idx := SelectTable(5, allTables)

	wantBits := CountBigValues(idx, ix)

	w := bitstream.NewWriter(8)
	WriteBigValues(w, idx, ix, sign)
	gotBits := len(w.Bytes())*8 + 0 // buffer holds only flushed whole bytes

	// WriteBigValues may leave a partial byte buffered; compare against
	// the writer's own byte-align to get a trustworthy count.
	w2 := bitstream.NewWriter(8)
	WriteBigValues(w2, idx, ix, sign)
	out := w2.Take()
	gotBits = len(out) * 8

	if gotBits < wantBits || gotBits-wantBits >= 8 {
		t.Errorf("emitted %d bits (padded to a whole byte), counted %d", gotBits, wantBits)
	}
}

func TestSelectQuadTablePicksCheaper(t *testing.T) {
	ix := []int32{0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 1}
	idx, bits := SelectQuadTable(ix)
	if idx != 0 && idx != 1 {
		t.Fatalf("SelectQuadTable returned invalid index %d", idx)
	}
	if bits <= 0 {
		t.Errorf("SelectQuadTable bits = %d, want > 0", bits)
	}
}

func TestQuadPatternAllZero(t *testing.T) {
	if p := quadPattern([]int32{0, 0, 0, 0}); p != 0 {
		t.Errorf("quadPattern(all zero) = %d, want 0", p)
	}
	if p := quadPattern([]int32{1, 1, 1, 1}); p != 0xF {
		t.Errorf("quadPattern(all nonzero) = %d, want 0xF", p)
	}
}
