package frameformat

import (
	"testing"

	"github.com/shine-mp3/shine/internal/bitstream"
	"github.com/shine-mp3/shine/internal/l3"
	"github.com/shine-mp3/shine/internal/tables"
)

func TestWriteHeaderSyncAndLayerBits(t *testing.T) {
	w := bitstream.NewWriter(4)
	WriteHeader(w, HeaderFields{
		Version:       tables.MPEG1,
		BitrateIndex:  9,
		SampleRateIdx: 0,
		ModeIdx:       1,
	})
	out := w.Take()
	if len(out) != 4 {
		t.Fatalf("len(out) = %d, want 4", len(out))
	}
	if out[0] != 0xFF {
		t.Errorf("byte 0 = %#x, want 0xFF (sync high byte)", out[0])
	}
	if out[1]&0xE0 != 0xE0 {
		t.Errorf("byte 1 high 3 bits = %#x, want sync low 3 bits set", out[1])
	}
	layerBits := (out[1] >> 1) & 0x3
	if layerBits != 1 {
		t.Errorf("layer bits = %d, want 1 (Layer III)", layerBits)
	}
}

func TestWriteStuffingPadsToTargetBytes(t *testing.T) {
	w := bitstream.NewWriter(8)
	w.PutBits(0xAB, 8)
	WriteStuffing(w, 3, 5)
	out := w.Take()
	if len(out) != 5 {
		t.Fatalf("len(out) = %d, want 5", len(out))
	}
}

func TestActualScalefactorBitsMatchesWrittenBits(t *testing.T) {
	var si l3.SideInfo
	gr := &si.Granules[1][0]
	gr.ScalefacCompress = 9 // slen1=2, slen2=2
	si.Scfsi[0][0] = 1       // reuse bands 0-5
	si.Scfsi[0][2] = 1       // reuse bands 11-15

	actual := ActualScalefactorBits(tables.MPEG1, &si, 1, 0, gr)

	w := bitstream.NewWriter(8)
	writeScalefactors(w, tables.MPEG1, &si, 1, 0, gr)
	written := w.Take()

	wantBytes := (actual + 7) / 8
	if len(written) != wantBytes {
		t.Errorf("writeScalefactors emitted %d bytes (%d bits incl. padding), ActualScalefactorBits says %d bits",
			len(written), len(written)*8, actual)
	}

	// Granule 0 never omits for SCFSI, so it should transmit the full
	// 21-band cost regardless of si.Scfsi.
	gr0 := &si.Granules[0][0]
	gr0.ScalefacCompress = 9
	if got, want := ActualScalefactorBits(tables.MPEG1, &si, 0, 0, gr0), 11*2+10*2; got != want {
		t.Errorf("ActualScalefactorBits(granule 0) = %d, want %d", got, want)
	}
}

func TestScfsiGroupBoundaries(t *testing.T) {
	cases := map[int]int{0: 0, 5: 0, 6: 1, 10: 1, 11: 2, 15: 2, 16: 3, 20: 3}
	for band, want := range cases {
		if got := scfsiGroup(band); got != want {
			t.Errorf("scfsiGroup(%d) = %d, want %d", band, got, want)
		}
	}
}
