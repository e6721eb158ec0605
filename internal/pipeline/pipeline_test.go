package pipeline

import (
	"testing"

	"github.com/shine-mp3/shine/internal/frameformat"
	"github.com/shine-mp3/shine/internal/l3"
	"github.com/shine-mp3/shine/internal/tables"
)

func newTestPipeline(t *testing.T, channels int) *Pipeline {
	t.Helper()
	sizing, err := tables.ComputeFrameSizing(tables.MPEG1, 44100, 128, channels)
	if err != nil {
		t.Fatalf("ComputeFrameSizing: %v", err)
	}
	modeIdx := 3
	if channels == 2 {
		modeIdx = 0
	}
	hdr := frameformat.HeaderFields{
		Version:       tables.MPEG1,
		BitrateIndex:  9,
		SampleRateIdx: 0,
		ModeIdx:       modeIdx,
	}
	return New(tables.MPEG1, 44100, channels, 9, 0, sizing, hdr)
}

func TestEncodeFrameSilenceProducesExpectedSize(t *testing.T) {
	p := newTestPipeline(t, 2)
	pcm := [][]int16{make([]int16, 1152), make([]int16, 1152)}
	frame, ok := p.EncodeFrame(pcm)
	if !ok {
		t.Fatal("EncodeFrame: unexpected reservoir overflow")
	}
	if len(frame) < p.sizing.WholeSlotsPerFrame || len(frame) > p.sizing.WholeSlotsPerFrame+1 {
		t.Errorf("len(frame) = %d, want %d or %d", len(frame), p.sizing.WholeSlotsPerFrame, p.sizing.WholeSlotsPerFrame+1)
	}
}

func TestEncodeFrameHeaderSyncBits(t *testing.T) {
	p := newTestPipeline(t, 2)
	pcm := [][]int16{make([]int16, 1152), make([]int16, 1152)}
	frame, ok := p.EncodeFrame(pcm)
	if !ok {
		t.Fatal("EncodeFrame: unexpected reservoir overflow")
	}
	if frame[0] != 0xFF {
		t.Errorf("frame[0] = %#x, want 0xFF", frame[0])
	}
	if frame[1]&0xE0 != 0xE0 {
		t.Errorf("frame[1] high bits = %#x, want sync bits set", frame[1])
	}
}

func TestEncodeFrameFirstFrameMainDataBeginZero(t *testing.T) {
	p := newTestPipeline(t, 1)
	pcm := [][]int16{make([]int16, 1152)}
	frame, ok := p.EncodeFrame(pcm)
	if !ok {
		t.Fatal("EncodeFrame: unexpected reservoir overflow")
	}
	// main_data_begin is the first 9 bits after the 4-byte header.
	if mdb := int(frame[4])<<1 | int(frame[5]>>7); mdb != 0 {
		t.Errorf("first frame main_data_begin = %d, want 0", mdb)
	}
	if p.resv.MainDataBegin() < 0 {
		t.Errorf("MainDataBegin went negative")
	}
}

func TestCorrectGranule1ScalefacBitsCreditsReservoir(t *testing.T) {
	p := newTestPipeline(t, 1)

	var si l3.SideInfo
	gr := &si.Granules[1][0]
	gr.ScalefacCompress = 9 // slen1=2, slen2=2 (tables.ScalefacCompress[9])
	gr.CodeBits = 50
	gr.ScalefacBits = 11*2 + 10*2 // 42: full 21-band transmission cost
	gr.Part2_3Length = gr.ScalefacBits + gr.CodeBits

	// Reuse group 0 (bands 0-5, slen1) and group 2 (bands 11-15, slen2).
	si.Scfsi[0][0] = 1
	si.Scfsi[0][2] = 1
	wantOmitted := 6*2 + 5*2 // 22 bits no longer transmitted

	p.resv.Adjust(gr.Part2_3Length) // simulate the charge EncodeFrame already made
	sizeAfterAdjust := p.resv.Size()

	p.correctGranule1ScalefacBits(&si)

	wantPart23 := 42 + 50 - wantOmitted
	if si.Granules[1][0].Part2_3Length != wantPart23 {
		t.Errorf("Part2_3Length = %d, want %d", si.Granules[1][0].Part2_3Length, wantPart23)
	}
	if got := p.resv.Size(); got != sizeAfterAdjust+wantOmitted {
		t.Errorf("resv.Size() = %d, want %d (credited %d bits)", got, sizeAfterAdjust+wantOmitted, wantOmitted)
	}
}

func TestEncodeFrameReservoirNeverExceedsMax(t *testing.T) {
	p := newTestPipeline(t, 2)
	for i := 0; i < 20; i++ {
		pcm := [][]int16{make([]int16, 1152), make([]int16, 1152)}
		for j := range pcm[0] {
			pcm[0][j] = int16((j * 137) % 30000)
			pcm[1][j] = int16((j * 211) % 30000)
		}
		p.EncodeFrame(pcm)
		if p.resv.Size() > p.resv.Max() {
			t.Fatalf("iteration %d: resv size %d exceeds max %d", i, p.resv.Size(), p.resv.Max())
		}
		if p.resv.Size() < 0 {
			t.Fatalf("iteration %d: resv size went negative", i)
		}
	}
}
