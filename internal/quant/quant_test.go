package quant

import "testing"

func TestQuantizeSilenceProducesNoCodedLines(t *testing.T) {
	var xr [576]float64
	gr := Quantize(xr, 44100, 500)
	if gr.BigValues != 0 {
		t.Errorf("BigValues = %d, want 0 for silence", gr.BigValues)
	}
	if gr.Count1 != 0 {
		t.Errorf("Count1 = %d, want 0 for silence", gr.Count1)
	}
	for i, v := range gr.Quantized {
		if v != 0 {
			t.Fatalf("Quantized[%d] = %d, want 0 for silence", i, v)
		}
	}
}

func TestQuantizeRespectsMaxBits(t *testing.T) {
	var xr [576]float64
	for i := range xr {
		xr[i] = float64(i%37) * 1000
	}
	maxBits := 400
	gr := Quantize(xr, 44100, maxBits)
	if gr.Part2_3Length > maxBits {
		t.Errorf("Part2_3Length = %d, want <= %d", gr.Part2_3Length, maxBits)
	}
}

func TestQuantizeNeverExceedsFieldLimits(t *testing.T) {
	var xr [576]float64
	for i := range xr {
		xr[i] = 1e9
	}
	gr := Quantize(xr, 48000, 4000)
	if gr.BigValues > 288 {
		t.Errorf("BigValues = %d, want <= 288", gr.BigValues)
	}
	if gr.GlobalGain < 0 || gr.GlobalGain > 255 {
		t.Errorf("GlobalGain = %d, out of range", gr.GlobalGain)
	}
	for i, v := range gr.Quantized {
		if v > 8191 || v < 0 {
			t.Errorf("Quantized[%d] = %d, out of [0,8191]", i, v)
		}
	}
}

func TestPartitionCountsInvariant(t *testing.T) {
	ix := make([]int32, 576)
	ix[0] = 5
	ix[1] = 3
	ix[572] = 1
	ix[573] = 0
	ix[574] = 1
	ix[575] = 0
	rzero, count1, bigValues := partitionCounts(ix)
	if 2*bigValues+4*count1+2*rzero != 576 {
		t.Errorf("2*%d + 4*%d + 2*%d = %d, want 576", bigValues, count1, rzero, 2*bigValues+4*count1+2*rzero)
	}
}
