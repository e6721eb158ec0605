package mdct

import "testing"

func TestTransformSilenceProducesSilence(t *testing.T) {
	tr := NewTransformer()
	var sb [18][32]int32
	var xr [576]float64
	for g := 0; g < 3; g++ {
		xr = tr.Transform(sb)
	}
	for i, v := range xr {
		if v != 0 {
			t.Errorf("xr[%d] = %v, want 0 for all-silence input", i, v)
		}
	}
}

func TestTransformOverlapCarriesAcrossGranules(t *testing.T) {
	tr := NewTransformer()
	var sb [18][32]int32
	for n := 0; n < 18; n++ {
		sb[n][0] = 1000
	}
	first := tr.Transform(sb)
	second := tr.Transform(sb)
	if first == second {
		t.Error("first and second granule transforms identical; overlap state not carried")
	}
}

func TestTransformProducesFiniteOutput(t *testing.T) {
	tr := NewTransformer()
	var sb [18][32]int32
	for n := 0; n < 18; n++ {
		for b := 0; b < 32; b++ {
			sb[n][b] = int32((n + 1) * (b + 1) * 100)
		}
	}
	xr := tr.Transform(sb)
	for i, v := range xr {
		if v != v { // NaN check
			t.Fatalf("xr[%d] is NaN", i)
		}
	}
}
