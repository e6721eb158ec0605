package subband

import "testing"

func TestAnalyzeSilenceProducesSilence(t *testing.T) {
	a := NewAnalyzer()
	pcm := make([]int16, 32)
	var last [32]int32
	for g := 0; g < 18; g++ {
		last = a.Analyze(pcm)
	}
	for b, v := range last {
		if v != 0 {
			t.Errorf("band %d = %d, want 0 for all-silence input", b, v)
		}
	}
}

func TestAnalyzePanicsOnWrongLength(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for wrong-length input")
		}
	}()
	a := NewAnalyzer()
	a.Analyze(make([]int16, 16))
}

func TestAnalyzeOffsetAdvances(t *testing.T) {
	a := NewAnalyzer()
	pcm := make([]int16, 32)
	for i := range pcm {
		pcm[i] = int16(1000 + i)
	}
	a.Analyze(pcm)
	if a.off != 480 {
		t.Errorf("off = %d, want 480 after one Analyze call", a.off)
	}
	a.Analyze(pcm)
	if a.off != 448 {
		t.Errorf("off = %d, want 448 after two Analyze calls", a.off)
	}
}

func TestAnalyzeNonSilentProducesFiniteOutput(t *testing.T) {
	a := NewAnalyzer()
	pcm := make([]int16, 32)
	for i := range pcm {
		pcm[i] = int16(i * 1000)
	}
	for g := 0; g < 18; g++ {
		s := a.Analyze(pcm)
		for b, v := range s {
			if v > (1<<30) || v < -(1<<30) {
				t.Errorf("granule %d band %d = %d, suspiciously large", g, b, v)
			}
		}
	}
}
