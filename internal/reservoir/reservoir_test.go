package reservoir

import "testing"

func TestNewClampsToAbsoluteCeiling(t *testing.T) {
	r := New(100000, 2)
	if r.Max() > maxBits {
		t.Errorf("Max() = %d, want <= %d", r.Max(), maxBits)
	}
}

func TestAdjustNeverGoesNegative(t *testing.T) {
	r := New(1000, 2)
	r.Adjust(100000)
	if r.Size() < 0 {
		t.Errorf("Size() = %d, want >= 0", r.Size())
	}
}

func TestFrameEndKeepsSizeWithinMax(t *testing.T) {
	r := New(1000, 2)
	r.Adjust(0) // granule used zero bits, size grows by mean/channels
	r.Adjust(0)
	stuffing := r.FrameEnd()
	if r.Size() > r.Max() {
		t.Errorf("Size() = %d, want <= Max() = %d", r.Size(), r.Max())
	}
	if r.Size() < 0 {
		t.Errorf("Size() = %d, want >= 0", r.Size())
	}
	if stuffing < 0 {
		t.Errorf("FrameEnd returned negative stuffing: %d", stuffing)
	}
}

func TestMainDataBeginZeroInitially(t *testing.T) {
	r := New(1000, 2)
	if got := r.MainDataBegin(); got != 0 {
		t.Errorf("MainDataBegin() = %d, want 0 on a fresh reservoir", got)
	}
}

func TestCreditIncreasesSize(t *testing.T) {
	r := New(1000, 2)
	r.Adjust(400)
	before := r.Size()
	r.Credit(30)
	if got := r.Size(); got != before+30 {
		t.Errorf("Size() = %d, want %d", got, before+30)
	}
}

func TestMaxReservoirBitsBaselineWhenMaxZero(t *testing.T) {
	r := &Reservoir{meanBits: 2000, channels: 2, max: 0}
	got := r.MaxReservoirBits(0)
	want := 1000
	if got != want {
		t.Errorf("MaxReservoirBits() = %d, want %d", got, want)
	}
}
