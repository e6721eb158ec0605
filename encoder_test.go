package shine

import "testing"

func validConfig() Config {
	return Config{
		SampleRate:  44100,
		Channels:    2,
		BitrateKbps: 128,
		Stereo:      ModeStereo,
	}
}

func TestNewEncoderRejectsInvalidSampleRate(t *testing.T) {
	cfg := validConfig()
	cfg.SampleRate = 44101
	_, err := NewEncoder(cfg)
	if err == nil {
		t.Fatal("expected error for invalid sample rate")
	}
	var ce *ConfigError
	if !asConfigError(err, &ce) {
		t.Fatalf("err = %v, want *ConfigError", err)
	}
	if ce.Field != "sample_rate" {
		t.Errorf("Field = %q, want sample_rate", ce.Field)
	}
}

func TestNewEncoderRejectsInvalidChannels(t *testing.T) {
	cfg := validConfig()
	cfg.Channels = 3
	if _, err := NewEncoder(cfg); err == nil {
		t.Fatal("expected error for invalid channel count")
	}
}

func TestNewEncoderRejectsIncompatibleBitrate(t *testing.T) {
	cfg := validConfig()
	cfg.BitrateKbps = 8 // valid only for the MPEG-2/2.5 rates (8 to 24 kHz)
	if _, err := NewEncoder(cfg); err == nil {
		t.Fatal("expected error for bitrate incompatible with sample rate")
	}
}

func TestNewEncoderRejectsStereoModeForMono(t *testing.T) {
	cfg := validConfig()
	cfg.Channels = 1
	cfg.Stereo = ModeJointStereo
	if _, err := NewEncoder(cfg); err == nil {
		t.Fatal("expected error for stereo mode with mono channel count")
	}
}

func TestNewEncoderAcceptsValidConfig(t *testing.T) {
	if _, err := NewEncoder(validConfig()); err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
}

func TestSamplesPerPassMPEG1(t *testing.T) {
	enc, err := NewEncoder(validConfig())
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	if got := enc.SamplesPerPass(); got != 1152 {
		t.Errorf("SamplesPerPass() = %d, want 1152 for MPEG-1", got)
	}
}

func TestEncodeFrameRejectsWrongSampleCount(t *testing.T) {
	enc, err := NewEncoder(validConfig())
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	_, err = enc.EncodeFrame([][]int16{make([]int16, 100), make([]int16, 100)})
	if err != ErrWrongSampleCount {
		t.Errorf("err = %v, want ErrWrongSampleCount", err)
	}
}

func TestEncodeFrameSilenceYieldsExpectedFrameSize(t *testing.T) {
	enc, err := NewEncoder(validConfig())
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	pcm := [][]int16{make([]int16, 1152), make([]int16, 1152)}
	frame, err := enc.EncodeFrame(pcm)
	if err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}
	// 128 kbps * 1152 / 44100 / 8 = 417.96 bytes; unpadded first frame.
	if len(frame) != 417 && len(frame) != 418 {
		t.Errorf("len(frame) = %d, want 417 or 418", len(frame))
	}
}

func TestEncodeFrameAfterFlushFails(t *testing.T) {
	enc, err := NewEncoder(validConfig())
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	if _, err := enc.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	pcm := [][]int16{make([]int16, 1152), make([]int16, 1152)}
	if _, err := enc.EncodeFrame(pcm); err != ErrAlreadyFlushed {
		t.Errorf("err = %v, want ErrAlreadyFlushed", err)
	}
}

func TestFlushIsIdempotent(t *testing.T) {
	enc, err := NewEncoder(validConfig())
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	if _, err := enc.Flush(); err != nil {
		t.Fatalf("first Flush: %v", err)
	}
	if _, err := enc.Flush(); err != nil {
		t.Fatalf("second Flush: %v", err)
	}
}

func TestTwoEncodersProduceIdenticalOutput(t *testing.T) {
	pcm := [][]int16{make([]int16, 1152), make([]int16, 1152)}
	for i := range pcm[0] {
		pcm[0][i] = int16(i % 1000)
		pcm[1][i] = int16((i * 3) % 1000)
	}

	enc1, _ := NewEncoder(validConfig())
	enc2, _ := NewEncoder(validConfig())

	f1, err := enc1.EncodeFrame(pcm)
	if err != nil {
		t.Fatalf("enc1.EncodeFrame: %v", err)
	}
	f2, err := enc2.EncodeFrame(pcm)
	if err != nil {
		t.Fatalf("enc2.EncodeFrame: %v", err)
	}
	if len(f1) != len(f2) {
		t.Fatalf("len(f1)=%d len(f2)=%d, want equal", len(f1), len(f2))
	}
	for i := range f1 {
		if f1[i] != f2[i] {
			t.Fatalf("byte %d differs: %#x vs %#x", i, f1[i], f2[i])
		}
	}
}

func asConfigError(err error, target **ConfigError) bool {
	ce, ok := err.(*ConfigError)
	if !ok {
		return false
	}
	*target = ce
	return true
}
