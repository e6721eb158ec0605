// encoder.go implements the public Encoder API: construction,
// configuration validation, and the per-frame encode/flush contract
// (spec.md section 6).

package shine

import (
	"log/slog"

	"github.com/shine-mp3/shine/internal/frameformat"
	"github.com/shine-mp3/shine/internal/pipeline"
	"github.com/shine-mp3/shine/internal/tables"
)

// Encoder encodes linear PCM into MPEG-1/2/2.5 Layer III frames at a
// fixed bitrate. Construct one with NewEncoder, call EncodeFrame
// repeatedly with exactly SamplesPerPass() samples per channel, then
// Flush once. An Encoder is not safe for concurrent use.
type Encoder struct {
	cfg      Config
	pipeline *pipeline.Pipeline
	flushed  bool
	log      *slog.Logger
}

// NewEncoder validates cfg and constructs an Encoder, or returns a
// *ConfigError describing the first invalid field.
func NewEncoder(cfg Config) (*Encoder, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	ver, sampleRateIdx, _ := tables.SampleRateIndex(cfg.SampleRate)
	bitrateIdx, _ := tables.BitrateIndex(ver, cfg.BitrateKbps)

	sizing, err := tables.ComputeFrameSizing(ver, cfg.SampleRate, cfg.BitrateKbps, cfg.Channels)
	if err != nil {
		return nil, &ConfigError{Field: "sample_rate", Value: cfg.SampleRate, Err: err}
	}

	hdr := frameformat.HeaderFields{
		Version:       ver,
		BitrateIndex:  bitrateIdx,
		SampleRateIdx: sampleRateIdx,
		ModeIdx:       modeIndex(cfg.Stereo, cfg.Channels),
		ModeExt:       0,
		Copyright:     cfg.Copyright,
		Original:      cfg.Original,
		Emphasis:      int(cfg.Emphasis),
	}

	p := pipeline.New(ver, cfg.SampleRate, cfg.Channels, bitrateIdx, sampleRateIdx, sizing, hdr)

	log := slog.Default().With(
		slog.Int("sample_rate", cfg.SampleRate),
		slog.Int("channels", cfg.Channels),
		slog.Int("bitrate_kbps", cfg.BitrateKbps),
	)
	log.Debug("shine: encoder constructed")

	return &Encoder{cfg: cfg, pipeline: p, log: log}, nil
}

func modeIndex(mode StereoMode, channels int) int {
	if channels == 1 {
		return 3
	}
	switch mode {
	case ModeJointStereo:
		return 1
	case ModeDualChannel:
		return 2
	default:
		return 0
	}
}

func validateConfig(cfg Config) error {
	if _, _, ok := tables.SampleRateIndex(cfg.SampleRate); !ok {
		return &ConfigError{Field: "sample_rate", Value: cfg.SampleRate, Err: ErrInvalidSampleRate}
	}
	if cfg.Channels != 1 && cfg.Channels != 2 {
		return &ConfigError{Field: "channels", Value: cfg.Channels, Err: ErrInvalidChannels}
	}
	_, okMPEG1 := tables.BitrateIndex(tables.MPEG1, cfg.BitrateKbps)
	_, okMPEG2 := tables.BitrateIndex(tables.MPEG2, cfg.BitrateKbps)
	if !okMPEG1 && !okMPEG2 {
		return &ConfigError{Field: "bitrate_kbps", Value: cfg.BitrateKbps, Err: ErrInvalidBitrate}
	}
	if !tables.ValidPair(cfg.SampleRate, cfg.BitrateKbps) {
		return &ConfigError{Field: "bitrate_kbps", Value: cfg.BitrateKbps, Err: ErrIncompatibleRate}
	}
	if cfg.Channels == 1 && cfg.Stereo != ModeStereo {
		return &ConfigError{Field: "stereo", Value: int(cfg.Stereo), Err: ErrInvalidStereoMode}
	}
	if cfg.Emphasis < EmphasisNone || cfg.Emphasis > EmphasisCCITT || cfg.Emphasis == 2 {
		return &ConfigError{Field: "emphasis", Value: int(cfg.Emphasis), Err: ErrInvalidEmphasis}
	}
	return nil
}

// SamplesPerPass returns the number of PCM samples per channel
// EncodeFrame expects: granules_per_frame * 576 (1152 for MPEG-1, 576
// for MPEG-2/2.5).
func (e *Encoder) SamplesPerPass() int {
	return e.pipeline.Version.GranulesPerFrame() * 576
}

// EncodeFrame encodes exactly SamplesPerPass() PCM samples per channel
// (pcm[ch] holds one channel's samples) and returns the bytes of one
// Layer III frame. It returns ErrWrongSampleCount if any channel's
// slice has the wrong length, and ErrAlreadyFlushed if called after
// Flush. Input errors do not mutate encoder state.
func (e *Encoder) EncodeFrame(pcm [][]int16) ([]byte, error) {
	if e.flushed {
		return nil, ErrAlreadyFlushed
	}
	if len(pcm) != e.cfg.Channels {
		return nil, ErrWrongSampleCount
	}
	want := e.SamplesPerPass()
	for _, ch := range pcm {
		if len(ch) != want {
			return nil, ErrWrongSampleCount
		}
	}

	out, ok := e.pipeline.EncodeFrame(pcm)
	if !ok {
		return nil, ErrReservoirOverflow
	}
	return out, nil
}

// Flush finalizes the encoder, returning any trailing bytes (there are
// none in this encoder's design once the last frame has been emitted;
// the bit reservoir's remainder is already folded into stuffing on
// every call to EncodeFrame). Flush is idempotent: calling it more than
// once returns an empty slice rather than an error.
func (e *Encoder) Flush() ([]byte, error) {
	e.flushed = true
	return nil, nil
}

// SilentGranules returns the number of granules this encoder has
// replaced with a silence-equivalent granule because the quantization
// loop could not converge within the reservoir's bit budget (spec.md
// section 4.9's FAILURE SEMANTICS).
func (e *Encoder) SilentGranules() int {
	return e.pipeline.Stats().SilentGranules
}

// Stats returns a snapshot of the encoder's running diagnostics:
// frames encoded, silent-granule fallbacks, and total bytes emitted.
func (e *Encoder) Stats() pipeline.Stats {
	return e.pipeline.Stats()
}
