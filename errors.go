// errors.go defines public error types for the shine package.

package shine

import (
	"errors"
	"fmt"
)

// Configuration errors. These are only ever returned from NewEncoder;
// they never surface once an Encoder has been constructed.
var (
	// ErrInvalidSampleRate indicates an unsupported sample rate.
	// Valid sample rates are: 8000, 11025, 12000, 16000, 22050, 24000,
	// 32000, 44100, 48000.
	ErrInvalidSampleRate = errors.New("shine: invalid sample rate")

	// ErrInvalidChannels indicates an unsupported channel count.
	// Valid channel counts are 1 (mono) or 2 (stereo).
	ErrInvalidChannels = errors.New("shine: invalid channels (must be 1 or 2)")

	// ErrInvalidBitrate indicates a bitrate not valid for any sample rate.
	ErrInvalidBitrate = errors.New("shine: invalid bitrate")

	// ErrIncompatibleRate indicates the (sample rate, bitrate) pair is not
	// a standard Layer III combination.
	ErrIncompatibleRate = errors.New("shine: bitrate not valid for this sample rate")

	// ErrInvalidStereoMode indicates a StereoMode inconsistent with the
	// channel count (JointStereo or DualChannel with Channels == 1).
	ErrInvalidStereoMode = errors.New("shine: stereo mode inconsistent with channel count")

	// ErrInvalidEmphasis indicates an Emphasis value outside the defined set.
	ErrInvalidEmphasis = errors.New("shine: invalid emphasis")
)

// Input errors. Returned from EncodeFrame without mutating encoder state.
var (
	// ErrWrongSampleCount indicates the PCM slice passed to EncodeFrame did
	// not contain exactly SamplesPerPass() samples per channel.
	ErrWrongSampleCount = errors.New("shine: wrong number of PCM samples for this frame")

	// ErrAlreadyFlushed indicates EncodeFrame was called after Flush.
	ErrAlreadyFlushed = errors.New("shine: encoder already flushed")
)

// Internal errors. ErrReservoirOverflow signals a programming defect: the
// bit reservoir grew past what main_data_begin's 9-bit field can address.
// It is unreachable if the bounds in internal/reservoir hold, but
// EncodeFrame reports it rather than panicking.
var ErrReservoirOverflow = errors.New("shine: bit reservoir overflow")

// ConfigError wraps a configuration-validation failure with the offending
// value so callers can report exactly which parameter was rejected.
type ConfigError struct {
	Field string // e.g. "bitrate_kbps", "sample_rate"
	Value int
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("shine: %s=%d: %v", e.Field, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }
