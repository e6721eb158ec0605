package shine

// StereoMode selects how a two-channel signal is coded. With
// Channels == 1 only ModeStereo (the zero value) is accepted, and frames
// are always signaled as mono.
type StereoMode int

const (
	// ModeStereo codes left and right channels independently.
	ModeStereo StereoMode = iota
	// ModeJointStereo enables joint coding (mode_extension bits set by the
	// frame formatter; this encoder does not implement mid/side or
	// intensity coding beyond the header bits, matching a conforming but
	// non-adaptive joint-stereo mode as permitted by spec.md's Non-goals).
	ModeJointStereo
	// ModeDualChannel treats the two channels as independent mono streams
	// (e.g. bilingual broadcast audio).
	ModeDualChannel
)

// Emphasis selects the de-emphasis curve signaled in the frame header.
// The encoder does not apply pre-emphasis to the PCM; it only sets the
// header bits, matching how the two bits are treated by the standard
// (a hint to the decoder, not a transform the encoder must perform when
// emphasis is none, which is the only mode this encoder exercises).
type Emphasis int

const (
	// EmphasisNone signals no de-emphasis curve (the common case).
	EmphasisNone Emphasis = iota
	// Emphasis5015 signals the 50/15 microsecond de-emphasis curve.
	Emphasis5015
	// reserved value 2 is "reserved" in the standard and intentionally
	// not exposed.
	// EmphasisCCITT signals the CCITT J.17 de-emphasis curve.
	EmphasisCCITT Emphasis = 3
)

// Config configures a new Encoder. See NewEncoder.
type Config struct {
	// SampleRate is the PCM sample rate in Hz. Must be one of the nine
	// standard MPEG-1/2/2.5 rates: 8000, 11025, 12000, 16000, 22050,
	// 24000, 32000, 44100, 48000.
	SampleRate int

	// Channels is 1 (mono) or 2 (stereo).
	Channels int

	// BitrateKbps is the fixed output bitrate in kbit/s. Must be one of
	// the standard values for SampleRate; see internal/tables.
	BitrateKbps int

	// Stereo selects how a two-channel signal is coded. When
	// Channels == 1 it must be ModeStereo; NewEncoder rejects any other
	// mode.
	Stereo StereoMode

	// Copyright sets the header's copyright bit.
	Copyright bool

	// Original sets the header's original bit.
	Original bool

	// Emphasis sets the header's emphasis bits.
	Emphasis Emphasis
}
