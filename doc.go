// Package shine implements a fixed-point MPEG-1/2/2.5 Layer III (MP3)
// audio encoder.
//
// It takes linear PCM audio (16-bit signed samples, one or two channels,
// at one of the standard MPEG sample rates) and produces a compliant
// Layer III bitstream at a fixed bitrate. The implementation follows the
// classic "shine" encoder lineage: a 32-band polyphase analysis filter,
// a per-granule MDCT with aliasing-reduction butterflies, a rate-distortion
// quantization loop (inner step-size search plus an outer scalefactor
// amplification pass), Huffman coding of the quantized spectrum, and a
// bit reservoir that couples consecutive granules.
//
// # Scope
//
// The encoder is fixed-bitrate (CBR) and does not model psychoacoustic
// masking beyond a simple energy-based scale-factor-selection heuristic.
// It does not decode, transcode, or write metadata; see cmd/shineenc for
// a minimal WAV-to-MP3 command-line wrapper built on top of this package.
//
// # Concurrency
//
// An Encoder is a single-threaded, synchronous pipeline: construct it,
// call EncodeFrame repeatedly with exactly SamplesPerPass() samples per
// channel, then Flush once. One Encoder must not be used concurrently
// from multiple goroutines; independent Encoder values are fully
// independent and may run on separate goroutines.
package shine
