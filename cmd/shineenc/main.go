// Command shineenc encodes a 16-bit PCM WAV file to MPEG-1/2/2.5 Layer
// III (MP3), per spec.md section 6's CLI contract.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/shine-mp3/shine"
	"github.com/shine-mp3/shine/internal/wavio"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		bitrate     = pflag.IntP("bitrate", "b", 128, "output bitrate in kbit/s")
		jointStereo = pflag.BoolP("joint-stereo", "j", false, "use joint stereo coding (ignored for mono input)")
		verbose     = pflag.BoolP("verbose", "v", false, "log per-frame diagnostics")
		help        = pflag.BoolP("help", "h", false, "show usage")
	)
	pflag.Parse()

	if *help || pflag.NArg() != 2 {
		printUsage()
		if *help {
			return 0
		}
		return 1
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	inPath, outPath := pflag.Arg(0), pflag.Arg(1)

	if err := encodeFile(inPath, outPath, *bitrate, *jointStereo); err != nil {
		logger.Error("encode failed", slog.String("error", err.Error()))
		return 1
	}
	return 0
}

func encodeFile(inPath, outPath string, bitrateKbps int, jointStereo bool) error {
	in, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	defer in.Close()

	channels, format, err := wavio.Decode(in)
	if err != nil {
		return fmt.Errorf("decoding WAV: %w", err)
	}

	mode := shine.ModeStereo
	if jointStereo && format.Channels == 2 {
		mode = shine.ModeJointStereo
	}

	enc, err := shine.NewEncoder(shine.Config{
		SampleRate:  format.SampleRate,
		Channels:    format.Channels,
		BitrateKbps: bitrateKbps,
		Stereo:      mode,
	})
	if err != nil {
		return fmt.Errorf("configuring encoder: %w", err)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer out.Close()

	samplesPerPass := enc.SamplesPerPass()
	total := len(channels[0])

	for pos := 0; pos < total; pos += samplesPerPass {
		frame := make([][]int16, format.Channels)
		for ch := range frame {
			frame[ch] = padOrSlice(channels[ch], pos, samplesPerPass)
		}
		bytes, err := enc.EncodeFrame(frame)
		if err != nil {
			return fmt.Errorf("encoding frame at sample %d: %w", pos, err)
		}
		if _, err := out.Write(bytes); err != nil {
			return fmt.Errorf("writing frame: %w", err)
		}
		slog.Debug("frame encoded", slog.Int("sample", pos), slog.Int("bytes", len(bytes)))
	}

	if _, err := enc.Flush(); err != nil {
		return fmt.Errorf("flushing encoder: %w", err)
	}

	stats := enc.Stats()
	slog.Debug("encode complete",
		slog.Int("frames", stats.FramesEncoded),
		slog.Int("silent_granules", stats.SilentGranules),
		slog.Int("bytes", stats.BytesEmitted),
	)
	return nil
}

// padOrSlice returns n samples starting at pos, zero-padding the tail
// of the final, possibly-short frame.
func padOrSlice(samples []int16, pos, n int) []int16 {
	end := pos + n
	if end <= len(samples) {
		return samples[pos:end]
	}
	out := make([]int16, n)
	copy(out, samples[pos:])
	return out
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: shineenc [flags] <input.wav> <output.mp3>")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Flags:")
	pflag.PrintDefaults()
}
