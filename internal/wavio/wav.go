// Package wavio reads and writes 16-bit PCM WAV files for cmd/shineenc,
// in the style of farcloser-saprobe's wav package: plain RIFF chunk
// walking over encoding/binary, scoped down to the one format this
// encoder accepts.
package wavio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const wavFormatPCM = 1

var (
	// ErrNotWAV indicates the input is not a RIFF/WAVE file.
	ErrNotWAV = errors.New("wavio: not a WAV file")
	// ErrUnsupportedFormat indicates the WAV uses something other than
	// 16-bit integer PCM.
	ErrUnsupportedFormat = errors.New("wavio: only 16-bit PCM WAV is supported")
	// ErrNoFmtChunk indicates the file had no fmt chunk.
	ErrNoFmtChunk = errors.New("wavio: missing fmt chunk")
	// ErrNoDataChunk indicates the file had no data chunk.
	ErrNoDataChunk = errors.New("wavio: missing data chunk")
)

// Format describes a WAV file's audio format.
type Format struct {
	SampleRate int
	Channels   int
}

// Decode reads a 16-bit PCM WAV file and returns de-interleaved
// per-channel sample slices alongside its format.
func Decode(rs io.ReadSeeker) ([][]int16, Format, error) {
	var format Format

	var riffHeader [12]byte
	if _, err := io.ReadFull(rs, riffHeader[:]); err != nil {
		return nil, format, fmt.Errorf("wavio: reading RIFF header: %w", err)
	}
	if string(riffHeader[0:4]) != "RIFF" || string(riffHeader[8:12]) != "WAVE" {
		return nil, format, ErrNotWAV
	}

	fmtFound := false
	var pcmBytes []byte

	for {
		var chunkHeader [8]byte
		if _, err := io.ReadFull(rs, chunkHeader[:]); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, format, fmt.Errorf("wavio: reading chunk header: %w", err)
		}
		chunkID := string(chunkHeader[0:4])
		chunkSize := binary.LittleEndian.Uint32(chunkHeader[4:8])

		switch chunkID {
		case "fmt ":
			if err := parseFmtChunk(rs, chunkSize, &format); err != nil {
				return nil, format, err
			}
			fmtFound = true
		case "data":
			pcmBytes = make([]byte, chunkSize)
			if _, err := io.ReadFull(rs, pcmBytes); err != nil {
				return nil, format, fmt.Errorf("wavio: reading PCM data: %w", err)
			}
		default:
			if _, err := rs.Seek(int64(chunkSize), io.SeekCurrent); err != nil {
				return nil, format, fmt.Errorf("wavio: skipping chunk %s: %w", chunkID, err)
			}
		}
		if chunkSize%2 == 1 {
			if _, err := rs.Seek(1, io.SeekCurrent); err != nil {
				return nil, format, fmt.Errorf("wavio: seeking past pad byte: %w", err)
			}
		}
	}

	if !fmtFound {
		return nil, format, ErrNoFmtChunk
	}
	if pcmBytes == nil {
		return nil, format, ErrNoDataChunk
	}

	channels := deinterleave(pcmBytes, format.Channels)
	return channels, format, nil
}

func parseFmtChunk(rs io.ReadSeeker, size uint32, format *Format) error {
	if size < 16 {
		return ErrUnsupportedFormat
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(rs, buf); err != nil {
		return fmt.Errorf("wavio: reading fmt chunk: %w", err)
	}

	audioFormat := binary.LittleEndian.Uint16(buf[0:2])
	channels := binary.LittleEndian.Uint16(buf[2:4])
	sampleRate := binary.LittleEndian.Uint32(buf[4:8])
	bitsPerSample := binary.LittleEndian.Uint16(buf[14:16])

	if audioFormat != wavFormatPCM {
		return ErrUnsupportedFormat
	}
	if bitsPerSample != 16 {
		return ErrUnsupportedFormat
	}

	format.SampleRate = int(sampleRate)
	format.Channels = int(channels)
	return nil
}

func deinterleave(pcmBytes []byte, channels int) [][]int16 {
	if channels <= 0 {
		channels = 1
	}
	totalSamples := len(pcmBytes) / 2
	perChannel := totalSamples / channels
	out := make([][]int16, channels)
	for ch := range out {
		out[ch] = make([]int16, perChannel)
	}
	for i := 0; i < perChannel; i++ {
		for ch := 0; ch < channels; ch++ {
			off := (i*channels + ch) * 2
			out[ch][i] = int16(binary.LittleEndian.Uint16(pcmBytes[off : off+2]))
		}
	}
	return out
}

// Encode writes a 16-bit PCM WAV file from de-interleaved per-channel
// sample slices (used by test fixtures and round-trip checks).
func Encode(w io.Writer, channels [][]int16, sampleRate int) error {
	numChannels := len(channels)
	if numChannels == 0 {
		return fmt.Errorf("wavio: no channels to encode")
	}
	samplesPerChannel := len(channels[0])
	dataSize := uint32(samplesPerChannel * numChannels * 2)

	byteRate := uint32(sampleRate * numChannels * 2)
	blockAlign := uint16(numChannels * 2)

	var header [44]byte
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], dataSize+36)
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], wavFormatPCM)
	binary.LittleEndian.PutUint16(header[22:24], uint16(numChannels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], byteRate)
	binary.LittleEndian.PutUint16(header[32:34], blockAlign)
	binary.LittleEndian.PutUint16(header[34:36], 16)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], dataSize)

	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("wavio: writing header: %w", err)
	}

	buf := make([]byte, 2*numChannels)
	for i := 0; i < samplesPerChannel; i++ {
		for ch := 0; ch < numChannels; ch++ {
			binary.LittleEndian.PutUint16(buf[ch*2:ch*2+2], uint16(channels[ch][i]))
		}
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("wavio: writing PCM data: %w", err)
		}
	}
	return nil
}
