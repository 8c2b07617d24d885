package audio

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WAVHeader is the canonical 44-byte RIFF header of a PCM file.
type WAVHeader struct {
	ChunkID       [4]byte
	ChunkSize     uint32
	Format        [4]byte
	FmtID         [4]byte
	FmtSize       uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	DataID        [4]byte
	DataSize      uint32
}

// NewWAVHeader returns the header for n PCM16 mono samples.
func NewWAVHeader(n int) WAVHeader {
	dataSize := uint32(n * wavBlockAlign)
	return WAVHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     dataSize + 36,
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		FmtID:         [4]byte{'f', 'm', 't', ' '},
		FmtSize:       wavFmtChunkSize,
		AudioFormat:   wavFormatPCM,
		NumChannels:   wavChannels,
		SampleRate:    SampleRate,
		ByteRate:      wavByteRate,
		BlockAlign:    wavBlockAlign,
		BitsPerSample: wavBitsPerSample,
		DataID:        [4]byte{'d', 'a', 't', 'a'},
		DataSize:      dataSize,
	}
}

// SampleCount returns the number of sample frames declared by the header.
func (h WAVHeader) SampleCount() int {
	if h.BlockAlign == 0 {
		return 0
	}
	return int(h.DataSize / uint32(h.BlockAlign))
}

// Duration returns the declared length in seconds.
func (h WAVHeader) Duration() float64 {
	if h.SampleRate == 0 {
		return 0
	}
	return float64(h.SampleCount()) / float64(h.SampleRate)
}

// WriteWAV writes samples as a 16-bit mono WAV stream.
func WriteWAV(w io.Writer, samples []float32) error {
	if len(samples) == 0 {
		return ErrNoSamples
	}

	var buf bytes.Buffer
	buf.Grow(wavHeaderSize + len(samples)*wavBlockAlign)
	if err := binary.Write(&buf, binary.LittleEndian, NewWAVHeader(len(samples))); err != nil {
		return fmt.Errorf("encode wav header: %w", err)
	}

	pcm := make([]byte, len(samples)*wavBlockAlign)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(pcm16(s)))
	}
	buf.Write(pcm)

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	return nil
}

// EncodeWAV returns samples as a complete WAV file.
func EncodeWAV(samples []float32) ([]byte, error) {
	var b bytes.Buffer
	if err := WriteWAV(&b, samples); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// WriteWAVFile writes samples to path. The file is written next to its
// destination and renamed into place, so a failed write leaves no partial
// file behind.
func WriteWAVFile(path string, samples []float32) error {
	data, err := EncodeWAV(samples)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".pfxr-*.wav")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}

// WAVDataURL encodes samples as a data:audio/wav URL for the browser.
func WAVDataURL(samples []float32) (string, error) {
	data, err := EncodeWAV(samples)
	if err != nil {
		return "", err
	}
	return wavDataURLPrefix + base64.StdEncoding.EncodeToString(data), nil
}

// DecodeWAVHeader reads and checks a PCM WAV header.
func DecodeWAVHeader(r io.Reader) (WAVHeader, error) {
	var h WAVHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return h, fmt.Errorf("%w: %w", ErrInvalidWAV, err)
	}
	switch {
	case string(h.ChunkID[:]) != "RIFF":
		return h, fmt.Errorf("%w: missing RIFF tag", ErrInvalidWAV)
	case string(h.Format[:]) != "WAVE":
		return h, fmt.Errorf("%w: missing WAVE tag", ErrInvalidWAV)
	case string(h.FmtID[:]) != "fmt ":
		return h, fmt.Errorf("%w: missing fmt chunk", ErrInvalidWAV)
	case string(h.DataID[:]) != "data":
		return h, fmt.Errorf("%w: missing data chunk", ErrInvalidWAV)
	case h.AudioFormat != wavFormatPCM:
		return h, fmt.Errorf("%w: format %d is not PCM", ErrInvalidWAV, h.AudioFormat)
	}
	return h, nil
}

// DecodeWAV reads a PCM16 mono stream back into float samples in [-1, 1].
func DecodeWAV(r io.Reader) (WAVHeader, []float32, error) {
	h, err := DecodeWAVHeader(r)
	if err != nil {
		return h, nil, err
	}
	if h.NumChannels != wavChannels || h.BitsPerSample != wavBitsPerSample {
		return h, nil, fmt.Errorf("%w: want %d-bit mono, got %d-bit with %d channels",
			ErrInvalidWAV, wavBitsPerSample, h.BitsPerSample, h.NumChannels)
	}
	if h.SampleCount() > MaxSamples {
		return h, nil, fmt.Errorf("%w: %d samples exceeds limit of %d", ErrInvalidWAV, h.SampleCount(), MaxSamples)
	}

	pcm := make([]int16, h.SampleCount())
	if err := binary.Read(r, binary.LittleEndian, pcm); err != nil {
		return h, nil, fmt.Errorf("%w: read samples: %w", ErrInvalidWAV, err)
	}

	samples := make([]float32, len(pcm))
	for i, v := range pcm {
		samples[i] = float32(v) / 32767
	}
	return h, samples, nil
}

// pcm16 clamps s to [-1, 1] and scales it to a 16-bit sample, truncating.
// NaN maps to silence.
func pcm16(s float32) int16 {
	return int16(clamp(s, -1, 1) * 32767)
}
