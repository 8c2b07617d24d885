package audio

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteWAV_Header(t *testing.T) {
	buf := Render(ApplyTemplate(TemplateLaser, 42))
	n := buf.Len

	var b bytes.Buffer
	require.NoError(t, WriteWAV(&b, buf.Data()))
	data := b.Bytes()

	require.Len(t, data, 44+2*n)
	assert.Equal(t, "RIFF", string(data[0:4]))
	assert.Equal(t, "WAVE", string(data[8:12]))
	assert.Equal(t, "fmt ", string(data[12:16]))
	assert.Equal(t, "data", string(data[36:40]))

	dataSize := binary.LittleEndian.Uint32(data[40:44])
	assert.Equal(t, uint32(2*n), dataSize)
	assert.Equal(t, dataSize+36, binary.LittleEndian.Uint32(data[4:8]))
	assert.Equal(t, uint32(16), binary.LittleEndian.Uint32(data[16:20]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(data[20:22]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(data[22:24]))
	assert.Equal(t, uint32(44100), binary.LittleEndian.Uint32(data[24:28]))
	assert.Equal(t, uint32(88200), binary.LittleEndian.Uint32(data[28:32]))
	assert.Equal(t, uint16(2), binary.LittleEndian.Uint16(data[32:34]))
	assert.Equal(t, uint16(16), binary.LittleEndian.Uint16(data[34:36]))
}

func TestWriteWAV_SampleConversion(t *testing.T) {
	tests := []struct {
		in   float32
		want int16
	}{
		{0, 0},
		{1, 32767},
		{-1, -32767},
		{2, 32767},
		{-3, -32767},
		{0.5, 16383},
		{-0.5, -16383},
	}

	samples := make([]float32, len(tests))
	for i, tt := range tests {
		samples[i] = tt.in
	}
	data, err := EncodeWAV(samples)
	require.NoError(t, err)

	for i, tt := range tests {
		got := int16(binary.LittleEndian.Uint16(data[44+2*i:]))
		assert.Equal(t, tt.want, got, "sample %d (%f)", i, tt.in)
	}
}

func TestWriteWAV_Empty(t *testing.T) {
	var b bytes.Buffer
	assert.ErrorIs(t, WriteWAV(&b, nil), ErrNoSamples)
	assert.Zero(t, b.Len())

	_, err := EncodeWAV([]float32{})
	assert.ErrorIs(t, err, ErrNoSamples)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteWAV_WriterError(t *testing.T) {
	err := WriteWAV(failingWriter{}, []float32{0.1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestDecodeWAV_RoundTrip(t *testing.T) {
	samples := Render(DefaultSound()).Data()
	data, err := EncodeWAV(samples)
	require.NoError(t, err)

	h, decoded, err := DecodeWAV(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, len(samples), h.SampleCount())
	assert.InDelta(t, float64(len(samples))/SampleRate, h.Duration(), 1e-9)
	require.Len(t, decoded, len(samples))

	for i := range samples {
		if !floatNear(float64(samples[i]), float64(decoded[i]), 1.0/16000) {
			t.Fatalf("sample %d: %f != %f", i, samples[i], decoded[i])
		}
	}
}

func TestDecodeWAVHeader_Invalid(t *testing.T) {
	valid, err := EncodeWAV([]float32{0, 0.5})
	require.NoError(t, err)

	tests := []struct {
		name   string
		data   []byte
		reason string
	}{
		{"short", valid[:20], ""},
		{"not riff", corrupt(valid, 0, "RIFX"), "RIFF"},
		{"not wave", corrupt(valid, 8, "AVI "), "WAVE"},
		{"no data", corrupt(valid, 36, "LIST"), "data"},
		{"not pcm", corrupt(valid, 20, "\x03\x00"), "PCM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeWAVHeader(bytes.NewReader(tt.data))
			require.ErrorIs(t, err, ErrInvalidWAV)
			assert.Contains(t, err.Error(), tt.reason)
		})
	}
}

func TestDecodeWAV_RejectsStereo(t *testing.T) {
	valid, err := EncodeWAV([]float32{0, 0.5})
	require.NoError(t, err)

	_, _, err = DecodeWAV(bytes.NewReader(corrupt(valid, 22, "\x02\x00")))
	assert.ErrorIs(t, err, ErrInvalidWAV)
}

func TestWriteWAVFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "laser.wav")
	samples := Render(ApplyTemplate(TemplateLaser, 42)).Data()

	require.NoError(t, WriteWAVFile(path, samples))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	h, err := DecodeWAVHeader(f)
	require.NoError(t, err)
	assert.Equal(t, len(samples), h.SampleCount())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestWriteWAVFile_EmptyLeavesNoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.wav")

	assert.ErrorIs(t, WriteWAVFile(path, nil), ErrNoSamples)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestWAVDataURL(t *testing.T) {
	samples := Render(ApplyTemplate(TemplateBlip, 2)).Data()

	url, err := WAVDataURL(samples)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "data:audio/wav;base64,"))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, "data:audio/wav;base64,"))
	require.NoError(t, err)
	assert.Equal(t, "RIFF", string(raw[:4]))
	assert.Len(t, raw, 44+2*len(samples))

	_, err = WAVDataURL(nil)
	assert.ErrorIs(t, err, ErrNoSamples)
}

func corrupt(data []byte, offset int, with string) []byte {
	out := bytes.Clone(data)
	copy(out[offset:], with)
	return out
}
