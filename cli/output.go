//go:build !js
// +build !js

package main

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/simukka/pfxr/audio"
)

var errTerminal = errors.New("refusing to write WAV data to a terminal; redirect stdout or use -o FILE")

// writeWAV writes samples to path, or to stdout when path is "-".
func (a *app) writeWAV(path string, samples []float32) error {
	if path != "-" {
		return audio.WriteWAVFile(path, samples)
	}
	if a.stdoutIsTerminal() {
		return errTerminal
	}
	return audio.WriteWAV(a.stdout, samples)
}

// float32LE packs samples as little-endian IEEE 754 floats, the layout
// oto.FormatFloat32LE reads.
func float32LE(samples []float32) []byte {
	out := make([]byte, 4*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(s))
	}
	return out
}
