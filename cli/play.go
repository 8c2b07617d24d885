//go:build !js && !headless
// +build !js,!headless

package main

import (
	"bytes"
	"context"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/simukka/pfxr/audio"
)

// play blocks until samples have been played or ctx is done.
func play(ctx context.Context, samples []float32) error {
	op := &oto.NewContextOptions{
		SampleRate:   audio.SampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	}
	otoCtx, ready, err := oto.NewContext(op)
	if err != nil {
		return err
	}
	<-ready

	p := otoCtx.NewPlayer(bytes.NewReader(float32LE(samples)))
	defer p.Close()
	p.Play()

	tick := time.NewTicker(10 * time.Millisecond)
	defer tick.Stop()
	for p.IsPlaying() {
		select {
		case <-ctx.Done():
			p.Pause()
			return ctx.Err()
		case <-tick.C:
		}
	}
	return p.Err()
}
