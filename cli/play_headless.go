//go:build !js && headless
// +build !js,headless

package main

import (
	"context"
	"errors"
)

var errNoPlayback = errors.New("playback unavailable: pfxr was built with the headless tag")

func play(ctx context.Context, samples []float32) error {
	return errNoPlayback
}
