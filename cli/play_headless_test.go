//go:build !js && headless
// +build !js,headless

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlay_Headless(t *testing.T) {
	a, _ := testApp(false)
	err := run(t, a, "play", "-t", "blip", "-seed", "2")
	assert.ErrorIs(t, err, errNoPlayback)

	// Rendering commands do not need an audio device.
	assert.NoError(t, run(t, a, "url", "-t", "blip", "-seed", "2"))
}
