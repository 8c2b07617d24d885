//go:build js
// +build js

package web

import (
	"github.com/gopherjs/gopherjs/js"

	"github.com/simukka/pfxr/audio"
)

// Player plays rendered sounds through the Web Audio API.
type Player struct {
	ctx        *js.Object
	masterGain *js.Object
	buffers    map[string]*js.Object
	ready      bool
}

// NewPlayer creates a player. Call Init from a user gesture before playing.
func NewPlayer() *Player {
	return &Player{
		buffers: make(map[string]*js.Object),
	}
}

// Init creates the AudioContext. It reports false when the browser has no
// Web Audio support.
func (p *Player) Init() bool {
	if p.ctx != nil {
		return true
	}

	audioCtx := js.Global.Get("AudioContext")
	if audioCtx == nil || audioCtx == js.Undefined {
		audioCtx = js.Global.Get("webkitAudioContext")
	}
	if audioCtx == nil || audioCtx == js.Undefined {
		return false
	}

	p.ctx = audioCtx.New()
	p.masterGain = p.ctx.Call("createGain")
	p.masterGain.Call("connect", p.ctx.Get("destination"))
	p.ready = true
	return true
}

// LoadSound decodes a WAV data URL and stores it under name. Decoding is
// asynchronous; Play before it finishes is silent.
func (p *Player) LoadSound(name, dataURL string) {
	p.decode(dataURL, func(buffer *js.Object) {
		p.buffers[name] = buffer
	})
}

// LoadLibrary renders and loads every library preset under its name.
func (p *Player) LoadLibrary() {
	for _, preset := range audio.Library {
		url, err := DataURL(preset.Sound())
		if err != nil {
			js.Global.Get("console").Call("error", "pfxr: "+preset.Name+": "+err.Error())
			continue
		}
		p.LoadSound(preset.Name, url)
	}
}

// PlayPreset plays a library preset by name, case-insensitively. A preset
// whose buffer has not been decoded yet is rendered on the spot.
func (p *Player) PlayPreset(name string) error {
	preset, s, err := PresetSound(name)
	if err != nil {
		return err
	}
	if !p.ready {
		return nil
	}
	if buffer, ok := p.buffers[preset.Name]; ok && buffer != nil {
		p.start(buffer)
		return nil
	}
	url, err := DataURL(s)
	if err != nil {
		return err
	}
	p.PlayDataURL(url)
	return nil
}

// PlayDataURL decodes and plays a sound once without storing it.
func (p *Player) PlayDataURL(dataURL string) {
	if !p.ready {
		return
	}
	p.decode(dataURL, p.start)
}

// SetVolume sets the master volume (0.0 to 1.0).
func (p *Player) SetVolume(volume float64) {
	if p.masterGain == nil {
		return
	}
	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}
	p.masterGain.Get("gain").Set("value", volume)
}

func (p *Player) decode(dataURL string, done func(*js.Object)) {
	if p.ctx == nil {
		return
	}

	fetchPromise := js.Global.Call("fetch", dataURL)
	fetchPromise.Call("then", func(response *js.Object) {
		response.Call("arrayBuffer").Call("then", func(arrayBuffer *js.Object) {
			p.ctx.Call("decodeAudioData", arrayBuffer).Call("then", done)
		})
	})
}

func (p *Player) start(buffer *js.Object) {
	// Browsers suspend contexts created before a user gesture.
	if p.ctx.Get("state").String() == "suspended" {
		p.ctx.Call("resume")
	}

	source := p.ctx.Call("createBufferSource")
	source.Set("buffer", buffer)
	source.Call("connect", p.masterGain)
	source.Call("start", 0)
}
