//go:build js
// +build js

package main

import (
	"github.com/gopherjs/gopherjs/js"

	"github.com/simukka/pfxr/audio"
	"github.com/simukka/pfxr/web"
)

func main() {
	player := web.NewPlayer()
	panel := web.NewPanel(player)
	console := js.Global.Get("console")

	// Web Audio may only start after a user gesture.
	js.Global.Get("document").Call("addEventListener", "pointerdown", func() {
		if player.Init() {
			player.LoadLibrary()
		}
	}, map[string]interface{}{"once": true})

	// Keep the address bar on the edited sound so the page URL is shareable.
	panel.OnChange = func(s audio.Sound) {
		js.Global.Get("history").Call("replaceState", nil, "", audio.EncodeURL(s))
	}

	// Right-click toggles the editor.
	js.Global.Get("document").Call("addEventListener", "contextmenu", func(e *js.Object) {
		e.Call("preventDefault")
		panel.Toggle()
	})

	generate := func(name string, seed uint32) (audio.Sound, bool) {
		s, err := web.Generate(name, seed)
		if err != nil {
			console.Call("error", "pfxr: "+err.Error())
			return s, false
		}
		return s, true
	}
	dataURL := func(s audio.Sound) string {
		url, err := web.DataURL(s)
		if err != nil {
			console.Call("error", "pfxr: "+err.Error())
			return ""
		}
		return url
	}

	js.Global.Set("PFXR", map[string]interface{}{
		"generate": func(name string, seed uint32) string {
			s, ok := generate(name, seed)
			if !ok {
				return ""
			}
			return dataURL(s)
		},
		"render": func(fx string) string {
			return dataURL(audio.ParseParams(fx))
		},
		"encode": func(name string, seed uint32) string {
			s, ok := generate(name, seed)
			if !ok {
				return ""
			}
			return audio.EncodeURL(s)
		},
		"play": func(name string, seed uint32) {
			s, ok := generate(name, seed)
			if !ok {
				return
			}
			if url := dataURL(s); url != "" && player.Init() {
				player.PlayDataURL(url)
			}
		},
		"playPreset": func(name string) {
			player.Init()
			if err := player.PlayPreset(name); err != nil {
				console.Call("error", "pfxr: "+err.Error())
			}
		},
		"library": func(category string) []string {
			return web.PresetNames(category)
		},
		"setVolume": player.SetVolume,
		"openEditor": func() {
			// A "?fx=" in the page URL seeds the editor.
			search := js.Global.Get("location").Get("search").String()
			s := panel.Sound()
			if search != "" {
				s = audio.DecodeURL(search)
			}
			panel.Open(s)
		},
	})

	select {}
}
