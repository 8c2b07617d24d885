//go:build js
// +build js

package web

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/gopherjs/gopherjs/js"

	"github.com/simukka/pfxr/audio"
)

//go:embed panel.gohtml
var panelHTML string

var panelTemplate = template.Must(template.New("panel").Parse(panelHTML))

type panelData struct {
	Templates []string
	Groups    []SliderGroup
}

// Panel is a slider editor over every sound parameter. Each edit re-renders
// the sound and updates the "?fx=" link.
type Panel struct {
	player *Player
	sound  audio.Sound
	root   *js.Object

	// OnChange, when set, receives the sound after every edit.
	OnChange func(audio.Sound)
}

// NewPanel creates a hidden panel that previews through player.
func NewPanel(player *Player) *Panel {
	return &Panel{player: player, sound: audio.DefaultSound()}
}

// Sound returns the parameters currently shown.
func (p *Panel) Sound() audio.Sound {
	return p.sound
}

// Open shows the panel editing s.
func (p *Panel) Open(s audio.Sound) {
	if p.root == nil {
		p.build()
	}
	p.set(s)
	p.root.Get("style").Set("display", "block")
}

// Close hides the panel.
func (p *Panel) Close() {
	if p.root != nil {
		p.root.Get("style").Set("display", "none")
	}
}

// Toggle shows or hides the panel.
func (p *Panel) Toggle() {
	if p.root != nil && p.root.Get("style").Get("display").String() != "none" {
		p.Close()
		return
	}
	p.Open(p.sound)
}

func (p *Panel) build() {
	doc := js.Global.Get("document")

	root := doc.Call("createElement", "div")
	root.Set("id", "pfxr-panel")
	root.Get("style").Set("cssText", `
		position: fixed;
		top: 50%;
		left: 50%;
		transform: translate(-50%, -50%);
		background: rgba(20, 20, 30, 0.95);
		border: 2px solid #4a9eff;
		border-radius: 8px;
		padding: 20px;
		color: #fff;
		font-family: 'Courier New', monospace;
		font-size: 12px;
		z-index: 10000;
		display: none;
		max-height: 80vh;
		overflow-y: auto;
		min-width: 420px;
	`)

	data := panelData{Groups: Layout(p.sound)}
	for _, t := range audio.Templates() {
		data.Templates = append(data.Templates, t.String())
	}
	var buf bytes.Buffer
	if err := panelTemplate.Execute(&buf, data); err != nil {
		root.Set("innerHTML", "<div style='color:red'>Template error: "+template.HTMLEscapeString(err.Error())+"</div>")
	} else {
		root.Set("innerHTML", buf.String())
	}

	doc.Get("body").Call("appendChild", root)
	p.root = root
	p.attach()
}

func (p *Panel) attach() {
	doc := js.Global.Get("document")

	setters := fieldSetters(&p.sound)
	for i := range audio.Fields {
		i, set := i, setters[i]
		slider := doc.Call("getElementById", "pfxr-"+audio.Fields[i].Name)
		if slider == nil || slider == js.Undefined {
			continue
		}
		slider.Call("addEventListener", "input", func(e *js.Object) {
			set(e.Get("target").Get("value").Float())
			p.showValue(i)
			p.changed()
		})
		slider.Call("addEventListener", "change", func() {
			p.preview()
		})
	}

	buttons := doc.Call("querySelectorAll", ".pfxr-template-btn")
	for i := 0; i < buttons.Length(); i++ {
		buttons.Index(i).Call("addEventListener", "click", func(e *js.Object) {
			name := e.Get("currentTarget").Call("getAttribute", "data-template").String()
			s, err := Generate(name, 0)
			if err != nil {
				return
			}
			p.set(s)
			p.preview()
		})
	}

	onClick := func(id string, fn func()) {
		el := doc.Call("getElementById", id)
		if el != nil && el != js.Undefined {
			el.Call("addEventListener", "click", fn)
		}
	}
	onClick("pfxr-close", p.Close)
	onClick("pfxr-play", p.preview)
	onClick("pfxr-copy", func() {
		loc := js.Global.Get("location")
		link := loc.Get("origin").String() + loc.Get("pathname").String() + audio.EncodeURL(p.sound)
		js.Global.Get("navigator").Get("clipboard").Call("writeText", link)
	})
}

// set replaces the edited sound and syncs every slider to it.
func (p *Panel) set(s audio.Sound) {
	p.sound = s
	doc := js.Global.Get("document")
	for i, f := range audio.Fields {
		slider := doc.Call("getElementById", "pfxr-"+f.Name)
		if slider != nil && slider != js.Undefined {
			slider.Set("value", f.Get(&p.sound))
		}
		p.showValue(i)
	}
	p.changed()
}

func (p *Panel) showValue(i int) {
	f := audio.Fields[i]
	span := js.Global.Get("document").Call("getElementById", "pfxr-"+f.Name+"-val")
	if span != nil && span != js.Undefined {
		span.Set("textContent", FormatValue(f, float64(f.Get(&p.sound))))
	}
}

// changed re-renders into the preview element and refreshes the link.
func (p *Panel) changed() {
	doc := js.Global.Get("document")
	if fx := doc.Call("getElementById", "pfxr-fx"); fx != nil && fx != js.Undefined {
		fx.Set("value", audio.EncodeURL(p.sound))
	}
	if url, err := DataURL(p.sound); err == nil {
		if el := doc.Call("getElementById", "pfxr-preview"); el != nil && el != js.Undefined {
			el.Set("src", url)
		}
	}
	if p.OnChange != nil {
		p.OnChange(p.sound)
	}
}

func (p *Panel) preview() {
	if p.player == nil {
		return
	}
	p.player.Init()
	if url, err := DataURL(p.sound); err == nil {
		p.player.PlayDataURL(url)
	}
}
