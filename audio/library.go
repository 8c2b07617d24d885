package audio

import "strings"

// Preset is a named, reproducible sound: a template and the seed that
// shapes it.
type Preset struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Template    Template `json:"template"`
	Seed        uint32   `json:"seed"`
}

// Sound generates the preset's parameters.
func (p Preset) Sound() Sound {
	return ApplyTemplate(p.Template, p.Seed)
}

// URL returns the preset's "?fx=" encoding.
func (p Preset) URL() string {
	return EncodeURL(p.Sound())
}

// Library is the built-in set of game sounds, grouped by category.
var Library = []Preset{
	{Name: "shoot", Category: "Player", Description: "Basic weapon fire", Template: TemplateLaser, Seed: 42},
	{Name: "shoot-weak", Category: "Player", Description: "Weak weapon fire", Template: TemplateLaser, Seed: 7},
	{Name: "shoot-strong", Category: "Player", Description: "Strong weapon fire", Template: TemplateLaser, Seed: 1337},
	{Name: "hurt", Category: "Player", Description: "Damage taken", Template: TemplateHit, Seed: 3},
	{Name: "jump", Category: "Player", Description: "Jump or boost", Template: TemplateJump, Seed: 11},
	{Name: "bomb", Category: "Player", Description: "Bomb explosion", Template: TemplateExplosion, Seed: 99},
	{Name: "coin", Category: "Pickup", Description: "Money or points collected", Template: TemplatePickup, Seed: 5},
	{Name: "powerup", Category: "Pickup", Description: "Weapon upgrade collected", Template: TemplatePowerup, Seed: 21},
	{Name: "enemy-hit", Category: "Enemy", Description: "Enemy takes damage", Template: TemplateHit, Seed: 17},
	{Name: "boom", Category: "Enemy", Description: "Enemy destroyed", Template: TemplateExplosion, Seed: 8},
	{Name: "enemy-shoot", Category: "Enemy", Description: "Enemy fires", Template: TemplateLaser, Seed: 256},
	{Name: "fall", Category: "Enemy", Description: "Enemy falls off screen", Template: TemplateFall, Seed: 64},
	{Name: "blip", Category: "UI", Description: "Menu selection", Template: TemplateBlip, Seed: 2},
	{Name: "alarm", Category: "UI", Description: "New wave starting", Template: TemplatePowerup, Seed: 300},
	{Name: "game-over", Category: "UI", Description: "Player death", Template: TemplateFall, Seed: 13},
	{Name: "raspberry", Category: "UI", Description: "Wrong answer", Template: TemplateFart, Seed: 4},
}

// LookupPreset returns the library preset with the given name,
// case-insensitively.
func LookupPreset(name string) (Preset, bool) {
	for _, p := range Library {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Preset{}, false
}

// PresetsByCategory returns all presets in a category.
func PresetsByCategory(category string) []Preset {
	var result []Preset
	for _, p := range Library {
		if p.Category == category {
			result = append(result, p)
		}
	}
	return result
}
