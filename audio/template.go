package audio

import (
	"fmt"
	"strings"

	"github.com/simukka/pfxr/common"
)

// Template biases random parameter generation toward a sound category.
type Template int

const (
	TemplateDefault Template = iota
	TemplatePickup
	TemplateLaser
	TemplateJump
	TemplateFall
	TemplatePowerup
	TemplateExplosion
	TemplateBlip
	TemplateHit
	TemplateFart
	TemplateRandom
)

var templateNames = [...]string{
	TemplateDefault:   "default",
	TemplatePickup:    "pickup",
	TemplateLaser:     "laser",
	TemplateJump:      "jump",
	TemplateFall:      "fall",
	TemplatePowerup:   "powerup",
	TemplateExplosion: "explosion",
	TemplateBlip:      "blip",
	TemplateHit:       "hit",
	TemplateFart:      "fart",
	TemplateRandom:    "random",
}

func (t Template) String() string {
	if t < 0 || int(t) >= len(templateNames) {
		return fmt.Sprintf("Template(%d)", int(t))
	}
	return templateNames[t]
}

// MarshalText encodes the template as its name.
func (t Template) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText accepts any name ParseTemplate does.
func (t *Template) UnmarshalText(b []byte) error {
	v, err := ParseTemplate(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ParseTemplate resolves a template name, case-insensitively.
func ParseTemplate(name string) (Template, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, tn := range templateNames {
		if tn == n {
			return Template(i), nil
		}
	}
	return TemplateDefault, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
}

// Templates returns every template in declaration order.
func Templates() []Template {
	out := make([]Template, len(templateNames))
	for i := range out {
		out[i] = Template(i)
	}
	return out
}

var (
	allWaves  = []int{0, 1, 2, 3}
	jumpWaves = []int{1, 2}
	fallWaves = []int{1, 2, 3}
)

// ApplyTemplate generates the parameters of template t for seed. A seed of 0
// draws from a time-derived seed and is not reproducible.
func ApplyTemplate(t Template, seed uint32) Sound {
	return ApplyTemplateRandom(t, common.NewRandom(seed))
}

// ApplyTemplateRandom is ApplyTemplate with a caller-owned generator. The
// number and order of draws per template is fixed; changing it changes every
// seeded sound.
func ApplyTemplateRandom(t Template, r *common.Random) Sound {
	s := DefaultSound()
	if r == nil {
		r = common.NewRandom(0)
	}

	switch t {
	case TemplatePickup:
		s.WaveForm = WaveForm(r.Choice(allWaves))
		s.SustainPunch = r.Float(0, .8)
		s.SustainTime = r.Float(.05, .2)
		s.DecayTime = r.Float(.1, .3)
		s.Frequency = r.Float(900, 1700)
		if r.Bool(.5) {
			s.PitchDelta = r.Float(100, 500)
			s.PitchDuration = 0
			s.PitchDelay = r.Float(0, .7)
		}

	case TemplateLaser:
		s.WaveForm = WaveForm(r.Choice(allWaves))
		s.SustainPunch = r.Float(0, .8)
		s.SustainTime = r.Float(.05, .1)
		s.DecayTime = r.Float(0, .2)
		s.Frequency = r.Float(100, 1300)
		s.PitchDelta = r.Float(-s.Frequency, -100)
		s.PitchDuration = 1
		s.PitchDelay = maybeDelay(r)

	case TemplateJump:
		s.WaveForm = WaveForm(r.Choice(jumpWaves))
		s.SustainPunch = r.Float(0, .8)
		s.SustainTime = r.Float(.2, .5)
		s.DecayTime = r.Float(.1, .2)
		s.Frequency = r.Float(100, 500)
		s.PitchDelta = r.Float(200, 500)
		s.PitchDuration = 1
		s.PitchDelay = maybeDelay(r)

	case TemplateFall:
		s.WaveForm = WaveForm(r.Choice(fallWaves))
		s.SustainPunch = 0
		s.SustainTime = r.Float(.2, .5)
		s.DecayTime = r.Float(.2, .5)
		s.Frequency = r.Float(80, 500)
		s.PitchDelta = -s.Frequency
		s.PitchDuration = 1
		s.PitchDelay = r.Float(0, .2)
		s.VibratoRate = r.Float(8, 18)
		s.VibratoDepth = r.Float(10, 30)
		s.TremoloRate = r.Float(5, 18)
		s.TremoloDepth = r.Float(0, 1)

	case TemplatePowerup:
		s.WaveForm = WaveForm(r.Choice(allWaves))
		s.SustainPunch = r.Float(0, 1)
		s.SustainTime = r.Float(.2, .5)
		s.DecayTime = r.Float(.1, .5)
		s.Frequency = r.Float(200, 1000)
		s.PitchDelta = r.Float(100, 300)
		s.PitchDuration = 1
		s.PitchDelay = maybeDelay(r)
		s.VibratoRate = r.Float(10, 18)
		s.VibratoDepth = r.Float(50, 100)

	case TemplateExplosion:
		s.WaveForm = WaveForm(r.Choice(allWaves))
		s.Volume = .3
		s.SustainPunch = r.Float(0, .3)
		s.SustainTime = r.Float(.4, 1.3)
		s.DecayTime = r.Float(.1, .5)
		s.Frequency = r.Float(0, 200)
		s.PitchDelta = -s.Frequency
		s.PitchDuration = 1
		s.PitchDelay = r.Float(0, .3)
		s.VibratoRate = r.Float(0, 70)
		s.VibratoDepth = r.Float(0, 100)
		s.TremoloRate = r.Float(0, 70)
		s.TremoloDepth = r.Float(0, 1)
		s.PhaserDepth = r.Float(300, 1000)
		s.NoiseAmount = r.Float(300, 500)

	case TemplateBlip:
		s.WaveForm = WaveForm(r.Choice(allWaves))
		s.SustainTime = r.Float(.02, .1)
		s.DecayTime = r.Float(0, .04)
		s.Frequency = r.Float(600, 3000)

	case TemplateHit:
		s.WaveForm = WaveForm(r.Choice(allWaves))
		s.SustainTime = r.Float(.01, .03)
		s.SustainPunch = r.Float(0, .5)
		s.DecayTime = r.Float(0, .2)
		s.Frequency = r.Float(20, 500)
		s.PitchDelta = r.Float(-s.Frequency, -s.Frequency*.2)
		s.NoiseAmount = r.Float(0, 100)

	case TemplateFart:
		s.WaveForm = WaveSawtooth
		s.Volume = .7
		s.SustainPunch = r.Float(0, .2)
		s.SustainTime = r.Float(.1, .5)
		s.DecayTime = r.Float(.3, .5)
		s.Frequency = r.Float(30, 150)
		s.PitchDelta = -s.Frequency / 2
		s.PitchDuration = 1
		s.PitchDelay = .1
		s.VibratoRate = r.Float(8, 18)
		s.VibratoDepth = r.Float(10, 30)
		s.TremoloRate = r.Float(35, 70)
		s.TremoloDepth = r.Float(.6, 1)
		s.LowPassCutoff = s.Frequency * 10
		s.LowPassResonance = 10
		s.NoiseAmount = r.Float(0, 30)

	case TemplateRandom:
		for _, f := range Fields {
			if f.Integer {
				f.Set(&s, float32(r.Choice(allWaves)))
				continue
			}
			f.Set(&s, r.Float(f.Min, f.Max))
		}
	}

	return s
}

// maybeDelay draws a candidate delay, then keeps it with probability 1/2.
// Both draws always happen.
func maybeDelay(r *common.Random) float32 {
	d := r.Float(0, .3)
	if r.Bool(.5) {
		return d
	}
	return 0
}
