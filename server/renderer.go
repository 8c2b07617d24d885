//go:build !js
// +build !js

package main

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/simukka/pfxr/audio"
	"github.com/simukka/pfxr/common"
)

var errNoParams = errors.New("template or fx required")

// renderRequest names a sound either by template and seed or by "?fx=" string.
// An fx string wins when both are set.
type renderRequest struct {
	Template string `json:"template,omitempty"`
	Seed     uint32 `json:"seed,omitempty"`
	FX       string `json:"fx,omitempty"`
}

// requestFromQuery reads template, seed and fx query parameters.
func requestFromQuery(get func(string) string) (renderRequest, error) {
	req := renderRequest{
		Template: get("template"),
		FX:       get("fx"),
	}
	if s := get("seed"); s != "" {
		seed, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return req, err
		}
		req.Seed = uint32(seed)
	}
	return req, nil
}

// resolved is a request turned into concrete parameters.
type resolved struct {
	Source   string
	Template audio.Template
	Seed     uint32
	FX       string
	Sound    audio.Sound
}

// resolve produces the sound a request names. A zero seed is replaced with a
// time-derived one so the response can report what was used.
func (req renderRequest) resolve() (resolved, error) {
	var r resolved
	switch {
	case req.FX != "":
		r.Source = "fx"
		r.Sound = audio.ParseParams(req.FX)
	case req.Template != "":
		t, err := audio.ParseTemplate(req.Template)
		if err != nil {
			return r, err
		}
		r.Source = "template"
		r.Template = t
		r.Seed = req.Seed
		if r.Seed == 0 {
			r.Seed = common.TimeSeed()
		}
		r.Sound = audio.ApplyTemplate(t, r.Seed)
	default:
		return r, errNoParams
	}

	if err := r.Sound.Validate(); err != nil {
		return r, err
	}
	r.FX = audio.EncodeURL(r.Sound)
	return r, nil
}

// renderer turns parameters into WAV bytes, consulting the cache first.
type renderer struct {
	cache   Cache
	metrics *metrics
	log     *logrus.Logger
}

func (rd *renderer) render(ctx context.Context, r resolved) ([]byte, bool, error) {
	key := cacheKey(r.Sound.Values())

	wav, ok, err := rd.cache.Get(ctx, key)
	if err != nil {
		rd.log.WithError(err).WithField("key", key).Warn("Cache lookup failed")
	}
	if ok {
		rd.metrics.renders.WithLabelValues(r.Source, "true").Inc()
		return wav, true, nil
	}

	start := time.Now()
	buf := audio.Render(r.Sound)
	wav, err = audio.EncodeWAV(buf.Data())
	if err != nil {
		return nil, false, err
	}
	rd.metrics.renderSeconds.Observe(time.Since(start).Seconds())
	rd.metrics.renderSamples.Observe(float64(buf.Len))
	rd.metrics.renders.WithLabelValues(r.Source, "false").Inc()

	if err := rd.cache.Set(ctx, key, wav); err != nil {
		rd.log.WithError(err).WithField("key", key).Warn("Cache store failed")
	}

	rd.log.WithFields(logrus.Fields{
		"source":  r.Source,
		"samples": buf.Len,
		"elapsed": time.Since(start),
	}).Debug("Rendered sound")
	return wav, false, nil
}

// isClientError reports errors caused by the request's parameters.
func isClientError(err error) bool {
	return errors.Is(err, errNoParams) ||
		errors.Is(err, audio.ErrUnknownTemplate) ||
		errors.Is(err, audio.ErrInvalidSound) ||
		errors.Is(err, audio.ErrNoSamples)
}
