//go:build !js
// +build !js

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simukka/pfxr/audio"
)

type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	failGet bool
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string][]byte)}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failGet {
		return nil, false, errors.New("connection refused")
	}
	b, ok := c.entries[key]
	return b, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, wav []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = wav
	return nil
}

func (c *memCache) Close() error { return nil }

func testServer(t *testing.T, cache Cache) (*Server, *httptest.Server) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	s := NewServer(DefaultConfig, logger, cache)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func get(t *testing.T, ts *httptest.Server, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestHandleSound_Template(t *testing.T) {
	_, ts := testServer(t, newMemCache())

	resp, body := get(t, ts, "/api/sound?template=laser&seed=42")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	assert.Equal(t, "audio/wav", resp.Header.Get("Content-Type"))
	assert.NotEmpty(t, resp.Header.Get(requestIDHeader))
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	want := audio.ApplyTemplate(audio.TemplateLaser, 42)
	assert.Equal(t, audio.EncodeURL(want), resp.Header.Get(paramsHeader))

	expected, err := audio.EncodeWAV(audio.Render(want).Data())
	require.NoError(t, err)
	assert.Equal(t, expected, body)
}

func TestHandleSound_FX(t *testing.T) {
	_, ts := testServer(t, newMemCache())

	s := audio.ApplyTemplate(audio.TemplateBlip, 2)
	paths := []string{
		"/api/sound?fx=" + url.QueryEscape(s.Values()),
		"/api/sound?fx=" + url.QueryEscape(audio.EncodeURL(s)),
	}
	for _, p := range paths {
		resp, body := get(t, ts, p)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		assert.Equal(t, audio.EncodeURL(s), resp.Header.Get(paramsHeader), p)

		_, samples, err := audio.DecodeWAV(bytes.NewReader(body))
		require.NoError(t, err)
		assert.Len(t, samples, s.SampleCount())
	}
}

func TestHandleSound_BadRequests(t *testing.T) {
	_, ts := testServer(t, newMemCache())

	tests := []struct {
		name, path string
	}{
		{"no params", "/api/sound"},
		{"unknown template", "/api/sound?template=banjo&seed=1"},
		{"bad seed", "/api/sound?template=laser&seed=-1"},
		{"seed overflow", "/api/sound?template=laser&seed=4294967296"},
		{"negative sustain", "/api/sound?fx=0,0.5,0,-1"},
		{"bad waveform", "/api/sound?fx=9"},
		{"silent", "/api/sound?fx=0,0.5,0,0,0,0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := get(t, ts, tt.path)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestHandleSound_MethodNotAllowed(t *testing.T) {
	_, ts := testServer(t, newMemCache())

	resp, err := http.Post(ts.URL+"/api/sound?template=laser&seed=1", "text/plain", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHandleSound_Cache(t *testing.T) {
	cache := newMemCache()
	_, ts := testServer(t, cache)

	resp, first := get(t, ts, "/api/sound?template=pickup&seed=5")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "false", resp.Header.Get("X-Pfxr-Cache"))
	assert.Len(t, cache.entries, 1)

	resp, second := get(t, ts, "/api/sound?template=pickup&seed=5")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "true", resp.Header.Get("X-Pfxr-Cache"))
	assert.Equal(t, first, second)

	_, body := get(t, ts, "/metrics")
	text := string(body)
	assert.Contains(t, text, `pfxr_renders_total{cached="false",source="template"} 1`)
	assert.Contains(t, text, `pfxr_renders_total{cached="true",source="template"} 1`)
}

func TestHandleSound_CacheFailureStillRenders(t *testing.T) {
	cache := newMemCache()
	cache.failGet = true
	_, ts := testServer(t, cache)

	resp, body := get(t, ts, "/api/sound?template=hit&seed=3")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "RIFF", string(body[:4]))
}

func TestHandleParams(t *testing.T) {
	_, ts := testServer(t, noopCache{})

	resp, body := get(t, ts, "/api/params?template=laser&seed=42")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got paramsResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "laser", got.Template)
	assert.Equal(t, uint32(42), got.Seed)

	want := audio.ApplyTemplate(audio.TemplateLaser, 42)
	assert.Equal(t, audio.EncodeURL(want), got.FX)
	assert.Equal(t, float32(3), got.Params["waveForm"])
	assert.Equal(t, want.Frequency, got.Params["frequency"])
	assert.Len(t, got.Params, audio.FieldCount)
}

func TestHandleParams_TimeSeed(t *testing.T) {
	_, ts := testServer(t, noopCache{})

	_, body := get(t, ts, "/api/params?template=explosion")
	var got paramsResponse
	require.NoError(t, json.Unmarshal(body, &got))

	require.NotZero(t, got.Seed, "seed used must be reported")
	assert.Equal(t, audio.EncodeURL(audio.ApplyTemplate(audio.TemplateExplosion, got.Seed)), got.FX)
}

func TestHandleParams_FX(t *testing.T) {
	_, ts := testServer(t, noopCache{})

	_, body := get(t, ts, "/api/params?fx=2,0.25")
	var got paramsResponse
	require.NoError(t, json.Unmarshal(body, &got))

	assert.Empty(t, got.Template)
	assert.Zero(t, got.Seed)
	assert.Equal(t, float32(2), got.Params["waveForm"])
	assert.Equal(t, float32(0.25), got.Params["volume"])
}

func TestHandleTemplatesAndLibrary(t *testing.T) {
	_, ts := testServer(t, noopCache{})

	_, body := get(t, ts, "/api/templates")
	var templates struct {
		Templates []string `json:"templates"`
	}
	require.NoError(t, json.Unmarshal(body, &templates))
	assert.Len(t, templates.Templates, len(audio.Templates()))
	assert.Contains(t, templates.Templates, "laser")

	_, body = get(t, ts, "/api/library")
	var library struct {
		Presets []struct {
			Name     string         `json:"name"`
			Template audio.Template `json:"template"`
			Seed     uint32         `json:"seed"`
			FX       string         `json:"fx"`
		} `json:"presets"`
	}
	require.NoError(t, json.Unmarshal(body, &library))
	require.Len(t, library.Presets, len(audio.Library))

	first := library.Presets[0]
	p := audio.Library[0]
	assert.Equal(t, p.Name, first.Name)
	assert.Equal(t, p.Template, first.Template)
	assert.Equal(t, p.URL(), first.FX)
}

func TestIndexAndHealth(t *testing.T) {
	_, ts := testServer(t, noopCache{})

	resp, body := get(t, ts, "/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "pfxr")

	resp, _ = get(t, ts, "/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = get(t, ts, "/api/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"healthy"}`, string(body))
}

func TestMetricsEndpoint(t *testing.T) {
	_, ts := testServer(t, noopCache{})

	get(t, ts, "/api/sound?template=blip&seed=2")
	resp, body := get(t, ts, "/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	text := string(body)
	assert.Contains(t, text, `pfxr_renders_total{cached="false",source="template"} 1`)
	assert.Contains(t, text, "pfxr_render_seconds_bucket")
	assert.Contains(t, text, "pfxr_render_samples_count 1")
}

func TestRequestIDPropagated(t *testing.T) {
	_, ts := testServer(t, noopCache{})

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/health", nil)
	require.NoError(t, err)
	req.Header.Set(requestIDHeader, "abc-123")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "abc-123", resp.Header.Get(requestIDHeader))
}

func TestPreflight(t *testing.T) {
	_, ts := testServer(t, noopCache{})

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/sound", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "GET")
}

func TestWebSocket(t *testing.T) {
	_, ts := testServer(t, newMemCache())

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Template request
	require.NoError(t, conn.WriteJSON(renderRequest{Template: "jump", Seed: 11}))
	kind, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.BinaryMessage, kind)
	_, samples, err := audio.DecodeWAV(bytes.NewReader(msg))
	require.NoError(t, err)
	assert.Len(t, samples, audio.ApplyTemplate(audio.TemplateJump, 11).SampleCount())

	// fx request
	require.NoError(t, conn.WriteJSON(renderRequest{FX: audio.EncodeURL(audio.DefaultSound())}))
	kind, msg, err = conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.BinaryMessage, kind)
	assert.Equal(t, "RIFF", string(msg[:4]))

	// Errors come back as JSON and keep the connection open.
	require.NoError(t, conn.WriteJSON(renderRequest{Template: "banjo"}))
	var wsErr wsError
	require.NoError(t, conn.ReadJSON(&wsErr))
	assert.Contains(t, wsErr.Error, "unknown template")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	require.NoError(t, conn.ReadJSON(&wsErr))
	assert.Contains(t, wsErr.Error, "invalid JSON")

	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{1, 2}))
	require.NoError(t, conn.ReadJSON(&wsErr))
	assert.NotEmpty(t, wsErr.Error)

	require.NoError(t, conn.WriteJSON(renderRequest{Template: "blip", Seed: 2}))
	kind, _, err = conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.BinaryMessage, kind)
}

func TestWebSocket_RejectsForeignOrigin(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	cfg := DefaultConfig
	cfg.AllowOrigin = "https://game.example"
	ts := httptest.NewServer(NewServer(cfg, logger, noopCache{}).Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, http.Header{"Origin": {"https://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, http.Header{"Origin": {"https://game.example"}})
	require.NoError(t, err)
	conn.Close()
}
