//go:build !js
// +build !js

package main

import (
	"bufio"
	_ "embed"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/simukka/pfxr/audio"
)

//go:embed index.html
var indexHTML []byte

const requestIDHeader = "X-Request-ID"

// Server serves rendered sounds over HTTP and WebSocket.
type Server struct {
	cfg      Config
	log      *logrus.Logger
	metrics  *metrics
	renderer *renderer
	upgrader websocket.Upgrader
}

// NewServer wires the HTTP server around a cache.
func NewServer(cfg Config, logger *logrus.Logger, cache Cache) *Server {
	m := newMetrics()
	s := &Server{
		cfg:      cfg,
		log:      logger,
		metrics:  m,
		renderer: &renderer{cache: cache, metrics: m, log: logger},
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 64 * 1024,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// Handler returns the routed handler with request logging and CORS applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/sound", s.handleSound)
	mux.HandleFunc("/api/params", s.handleParams)
	mux.HandleFunc("/api/templates", s.handleTemplates)
	mux.HandleFunc("/api/library", s.handleLibrary)
	mux.HandleFunc("/api/ws", s.handleWS)
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy"}`))
	})
	mux.Handle("/metrics", s.metrics.handler())
	return s.middleware(mux)
}

var routes = map[string]bool{
	"/": true, "/index.html": true, "/api/sound": true, "/api/params": true,
	"/api/templates": true, "/api/library": true, "/api/ws": true,
	"/api/health": true, "/metrics": true,
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Hijack hands the connection to the WebSocket upgrader.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response does not support hijacking")
	}
	r.code = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		// CORS headers
		w.Header().Set("Access-Control-Allow-Origin", s.cfg.AllowOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+requestIDHeader)
		w.Header().Set("Access-Control-Expose-Headers", paramsHeader+", "+requestIDHeader)

		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		if r.Method == http.MethodOptions {
			rec.WriteHeader(http.StatusOK)
		} else {
			next.ServeHTTP(rec, r)
		}

		path := r.URL.Path
		if !routes[path] {
			path = "other"
		}
		s.metrics.requests.WithLabelValues(path, strconv.Itoa(rec.code)).Inc()
		s.log.WithFields(logrus.Fields{
			"request_id": id,
			"method":     r.Method,
			"path":       r.URL.Path,
			"code":       rec.code,
		}).Debug("Request")
	})
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	return s.cfg.AllowOrigin == "*" || origin == "" || origin == s.cfg.AllowOrigin
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

const paramsHeader = "X-Pfxr-Params"

// handleSound renders a WAV from ?template=&seed= or ?fx=.
func (s *Server) handleSound(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	res, ok := s.resolveQuery(w, r)
	if !ok {
		return
	}

	wav, cached, err := s.renderer.render(r.Context(), res)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Length", strconv.Itoa(len(wav)))
	w.Header().Set(paramsHeader, res.FX)
	w.Header().Set("X-Pfxr-Cache", strconv.FormatBool(cached))
	w.Write(wav)
}

type paramsResponse struct {
	Template string             `json:"template,omitempty"`
	Seed     uint32             `json:"seed,omitempty"`
	FX       string             `json:"fx"`
	Params   map[string]float32 `json:"params"`
}

// handleParams returns the parameters a request resolves to without
// rendering.
func (s *Server) handleParams(w http.ResponseWriter, r *http.Request) {
	res, ok := s.resolveQuery(w, r)
	if !ok {
		return
	}

	resp := paramsResponse{FX: res.FX, Params: res.Sound.Map()}
	if res.Source == "template" {
		resp.Template = res.Template.String()
		resp.Seed = res.Seed
	}
	writeJSON(w, resp)
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(audio.Templates()))
	for _, t := range audio.Templates() {
		names = append(names, t.String())
	}
	writeJSON(w, map[string]interface{}{
		"templates": names,
	})
}

type libraryEntry struct {
	audio.Preset
	FX string `json:"fx"`
}

func (s *Server) handleLibrary(w http.ResponseWriter, r *http.Request) {
	presets := make([]libraryEntry, 0, len(audio.Library))
	for _, p := range audio.Library {
		presets = append(presets, libraryEntry{Preset: p, FX: p.URL()})
	}
	writeJSON(w, map[string]interface{}{
		"presets": presets,
	})
}

func (s *Server) resolveQuery(w http.ResponseWriter, r *http.Request) (resolved, bool) {
	req, err := requestFromQuery(r.URL.Query().Get)
	if err != nil {
		http.Error(w, "invalid seed", http.StatusBadRequest)
		return resolved{}, false
	}
	res, err := req.resolve()
	if err != nil {
		s.fail(w, r, err)
		return resolved{}, false
	}
	return res, true
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if isClientError(err) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.log.WithError(err).WithFields(logrus.Fields{
		"request_id": w.Header().Get(requestIDHeader),
		"path":       r.URL.Path,
	}).Error("Render failed")
	http.Error(w, "render failed", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
