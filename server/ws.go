//go:build !js
// +build !js

package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	wsMaxMessage = 4096
	wsWriteWait  = 10 * time.Second
)

type wsError struct {
	Error string `json:"error"`
}

// handleWS answers each JSON render request with a binary WAV frame.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		return
	}
	defer conn.Close()
	conn.SetReadLimit(wsMaxMessage)

	logger := s.log.WithFields(logrus.Fields{
		"request_id": w.Header().Get(requestIDHeader),
		"remote":     r.RemoteAddr,
	})
	logger.Debug("WebSocket connected")

	ctx := r.Context()
	for {
		kind, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.WithError(err).Warn("WebSocket read failed")
			}
			return
		}
		if kind != websocket.TextMessage {
			if err := s.wsReply(conn, wsError{Error: "expected a JSON text message"}); err != nil {
				return
			}
			continue
		}

		var req renderRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			if err := s.wsReply(conn, wsError{Error: "invalid JSON: " + err.Error()}); err != nil {
				return
			}
			continue
		}

		res, err := req.resolve()
		var wav []byte
		if err == nil {
			wav, _, err = s.renderer.render(ctx, res)
		}
		if err != nil {
			if !isClientError(err) {
				logger.WithError(err).Error("Render failed")
			}
			if err := s.wsReply(conn, wsError{Error: err.Error()}); err != nil {
				return
			}
			continue
		}

		conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteMessage(websocket.BinaryMessage, wav); err != nil {
			logger.WithError(err).Warn("WebSocket write failed")
			return
		}
	}
}

func (s *Server) wsReply(conn *websocket.Conn, v interface{}) error {
	conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteJSON(v)
}
