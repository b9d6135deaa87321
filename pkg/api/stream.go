/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/carverauto/gatekeeper/pkg/models"
)

const (
	wsWriteWait = 5 * time.Second
	wsReadWait  = 60 * time.Second
)

// StreamMessage is one WebSocket frame of the trigger stream.
type StreamMessage struct {
	Type      string             `json:"type"` // "update", "error", "complete"
	Update    *models.GateUpdate `json:"update,omitempty"`
	Error     string             `json:"error,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
}

// handleTrigger starts a session and streams its updates as NDJSON. The
// session is not tied to the request: a client that disconnects stops
// receiving updates but the gate operation still runs to completion.
func (s *Server) handleTrigger(w http.ResponseWriter, r *http.Request) {
	updates, err := s.trigger.Trigger(context.WithoutCancel(r.Context()))
	if err != nil {
		s.logger.Warn().Err(err).Str("remote_addr", r.RemoteAddr).Msg("Trigger rejected")
		writeError(w, err.Error(), statusFor(err))

		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	rc := http.NewResponseController(w)
	enc := json.NewEncoder(w)

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug().Str("remote_addr", r.RemoteAddr).Msg("Trigger client went away")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}

			if err := enc.Encode(update); err != nil {
				s.logger.Warn().Err(err).Msg("Failed to write trigger update")
				return
			}

			if err := rc.Flush(); err != nil {
				s.logger.Debug().Err(err).Msg("Response does not support flushing")
			}
		}
	}
}

// handleTriggerStream triggers on connect and streams updates over a WebSocket.
func (s *Server) handleTriggerStream(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return s.cors.OriginAllowed(r.Header.Get("Origin"), r.Host)
		},
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("remote_addr", r.RemoteAddr).
			Str("origin", r.Header.Get("Origin")).
			Msg("Failed to upgrade to WebSocket")

		return
	}

	defer func() {
		_ = conn.Close()
	}()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go s.handleClientMessages(ctx, conn, cancel)

	updates, err := s.trigger.Trigger(context.WithoutCancel(r.Context()))
	if err != nil {
		if sendErr := sendErrorMessage(conn, err.Error()); sendErr != nil {
			s.logger.Error().Err(sendErr).Msg("Failed to send error message")
		}

		closeNormally(conn)

		return
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug().Str("remote_addr", r.RemoteAddr).Msg("WebSocket client went away")
			return
		case update, ok := <-updates:
			if !ok {
				if err := sendCompletionMessage(conn); err != nil {
					s.logger.Debug().Err(err).Msg("Failed to send completion message")
				}

				closeNormally(conn)

				return
			}

			if err := sendUpdateMessage(conn, &update); err != nil {
				s.logger.Warn().Err(err).Msg("Failed to send trigger update")
				return
			}
		}
	}
}

// handleClientMessages reads until the peer disconnects, then cancels the stream.
func (s *Server) handleClientMessages(ctx context.Context, conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()

	for ctx.Err() == nil {
		if err := conn.SetReadDeadline(time.Now().Add(wsReadWait)); err != nil {
			return
		}

		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug().Err(err).Msg("WebSocket read ended")
			}

			return
		}
	}
}

func sendUpdateMessage(conn *websocket.Conn, update *models.GateUpdate) error {
	msg := StreamMessage{
		Type:      "update",
		Update:    update,
		Timestamp: time.Now(),
	}

	return writeMessage(conn, msg)
}

func sendErrorMessage(conn *websocket.Conn, errMsg string) error {
	msg := StreamMessage{
		Type:      "error",
		Error:     errMsg,
		Timestamp: time.Now(),
	}

	if err := writeMessage(conn, msg); err != nil {
		return fmt.Errorf("failed to write error message: %w", err)
	}

	return nil
}

func sendCompletionMessage(conn *websocket.Conn) error {
	msg := StreamMessage{
		Type:      "complete",
		Timestamp: time.Now(),
	}

	return writeMessage(conn, msg)
}

func writeMessage(conn *websocket.Conn, msg StreamMessage) error {
	if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
		return err
	}

	return conn.WriteJSON(msg)
}

func closeNormally(conn *websocket.Conn) {
	_ = conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(wsWriteWait),
	)
}
