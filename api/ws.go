package api

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsRequest is a client message: {"type":"select", ...selectRequest} or
// {"type":"reset"}.
type wsRequest struct {
	Type string `json:"type"`
	selectRequest
}

type wsResponse struct {
	Type   string          `json:"type"`
	Result *selectResponse `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

func (h *handler) handleWS(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s, ok := h.manager.Get(id)
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	// gorilla/websocket allows one concurrent writer.
	var writeMu sync.Mutex
	writeMsg := func(msg wsResponse) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteJSON(msg)
	}

	kick := s.SetClient() // kicks any prior client of this session
	defer s.ClearClient(kick)

	// Close the connection when the session is killed or this client is
	// displaced, so ReadJSON below unblocks.
	connDone := make(chan struct{})
	go func() {
		select {
		case <-s.Done():
			writeMsg(wsResponse{Type: "closed"}) //nolint:errcheck
			conn.Close()
		case <-kick:
			conn.Close()
		case <-connDone:
		}
	}()
	defer close(connDone)

	for {
		var msg wsRequest
		if err := conn.ReadJSON(&msg); err != nil {
			// Client disconnected, or conn was closed by the watcher above.
			return
		}

		var reply wsResponse
		switch msg.Type {
		case "select":
			req, err := msg.selectRequest.toPreset()
			if err != nil {
				reply = wsResponse{Type: "error", Error: err.Error()}
				break
			}
			res := h.runSelect(s, req)
			reply = wsResponse{Type: "result", Result: &res}
		case "reset":
			s.Reset()
			reply = wsResponse{Type: "reset"}
		default:
			reply = wsResponse{Type: "error", Error: "unknown message type: " + msg.Type}
		}
		if err := writeMsg(reply); err != nil {
			h.logger.Debug("websocket write failed", zap.String("session", id), zap.Error(err))
			return
		}
	}
}
