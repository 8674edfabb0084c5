package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
)

// upgrader follows ts2-sim-server's hub pattern of a single shared
// gorilla/websocket.Upgrader, with origin checking disabled since this
// endpoint serves the same purpose as the SSE stream for clients that
// prefer a websocket connection.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleWebsocket pushes the most recent run's timetable entries as
// JSON frames, one per message, mirroring /api/stream, then sends a
// completion frame and closes the connection. Messages sent by the
// client are not read.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Log.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	s.mu.RLock()
	results := s.lastRun
	s.mu.RUnlock()

	for _, res := range results {
		for _, entry := range res.Timetable {
			if err := conn.WriteJSON(entry); err != nil {
				return
			}
		}
	}
	conn.WriteMessage(websocket.TextMessage, mustJSON(map[string]bool{"completed": true}))
}

func mustJSON(v any) []byte {
	b, _ := json.Marshal(v)
	return b
}
