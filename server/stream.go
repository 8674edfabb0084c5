package server

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// handleStream replays the most recent run's timetable over
// Server-Sent Events, one "entry" event per TimetableEntry followed by
// a terminal "done" event.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flush := func(event string, payload any) {
		data, err := json.Marshal(payload)
		if err != nil {
			return
		}
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
		flusher.Flush()
	}

	s.mu.RLock()
	results := s.lastRun
	s.mu.RUnlock()

	for _, res := range results {
		for _, entry := range res.Timetable {
			select {
			case <-r.Context().Done():
				return
			default:
			}
			flush("entry", entry)
		}
	}
	flush("done", map[string]bool{"completed": true})
}
