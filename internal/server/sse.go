package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-builder/internal/preview"
)

// SSEWriter helps write Server-Sent Events
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEWriter creates a new SSE writer
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	return &SSEWriter{w: w, flusher: flusher}, nil
}

// WriteEvent sends an SSE event
func (s *SSEWriter) WriteEvent(event string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(s.w, "event: %s\n", event); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", jsonData); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// WriteSnapshot sends a preview event with the revision as the event id
func (s *SSEWriter) WriteSnapshot(snap *preview.Snapshot) error {
	if _, err := fmt.Fprintf(s.w, "id: %d\n", snap.Revision); err != nil {
		return err
	}
	return s.WriteEvent("preview", snap)
}

// WriteError sends an error event
func (s *SSEWriter) WriteError(message string) {
	s.WriteEvent("error", map[string]string{"error": message}) //nolint:errcheck
}

// WriteClosed tells the client the session is gone
func (s *SSEWriter) WriteClosed(sessionID string) {
	s.WriteEvent("closed", map[string]string{ //nolint:errcheck
		"session_id": sessionID,
	})
}
