// Package live exposes a keepalive event stream that dashboards use to
// detect whether the backend is reachable.
package live

import (
	"fmt"
	"net/http"
	"time"
)

// StreamHandler sends an SSE heartbeat every 5 seconds until the client
// disconnects.
func StreamHandler(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	// First beat immediately so clients confirm liveness without waiting.
	fmt.Fprint(w, "data: {\"alive\":true}\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			fmt.Fprint(w, "data: {\"alive\":true}\n\n")
			flusher.Flush()
		}
	}
}
