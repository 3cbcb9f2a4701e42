package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/aretw0/murmur/pkg/domain"
	"github.com/oapi-codegen/runtime"
)

// StreamManager handles active SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[int]map[chan<- string]struct{} // Group -> Set of Channels
	logger      *slog.Logger
}

// NewStreamManager creates an empty manager.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	return &StreamManager{
		subscribers: make(map[int]map[chan<- string]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a listener for a group. The returned func unsubscribes and closes
// the channel.
func (sm *StreamManager) Subscribe(group int) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 16)
	if _, ok := sm.subscribers[group]; !ok {
		sm.subscribers[group] = make(map[chan<- string]struct{})
	}
	sm.subscribers[group][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[group]; ok {
			if _, ok := subs[ch]; !ok {
				return
			}
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, group)
			}
		}
	}
}

// Publish sends each event, JSON encoded, to the subscribers of group.
func (sm *StreamManager) Publish(group int, events []domain.Event) {
	for _, ev := range events {
		data, err := json.Marshal(ev)
		if err != nil {
			sm.logger.Error("SSE: failed to encode event", "err", err)
			continue
		}
		sm.Broadcast(group, string(data))
	}
}

// Broadcast sends msg to the subscribers of group. Slow clients drop messages.
func (sm *StreamManager) Broadcast(group int, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[group] {
		select {
		case ch <- msg:
		default:
			sm.logger.Warn("SSE: Client buffer full, dropping message", "group", group)
		}
	}
}

// SubscribeEvents handles the GET /events request (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	var group int
	if err := runtime.BindQueryParameter("form", true, true, "group", r.URL.Query(), &group); err != nil {
		http.Error(w, "Invalid group: "+err.Error(), http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe(group)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected", "group", group)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
