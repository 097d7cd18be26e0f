package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"sentinel/domain/notifications"
	"sentinel/interfaces/web/presenters"
	"sentinel/logging"
)

const (
	keepAliveInterval = 30 * time.Second
	staleAfter        = 2 * time.Minute
)

// SSEClient represents a connected Server-Sent Events client.
type SSEClient struct {
	id      string
	writer  http.ResponseWriter
	flusher http.Flusher
	done    chan struct{}

	// writeMu serializes writes; toasts are pushed from timer goroutines.
	writeMu  sync.Mutex
	lastSent time.Time
}

// SSEManager manages Server-Sent Events connections. It is the display
// surface of the toast manager and pushes dashboard refresh signals.
type SSEManager struct {
	clients        map[string]*SSEClient
	mu             sync.RWMutex
	logger         *logging.Logger
	toastPresenter presenters.ToastFormatter
}

// NewSSEManager creates a new SSE connection manager. Keep-alives and
// stale-client cleanup run until ctx is cancelled.
func NewSSEManager(ctx context.Context) *SSEManager {
	manager := &SSEManager{
		clients:        make(map[string]*SSEClient),
		logger:         logging.Default().WithComponent("sse_manager"),
		toastPresenter: presenters.NewToastPresenter(),
	}

	go manager.cleanupRoutine(ctx)

	return manager
}

// AddClient registers a new SSE client. A clientID already in use gets a
// random suffix so one tab never replaces another's stream.
func (s *SSEManager) AddClient(clientID string, w http.ResponseWriter) *SSEClient {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.logger.Error("Response writer does not support flushing")
		return nil
	}
	flusher.Flush()

	client := &SSEClient{
		writer:   w,
		flusher:  flusher,
		done:     make(chan struct{}),
		lastSent: time.Now(),
	}

	s.mu.Lock()
	if _, taken := s.clients[clientID]; taken || clientID == "" {
		clientID = strings.TrimPrefix(clientID+"-"+uuid.NewString()[:8], "-")
	}
	client.id = clientID
	s.clients[clientID] = client
	total := len(s.clients)
	s.mu.Unlock()

	s.logger.Info("SSE client connected", "client_id", clientID, "total_clients", total)

	return client
}

// RemoveClient removes the SSE client registered under clientID.
func (s *SSEManager) RemoveClient(clientID string) {
	s.mu.RLock()
	client, exists := s.clients[clientID]
	s.mu.RUnlock()

	if exists {
		s.removeClient(client)
	}
}

// removeClient removes client only if it still owns its registry entry.
func (s *SSEManager) removeClient(client *SSEClient) {
	s.mu.Lock()
	owned := s.clients[client.id] == client
	if owned {
		delete(s.clients, client.id)
	}
	s.mu.Unlock()

	client.close()
	if owned {
		s.logger.Info("SSE client disconnected", "client_id", client.id)
	}
}

// CloseAll disconnects every client, used during shutdown.
func (s *SSEManager) CloseAll() {
	s.mu.Lock()
	clients := s.clients
	s.clients = make(map[string]*SSEClient)
	s.mu.Unlock()

	for _, client := range clients {
		client.close()
	}
	s.logger.Info("Closed all SSE clients", "count", len(clients))
}

// ClientCount returns the number of connected clients.
func (s *SSEManager) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (c *SSEClient) close() {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	select {
	case <-c.done:
	default:
		close(c.done)
	}
}

// ShowToast appends a toast to every client's container.
func (s *SSEManager) ShowToast(toast notifications.Toast) {
	s.broadcastToast("toast", toast, s.toastPresenter.FormatToast)
}

// BeginToastExit swaps a toast into its exiting state on every client.
func (s *SSEManager) BeginToastExit(toast notifications.Toast) {
	s.broadcastToast("toast-exit", toast, s.toastPresenter.FormatToastExit)
}

// RemoveToast deletes a toast element on every client.
func (s *SSEManager) RemoveToast(toast notifications.Toast) {
	s.broadcastToast("toast-remove", toast, s.toastPresenter.FormatToastRemove)
}

func (s *SSEManager) broadcastToast(event string, toast notifications.Toast, format func(notifications.Toast) (string, error)) {
	html, err := format(toast)
	if err != nil {
		s.logger.Error("Failed to format toast fragment", "error", err, "event", event, "toast_id", toast.ID)
		return
	}
	s.broadcast(event, html)
}

// BroadcastStatsUpdate tells pages to refresh their dashboard counters.
func (s *SSEManager) BroadcastStatsUpdate() {
	s.broadcast("stats-updated", `{"action": "refresh", "timestamp": "`+time.Now().Format(time.RFC3339)+`"}`)
}

// broadcast sends one event to every client and drops the ones that fail.
func (s *SSEManager) broadcast(event, data string) {
	s.mu.RLock()
	if len(s.clients) == 0 {
		s.mu.RUnlock()
		s.logger.Debug("No SSE clients connected, skipping broadcast", "event", event)
		return
	}
	clientList := make([]*SSEClient, 0, len(s.clients))
	for _, client := range s.clients {
		clientList = append(clientList, client)
	}
	s.mu.RUnlock()

	var failedClients []*SSEClient
	for _, client := range clientList {
		if err := s.sendToClient(client, event, data); err != nil {
			s.logger.Warn("Failed to send event to client",
				"client_id", client.id,
				"event", event,
				"error", err)
			failedClients = append(failedClients, client)
		}
	}

	for _, client := range failedClients {
		s.removeClient(client)
	}

	s.logger.Debug("Broadcasted event",
		"event", event,
		"total_clients", len(clientList),
		"failed", len(failedClients))
}

// formatEvent encodes an SSE message. Comments are used for keep-alives so
// they never trigger swaps; multi-line data gets one data field per line.
func formatEvent(event, data string) string {
	if event == "" {
		return ": " + data + "\n\n"
	}
	var b strings.Builder
	b.WriteString("event: ")
	b.WriteString(event)
	b.WriteString("\n")
	for _, line := range strings.Split(data, "\n") {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}

// sendToClient sends an SSE message to a specific client. An empty event
// sends a comment.
func (s *SSEManager) sendToClient(client *SSEClient, event, data string) error {
	client.writeMu.Lock()
	defer client.writeMu.Unlock()

	select {
	case <-client.done:
		return fmt.Errorf("client connection closed")
	default:
	}

	if _, err := client.writer.Write([]byte(formatEvent(event, data))); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	client.flusher.Flush()
	client.lastSent = time.Now()

	return nil
}

// SendKeepAlive sends a comment to every client and drops the ones that fail.
func (s *SSEManager) SendKeepAlive() {
	s.mu.RLock()
	clientList := make([]*SSEClient, 0, len(s.clients))
	for _, client := range s.clients {
		clientList = append(clientList, client)
	}
	s.mu.RUnlock()

	for _, client := range clientList {
		if err := s.sendToClient(client, "", "keepalive "+time.Now().Format(time.RFC3339)); err != nil {
			s.logger.Debug("Keep-alive failed, removing client", "client_id", client.id)
			s.removeClient(client)
		}
	}
}

// removeStale drops clients that have not been written to since before cutoff.
func (s *SSEManager) removeStale(cutoff time.Time) {
	s.mu.RLock()
	var stale []*SSEClient
	for _, client := range s.clients {
		client.writeMu.Lock()
		lastSent := client.lastSent
		client.writeMu.Unlock()
		if lastSent.Before(cutoff) {
			stale = append(stale, client)
		}
	}
	s.mu.RUnlock()

	for _, client := range stale {
		s.logger.Info("Removing stale SSE client", "client_id", client.id)
		s.removeClient(client)
	}
}

func (s *SSEManager) cleanupRoutine(ctx context.Context) {
	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SendKeepAlive()
			s.removeStale(time.Now().Add(-staleAfter))
		}
	}
}

// HandleSSEConnection handles the SSE endpoint
func (s *SSEManager) HandleSSEConnection(w http.ResponseWriter, r *http.Request) {
	client := s.AddClient(r.URL.Query().Get("client_id"), w)
	if client == nil {
		http.Error(w, "Failed to establish SSE connection", http.StatusInternalServerError)
		return
	}

	if err := s.sendToClient(client, "", "connected "+client.id); err != nil {
		s.logger.Error("Failed to send initial keep-alive", "client_id", client.id, "error", err)
		s.removeClient(client)
		return
	}

	select {
	case <-r.Context().Done():
	case <-client.done:
	}
	s.removeClient(client)
}
