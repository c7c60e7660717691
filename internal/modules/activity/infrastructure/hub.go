package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/husbandvitamins/bookaconsult/internal/modules/booking/application/port"
	"github.com/husbandvitamins/bookaconsult/internal/modules/booking/domain"
)

// Hub fans reconciliation events out to every connected activity client.
// Clients that cannot keep up are detached rather than blocking a publish.
type Hub struct {
	clients map[*Client]struct{}
	mu      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

func (h *Hub) Attach(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	slog.Info("activity client attached", slog.String("remote", c.remoteAddr))
}

func (h *Hub) detach(c *Client) {
	h.mu.Lock()
	_, attached := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if attached {
		c.close()
		slog.Info("activity client detached", slog.String("remote", c.remoteAddr))
	}
}

// Publish implements the booking event sink: every attached client receives
// the event as a JSON text frame.
func (h *Hub) Publish(_ context.Context, evt domain.ReconciliationEvent) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode activity event: %w", err)
	}

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		select {
		case <-c.done:
		case c.send <- data:
		default:
			slog.Warn("activity client send buffer full", slog.String("remote", c.remoteAddr))
			go h.detach(c)
		}
	}
	return nil
}

var _ port.EventSink = (*Hub)(nil)
