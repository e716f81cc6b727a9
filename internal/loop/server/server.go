// Package server holds the state shared by every connected client: the
// mission catalog, the player store and one progression tracker per player.
package server

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/warzone/internal/account"
	"github.com/tomz197/warzone/internal/mission"
	"github.com/tomz197/warzone/internal/progression"
)

// GameServer is the interface clients use to reach shared state.
type GameServer interface {
	RegisterClient(identity string) *ClientHandle
	UnregisterClient(clientID int)
	TrackerFor(identity string) *progression.Tracker
	Announce(fromClientID int, message string)
	OnlineCount() int
	Catalog() *mission.Catalog
	Accounts() *account.Service
}

// Hub is the in-process GameServer.
type Hub struct {
	catalog  *mission.Catalog
	accounts *account.Service
	logger   *log.Logger

	mu           sync.RWMutex
	clients      map[int]*ClientHandle
	nextClientID int
	trackers     map[string]*progression.Tracker
}

var _ GameServer = (*Hub)(nil)

// ClientHandle represents a client's connection to the hub.
type ClientHandle struct {
	ID       int
	Identity string
	EventsCh chan ClientEvent // closed by UnregisterClient
}

// ClientEvent is sent from the hub to a client.
type ClientEvent struct {
	Type    ClientEventType
	Message string
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventServerShutdown ClientEventType = iota
	EventAnnouncement
)

// NewHub creates a hub. A nil logger discards output.
func NewHub(catalog *mission.Catalog, accounts *account.Service, logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{
		catalog:      catalog,
		accounts:     accounts,
		logger:       logger,
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
		trackers:     make(map[string]*progression.Tracker),
	}
}

func (h *Hub) Catalog() *mission.Catalog  { return h.catalog }
func (h *Hub) Accounts() *account.Service { return h.accounts }

// RegisterClient registers a new connection for identity and returns its handle.
func (h *Hub) RegisterClient(identity string) *ClientHandle {
	h.mu.Lock()
	defer h.mu.Unlock()

	handle := &ClientHandle{
		ID:       h.nextClientID,
		Identity: identity,
		EventsCh: make(chan ClientEvent, 16),
	}
	h.nextClientID++
	h.clients[handle.ID] = handle
	h.logger.Debug("client registered", "id", handle.ID, "identity", identity, "online", len(h.clients))
	return handle
}

// UnregisterClient removes a client and closes its event channel.
// Unknown ids are ignored.
func (h *Hub) UnregisterClient(clientID int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	handle, ok := h.clients[clientID]
	if !ok {
		return
	}
	close(handle.EventsCh)
	delete(h.clients, clientID)
	h.logger.Debug("client unregistered", "id", clientID, "identity", handle.Identity, "online", len(h.clients))
}

// TrackerFor returns the tracker for identity. Every connection of the same
// player shares one tracker so their advances are serialized.
func (h *Hub) TrackerFor(identity string) *progression.Tracker {
	h.mu.Lock()
	defer h.mu.Unlock()

	t, ok := h.trackers[identity]
	if !ok {
		current := account.NewCurrent(h.accounts.Store(), identity)
		t = progression.NewTracker(current, h.logger.With("identity", identity))
		h.trackers[identity] = t
	}
	return t
}

// Announce sends message to every client except the sender. Clients whose
// event buffer is full miss the announcement.
func (h *Hub) Announce(fromClientID int, message string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, handle := range h.clients {
		if id == fromClientID {
			continue
		}
		select {
		case handle.EventsCh <- ClientEvent{Type: EventAnnouncement, Message: message}:
		default:
		}
	}
}

// OnlineCount returns the number of connected clients.
func (h *Hub) OnlineCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Shutdown notifies all connected clients and waits for them to disconnect,
// up to timeout.
func (h *Hub) Shutdown(timeout time.Duration) {
	h.mu.RLock()
	for _, handle := range h.clients {
		select {
		case handle.EventsCh <- ClientEvent{Type: EventServerShutdown}:
		default:
		}
	}
	h.mu.RUnlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if h.OnlineCount() == 0 {
			return
		}
		select {
		case <-deadline:
			h.logger.Warn("shutdown timed out", "online", h.OnlineCount())
			return
		case <-ticker.C:
		}
	}
}
