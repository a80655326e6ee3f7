package api

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"queon/internal/models"
	"queon/internal/utils"
)

var upgrader = websocket.Upgrader{
	// The feed carries no secrets (tokens never appear in incidents)
	// and the dashboard may be served from a different origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// IncidentFeed pushes incidents to connected dashboard websockets as
// they arrive. A slow or dead subscriber is dropped, never waited on.
type IncidentFeed struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	logger  *utils.Logger
}

func NewIncidentFeed(logger *utils.Logger) *IncidentFeed {
	return &IncidentFeed{
		clients: make(map[*websocket.Conn]bool),
		logger:  logger,
	}
}

// Serve upgrades the request and keeps the connection registered until
// the peer goes away.
func (f *IncidentFeed) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.logger.Error("upgrade incident feed: %v", err)
		return
	}

	f.mu.Lock()
	f.clients[conn] = true
	f.mu.Unlock()

	// Block reading until the client disconnects; the feed is one-way.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	f.mu.Lock()
	delete(f.clients, conn)
	f.mu.Unlock()
	conn.Close()
}

// Broadcast sends an incident to every connected client.
func (f *IncidentFeed) Broadcast(inc models.Incident) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for conn := range f.clients {
		if err := conn.WriteJSON(inc); err != nil {
			f.logger.Warn("dropping incident feed client: %v", err)
			conn.Close()
			delete(f.clients, conn)
		}
	}
}
