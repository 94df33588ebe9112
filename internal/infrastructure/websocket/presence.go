package websocket

import "sync"

// Registry tracks which users have live connections. It is the source of
// online/offline truth for one process; a user may hold several connections
// at once (multi-device), so each identity maps to a set of clients.
//
// State is process-local by design. Running several instances needs an
// external shared registry, which is outside this core.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[string]map[*Client]struct{}),
	}
}

// Register binds a connection to a user identity and reports whether the
// user just came online (had no prior connections).
func (r *Registry) Register(userID string, c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.clients[userID]
	if !ok {
		set = make(map[*Client]struct{})
		r.clients[userID] = set
	}
	set[c] = struct{}{}
	return !ok
}

// Unregister removes a connection and reports the bound identity and whether
// the user went offline (no connections remain). Unauthenticated clients are
// absent from the registry and unregister as a no-op.
func (r *Registry) Unregister(c *Client) (string, bool) {
	userID := c.UserID()
	if userID == "" {
		return "", false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.clients[userID]
	if !ok {
		return userID, false
	}
	delete(set, c)
	if len(set) == 0 {
		delete(r.clients, userID)
		return userID, true
	}
	return userID, false
}

func (r *Registry) IsOnline(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients[userID]) > 0
}

// ConnectionsFor returns every live connection bound to userID.
func (r *Registry) ConnectionsFor(userID string) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Client, 0, len(r.clients[userID]))
	for c := range r.clients[userID] {
		out = append(out, c)
	}
	return out
}
