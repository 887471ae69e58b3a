package game

// registry tracks live connections and the roster of joined identities.
// It is owned by the session goroutine and needs no locking.
type registry struct {
	clients map[*Client]struct{}
	roster  []string
	joined  map[string]struct{}
}

func newRegistry() *registry {
	return &registry{
		clients: make(map[*Client]struct{}),
		roster:  make([]string, 0),
		joined:  make(map[string]struct{}),
	}
}

func (r *registry) attach(c *Client) {
	r.clients[c] = struct{}{}
}

// detach reports whether the client was still registered, so the caller
// can make duplicate detach requests a no-op.
func (r *registry) detach(c *Client) bool {
	if _, ok := r.clients[c]; !ok {
		return false
	}
	delete(r.clients, c)
	return true
}

func (r *registry) contains(c *Client) bool {
	_, ok := r.clients[c]
	return ok
}

// addPlayer adds an identity to the roster. Reports false when the
// identity is already joined (a duplicate join is idempotent).
func (r *registry) addPlayer(id string) bool {
	if _, ok := r.joined[id]; ok {
		return false
	}
	r.joined[id] = struct{}{}
	r.roster = append(r.roster, id)
	return true
}

func (r *registry) removePlayer(id string) bool {
	if _, ok := r.joined[id]; !ok {
		return false
	}
	delete(r.joined, id)
	for i, p := range r.roster {
		if p == id {
			r.roster = append(r.roster[:i], r.roster[i+1:]...)
			break
		}
	}
	return true
}

// players returns a copy of the roster in join order.
func (r *registry) players() []string {
	players := make([]string, len(r.roster))
	copy(players, r.roster)
	return players
}

func (r *registry) numPlayers() int {
	return len(r.roster)
}

func (r *registry) pingAll() {
	for c := range r.clients {
		c.requestPing()
	}
}
