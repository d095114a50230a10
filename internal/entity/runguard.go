package entity

import "sync"

// RunGuard admits at most one in-flight run per owner and kind.
type RunGuard struct {
	mu      sync.Mutex
	running map[string]string
}

// NewRunGuard creates an empty guard.
func NewRunGuard() *RunGuard {
	return &RunGuard{running: make(map[string]string)}
}

func guardKey(owner, kind string) string {
	return owner + "\x00" + kind
}

// TryStart marks id as running for (owner, kind). It returns false when a
// run is already in flight for that pair.
func (g *RunGuard) TryStart(owner, kind, id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	key := guardKey(owner, kind)
	if _, busy := g.running[key]; busy {
		return false
	}
	g.running[key] = id
	return true
}

// Done releases the pair.
func (g *RunGuard) Done(owner, kind string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.running, guardKey(owner, kind))
}

// Running returns the id currently running for (owner, kind), if any.
func (g *RunGuard) Running(owner, kind string) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id, ok := g.running[guardKey(owner, kind)]
	return id, ok
}
