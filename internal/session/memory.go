package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/sessions"
)

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[Key]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[Key]string)}
}

func (m *MemoryStore) Get(_ context.Context, key Key) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(_ context.Context, key Key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range Manifest {
		delete(m.values, key)
	}
	return nil
}

func (m *MemoryStore) Replace(_ context.Context, values map[Key]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range Manifest {
		delete(m.values, key)
	}
	for key, v := range values {
		if v != "" {
			m.values[key] = v
		}
	}
	return nil
}

// MemoryBackend keeps one MemoryStore per browser, identified by a session id
// cookie. Stores are dropped on Clear and after ttl without use.
type MemoryBackend struct {
	ids *idCookie
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]*memoryEntry
	swept   time.Time
}

type memoryEntry struct {
	store    *MemoryStore
	lastUsed time.Time
}

// sweepInterval bounds how often idle entries are scanned.
const sweepInterval = time.Minute

// NewMemoryBackend creates a MemoryBackend whose id cookie is kept in cookies.
// A zero ttl keeps idle stores until they are cleared.
func NewMemoryBackend(cookies sessions.Store, ttl time.Duration) *MemoryBackend {
	return &MemoryBackend{
		ids:     newIDCookie(cookies),
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*memoryEntry),
	}
}

// Open returns the store bound to the request's session id.
func (b *MemoryBackend) Open(w http.ResponseWriter, r *http.Request) (Store, error) {
	return &boundStore{
		ids: b.ids, w: w, r: r,
		open: func(id string) Store { return &memorySession{backend: b, id: id} },
	}, nil
}

// lookup returns the store for id, or nil when there is none and create is false.
func (b *MemoryBackend) lookup(id string, create bool) *MemoryStore {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	b.sweep(now)

	e, ok := b.entries[id]
	if !ok {
		if !create {
			return nil
		}
		e = &memoryEntry{store: NewMemoryStore()}
		b.entries[id] = e
	}
	e.lastUsed = now
	return e.store
}

func (b *MemoryBackend) drop(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.entries, id)
}

// sweep removes idle entries. Callers hold b.mu.
func (b *MemoryBackend) sweep(now time.Time) {
	if b.ttl <= 0 || now.Sub(b.swept) < sweepInterval {
		return
	}
	b.swept = now
	for id, e := range b.entries {
		if now.Sub(e.lastUsed) > b.ttl {
			delete(b.entries, id)
		}
	}
}

func (b *MemoryBackend) size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// memorySession is one browser's view of a MemoryBackend.
type memorySession struct {
	backend *MemoryBackend
	id      string
}

func (s *memorySession) Get(ctx context.Context, key Key) (string, bool, error) {
	st := s.backend.lookup(s.id, false)
	if st == nil {
		return "", false, nil
	}
	return st.Get(ctx, key)
}

func (s *memorySession) Set(ctx context.Context, key Key, value string) error {
	return s.backend.lookup(s.id, true).Set(ctx, key, value)
}

func (s *memorySession) Delete(ctx context.Context, key Key) error {
	st := s.backend.lookup(s.id, false)
	if st == nil {
		return nil
	}
	return st.Delete(ctx, key)
}

func (s *memorySession) Clear(_ context.Context) error {
	s.backend.drop(s.id)
	return nil
}

func (s *memorySession) Replace(ctx context.Context, values map[Key]string) error {
	if !hasValue(values) {
		s.backend.drop(s.id)
		return nil
	}
	return s.backend.lookup(s.id, true).Replace(ctx, values)
}
