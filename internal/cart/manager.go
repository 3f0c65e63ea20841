package cart

import (
	"context"
	"io"
	"log"
	"sync"

	"karite-storefront/internal/delivery"
	"karite-storefront/internal/kvstore"
)

// Manager hands out one Store per session, rehydrating each from storage
// the first time the session is seen. Because mutations are only possible
// on a returned store, nothing can overwrite persisted state before the
// load has completed.
type Manager struct {
	mu      sync.Mutex
	kv      kvstore.Store
	catalog *delivery.Catalog
	logger  *log.Logger
	stores  map[string]*Store
}

func NewManager(kv kvstore.Store, catalog *delivery.Catalog, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Manager{
		kv:      kv,
		catalog: catalog,
		logger:  logger,
		stores:  make(map[string]*Store),
	}
}

// Get returns the cart store for sessionID, creating and loading it on
// first use.
func (m *Manager) Get(ctx context.Context, sessionID string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	if st, ok := m.stores[sessionID]; ok {
		return st
	}
	st := newStore(sessionID, m.kv, m.catalog, m.logger)
	st.load(ctx)
	m.stores[sessionID] = st
	return st
}
