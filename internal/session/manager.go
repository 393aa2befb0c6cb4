// Package session ties one storefront visitor to their cart store, wishlist
// store and checkout flow. Stores are built once per session, rehydrated
// from persistence, and handed to consumers by reference; nothing here is
// reachable as ambient global state.
package session

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/kajarral-381/jarrals-kitchen-sub000/internal/cart"
	"github.com/kajarral-381/jarrals-kitchen-sub000/internal/checkout"
	"github.com/kajarral-381/jarrals-kitchen-sub000/internal/notify"
	"github.com/kajarral-381/jarrals-kitchen-sub000/internal/persist"
	"github.com/kajarral-381/jarrals-kitchen-sub000/internal/wishlist"
)

// Session bundles the per-visitor state containers.
type Session struct {
	ID       string
	Cart     *cart.Store
	Wishlist *wishlist.Store
	Checkout *checkout.Orchestrator
}

// Manager hands out sessions keyed by the session cookie value.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	blobs    persist.Store
	notifier notify.Notifier
	pricing  checkout.Pricing
	logger   *zap.Logger
}

func NewManager(blobs persist.Store, notifier notify.Notifier, pricing checkout.Pricing, logger *zap.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		blobs:    blobs,
		notifier: notifier,
		pricing:  pricing,
		logger:   logger,
	}
}

// Get returns the session for the id, building and rehydrating its stores
// on first use.
func (m *Manager) Get(ctx context.Context, id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[id]; ok {
		return s
	}

	cartStore := cart.New(ctx, fmt.Sprintf("cart:%s", id), m.blobs, m.logger)
	wishlistStore := wishlist.New(ctx, fmt.Sprintf("wishlist:%s", id), m.blobs, m.logger)
	s := &Session{
		ID:       id,
		Cart:     cartStore,
		Wishlist: wishlistStore,
		Checkout: checkout.NewOrchestrator(cartStore, m.notifier, m.pricing, m.logger),
	}
	m.sessions[id] = s
	return s
}
