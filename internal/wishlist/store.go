// Package wishlist owns one session's wishlist: a deduplicated,
// insertion-ordered collection of product snapshots.
package wishlist

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kajarral-381/jarrals-kitchen-sub000/internal/domain"
	"github.com/kajarral-381/jarrals-kitchen-sub000/internal/persist"
)

const persistTimeout = time.Second

// Store maintains one session's wishlist with the same persistence contract
// as the cart store: every mutation triggers a best-effort full-state write.
type Store struct {
	mu     sync.Mutex
	list   domain.Wishlist
	key    string
	blobs  persist.Store
	logger *zap.Logger
}

// New returns a store rehydrated from the persistence adapter; a missing or
// unreadable blob yields an empty wishlist.
func New(ctx context.Context, key string, blobs persist.Store, logger *zap.Logger) *Store {
	s := &Store{
		key:    key,
		blobs:  blobs,
		logger: logger,
	}

	blob, err := blobs.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, persist.ErrNotFound) {
			logger.Warn("wishlist restore failed", zap.String("key", key), zap.Error(err))
		}
		return s
	}
	if err := json.Unmarshal(blob, &s.list); err != nil {
		logger.Warn("wishlist blob unreadable, starting empty", zap.String("key", key), zap.Error(err))
		s.list = domain.Wishlist{}
		return s
	}
	s.list.Sanitize()
	return s
}

// Items returns a copy of the wishlist in insertion order.
func (s *Store) Items() []domain.WishlistItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.WishlistItem(nil), s.list.Items...)
}

// AddItem appends a snapshot of the product. Adding a product that is
// already present is a no-op, so the call is idempotent.
func (s *Store) AddItem(product domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.list.Contains(product.ID) {
		return
	}
	s.list.Items = append(s.list.Items, domain.WishlistItem{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		ImageURL:  product.ImageURL,
		AddedAt:   time.Now(),
	})
	s.commit()
}

// RemoveItem drops the matching entry; unknown ids are ignored.
func (s *Store) RemoveItem(productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.list.Items {
		if s.list.Items[i].ProductID == productID {
			s.list.Items = append(s.list.Items[:i], s.list.Items[i+1:]...)
			s.commit()
			return
		}
	}
}

// Clear empties the wishlist.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.list.Items = nil
	s.commit()
}

// Contains reports whether the product id is on the wishlist.
func (s *Store) Contains(productID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list.Contains(productID)
}

// Callers must hold s.mu.
func (s *Store) commit() {
	blob, err := json.Marshal(&s.list)
	if err != nil {
		s.logger.Warn("wishlist marshal failed", zap.String("key", s.key), zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := s.blobs.Set(ctx, s.key, blob); err != nil {
		s.logger.Warn("wishlist persist failed", zap.String("key", s.key), zap.Error(err))
	}
}
