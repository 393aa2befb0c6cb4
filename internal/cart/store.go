// Package cart owns the authoritative cart state for one session: active
// lines, saved-for-later lines and the derived totals. Every mutation is a
// total function of the prior state, recomputes totals and triggers a
// best-effort write to the persistence adapter.
package cart

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

// Store maintains one session's cart. Construct it with New and pass it by
// reference to whatever consumes it; there is no package-level instance.
type Store struct {
	mu     sync.Mutex
	cart   domain.Cart
	key    string
	blobs  persist.Store
	logger *zap.Logger
}

// New returns a store rehydrated from the persistence adapter. A missing or
// unreadable blob yields an empty cart; blobs written by an older schema are
// merged over defaults and sanitized rather than rejected.
func New(ctx context.Context, key string, blobs persist.Store, logger *zap.Logger) *Store {
	s := &Store{
		key:    key,
		blobs:  blobs,
		logger: logger,
	}

	blob, err := blobs.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, persist.ErrNotFound) {
			logger.Warn("cart restore failed", zap.String("key", key), zap.Error(err))
		}
		return s
	}
	if err := json.Unmarshal(blob, &s.cart); err != nil {
		logger.Warn("cart blob unreadable, starting empty", zap.String("key", key), zap.Error(err))
		s.cart = domain.Cart{}
		return s
	}
	s.cart.Sanitize()
	return s
}

// Snapshot returns a deep copy of the current cart state.
func (s *Store) Snapshot() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyCart()
}

// Totals returns the derived item count and price over the active lines.
func (s *Store) Totals() (count int, price float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.TotalItemCount(), s.cart.TotalPrice()
}

// AddItem appends a line for the product, or bumps the quantity of the
// existing line for the same product id. The existing line's price and
// customizations are kept as first written, only the quantity merges.
// A quantity below 1 is treated as 1.
func (s *Store) AddItem(product domain.Product, quantity int, custom *domain.Customizations) domain.Cart {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.findActive(product.ID); i >= 0 {
		s.cart.ActiveItems[i].Quantity += quantity
	} else {
		s.cart.ActiveItems = append(s.cart.ActiveItems, domain.CartLine{
			ProductID:      product.ID,
			Name:           product.Name,
			UnitPrice:      product.Price,
			ImageURL:       product.ImageURL,
			Quantity:       quantity,
			Customizations: custom,
		})
	}
	return s.commit()
}

// RemoveItem decrements the line's quantity by one, dropping the line when
// it reaches zero. Unknown product ids are ignored.
func (s *Store) RemoveItem(productID int64) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findActive(productID)
	if i < 0 {
		return s.copyCart()
	}
	s.cart.ActiveItems[i].Quantity--
	if s.cart.ActiveItems[i].Quantity <= 0 {
		s.cart.ActiveItems = append(s.cart.ActiveItems[:i], s.cart.ActiveItems[i+1:]...)
	}
	return s.commit()
}

// UpdateQuantity sets the line's quantity directly; a value of zero or less
// removes the line. Unknown product ids are ignored.
func (s *Store) UpdateQuantity(productID int64, quantity int) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findActive(productID)
	if i < 0 {
		return s.copyCart()
	}
	if quantity <= 0 {
		s.cart.ActiveItems = append(s.cart.ActiveItems[:i], s.cart.ActiveItems[i+1:]...)
	} else {
		s.cart.ActiveItems[i].Quantity = quantity
	}
	return s.commit()
}

// SaveForLater moves the active line to the saved collection with its
// quantity and customizations intact. If the product is somehow already
// saved the existing saved line wins, but the active line is still removed
// so the id never appears in both collections.
func (s *Store) SaveForLater(productID int64) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findActive(productID)
	if i < 0 {
		return s.copyCart()
	}
	line := s.cart.ActiveItems[i]
	s.cart.ActiveItems = append(s.cart.ActiveItems[:i], s.cart.ActiveItems[i+1:]...)
	if s.findSaved(productID) < 0 {
		s.cart.SavedItems = append(s.cart.SavedItems, line)
	}
	return s.commit()
}

// MoveToCart moves a saved line back to the active collection. When an
// active line for the same product already exists the quantities merge;
// either way the saved line is removed.
func (s *Store) MoveToCart(productID int64) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findSaved(productID)
	if i < 0 {
		return s.copyCart()
	}
	line := s.cart.SavedItems[i]
	s.cart.SavedItems = append(s.cart.SavedItems[:i], s.cart.SavedItems[i+1:]...)
	if j := s.findActive(productID); j >= 0 {
		s.cart.ActiveItems[j].Quantity += line.Quantity
	} else {
		s.cart.ActiveItems = append(s.cart.ActiveItems, line)
	}
	return s.commit()
}

// RemoveSavedItem drops the line from the saved collection only.
func (s *Store) RemoveSavedItem(productID int64) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findSaved(productID)
	if i < 0 {
		return s.copyCart()
	}
	s.cart.SavedItems = append(s.cart.SavedItems[:i], s.cart.SavedItems[i+1:]...)
	return s.commit()
}

// Clear empties the active lines and totals. Saved-for-later lines survive a
// clear: checkout consumes only the active cart.
func (s *Store) Clear() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.ActiveItems = nil
	return s.commit()
}

// ToggleVisibility flips the UI visibility flag. Items and totals are
// untouched, but the flag persists with the rest of the state.
func (s *Store) ToggleVisibility() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.IsOpen = !s.cart.IsOpen
	return s.commit()
}

// commit persists the full state and returns a copy of it. Persistence is
// best effort: a failed write is logged and the in-memory state stands.
// Callers must hold s.mu.
func (s *Store) commit() domain.Cart {
	blob, err := json.Marshal(&s.cart)
	if err != nil {
		s.logger.Warn("cart marshal failed", zap.String("key", s.key), zap.Error(err))
		return s.copyCart()
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := s.blobs.Set(ctx, s.key, blob); err != nil {
		s.logger.Warn("cart persist failed", zap.String("key", s.key), zap.Error(err))
	}
	return s.copyCart()
}

func (s *Store) copyCart() domain.Cart {
	out := s.cart
	out.ActiveItems = append([]domain.CartLine(nil), s.cart.ActiveItems...)
	out.SavedItems = append([]domain.CartLine(nil), s.cart.SavedItems...)
	return out
}

func (s *Store) findActive(productID int64) int {
	for i := range s.cart.ActiveItems {
		if s.cart.ActiveItems[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) findSaved(productID int64) int {
	for i := range s.cart.SavedItems {
		if s.cart.SavedItems[i].ProductID == productID {
			return i
		}
	}
	return -1
}
