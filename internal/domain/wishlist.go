package domain

import "time"

// WishlistItem is a product snapshot saved to the wishlist. Presence is
// binary, there is no quantity.
type WishlistItem struct {
	ProductID int64     `json:"product_id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	ImageURL  string    `json:"image_url,omitempty"`
	AddedAt   time.Time `json:"added_at"`
}

// Wishlist is a deduplicated, insertion-ordered collection of saved products.
type Wishlist struct {
	Items []WishlistItem `json:"items"`
}

// Contains reports whether the product id is present.
func (w *Wishlist) Contains(productID int64) bool {
	for _, item := range w.Items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

// Sanitize drops duplicate entries from a rehydrated wishlist, keeping the
// earliest occurrence of each product id.
func (w *Wishlist) Sanitize() {
	out := w.Items[:0]
	seen := make(map[int64]bool, len(w.Items))
	for _, item := range w.Items {
		if seen[item.ProductID] {
			continue
		}
		seen[item.ProductID] = true
		out = append(out, item)
	}
	w.Items = out
}
