package domain

// Customizations is the opaque per-line payload captured when an item is
// added (size, extras, notes). It never participates in line identity.
type Customizations struct {
	Size   string `json:"size,omitempty"`
	Extras string `json:"extras,omitempty"`
	Notes  string `json:"notes,omitempty"`
}

// CartLine is one cart entry, keyed by product id.
type CartLine struct {
	ProductID      int64           `json:"product_id"`
	Name           string          `json:"name"`
	UnitPrice      float64         `json:"unit_price"`
	ImageURL       string          `json:"image_url,omitempty"`
	Quantity       int             `json:"quantity"`
	Customizations *Customizations `json:"customizations,omitempty"`
}

// Cart holds the active lines, the saved-for-later lines and the UI
// visibility flag. Both line slices preserve insertion order and are unique
// by product id; a product id appears in at most one of the two at a time.
type Cart struct {
	ActiveItems []CartLine `json:"active_items"`
	SavedItems  []CartLine `json:"saved_items"`
	IsOpen      bool       `json:"is_open"`
}

// TotalItemCount sums quantities over the active lines. Saved lines do not
// count toward checkout totals.
func (c *Cart) TotalItemCount() int {
	total := 0
	for _, line := range c.ActiveItems {
		total += line.Quantity
	}
	return total
}

// TotalPrice recomputes the active subtotal from scratch on every call so it
// can never drift from the line data.
func (c *Cart) TotalPrice() float64 {
	total := 0.0
	for _, line := range c.ActiveItems {
		total += line.UnitPrice * float64(line.Quantity)
	}
	return total
}

func (c *Cart) findActive(productID int64) int {
	for i := range c.ActiveItems {
		if c.ActiveItems[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) findSaved(productID int64) int {
	for i := range c.SavedItems {
		if c.SavedItems[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Sanitize repairs a cart that was rehydrated from an older or partially
// written blob: lines without a positive quantity are dropped, and a product
// id present in both collections keeps its active line only.
func (c *Cart) Sanitize() {
	c.ActiveItems = dropInvalid(c.ActiveItems)
	c.SavedItems = dropInvalid(c.SavedItems)

	saved := c.SavedItems[:0]
	for _, line := range c.SavedItems {
		if c.findActive(line.ProductID) == -1 {
			saved = append(saved, line)
		}
	}
	c.SavedItems = saved
}

func dropInvalid(lines []CartLine) []CartLine {
	out := lines[:0]
	seen := make(map[int64]bool, len(lines))
	for _, line := range lines {
		if line.Quantity < 1 || seen[line.ProductID] {
			continue
		}
		seen[line.ProductID] = true
		out = append(out, line)
	}
	return out
}
