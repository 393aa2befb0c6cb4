package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kajarral-381/jarrals-kitchen-sub000/internal/catalog"
	"github.com/kajarral-381/jarrals-kitchen-sub000/internal/domain"
	"github.com/kajarral-381/jarrals-kitchen-sub000/internal/session"
)

type CartHandler struct {
	sessions *session.Manager
	catalog  *catalog.Service
}

func NewCartHandler(sessions *session.Manager, catalog *catalog.Service) *CartHandler {
	return &CartHandler{sessions: sessions, catalog: catalog}
}

type AddItemRequestDTO struct {
	ProductID      int64                  `json:"product_id"`
	Quantity       int                    `json:"quantity"`
	Customizations *domain.Customizations `json:"customizations,omitempty"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

// CartResponseDTO carries the cart state plus the derived totals.
type CartResponseDTO struct {
	ActiveItems    []domain.CartLine `json:"active_items"`
	SavedItems     []domain.CartLine `json:"saved_items"`
	IsOpen         bool              `json:"is_open"`
	TotalItemCount int               `json:"total_item_count"`
	TotalPrice     float64           `json:"total_price"`
}

func cartResponse(c domain.Cart) CartResponseDTO {
	return CartResponseDTO{
		ActiveItems:    c.ActiveItems,
		SavedItems:     c.SavedItems,
		IsOpen:         c.IsOpen,
		TotalItemCount: c.TotalItemCount(),
		TotalPrice:     c.TotalPrice(),
	}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Get(r.Context(), sessionIDFromContext(r.Context()))
	respondJSON(w, http.StatusOK, cartResponse(s.Cart.Snapshot()))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}
	if req.Quantity < 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	product, err := h.catalog.GetProduct(r.Context(), req.ProductID)
	if errors.Is(err, catalog.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "catalog_error", "failed to load product")
		return
	}

	s := h.sessions.Get(r.Context(), sessionIDFromContext(r.Context()))
	state := s.Cart.AddItem(*product, req.Quantity, req.Customizations)
	respondJSON(w, http.StatusOK, cartResponse(state))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(w, r)
	if !ok {
		return
	}
	s := h.sessions.Get(r.Context(), sessionIDFromContext(r.Context()))
	respondJSON(w, http.StatusOK, cartResponse(s.Cart.RemoveItem(id)))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(w, r)
	if !ok {
		return
	}
	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at most 99")
		return
	}
	s := h.sessions.Get(r.Context(), sessionIDFromContext(r.Context()))
	respondJSON(w, http.StatusOK, cartResponse(s.Cart.UpdateQuantity(id, req.Quantity)))
}

func (h *CartHandler) SaveForLater(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(w, r)
	if !ok {
		return
	}
	s := h.sessions.Get(r.Context(), sessionIDFromContext(r.Context()))
	respondJSON(w, http.StatusOK, cartResponse(s.Cart.SaveForLater(id)))
}

func (h *CartHandler) MoveToCart(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(w, r)
	if !ok {
		return
	}
	s := h.sessions.Get(r.Context(), sessionIDFromContext(r.Context()))
	respondJSON(w, http.StatusOK, cartResponse(s.Cart.MoveToCart(id)))
}

func (h *CartHandler) RemoveSavedItem(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(w, r)
	if !ok {
		return
	}
	s := h.sessions.Get(r.Context(), sessionIDFromContext(r.Context()))
	respondJSON(w, http.StatusOK, cartResponse(s.Cart.RemoveSavedItem(id)))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Get(r.Context(), sessionIDFromContext(r.Context()))
	respondJSON(w, http.StatusOK, cartResponse(s.Cart.Clear()))
}

func (h *CartHandler) ToggleVisibility(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Get(r.Context(), sessionIDFromContext(r.Context()))
	respondJSON(w, http.StatusOK, cartResponse(s.Cart.ToggleVisibility()))
}

func productIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return 0, false
	}
	return id, true
}
