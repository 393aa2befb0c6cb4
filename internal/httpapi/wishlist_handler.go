package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kajarral-381/jarrals-kitchen-sub000/internal/catalog"
	"github.com/kajarral-381/jarrals-kitchen-sub000/internal/session"
)

type WishlistHandler struct {
	sessions *session.Manager
	catalog  *catalog.Service
}

func NewWishlistHandler(sessions *session.Manager, catalog *catalog.Service) *WishlistHandler {
	return &WishlistHandler{sessions: sessions, catalog: catalog}
}

type AddWishlistItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
}

func (h *WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Get(r.Context(), sessionIDFromContext(r.Context()))
	respondJSON(w, http.StatusOK, map[string]interface{}{"items": s.Wishlist.Items()})
}

func (h *WishlistHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddWishlistItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
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
	s.Wishlist.AddItem(*product)
	respondJSON(w, http.StatusOK, map[string]interface{}{"items": s.Wishlist.Items()})
}

func (h *WishlistHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(w, r)
	if !ok {
		return
	}
	s := h.sessions.Get(r.Context(), sessionIDFromContext(r.Context()))
	s.Wishlist.RemoveItem(id)
	respondJSON(w, http.StatusOK, map[string]interface{}{"items": s.Wishlist.Items()})
}

func (h *WishlistHandler) Clear(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Get(r.Context(), sessionIDFromContext(r.Context()))
	s.Wishlist.Clear()
	respondJSON(w, http.StatusOK, map[string]interface{}{"items": s.Wishlist.Items()})
}

func (h *WishlistHandler) Contains(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(w, r)
	if !ok {
		return
	}
	s := h.sessions.Get(r.Context(), sessionIDFromContext(r.Context()))
	respondJSON(w, http.StatusOK, map[string]bool{"contains": s.Wishlist.Contains(id)})
}
