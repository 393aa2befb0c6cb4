package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kajarral-381/jarrals-kitchen-sub000/internal/checkout"
	"github.com/kajarral-381/jarrals-kitchen-sub000/internal/domain"
	"github.com/kajarral-381/jarrals-kitchen-sub000/internal/session"
)

type CheckoutHandler struct {
	sessions *session.Manager
}

func NewCheckoutHandler(sessions *session.Manager) *CheckoutHandler {
	return &CheckoutHandler{sessions: sessions}
}

type ShippingRequestDTO struct {
	domain.ShippingDetails
	DeliveryMethod domain.DeliveryMethod `json:"delivery_method"`
	Notes          string                `json:"notes"`
}

type PaymentRequestDTO struct {
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
	TransactionID string               `json:"transaction_id"`
}

type StepResponseDTO struct {
	Step string `json:"step"`
}

func (h *CheckoutHandler) Begin(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Get(r.Context(), sessionIDFromContext(r.Context()))
	if err := s.Checkout.Begin(nil); err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			respondError(w, http.StatusConflict, "empty_cart", "cannot check out with an empty cart")
			return
		}
		respondError(w, http.StatusInternalServerError, "checkout_error", "failed to start checkout")
		return
	}
	respondJSON(w, http.StatusOK, StepResponseDTO{Step: s.Checkout.Step().String()})
}

func (h *CheckoutHandler) SubmitShipping(w http.ResponseWriter, r *http.Request) {
	var req ShippingRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	s := h.sessions.Get(r.Context(), sessionIDFromContext(r.Context()))
	fields, err := s.Checkout.SubmitShipping(req.ShippingDetails, req.DeliveryMethod, req.Notes)
	if err != nil {
		respondError(w, http.StatusConflict, "illegal_transition", err.Error())
		return
	}
	if len(fields) > 0 {
		respondFieldErrors(w, fields)
		return
	}
	respondJSON(w, http.StatusOK, StepResponseDTO{Step: s.Checkout.Step().String()})
}

func (h *CheckoutHandler) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	var req PaymentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = domain.PaymentBankTransfer
	}

	s := h.sessions.Get(r.Context(), sessionIDFromContext(r.Context()))
	fields, err := s.Checkout.SubmitPayment(req.PaymentMethod, req.TransactionID)
	if err != nil {
		respondError(w, http.StatusConflict, "illegal_transition", err.Error())
		return
	}
	if len(fields) > 0 {
		respondFieldErrors(w, fields)
		return
	}
	respondJSON(w, http.StatusOK, StepResponseDTO{Step: s.Checkout.Step().String()})
}

func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Get(r.Context(), sessionIDFromContext(r.Context()))
	if err := s.Checkout.Back(); err != nil {
		respondError(w, http.StatusConflict, "illegal_transition", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, StepResponseDTO{Step: s.Checkout.Step().String()})
}

func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Get(r.Context(), sessionIDFromContext(r.Context()))
	order, err := s.Checkout.Submit(r.Context())
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			respondError(w, http.StatusConflict, "empty_cart", "cannot check out with an empty cart")
			return
		}
		respondError(w, http.StatusConflict, "illegal_transition", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, order)
}
