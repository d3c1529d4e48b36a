package handlers

import (
	"net/http"

	"github.com/lvasseur/factures/internal/httpx"
	"github.com/lvasseur/factures/internal/services"
)

// PaymentHandler records and removes invoice payments.
type PaymentHandler struct {
	Payments *services.PaymentService
}

func NewPaymentHandler(p *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{Payments: p}
}

// List returns the payments of one invoice.
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	payments, err := h.Payments.List(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"payments": payments})
}

// Record appends a payment; the response carries the re-derived invoice.
func (h *PaymentHandler) Record(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var in services.PaymentInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	payment, invoice, err := h.Payments.Record(id, currentUser(r), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"payment": payment, "invoice": invoice})
}

// Remove deletes a payment; the invoice status is re-derived.
func (h *PaymentHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	invoice, err := h.Payments.Remove(id, currentUser(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"invoice": invoice})
}
