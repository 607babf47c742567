package handlers

import (
	"net/http"

	"github.com/avvvet/charge-services/internal/chargesvc/models"
	"github.com/go-chi/chi"
)

func (h *Handler) CreateCharge(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCharge
	if !h.decode(w, r, &req) {
		return
	}

	charge, err := h.charges.Create(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusCreated, "charge "+string(charge.Status), charge)
}

func (h *Handler) RefundCharge(w http.ResponseWriter, r *http.Request) {
	charge, err := h.charges.Refund(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, "charge refunded", charge)
}

func (h *Handler) ChargeHistory(w http.ResponseWriter, r *http.Request) {
	charges, err := h.charges.History(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, "charge history", charges)
}
