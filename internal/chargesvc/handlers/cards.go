package handlers

import (
	"net/http"
	"strconv"

	"github.com/avvvet/charge-services/internal/chargesvc/models"
	"github.com/go-chi/chi"
)

const defaultGeneratedLength = 16

func (h *Handler) RegisterCard(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterCard
	if !h.decode(w, r, &req) {
		return
	}

	card, err := h.cards.Register(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusCreated, "card registered", card)
}

func (h *Handler) GetCard(w http.ResponseWriter, r *http.Request) {
	card, err := h.cards.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, "card", card)
}

func (h *Handler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	var u models.CardUpdate
	if !h.decode(w, r, &u) {
		return
	}

	card, err := h.cards.Update(r.Context(), chi.URLParam(r, "id"), u)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, "card updated", card)
}

func (h *Handler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	if err := h.cards.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GeneratePAN returns a synthetic Luhn-valid number for test data,
// e.g. /v1/tarjetas/generate?prefix=4500&length=16
func (h *Handler) GeneratePAN(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("prefix")
	length := defaultGeneratedLength
	if raw := r.URL.Query().Get("length"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.CreateResponse(w, Response{Message: "invalid length", Code: http.StatusBadRequest, Error: err.Error()})
			return
		}
		length = n
	}

	pan, err := h.cards.GenerateTestPAN(prefix, length)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, "generated pan", map[string]string{"pan": pan})
}
