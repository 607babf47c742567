package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avvvet/charge-services/internal/chargesvc/models"
	"github.com/avvvet/charge-services/internal/chargesvc/service"
	"github.com/avvvet/charge-services/internal/chargesvc/store"
	"github.com/avvvet/charge-services/internal/luhn"
	"github.com/go-chi/jwtauth"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	tokenAuth *jwtauth.JWTAuth
	Port      string // reported by the health check

	customers *service.CustomerService
	cards     *service.CardService
	charges   *service.ChargeService
}

func NewHandler(customers *service.CustomerService, cards *service.CardService, charges *service.ChargeService) *Handler {
	return &Handler{
		customers: customers,
		cards:     cards,
		charges:   charges,
	}
}

type Response struct {
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Error   string      `json:"error,omitempty"`
}

func (h *Handler) CreateResponse(w http.ResponseWriter, rsp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rsp.Code)

	if err := json.NewEncoder(w).Encode(rsp); err != nil {
		log.Errorf("Failed to encode response: %v", err)
	}
}

func (h *Handler) ok(w http.ResponseWriter, code int, message string, data interface{}) {
	h.CreateResponse(w, Response{Message: message, Code: code, Data: data})
}

// fail maps service errors to a status code; the error text is passed
// to the client unchanged.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := StatusFor(err)
	if code == http.StatusInternalServerError {
		log.Errorf("%s %s: %v", r.Method, r.URL.Path, err)
	}
	h.CreateResponse(w, Response{Message: http.StatusText(code), Code: code, Error: err.Error()})
}

func StatusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrMalformedInput),
		errors.Is(err, service.ErrOwnershipMismatch),
		errors.Is(err, models.ErrIllegalTransition),
		errors.Is(err, models.ErrAlreadyRefunded),
		errors.Is(err, luhn.ErrInvalidLength),
		errors.Is(err, luhn.ErrInvalidPrefix):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		h.CreateResponse(w, Response{Message: "invalid request body", Code: http.StatusBadRequest, Error: err.Error()})
		return false
	}
	return true
}

func (h *Handler) RootHandler(w http.ResponseWriter, r *http.Request) {
	h.ok(w, http.StatusOK, "Welcome to the simulated charges API", nil)
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	h.ok(w, http.StatusOK, "charge service is running at port "+h.Port, nil)
}
