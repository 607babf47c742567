package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/avvvet/charge-services/internal/ledgersvc/service"
	"github.com/go-chi/chi"
	"github.com/go-chi/jwtauth"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	tokenAuth *jwtauth.JWTAuth
	Port      string
	ledger    *service.LedgerService
}

func NewHandler(ledger *service.LedgerService) *Handler {
	return &Handler{ledger: ledger}
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

func (h *Handler) fail(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	if errors.Is(err, service.ErrInvalidCustomerID) {
		code = http.StatusBadRequest
	} else {
		log.Errorf("ledger query: %v", err)
	}
	h.CreateResponse(w, Response{Message: http.StatusText(code), Code: code, Error: err.Error()})
}

func (h *Handler) SetRoutes(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", h.HealthHandler)

		r.Group(func(r chi.Router) {
			if h.tokenAuth != nil {
				r.Use(jwtauth.Verifier(h.tokenAuth))
				r.Use(jwtauth.Authenticator)
			}

			r.Get("/ledger/{customerID}", h.GetSummary)
			r.Get("/ledger/{customerID}/entries", h.GetEntries)
		})
	})
}

// InitAuth protects the ledger routes when secret is not empty.
func (h *Handler) InitAuth(secret string) {
	if secret == "" {
		log.Warn("JWT_SECRET_KEY not set, ledger routes are not protected")
		return
	}
	h.tokenAuth = jwtauth.New("HS256", []byte(secret), nil)

	_, tokenString, _ := h.tokenAuth.Encode(map[string]interface{}{
		"service_id": "ledgersvc",
		"exp":        time.Now().Add(7 * 24 * time.Hour).Unix(),
	})
	log.Debugf("DEBUG: JWT for testing expires in 7 days : %s", tokenString)
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.ledger.Summary(r.Context(), chi.URLParam(r, "customerID"))
	if err != nil {
		h.fail(w, err)
		return
	}
	h.CreateResponse(w, Response{Message: "ledger summary", Code: http.StatusOK, Data: sum})
}

func (h *Handler) GetEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.ledger.Entries(r.Context(), chi.URLParam(r, "customerID"))
	if err != nil {
		h.fail(w, err)
		return
	}
	h.CreateResponse(w, Response{Message: "ledger entries", Code: http.StatusOK, Data: entries})
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	h.CreateResponse(w, Response{
		Message: "ledger service is running at port " + h.Port,
		Code:    http.StatusOK,
	})
}
