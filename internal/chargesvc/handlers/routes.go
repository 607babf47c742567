package handlers

import (
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/jwtauth"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) SetRoutes(r chi.Router) {
	r.Get("/", h.RootHandler)

	r.Route("/v1", func(r chi.Router) {

		// public routes here
		r.Get("/health", h.HealthHandler)

		// Secure routes, when a JWT secret is configured
		r.Group(func(r chi.Router) {
			if h.tokenAuth != nil {
				r.Use(jwtauth.Verifier(h.tokenAuth))
				r.Use(jwtauth.Authenticator)
			}

			r.Route("/clientes", func(r chi.Router) {
				r.Post("/", h.CreateCustomer)
				r.Get("/{id}", h.GetCustomer)
				r.Put("/{id}", h.UpdateCustomer)
				r.Delete("/{id}", h.DeleteCustomer)
				r.Get("/{id}/tarjetas", h.ListCustomerCards)
			})

			r.Route("/tarjetas", func(r chi.Router) {
				r.Post("/", h.RegisterCard)
				r.Get("/generate", h.GeneratePAN)
				r.Get("/{id}", h.GetCard)
				r.Put("/{id}", h.UpdateCard)
				r.Delete("/{id}", h.DeleteCard)
			})

			r.Route("/cobros", func(r chi.Router) {
				r.Post("/", h.CreateCharge)
				r.Post("/{id}/reembolso", h.RefundCharge)
				// id is the customer whose history is requested
				r.Get("/{id}", h.ChargeHistory)
			})
		})
	})
}

// InitAuth enables JWT verification on the data routes. An empty secret
// leaves them open.
func (h *Handler) InitAuth(secret string) {
	if secret == "" {
		log.Warn("JWT_SECRET_KEY not set, data routes are not protected")
		return
	}
	h.tokenAuth = jwtauth.New("HS256", []byte(secret), nil)

	expirationTime := time.Now().Add(7 * 24 * time.Hour).Unix()

	_, tokenString, _ := h.tokenAuth.Encode(map[string]interface{}{
		"service_id": "chargesvc",
		"exp":        expirationTime,
	})

	// For debugging only
	log.Debugf("DEBUG: JWT for testing expires in 7 days : %s", tokenString)
}
