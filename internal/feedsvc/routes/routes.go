package routes

import (
	"time"

	"github.com/avvvet/charge-services/internal/feedsvc/handlers"
	"github.com/go-chi/chi"
	"github.com/go-chi/jwtauth"
	log "github.com/sirupsen/logrus"
)

var tokenAuth *jwtauth.JWTAuth

func SetRoutes(r chi.Router, h *handlers.Handler) {
	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", h.HealthHandler)

		// Secure routes
		r.Group(func(r chi.Router) {
			if tokenAuth != nil {
				r.Use(jwtauth.Verifier(tokenAuth))
				r.Use(jwtauth.Authenticator)
			}

			r.Get("/ws", h.HandleWebSocket)
		})
	})
}

// InitAuth requires a JWT (Authorization header or jwt cookie) on the
// websocket route. An empty secret disables the check.
func InitAuth(secret string) {
	if secret == "" {
		tokenAuth = nil
		log.Warn("JWT_SECRET_KEY not set, websocket route is not protected")
		return
	}
	tokenAuth = jwtauth.New("HS256", []byte(secret), nil)

	expirationTime := time.Now().Add(7 * 24 * time.Hour).Unix()

	_, tokenString, _ := tokenAuth.Encode(map[string]interface{}{
		"service_id": "feedsvc",
		"exp":        expirationTime,
	})

	// For debugging only
	log.Debugf("DEBUG: JWT for testing expires in 7 days : %s", tokenString)
}
