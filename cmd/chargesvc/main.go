package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/httprate"

	config "github.com/avvvet/charge-services/configs"
	"github.com/avvvet/charge-services/internal/chargesvc/broker"
	svcconfig "github.com/avvvet/charge-services/internal/chargesvc/config"
	"github.com/avvvet/charge-services/internal/chargesvc/handlers"
	"github.com/avvvet/charge-services/internal/chargesvc/service"
	"github.com/avvvet/charge-services/internal/chargesvc/store"
	"github.com/avvvet/charge-services/internal/db"
	nats "github.com/avvvet/charge-services/internal/nats"
	log "github.com/sirupsen/logrus"
)

const SERVICE_NAME = "charge"

var instanceId string

func init() {
	instanceId = config.CreateUniqueInstance(SERVICE_NAME)
	config.Logging(SERVICE_NAME + "_service_" + instanceId[:8])
	config.LoadEnv(SERVICE_NAME)
}

func main() {
	cfg := svcconfig.Load()

	// mongo connection
	database, err := db.ConnectToDB(cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer db.Disconnect(database)
	log.Infof("mongo connection established successfully, database %s", database.Name())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := store.EnsureIndexes(ctx, database); err != nil {
		log.Warnf("unable to create indexes: %v", err)
	}
	cancel()

	// events are optional, the API keeps working without NATS
	var publisher service.EventPublisher
	n, err := nats.Connect(SERVICE_NAME + "-" + instanceId)
	if err != nil {
		log.Warnf("NATS unavailable, charge events disabled: %v", err)
	} else {
		defer n.Conn.Close()
		log.Infof("NATS connection established successfully %s", n.Url)
		publisher = broker.NewBroker(n.Conn)
	}

	customerStore := store.NewCustomerStore(database)
	customerService := service.NewCustomerService(customerStore)

	cardStore := store.NewCardStore(database)
	cardService := service.NewCardService(cardStore, customerStore)

	chargeStore := store.NewChargeStore(database)
	chargeService := service.NewChargeService(chargeStore, cardStore, customerStore, publisher)

	// Setup router
	r := chi.NewRouter()
	c := config.CORS()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(config.CustomLoggerMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(c.Handler)

	// to protect the service api from any over requests
	r.Use(httprate.LimitByIP(cfg.RateLimit, 1*time.Minute))

	// Init handlers and routes
	h := handlers.NewHandler(customerService, cardService, chargeService)
	h.Port = cfg.Port
	h.InitAuth(cfg.JWTSecret)
	h.SetRoutes(r)

	// Create server with timeout settings
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()
	log.Infof("%s service running at port %s", SERVICE_NAME, server.Addr)

	// Wait for interrupt signal to gracefully shutdown the server
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel = context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("%s service shutdown Failed:%+v", SERVICE_NAME, err)
	}
	log.Infof("%s service gracefully stopped", SERVICE_NAME)
}
