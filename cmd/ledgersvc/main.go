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
	"github.com/avvvet/charge-services/internal/comm"
	"github.com/avvvet/charge-services/internal/ledgersvc/broker"
	svcconfig "github.com/avvvet/charge-services/internal/ledgersvc/config"
	"github.com/avvvet/charge-services/internal/ledgersvc/db"
	"github.com/avvvet/charge-services/internal/ledgersvc/handlers"
	"github.com/avvvet/charge-services/internal/ledgersvc/service"
	"github.com/avvvet/charge-services/internal/ledgersvc/store"
	nats "github.com/avvvet/charge-services/internal/nats"
	log "github.com/sirupsen/logrus"
)

const SERVICE_NAME = "ledger"

var instanceId string

func init() {
	instanceId = config.CreateUniqueInstance(SERVICE_NAME)
	config.Logging(SERVICE_NAME + "_service_" + instanceId[:8])
	config.LoadEnv(SERVICE_NAME)
}

func main() {
	cfg := svcconfig.Load()

	// pg connection
	dbpool, err := db.Connect(cfg.PostgresURL)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer dbpool.Close()
	log.Printf("pg connection established successfully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.Migrate(ctx, dbpool); err != nil {
		log.Fatalf("Failed to migrate ledger schema: %v", err)
	}
	cancel()

	ledgerStore := store.NewLedgerStore(dbpool)
	ledgerService := service.NewLedgerService(ledgerStore)

	// Connect to NATS
	n, err := nats.Connect(SERVICE_NAME + "-" + instanceId)
	if err != nil {
		log.Errorf("Error: unable to connect to NATS server %v", err)
		os.Exit(1)
	}

	defer n.Conn.Close()
	log.Printf("NATS connection established successfully %s", n.Url)

	b := broker.NewBroker(n.Conn, ledgerService)
	sub, err := b.QueueSubscribe(comm.ChargeEventsSubject, cfg.QueueGroup)
	if err != nil {
		log.Errorf("Error: unable to subscribe to queue %v", err)
		os.Exit(1)
	}

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
	r.Use(httprate.LimitByIP(cfg.RateLimit, 1*time.Minute))

	h := handlers.NewHandler(ledgerService)
	h.Port = cfg.Port
	h.InitAuth(cfg.JWTSecret)
	h.SetRoutes(r)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()
	log.Infof("%s service running at port %s", SERVICE_NAME, server.Addr)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	// drain lets in-flight events finish before the pool closes
	if err := sub.Drain(); err != nil {
		log.Warnf("drain subscription: %v", err)
	}

	ctx, cancel = context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("%s service shutdown Failed:%+v", SERVICE_NAME, err)
	}
	log.Infof("%s service gracefully stopped", SERVICE_NAME)
}
