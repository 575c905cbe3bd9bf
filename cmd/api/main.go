package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/farm2door/farm2door/internal/config"
	"github.com/farm2door/farm2door/internal/httpx"
	kafkax "github.com/farm2door/farm2door/internal/kafka"
	"github.com/farm2door/farm2door/internal/market"
	"github.com/farm2door/farm2door/internal/postgres"
	"github.com/farm2door/farm2door/internal/redisx"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	placed := kafkax.NewProducer(cfg.KafkaBrokers, market.TopicOrderPlaced, 1024)
	placed.Start(ctx)
	status := kafkax.NewProducer(cfg.KafkaBrokers, market.TopicOrderStatus, 1024)
	status.Start(ctx)

	router := httpx.NewRouter()
	ch := &httpx.CartHandler{Cart: &market.CartRepo{DB: db}}
	ch.Register(router)
	oh := &httpx.OrdersHandler{
		Repo:           &market.Repo{DB: db},
		Checkout:       &market.CheckoutRepo{DB: db},
		Lifecycle:      &market.LifecycleRepo{DB: db},
		PlacedProducer: placed,
		StatusProducer: status,
		Redis:          rdb,
		Service:        cfg.ServiceName,
	}
	oh.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	placed.Close()
	status.Close()
	placed.WaitClosed()
	status.WaitClosed()
}
