package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mshnjffr/e-commerce-store/internal/catalog"
	"github.com/mshnjffr/e-commerce-store/internal/config"
	"github.com/mshnjffr/e-commerce-store/internal/httpx"
	kafkax "github.com/mshnjffr/e-commerce-store/internal/kafka"
	"github.com/mshnjffr/e-commerce-store/internal/orders"
	"github.com/mshnjffr/e-commerce-store/internal/postgres"
	"github.com/mshnjffr/e-commerce-store/internal/redisx"
	"github.com/mshnjffr/e-commerce-store/internal/users"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatal("db migrate", zap.Error(err))
	}
	if err := postgres.Seed(ctx, db); err != nil {
		log.Fatal("db seed", zap.Error(err))
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer for order lifecycle events
	prod := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderEvents, 1024, log)
	prod.Start(ctx)

	// Services
	catalogRepo := &catalog.Repo{DB: db, Cache: rdb}
	orderRepo := orders.NewRepo(db)
	engine := orders.NewEngine(orderRepo, log, cfg.MaxLineQuantity)
	query := orders.NewQuery(orderRepo, catalogRepo)
	userSvc := users.NewService(users.NewRepo(db), log, cfg.JWTSecret, cfg.TokenTTL)

	// Router & handlers
	router := httpx.NewRouter()
	(&httpx.CatalogHandler{Repo: catalogRepo}).Register(router)
	(&httpx.AuthHandler{Users: userSvc}).Register(router)
	(&httpx.OrdersHandler{
		Engine:   engine,
		Query:    query,
		Producer: prod,
		Service:  cfg.ServiceName,
	}).Register(router, userSvc)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Info("HTTP listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")

	shutdownCtx, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(shutdownCtx)
	prod.Close() // stop intake, flush buffered events
	cancel()
	prod.WaitClosed()
}
