package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mshnjffr/e-commerce-store/internal/catalog"
	"github.com/mshnjffr/e-commerce-store/internal/config"
	kafkax "github.com/mshnjffr/e-commerce-store/internal/kafka"
	"github.com/mshnjffr/e-commerce-store/internal/orders"
	"github.com/mshnjffr/e-commerce-store/internal/postgres"
	"github.com/mshnjffr/e-commerce-store/internal/redisx"
	"github.com/mshnjffr/e-commerce-store/internal/stockwatch"
)

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}

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

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &stockwatch.Service{
		Catalog:     &catalog.Repo{DB: db},
		KV:          stockwatch.NewKV(rdb),
		Log:         log,
		ServiceName: cfg.ServiceName + "-stockwatch",
		Threshold:   cfg.LowStockThreshold,
	}

	group := getenv("STOCKWATCH_GROUP", "stockwatch-svc")
	workers := mustAtoi(os.Getenv("STOCKWATCH_WORKERS"), "4")
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, orders.TopicOrderEvents, workers, log)

	go func() {
		log.Info("stockwatch consumer started",
			zap.String("group", group),
			zap.String("topic", orders.TopicOrderEvents),
			zap.Int("workers", workers))
		if err := cons.Start(ctx, svc.HandleOrderEvent); err != nil {
			log.Error("consumer exit", zap.Error(err))
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down consumer")
	cancel()
	time.Sleep(500 * time.Millisecond)
}
