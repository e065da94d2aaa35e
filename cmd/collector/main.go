package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mergerscan/db"
	"mergerscan/internal/config"
	"mergerscan/internal/pipeline"
	"mergerscan/internal/repository"
	"mergerscan/pkg/news"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.Load()

	date := flag.String("date", cfg.CollectFromDate, "collect news published on or after this date (DD Mon YYYY)")
	lookback := flag.Int("lookback", cfg.CollectLookbackDays, "days before today to collect from when -date is empty")
	flag.Parse()

	from, err := news.CollectionDate(*date, *lookback, time.Now())
	if err != nil {
		log.Fatalf("invalid collection date: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	err = db.ConnectRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer db.CloseRedis()

	collector := pipeline.NewCollector(repository.NewNewsRepository(db.DB), db.NewRedisQueue(db.Redis), cfg.Sources()...)

	n, err := collector.Run(ctx, from)
	if err != nil {
		slog.Error("collection failed", "error", err)
		return
	}

	slog.Info("collection run finished", "from", from.Format(news.DateLayout), "new_items", n)
}
