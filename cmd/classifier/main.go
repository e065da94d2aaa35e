package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"mergerscan/db"
	"mergerscan/internal/classify"
	"mergerscan/internal/config"
	"mergerscan/internal/dispatch"
	"mergerscan/internal/pipeline"
	"mergerscan/internal/repository"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	once := flag.Bool("once", false, "classify a single batch and exit")
	requeue := flag.Bool("requeue-pending", false, "queue every pending news item before starting")
	flag.Parse()

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	err = db.ConnectRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer db.CloseRedis()

	completer, err := cfg.Completer()
	if err != nil {
		log.Fatalf("error configuring LLM: %v", err)
	}

	opts := []classify.Option{
		classify.WithDispatchOptions(dispatch.WithLogger(slog.Default().With("job", "classify"))),
	}
	if small := cfg.SmallBatchCompleter(); small != nil {
		opts = append(opts, classify.WithSmallBatch(small, cfg.SmallBatchThreshold, cfg.SmallBatchRPM))
	}

	repo := repository.NewNewsRepository(db.DB)
	queue := db.NewRedisQueue(db.Redis)

	if *requeue {
		ids, err := repo.GetPendingIDs(cfg.BatchSize * 10)
		if err != nil {
			log.Fatalf("error loading pending news items: %v", err)
		}
		data := make([]string, len(ids))
		for i, id := range ids {
			data[i] = strconv.FormatInt(id, 10)
		}
		if err := queue.Push(ctx, db.ClassifyQueueKey, data...); err != nil {
			log.Fatalf("error queueing pending news items: %v", err)
		}
		slog.Info("queued pending news items", "count", len(ids))
	}

	job := pipeline.NewClassifyJob(classify.New(completer, cfg.ClassifyBatch(), opts...), repo, queue, cfg.BatchSize)

	if n, err := queue.Len(ctx, db.ClassifyQueueKey); err == nil {
		slog.Info("starting classify worker", "queued", n, "batch_size", cfg.BatchSize)
	}

	if *once {
		n, err := job.Run(ctx)
		if err != nil {
			slog.Error("classification failed", "error", err)
			return
		}
		slog.Info("classification run finished", "classified", n)
		return
	}

	pipeline.Loop(ctx, "classify", job, 30*time.Second, 5*time.Second)
}
