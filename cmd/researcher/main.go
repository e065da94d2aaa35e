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
	"mergerscan/internal/dispatch"
	"mergerscan/internal/pipeline"
	"mergerscan/internal/repository"
	"mergerscan/internal/research"
	"mergerscan/pkg/llm"
)

var questions = map[string]string{
	"goods":     llm.QueryGoodsServices,
	"overlap":   llm.QueryOverlap,
	"potential": llm.QueryPotential,
}

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	once := flag.Bool("once", false, "research a single batch and exit")
	question := flag.String("question", "goods", "research question: goods, overlap or potential")
	flag.Parse()

	q, ok := questions[*question]
	if !ok {
		log.Fatalf("unknown research question %q", *question)
	}

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

	searcher, err := cfg.Searcher(ctx)
	if err != nil {
		log.Fatalf("error configuring search: %v", err)
	}

	researcher := research.New(searcher, completer, cfg.SearchBatch(), cfg.StructureBatch(),
		research.WithQuestion(q),
		research.WithDispatchOptions(dispatch.WithLogger(slog.Default().With("job", "research"))),
	)

	queue := db.NewRedisQueue(db.Redis)
	job := pipeline.NewResearchJob(
		researcher,
		repository.NewNewsRepository(db.DB),
		repository.NewResearchRepository(db.DB),
		queue,
		cfg.BatchSize,
	)

	if n, err := queue.Len(ctx, db.ResearchQueueKey); err == nil {
		slog.Info("starting research worker", "queued", n, "batch_size", cfg.BatchSize)
	}

	if *once {
		n, err := job.Run(ctx)
		if err != nil {
			slog.Error("research failed", "error", err)
			return
		}
		slog.Info("research run finished", "researched", n)
		return
	}

	pipeline.Loop(ctx, "research", job, 30*time.Second, 5*time.Second)
}
