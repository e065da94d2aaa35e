package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"mergerscan/db"
	"mergerscan/internal/chat"
	"mergerscan/internal/config"
	"mergerscan/internal/handler"
	"mergerscan/internal/repository"
	"mergerscan/pkg/llm"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.Load()
	ctx := context.Background()

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

	guardLLM := cfg.SmallBatchCompleter()
	if guardLLM == nil {
		guardLLM = completer
	}

	opts := []chat.Option{
		chat.WithTokenLimit(cfg.ChatTokenLimit),
		chat.WithTokenCounter(llm.NewTokenCounter(cfg.OpenAIModel)),
	}
	if searcher, err := cfg.Searcher(ctx); err != nil {
		slog.Warn("web search disabled for chat", "error", err)
	} else {
		opts = append(opts, chat.WithSearcher(searcher))
	}

	assistant := chat.NewAssistant(completer, llm.NewGuard(guardLLM), chat.NewRedisSessionStore(db.Redis, chat.DefaultSessionTTL), opts...)

	newsRepo := repository.NewNewsRepository(db.DB)
	researchRepo := repository.NewResearchRepository(db.DB)
	newsHandler := handler.NewNewsHandler(newsRepo, researchRepo)
	chatHandler := handler.NewChatHandler(assistant)

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}
	if cfg.FrontendURL != allowedOrigins[0] {
		allowedOrigins = append(allowedOrigins, cfg.FrontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.GET("/news/:id", newsHandler.GetNews)
	r.GET("/news", newsHandler.GetFeed)
	r.GET("/mergers", newsHandler.GetMergers)
	r.GET("/mergers/:id/research", newsHandler.GetResearch)
	r.GET("/health", newsHandler.GetHealth)
	r.POST("/chat", chatHandler.PostChat)

	err = r.Run(":" + cfg.Port)
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
