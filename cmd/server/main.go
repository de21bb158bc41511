package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"quizarena/internal/cache"
	"quizarena/internal/config"
	"quizarena/internal/game"
	"quizarena/internal/repository"
	"quizarena/internal/service"
	"quizarena/internal/transport/rest"
	"quizarena/internal/transport/ws"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	log.Println("started")
	ctx := context.Background()
	cfg := config.Load()

	log.Printf("Arena Config:")
	log.Printf("  Tick:       %d Hz (broadcast every %d ticks)", game.TickHz, cfg.BroadcastEvery())
	log.Printf("  Rounds:     %d", cfg.DefaultTotalRounds)
	log.Printf("  HighScores: %s", cfg.HighScoreBackend)

	// MongoDB connection (results history; optional)
	var resultRepo repository.ResultRepo
	if cfg.MongoURI == "" {
		log.Println("Warning: MONGO_URI not set, results will not be persisted")
	} else if mongoClient, err := connectMongo(ctx, cfg.MongoURI); err != nil {
		log.Printf("Warning: MongoDB unavailable, results will not be persisted: %v", err)
	} else {
		defer mongoClient.Disconnect(ctx)
		log.Println("Connected to MongoDB")
		resultRepo = repository.NewResultRepo(mongoClient.Database(cfg.MongoDatabase))
	}

	// Redis connection (result cache and shared high scores; optional)
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if _, err := rdb.Ping(pingCtx).Result(); err != nil {
			log.Printf("Warning: failed to ping Redis: %v", err)
		} else {
			log.Println("Connected to Redis")
		}
		cancel()
	}

	var resultCache cache.ResultCache
	if rdb != nil {
		resultCache = cache.NewResultCache(rdb)
	}

	// High-score store
	var scoreStore service.HighScoreStore
	switch cfg.HighScoreBackend {
	case config.BackendRedis:
		scoreStore = cache.NewHighScoreCache(rdb)
	default:
		repo, err := repository.NewHighScoreRepo(cfg.SQLitePath)
		if err != nil {
			log.Printf("Warning: high scores disabled, sqlite at %s: %v", cfg.SQLitePath, err)
		} else {
			defer repo.Close()
			scoreStore = repo
		}
	}

	// Question source
	var fetcher service.QuestionFetcher
	switch {
	case cfg.QuestionAPIURL != "":
		fetcher = service.NewHTTPQuestionClient(cfg.QuestionAPIURL, cfg.FetchTimeout)
		log.Printf("  Questions:  %s", cfg.QuestionAPIURL)
	case cfg.AI.IsEnabled():
		fetcher = service.NewGeminiQuestionClient(cfg.AI)
		log.Printf("  Questions:  Gemini %s", cfg.AI.Model)
	default:
		log.Println("  Questions:  offline generator only")
	}

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Initialize services
	tokenSvc := service.NewTokenService(cfg.JWTSecret)
	rewardSvc := service.NewRewardService(resultRepo, resultCache, cfg.RewardAPIURL)
	highScoreSvc := service.NewHighScoreService(scoreStore)
	arenaSvc := service.NewArenaService(service.ArenaConfig{
		BroadcastEvery:     cfg.BroadcastEvery(),
		DefaultTotalRounds: cfg.DefaultTotalRounds,
		FetchTimeout:       cfg.FetchTimeout,
		GeneratorKey:       cfg.GeneratorKey,
		IdleTimeout:        cfg.IdleTimeout,
	}, fetcher, rewardSvc, highScoreSvc, tokenSvc)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	arenaSvc.SetBroadcaster(wsHub)
	arenaSvc.SetResultLookup(rewardSvc)

	sweepCtx, stopSweeper := context.WithCancel(ctx)
	defer stopSweeper()
	go arenaSvc.RunSweeper(sweepCtx)

	// Create router with container
	container := &rest.Container{
		ArenaService:     arenaSvc,
		HighScoreService: highScoreSvc,
		TokenService:     tokenSvc,
		RewardService:    rewardSvc,
		WSHub:            wsHub,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Println("Endpoints:")
		log.Println("  POST   /v1/sessions")
		log.Println("  GET    /v1/sessions/{id}")
		log.Println("  POST   /v1/sessions/{id}/intents")
		log.Println("  POST   /v1/sessions/{id}/start")
		log.Println("  GET    /v1/sessions/{id}/result")
		log.Println("  DELETE /v1/sessions/{id}")
		log.Println("  GET    /v1/highscores")
		log.Println("  GET    /v1/results?player={name}")
		log.Println("  WS     /v1/ws/sessions/{id}")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	arenaSvc.Shutdown()

	log.Println("Server exited")
}

func connectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, err
	}
	return client, nil
}
