package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/vitaburn/vitaburn-engine/internal/adapters/cache"
	adapterHTTP "github.com/vitaburn/vitaburn-engine/internal/adapters/handler/http"
	"github.com/vitaburn/vitaburn-engine/internal/adapters/repository"
	"github.com/vitaburn/vitaburn-engine/internal/assistant"
	"github.com/vitaburn/vitaburn-engine/internal/core/domain"
	"github.com/vitaburn/vitaburn-engine/internal/core/services"
	"github.com/vitaburn/vitaburn-engine/internal/core/workers"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	startTime := time.Now()

	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")

	serverPort := getEnv("PORT", "8080")

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("Critical: JWT_SECRET is required")
	}
	jwtIssuer := getEnv("JWT_ISSUER", "vitaburn-engine")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPass, dbHost, dbPort, dbName)

	log.Println("Connecting to database...")

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		log.Fatalf("Critical: Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	log.Println("Database connected successfully.")

	// Redis is optional: without it the API serves cold reads and the
	// rate limiter is disabled.
	var redisClient *redis.Client
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	redisClient, err = cache.NewRedisClient(
		getEnv("REDIS_HOST", "localhost"),
		getEnv("REDIS_PORT", "6379"),
		os.Getenv("REDIS_PASSWORD"),
		redisDB,
	)
	if err != nil {
		log.Printf("Warning: Redis unavailable, running without cache: %v", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	var predictionRepo domain.PredictionRepository = repository.NewPostgresPredictionRepository(db)
	if redisClient != nil {
		predictionRepo = repository.NewCachedPredictionRepository(predictionRepo, redisClient)
	}
	goalRepo := repository.NewPostgresGoalRepository(db)
	userRepo := repository.NewPostgresUserRepository(db.DB)

	warmer := workers.NewStatsWarmer(predictionRepo, redisClient, 15*time.Minute)

	warmerCtx, stopWarmer := context.WithCancel(context.Background())
	defer stopWarmer()
	warmer.Start(warmerCtx)

	authService := services.NewAuthService(userRepo)
	tokenService := services.NewTokenService(jwtSecret, jwtIssuer, 24*time.Hour, userRepo)
	predictionService := services.NewPredictionService(predictionRepo, warmer)
	statsService := services.NewStatsService(predictionRepo)
	goalService := services.NewGoalService(goalRepo, predictionRepo)

	assistantClient := assistant.NewClient(
		getEnv("ASSISTANT_URL", "https://api.openai.com/v1/chat/completions"),
		os.Getenv("ASSISTANT_API_KEY"),
	)
	chatService := services.NewChatService(assistantClient, predictionService)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:       adapterHTTP.NewAuthHandler(authService, tokenService),
		PredictionHandler: adapterHTTP.NewPredictionHandler(predictionService),
		StatsHandler:      adapterHTTP.NewStatsHandler(statsService, warmer),
		GoalHandler:       adapterHTTP.NewGoalHandler(goalService),
		ChatHandler:       adapterHTTP.NewChatHandler(chatService),
		TokenService:      tokenService,
		DB:                db,
		Redis:             redisClient,
		StartTime:         startTime,
	})

	srv := &http.Server{
		Addr:        ":" + serverPort,
		Handler:     router,
		ReadTimeout: 10 * time.Second,
		// Chat streams are long-lived; the write deadline must outlast
		// the assistant relay, not a single JSON response.
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("VitaBurn Engine running on http://localhost:%s", serverPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Stop signal received. Shutting down...")

	stopWarmer()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Forced shutdown error:", err)
	}

	log.Println("Server stopped gracefully.")
}
