package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"kidassess/internal/cache"
	"kidassess/internal/config"
	"kidassess/internal/i18n"
	"kidassess/internal/narration"
	"kidassess/internal/repository"
	"kidassess/internal/service"
	"kidassess/internal/transport/rest"
	"kidassess/internal/transport/ws"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := context.Background()

	cfg := config.Load()
	log.Info().Str("port", cfg.HTTPPort).Str("db", cfg.MongoDatabase).Msg("starting")

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal().Err(err).Msg("failed to ping MongoDB")
	}
	log.Info().Msg("connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDatabase)

	// Redis connection
	redisAddr := strings.TrimPrefix(cfg.RedisAddr, "redis://")
	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal().Err(err).Msg("failed to ping Redis")
	}
	log.Info().Msg("connected to Redis")

	// Repositories
	questionRepo := repository.NewQuestionRepo(db)
	answerRepo := repository.NewAnswerRepo(db)
	imageRepo := repository.NewImageRepo(db)

	// Caches
	questionCache := cache.NewQuestionCache(rdb)
	sessionCache := cache.NewSessionCache(rdb)

	// Narration
	tts := narration.NewTTSClient(cfg.TTSCacheDir, cfg.TTSAPIKey, log)
	speaker := narration.NewEngine(tts, log)
	if cfg.TTSAPIKey == "" {
		log.Warn().Msg("GOOGLE_TTS_API_KEY not set, narration degrades to fallback timers")
	}

	table := i18n.NewTable()

	// Services
	authSvc := service.NewAuthService()
	questionSvc := service.NewQuestionService(questionRepo, imageRepo, questionCache, log)
	assessSvc := service.NewAssessmentService(questionSvc, answerRepo, sessionCache, table, speaker, cfg.DefaultLocale, log)

	// Observer hub (implements service.Broadcaster)
	wsHub := ws.NewHub(log)
	assessSvc.SetBroadcaster(wsHub)

	container := &rest.Container{
		AuthService:       authSvc,
		QuestionService:   questionSvc,
		AssessmentService: assessSvc,
		ImageRepo:         imageRepo,
		TTS:               tts,
		WSHandler:         ws.NewHandler(wsHub, authSvc, log),
	}

	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen and serve")
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
