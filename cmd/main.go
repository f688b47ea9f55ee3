package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"gitlab.com/codearena.net/internal/adapter/crypto"
	"gitlab.com/codearena.net/internal/adapter/judge0"
	"gitlab.com/codearena.net/internal/adapter/postgres/problemrepository"
	"gitlab.com/codearena.net/internal/adapter/postgres/solvedrepository"
	"gitlab.com/codearena.net/internal/adapter/postgres/submissionrepository"
	"gitlab.com/codearena.net/internal/adapter/redis/solvedport"
	"gitlab.com/codearena.net/internal/config"
	"gitlab.com/codearena.net/internal/core/ports/secondary"
	"gitlab.com/codearena.net/internal/core/services/evaluation"
	logger2 "gitlab.com/codearena.net/internal/global/logger"
	http2 "gitlab.com/codearena.net/internal/http"
)

const shutdownGrace = 5 * time.Second

func main() {
	InitReader()
	// Set up graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sysCfg := config.NewSystemConfig()
	if err := sysCfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	logger2.Init(sysCfg.LogLevel)
	logger := logger2.Logger
	defer logger.Sync()

	logger2.Info("Starting evaluation service", "port", sysCfg.HTTPPort, "solvedStore", sysCfg.SolvedStore)

	ctxBg := context.Background()

	db, err := setupDatabase(ctxBg, sysCfg.PostgresConfig)
	if err != nil {
		logger.Error("Failed to set up database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// SECONDARY PORTS
	schema := sysCfg.PostgresConfig.Schema
	submissionRepo := submissionrepository.New(db, logger, schema)
	problemRepo := problemrepository.New(db, logger, schema)
	for _, ensure := range []func(context.Context) error{
		submissionRepo.EnsureTableExists,
		problemRepo.EnsureTableExists,
	} {
		if err := ensure(ctxBg); err != nil {
			logger.Error("Failed to prepare schema", "error", err)
			os.Exit(1)
		}
	}

	var solvedStore secondary.SolvedSetStore
	switch sysCfg.SolvedStore {
	case "redis":
		redisClient := redis.NewClient(&redis.Options{
			Addr:     sysCfg.RedisConfig.Url,
			Password: sysCfg.RedisConfig.Password,
			DB:       sysCfg.RedisConfig.DB,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctxBg).Err(); err != nil {
			logger.Error("Failed to connect to redis", "addr", sysCfg.RedisConfig.Url, "error", err)
			os.Exit(1)
		}
		solvedStore = solvedport.NewSolvedRepository(redisClient, logger)
	default:
		solvedRepo := solvedrepository.New(db, logger, schema)
		if err := solvedRepo.EnsureTableExists(ctxBg); err != nil {
			logger.Error("Failed to prepare schema", "error", err)
			os.Exit(1)
		}
		solvedStore = solvedRepo
	}

	executor := judge0.NewClient(sysCfg.ExecutorCfg, logger.With("component", "judge0"))

	// PRIMARY PORTS
	jwtProvider := crypto.NewJWTService(sysCfg.JwtConfig)

	// services
	evaluationSvc := evaluation.NewEvaluationService(
		executor,
		submissionRepo,
		problemRepo,
		solvedStore,
		sysCfg.ExecutorCfg,
		sysCfg.LanguageCfg,
		logger,
	)
	serviceProvider := http2.NewServiceProvider(evaluationSvc, jwtProvider)

	// server
	writeTimeout := sysCfg.ExecutorCfg.MaxWait + 2*sysCfg.ExecutorCfg.RequestTimeout + shutdownGrace
	httpServer := http2.NewServer(sysCfg.HTTPPort, "evaluator", *serviceProvider, writeTimeout, logger)
	if err := httpServer.Init(); err != nil {
		logger.Error("Failed to init http server", "error", err)
		os.Exit(1)
	}
	httpServer.Start(ctxBg)

	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(ctxBg, sysCfg.ExecutorCfg.MaxWait+shutdownGrace)
	defer cancel()
	if err := httpServer.Stop(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("successfully shutdown server")
}

// setupDatabase opens the PostgreSQL pool and checks it is reachable
func setupDatabase(ctx context.Context, cfg *config.PostgresConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.Url)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}

// InitReader loads <env>.env when an environment name is passed as the first argument;
// without one the process environment is used as is
func InitReader() {
	if len(os.Args) < 2 {
		return
	}
	environment := os.Args[1]
	if err := godotenv.Load(environment + ".env"); err != nil {
		log.Fatalf("Error loading %s.env file", environment)
	}
}
