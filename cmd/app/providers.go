package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/glowedge/skincare-backend/internal/domain/catalog"
	"github.com/glowedge/skincare-backend/internal/domain/routine"
	"github.com/glowedge/skincare-backend/internal/domain/user"
	"github.com/glowedge/skincare-backend/internal/infra/catalogrepo"
	"github.com/glowedge/skincare-backend/internal/infra/config"
	"github.com/glowedge/skincare-backend/internal/infra/llm/chatgpt"
	"github.com/glowedge/skincare-backend/internal/infra/queue"
	"github.com/glowedge/skincare-backend/internal/infra/routinerepo"
	"github.com/glowedge/skincare-backend/internal/infra/storage"
	"github.com/glowedge/skincare-backend/internal/infra/tokenizer"
	"github.com/glowedge/skincare-backend/internal/infra/userrepo"
)

func provideRoutineConfig(cfg *config.Config) routine.Config {
	return routine.Config{
		MinCatalogSize:         cfg.Routine.MinCatalogSize,
		MinSteps:               cfg.Routine.MinSteps,
		MaxSteps:               cfg.Routine.MaxSteps,
		DefaultDurationMinutes: cfg.Routine.DefaultDurationMinutes,
		MaxTips:                cfg.Routine.MaxTips,
		PromptTokenBudget:      cfg.Routine.PromptTokenBudget,
	}
}

func provideChatGPTClient(cfg *config.Config) (*chatgpt.Client, error) {
	return chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Timeout)
}

func provideCompleter(client *chatgpt.Client, cfg *config.Config) routine.Completer {
	return chatgpt.NewCompleter(client, cfg.LLM.Model, cfg.LLM.Temperature, cfg.LLM.MaxTokens)
}

func provideTokenCounter(cfg *config.Config, logger *slog.Logger) routine.TokenCounter {
	counter, err := tokenizer.NewTiktokenCounter(cfg.LLM.Model)
	if err != nil {
		logger.Warn("tokenizer unavailable, prompt budget checks disabled", "error", err)
		return nil
	}
	return counter
}

func providePostgresPool(cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	dsn := strings.TrimSpace(cfg.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using memory repositories")
		return nil
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repositories", "error", err)
		return nil
	}
	if cfg.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repositories", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repositories", "error", err)
		pool.Close()
		return nil
	}
	logger.Info("postgres repositories enabled")
	return pool
}

func provideProductRepository(pool *pgxpool.Pool) catalog.ProductRepository {
	if pool == nil {
		return catalogrepo.NewMemoryRepository()
	}
	return catalogrepo.NewPostgresRepository(pool)
}

func provideRoutineRepository(pool *pgxpool.Pool) routine.RoutineRepository {
	if pool == nil {
		return routinerepo.NewMemoryRepository()
	}
	return routinerepo.NewPostgresRepository(pool)
}

func provideUserRepository(pool *pgxpool.Pool) user.Repository {
	if pool == nil {
		return userrepo.NewMemoryRepository()
	}
	return userrepo.NewPostgresRepository(pool)
}

func provideObjectStorage(cfg *config.Config, logger *slog.Logger) catalog.ObjectStorage {
	if strings.TrimSpace(cfg.Storage.Endpoint) == "" {
		logger.Info("object storage endpoint not set, keeping photos in memory")
		return storage.NewMemoryStorage()
	}
	store, err := storage.NewMinioStorage(cfg.Storage.Endpoint, cfg.Storage.AccessKey,
		cfg.Storage.SecretKey, cfg.Storage.Bucket, cfg.Storage.UseSSL, logger)
	if err != nil {
		logger.Error("object storage init failed, keeping photos in memory", "error", err)
		return storage.NewMemoryStorage()
	}
	return store
}

func provideJobQueue(cfg *config.Config, logger *slog.Logger) queue.HandlerQueue {
	if cfg.Queue.ValkeyEnabled {
		opt, err := buildValkeyOptions(cfg.Queue.ValkeyAddr)
		if err != nil {
			logger.Error("invalid valkey configuration, running jobs in process", "error", err)
			return queue.NewImmediateQueue(nil)
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, running jobs in process", "error", err)
			return queue.NewImmediateQueue(nil)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, running jobs in process", "error", err)
		} else {
			logger.Info("valkey job queue enabled", "addr", cfg.Queue.ValkeyAddr)
			return queue.NewValkeyQueue(client, "skincare:jobs", logger)
		}
	}
	return queue.NewImmediateQueue(nil)
}

func provideRoutineJobQueue(jobs queue.HandlerQueue) routine.JobQueue {
	return jobs
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

// profileReader bridges the user service into the routine engine.
type profileReader struct {
	users *user.Service
}

func (p profileReader) SkinProfile(ctx context.Context, userID int64) (routine.SkinProfile, error) {
	skinType, concerns, err := p.users.Profile(ctx, userID)
	if err != nil {
		return routine.SkinProfile{}, err
	}
	return routine.SkinProfile{SkinType: skinType, Concerns: concerns}, nil
}

func provideProfileReader(users *user.Service) routine.ProfileReader {
	return profileReader{users: users}
}
