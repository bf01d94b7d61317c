package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/config"
	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/infra/memory"
	"trivia-quiz-service/internal/infra/postgres"
	redisinfra "trivia-quiz-service/internal/infra/redis"
	"trivia-quiz-service/internal/infra/sqlite"
)

const defaultTTL = 10 * time.Minute

// openBankLoader picks the loader named by bank.source. The returned func releases it.
func openBankLoader(ctx context.Context, cfg config.Config) (memory.BankLoader, func(), error) {
	switch cfg.Bank.Source {
	case "", config.SourceStatic:
		return memory.NewStaticBankLoader(domain.DefaultBank()), func() {}, nil
	case config.SourcePostgres:
		if cfg.Postgres.URL == "" {
			return nil, nil, fmt.Errorf("postgres url not configured")
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		return postgres.NewBankLoader(pool), pool.Close, nil
	case config.SourceSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		return sqlite.NewBankLoader(db), func() { _ = db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown bank source %q", cfg.Bank.Source)
	}
}

func newRedisClient(cfg config.Config) *redis.Client {
	if cfg.Redis.Addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

// buildService wires the bank loader, caches and session store behind a QuizService.
func buildService(ctx context.Context, cfg config.Config) (*app.QuizService, func(), error) {
	loader, closeLoader, err := openBankLoader(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	bankTTL := config.TTLDuration(cfg.Bank.TTL, defaultTTL)

	var (
		banks    app.BankRepository
		sessions app.SessionRepository
	)
	redisClient := newRedisClient(cfg)
	if redisClient != nil {
		banks = redisinfra.NewBankRepository(redisClient, loader, bankTTL)
		sessions = redisinfra.NewSessionStore(redisClient, config.TTLDuration(cfg.Redis.TTL, defaultTTL))
	} else {
		banks = memory.NewBankRepository(loader, bankTTL)
		sessions = memory.NewSessionStore()
	}

	cleanup := func() {
		if redisClient != nil {
			_ = redisClient.Close()
		}
		closeLoader()
	}
	return app.NewQuizService(sessions, banks), cleanup, nil
}
