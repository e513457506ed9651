package app

import (
	"context"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/bakery/internal/domain"
	"github.com/vladislavdragonenkov/bakery/internal/storage/memory"
	"github.com/vladislavdragonenkov/bakery/internal/storage/postgres"
	redisstore "github.com/vladislavdragonenkov/bakery/internal/storage/redis"
)

// initStorage создаёт хранилище слотов согласно конфигурации.
// Второе возвращаемое значение — closer внешнего соединения, nil для
// in-memory хранилища.
func initStorage(ctx context.Context, cfg Config, logger *log.Entry) (domain.SlotStorage, io.Closer, error) {
	switch cfg.Storage {
	case StorageMemory:
		logger.Info("using in-memory slot storage")
		return memory.NewSlotStore(), nil, nil

	case StorageRedis:
		store, err := redisstore.Open(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open redis storage: %w", err)
		}
		logger.WithField("addr", cfg.RedisAddr).Info("using redis slot storage")
		return store, store, nil

	case StoragePostgres:
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open postgres storage: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("failed to ensure postgres schema: %w", err)
		}
		logger.Info("using postgres slot storage")
		return postgres.NewSlotStore(store), store, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
}
