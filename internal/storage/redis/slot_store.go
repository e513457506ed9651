package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vladislavdragonenkov/bakery/internal/domain"
)

const defaultSlotTTL = 30 * 24 * time.Hour

// SlotStore хранит слоты витрины в Redis.
// TTL ограничивает время жизни брошенных сессий.
type SlotStore struct {
	client *redis.Client
	ttl    time.Duration
}

// Option настраивает SlotStore.
type Option func(*SlotStore)

// WithTTL задаёт время жизни слотов.
func WithTTL(ttl time.Duration) Option {
	return func(s *SlotStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// NewSlotStore оборачивает готовый redis-клиент.
func NewSlotStore(client *redis.Client, options ...Option) *SlotStore {
	store := &SlotStore{
		client: client,
		ttl:    defaultSlotTTL,
	}
	for _, option := range options {
		option(store)
	}
	return store
}

// Open подключается к Redis и проверяет доступность.
func Open(ctx context.Context, addr string, options ...Option) (*SlotStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewSlotStore(client, options...), nil
}

// Load возвращает значение слота; redis.Nil трактуется как отсутствие.
func (s *SlotStore) Load(ctx context.Context, slot string) ([]byte, bool, error) {
	raw, err := s.client.Get(ctx, slot).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %q: %w", slot, err)
	}
	return raw, true, nil
}

// Save перезаписывает слот целиком, продлевая TTL.
func (s *SlotStore) Save(ctx context.Context, slot string, raw []byte) error {
	if err := s.client.Set(ctx, slot, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", slot, err)
	}
	return nil
}

// Delete удаляет слот.
func (s *SlotStore) Delete(ctx context.Context, slot string) error {
	if err := s.client.Del(ctx, slot).Err(); err != nil {
		return fmt.Errorf("redis del %q: %w", slot, err)
	}
	return nil
}

// Ping проверяет доступность Redis (для health check).
func (s *SlotStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close закрывает подключение.
func (s *SlotStore) Close() error {
	return s.client.Close()
}

var _ domain.SlotStorage = (*SlotStore)(nil)
