package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/bakery/internal/domain"
)

const opTimeout = 5 * time.Second

type slotStore struct {
	db *sql.DB
}

// NewSlotStore создаёт PostgreSQL-реализацию SlotStorage поверх таблицы storefront_slots.
func NewSlotStore(store *Store) domain.SlotStorage {
	return &slotStore{db: store.DB()}
}

func (r *slotStore) Load(ctx context.Context, slot string) ([]byte, bool, error) {
	queryCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var raw []byte
	err := r.db.QueryRowContext(queryCtx, `
		SELECT raw FROM storefront_slots WHERE slot = $1
	`, slot).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("select slot %q: %w", slot, err)
	}
	return raw, true, nil
}

func (r *slotStore) Save(ctx context.Context, slot string, raw []byte) error {
	execCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(execCtx, `
		INSERT INTO storefront_slots (slot, raw, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (slot) DO UPDATE SET raw = EXCLUDED.raw, updated_at = NOW()
	`, slot, raw)
	if err != nil {
		return fmt.Errorf("upsert slot %q: %w", slot, err)
	}
	return nil
}

func (r *slotStore) Delete(ctx context.Context, slot string) error {
	execCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := r.db.ExecContext(execCtx, `
		DELETE FROM storefront_slots WHERE slot = $1
	`, slot); err != nil {
		return fmt.Errorf("delete slot %q: %w", slot, err)
	}
	return nil
}

// Ping проверяет доступность PostgreSQL (для health check).
func (r *slotStore) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return r.db.PingContext(pingCtx)
}

var _ domain.SlotStorage = (*slotStore)(nil)
