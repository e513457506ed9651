package health

import (
	"context"
	"time"

	"github.com/vladislavdragonenkov/bakery/internal/domain"
)

const probeSlot = "healthcheck"

// SlotStorageChecker проверяет хранилище слотов пробным чтением.
type SlotStorageChecker struct {
	name    string
	storage domain.SlotStorage
}

// NewSlotStorageChecker создаёт проверку хранилища слотов.
func NewSlotStorageChecker(name string, storage domain.SlotStorage) *SlotStorageChecker {
	return &SlotStorageChecker{
		name:    name,
		storage: storage,
	}
}

// Check читает служебный слот: важно, что хранилище отвечает,
// наличие значения роли не играет.
func (c *SlotStorageChecker) Check(ctx context.Context) Check {
	start := time.Now()
	_, _, err := c.storage.Load(ctx, probeSlot)
	duration := time.Since(start)

	if err != nil {
		return Check{
			Name:       c.name,
			Status:     StatusUnhealthy,
			Message:    err.Error(),
			DurationMs: duration.Milliseconds(),
		}
	}

	return Check{
		Name:       c.name,
		Status:     StatusHealthy,
		DurationMs: duration.Milliseconds(),
	}
}
