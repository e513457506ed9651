package memory

import (
	"context"
	"sync"

	"github.com/vladislavdragonenkov/bakery/internal/domain"
)

// slotStoreInMemory — простая in-memory реализация SlotStorage.
type slotStoreInMemory struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// NewSlotStore возвращает in-memory хранилище слотов для локальной разработки и тестов.
func NewSlotStore() domain.SlotStorage {
	return &slotStoreInMemory{
		slots: make(map[string][]byte),
	}
}

// Load возвращает копию значения слота, чтобы избежать мутаций извне.
func (s *slotStoreInMemory) Load(_ context.Context, slot string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, ok := s.slots[slot]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, true, nil
}

// Save перезаписывает слот целиком.
func (s *slotStoreInMemory) Save(_ context.Context, slot string, raw []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(raw))
	copy(stored, raw)
	s.slots[slot] = stored
	return nil
}

// Delete удаляет слот; отсутствие слота не ошибка.
func (s *slotStoreInMemory) Delete(_ context.Context, slot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.slots, slot)
	return nil
}

var _ domain.SlotStorage = (*slotStoreInMemory)(nil)
