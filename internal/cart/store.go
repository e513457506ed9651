package cart

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/bakery/internal/domain"
)

// Store управляет корзиной одной сессии: упорядоченный список позиций и
// инкрементально поддерживаемая сумма. Каждая мутация целиком перезаписывает
// два слота хранилища (позиции и сумма). Хранилище недоверенное: ошибка
// записи логируется, in-memory состояние остаётся авторитетным до конца
// сессии.
type Store struct {
	storage domain.SlotStorage
	logger  *log.Entry

	itemsSlot  string
	amountSlot string

	mu         sync.Mutex
	items      []domain.LineItem
	totalMinor int64
}

// NewStore создаёт корзину сессии поверх слотов хранилища.
func NewStore(storage domain.SlotStorage, sessionID string, logger *log.Entry) *Store {
	if logger == nil {
		logger = log.WithField("component", "cart-store")
	}
	return &Store{
		storage:    storage,
		logger:     logger.WithField("session_id", sessionID),
		itemsSlot:  domain.SessionSlot(sessionID, domain.SlotCart),
		amountSlot: domain.SessionSlot(sessionID, domain.SlotOrderAmount),
	}
}

// Load единожды регидрирует корзину из хранилища. Отсутствующий снапшот
// означает пустую корзину; повреждённый снапшот приравнивается к
// отсутствующему и сбрасывает корзину в пустое состояние, не прерывая сессию.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rawItems, found, err := s.storage.Load(ctx, s.itemsSlot)
	if err != nil {
		s.logger.WithError(err).Warn("failed to load cart snapshot, starting empty")
		return
	}
	if !found {
		return
	}

	var items []domain.LineItem
	if err := json.Unmarshal(rawItems, &items); err != nil {
		s.logger.WithError(err).Warn("malformed cart snapshot, resetting to empty")
		s.items = nil
		s.totalMinor = 0
		return
	}

	var totalMinor int64
	rawAmount, found, err := s.storage.Load(ctx, s.amountSlot)
	if err == nil && found {
		parsed, parseErr := strconv.ParseInt(string(rawAmount), 10, 64)
		if parseErr != nil {
			s.logger.WithError(parseErr).Warn("malformed cart amount, resetting to empty")
			s.items = nil
			s.totalMinor = 0
			return
		}
		totalMinor = parsed
	}

	s.items = items
	s.totalMinor = totalMinor
}

// AddItem конструирует позицию со свежим идентификатором, добавляет её в
// конец корзины, увеличивает сумму и персистирует корзину целиком.
// Повторные добавления одинакового названия создают отдельные позиции.
func (s *Store) AddItem(ctx context.Context, name string, priceMinor int64) (domain.LineItem, error) {
	if name == "" {
		return domain.LineItem{}, domain.ErrProductNameRequired
	}
	if err := domain.ValidateItemPrice(priceMinor); err != nil {
		return domain.LineItem{}, err
	}

	now := time.Now().UTC()
	item := domain.LineItem{
		ID:         domain.NewLineItemID(now),
		Name:       name,
		PriceMinor: priceMinor,
		Quantity:   1,
		AddedAt:    now,
	}

	s.mu.Lock()
	s.items = append(s.items, item)
	s.totalMinor += priceMinor
	s.persistLocked(ctx)
	s.mu.Unlock()

	return item, nil
}

// persistLocked перезаписывает оба слота; вызывается под mu.
func (s *Store) persistLocked(ctx context.Context) {
	rawItems, err := json.Marshal(s.items)
	if err != nil {
		s.logger.WithError(err).Error("failed to marshal cart items")
		return
	}
	if err := s.storage.Save(ctx, s.itemsSlot, rawItems); err != nil {
		s.logger.WithError(err).Warn("failed to persist cart items, in-memory state stays authoritative")
	}
	rawAmount := []byte(strconv.FormatInt(s.totalMinor, 10))
	if err := s.storage.Save(ctx, s.amountSlot, rawAmount); err != nil {
		s.logger.WithError(err).Warn("failed to persist cart amount, in-memory state stays authoritative")
	}
}

// ItemCount возвращает количество позиций.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// TotalMinor возвращает накопленную сумму корзины.
func (s *Store) TotalMinor() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalMinor
}

// Items возвращает копию позиций в порядке добавления.
func (s *Store) Items() []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.LineItem, len(s.items))
	copy(out, s.items)
	return out
}
