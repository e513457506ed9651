package compare

import (
	"sync"

	"github.com/vladislavdragonenkov/bakery/internal/domain"
)

// ToggleAction — результат переключения товара в наборе сравнения.
type ToggleAction string

const (
	ActionAdded   ToggleAction = "add"
	ActionRemoved ToggleAction = "remove"
)

// Set — ограниченный набор товаров для сравнения, живёт в памяти сессии.
// Повторное переключение уже добавленного товара удаляет его из набора.
type Set struct {
	mu       sync.Mutex
	products []string
}

// NewSet создаёт пустой набор сравнения.
func NewSet() *Set {
	return &Set{}
}

// Toggle добавляет товар либо убирает его, если он уже в наборе.
// Пятый товар отклоняется, прежние четыре остаются нетронутыми.
func (s *Set) Toggle(name string) (ToggleAction, error) {
	if name == "" {
		return "", domain.ErrProductNameRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.products {
		if p == name {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return ActionRemoved, nil
		}
	}

	if len(s.products) >= domain.MaxCompareProducts {
		return "", domain.ErrCompareLimit
	}
	s.products = append(s.products, name)
	return ActionAdded, nil
}

// Clear опустошает набор.
func (s *Set) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = nil
}

// List возвращает товары в порядке добавления.
func (s *Set) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.products))
	copy(out, s.products)
	return out
}

// Len возвращает размер набора.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.products)
}

// Snapshot возвращает доменное представление набора.
func (s *Set) Snapshot() domain.CompareSet {
	return domain.CompareSet{Products: s.List()}
}
