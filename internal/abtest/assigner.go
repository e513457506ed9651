package abtest

import (
	"context"
	"math/rand"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/bakery/internal/domain"
)

// Group — группа A/B-теста вариации шапки.
type Group string

const (
	GroupA Group = "A"
	GroupB Group = "B"
)

// TestName — единственный активный эксперимент витрины.
const TestName = "header_variation"

// Assigner выдаёт стабильную группу A/B-теста: один раз на время жизни
// хранилища, повторные обращения возвращают сохранённое значение.
type Assigner struct {
	storage domain.SlotStorage
	logger  *log.Entry
	pick    func() Group
}

// Option настраивает Assigner.
type Option func(*Assigner)

// WithPickFn подменяет случайный выбор группы (нужно тестам).
func WithPickFn(pick func() Group) Option {
	return func(a *Assigner) {
		if pick != nil {
			a.pick = pick
		}
	}
}

// NewAssigner создаёт Assigner поверх хранилища слотов.
func NewAssigner(storage domain.SlotStorage, logger *log.Entry, options ...Option) *Assigner {
	if logger == nil {
		logger = log.WithField("component", "abtest")
	}
	a := &Assigner{
		storage: storage,
		logger:  logger,
		pick: func() Group {
			if rand.Intn(2) == 0 {
				return GroupA
			}
			return GroupB
		},
	}
	for _, option := range options {
		option(a)
	}
	return a
}

// Assign возвращает группу сессии; fresh=true означает первое назначение,
// которое вызывающая сторона должна отразить в аналитике.
// Нераспознанное сохранённое значение переназначается заново.
func (a *Assigner) Assign(ctx context.Context, sessionID string) (group Group, fresh bool) {
	slot := domain.SessionSlot(sessionID, domain.SlotABTestGroup)

	raw, found, err := a.storage.Load(ctx, slot)
	if err != nil {
		a.logger.WithError(err).Warn("failed to load ab group, assigning in-memory")
	} else if found {
		switch Group(raw) {
		case GroupA, GroupB:
			return Group(raw), false
		}
		a.logger.WithField("raw", string(raw)).Warn("malformed ab group value, reassigning")
	}

	group = a.pick()
	if err := a.storage.Save(ctx, slot, []byte(group)); err != nil {
		a.logger.WithError(err).Warn("failed to persist ab group, assignment stays in-memory")
	}
	return group, true
}
