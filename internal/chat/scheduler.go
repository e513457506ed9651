package chat

import (
	"context"
	"sync"
	"time"
)

// scheduler владеет отложенными задачами разговора. Остановка планировщика
// при teardown сессии снимает все несработавшие таймеры.
type scheduler struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newScheduler() *scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &scheduler{ctx: ctx, cancel: cancel}
}

// After выполняет fn через delay, если планировщик не остановлен раньше.
func (s *scheduler) After(delay time.Duration, fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-s.ctx.Done():
			return
		case <-timer.C:
			fn()
		}
	}()
}

// Stop отменяет несработавшие задачи и дожидается завершения запущенных.
func (s *scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}
