package controller

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

type Runnable interface {
	// Start runs the component until the context is canceled or an error
	// occurs. It blocks for the lifetime of the component.
	Start(context.Context) error
}

type Manager struct {
	runnables []Runnable
	cancel    context.CancelFunc
	wg        sync.WaitGroup

	logger *zap.Logger
}

func NewManager(logger *zap.Logger, runnables ...Runnable) *Manager {
	return &Manager{
		runnables: runnables,
		logger:    logger,
	}
}

func (m *Manager) Start(ctx context.Context) error {
	ctx, m.cancel = context.WithCancel(ctx)

	for _, runnable := range m.runnables {
		m.wg.Add(1)
		go func(r Runnable) {
			defer m.wg.Done()
			if err := r.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				m.logger.Error("runnable error", zap.Error(err))
			}
		}(runnable)
	}

	m.wg.Wait()
	return nil
}

// Stop cancels every managed Runnable.
func (m *Manager) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
}
