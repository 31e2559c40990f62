package task

import (
	"fmt"
	"time"

	"lookbook-server-go/internal/platform/config"
	"lookbook-server-go/internal/platform/errors"
	"lookbook-server-go/internal/platform/logging"
	"lookbook-server-go/internal/util/work"
)

// Manager accepts tasks and runs them on a bounded worker pool. Failed tasks
// are retried up to the configured budget with a fixed delay; a retried run
// is safe because every task here is idempotent at the item level.
type Manager struct {
	registry *Registry
	queue    *work.Queue[*Task]
	cfg      config.TaskConfig
	logger   *logging.Logger
}

func NewManager(cfg config.TaskConfig, registry *Registry, logger *logging.Logger) *Manager {
	m := &Manager{
		registry: registry,
		cfg:      cfg,
		logger:   logger,
	}
	m.queue = work.NewQueue(cfg.MaxWorkers, cfg.RetryDelayDuration(), m.execute)
	return m
}

// Submit enqueues a task for execution. Unregistered types are rejected up
// front so they never consume a worker.
func (m *Manager) Submit(t *Task) error {
	if _, ok := m.registry.Get(t.Type); !ok {
		return errors.New(errors.KindTask, "task.submit", fmt.Sprintf("no executor registered for type %s", t.Type))
	}
	if err := m.queue.SubmitWithRetries(t, 0, m.cfg.MaxRetries); err != nil {
		return errors.Wrap(errors.KindTask, "task.submit", "failed to enqueue task", err)
	}
	m.logger.Debug("task submitted: id=%s type=%s", t.ID, t.Type)
	return nil
}

// Stop drains the pool, waiting for in-flight tasks to finish.
func (m *Manager) Stop() {
	m.queue.Stop()
}

// execute runs one task. Panics are contained here; a panicking executor
// fails its task without taking down the worker.
func (m *Manager) execute(t *Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New(errors.KindTask, "task.execute", fmt.Sprintf("task panicked: %v", r))
			t.Status = StatusFailed
			t.Err = err
			m.logger.Error("task panic: id=%s type=%s cause=%v", t.ID, t.Type, r)
			if t.Callback != nil {
				t.Callback.OnError(err)
			}
		}
	}()

	if t.Context.Err() != nil {
		m.logger.Info("task cancelled before start: id=%s type=%s", t.ID, t.Type)
		return nil
	}

	t.Status = StatusRunning
	t.UpdatedAt = time.Now()

	executor, ok := m.registry.Get(t.Type)
	if !ok {
		t.Status = StatusFailed
		t.Err = errors.New(errors.KindTask, "task.execute", fmt.Sprintf("no executor registered for type %s", t.Type))
		if t.Callback != nil {
			t.Callback.OnError(t.Err)
		}
		return t.Err
	}

	t.Err = executor(t.Context, t)
	t.UpdatedAt = time.Now()

	if t.Err != nil {
		t.Status = StatusFailed
		m.logger.Warn("task failed: id=%s type=%s err=%v", t.ID, t.Type, t.Err)
		if t.Callback != nil {
			t.Callback.OnError(t.Err)
		}
		return t.Err
	}

	t.Status = StatusComplete
	m.logger.Debug("task complete: id=%s type=%s", t.ID, t.Type)
	if t.Callback != nil {
		t.Callback.OnComplete(t.Result)
	}
	return nil
}
