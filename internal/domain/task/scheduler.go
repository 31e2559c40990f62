package task

import (
	"context"
	"sync"
	"time"

	"lookbook-server-go/internal/platform/logging"
)

// Recurring describes a task resubmitted on a fixed interval. Params is
// called per tick so each run gets fresh parameters.
type Recurring struct {
	Type     Type
	Interval time.Duration
	Params   func() any
}

// Scheduler feeds recurring tasks into a Manager. Entries must be added
// before Start.
type Scheduler struct {
	manager  *Manager
	logger   *logging.Logger
	entries  []Recurring
	stopChan chan struct{}
	wg       sync.WaitGroup
}

func NewScheduler(manager *Manager, logger *logging.Logger) *Scheduler {
	return &Scheduler{
		manager:  manager,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

func (s *Scheduler) Add(entry Recurring) {
	s.entries = append(s.entries, entry)
}

// Start launches one ticker loop per entry. Entries with a non-positive
// interval are skipped.
func (s *Scheduler) Start(ctx context.Context) {
	for _, entry := range s.entries {
		if entry.Interval <= 0 {
			s.logger.Warn("recurring task disabled: type=%s", entry.Type)
			continue
		}
		s.wg.Add(1)
		go s.run(ctx, entry)
	}
}

func (s *Scheduler) Stop() {
	close(s.stopChan)
	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context, entry Recurring) {
	defer s.wg.Done()

	ticker := time.NewTicker(entry.Interval)
	defer ticker.Stop()

	s.logger.Info("recurring task scheduled: type=%s interval=%s", entry.Type, entry.Interval)

	for {
		select {
		case <-s.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			var params any
			if entry.Params != nil {
				params = entry.Params()
			}
			t := New(ctx, entry.Type, params)
			if err := s.manager.Submit(t); err != nil {
				s.logger.Error("recurring task submit failed: type=%s err=%v", entry.Type, err)
			}
		}
	}
}
