package task

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Type names a registered kind of background work.
type Type string

const (
	TypeValidateImages   Type = "validate_images"
	TypeProbeImageURLs   Type = "probe_image_urls"
	TypeRevalidateFailed Type = "revalidate_failed"
)

// Status tracks a task through its lifecycle.
type Status string

const (
	StatusPending  Status = "pending"
	StatusRunning  Status = "running"
	StatusComplete Status = "complete"
	StatusFailed   Status = "failed"
)

// Executor runs one task. The returned error marks the task failed and makes
// it eligible for a bounded retry.
type Executor func(ctx context.Context, t *Task) error

// Callback is notified after each execution attempt. A retried task may see
// OnError more than once before a final OnComplete.
type Callback interface {
	OnComplete(result any)
	OnError(err error)
}

// Task is one unit of background work. Result is set by the executor on
// success; Err on failure.
type Task struct {
	ID        string
	Type      Type
	Status    Status
	Params    any
	Result    any
	Err       error
	Callback  Callback
	CreatedAt time.Time
	UpdatedAt time.Time
	Context   context.Context
}

func New(ctx context.Context, taskType Type, params any) *Task {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Task{
		ID:        uuid.New().String(),
		Type:      taskType,
		Status:    StatusPending,
		Params:    params,
		CreatedAt: time.Now(),
		Context:   ctx,
	}
}

// Registry maps task types to their executors.
type Registry struct {
	executors map[Type]Executor
	mu        sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{executors: make(map[Type]Executor)}
}

func (r *Registry) Register(taskType Type, executor Executor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.executors[taskType] = executor
}

func (r *Registry) Get(taskType Type) (Executor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	executor, ok := r.executors[taskType]
	return executor, ok
}

func (r *Registry) Types() []Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]Type, 0, len(r.executors))
	for taskType := range r.executors {
		types = append(types, taskType)
	}
	return types
}

// FuncCallback adapts plain functions to the Callback interface. Either
// field may be nil.
type FuncCallback struct {
	Complete func(result any)
	Error    func(err error)
}

func (c FuncCallback) OnComplete(result any) {
	if c.Complete != nil {
		c.Complete(result)
	}
}

func (c FuncCallback) OnError(err error) {
	if c.Error != nil {
		c.Error(err)
	}
}
