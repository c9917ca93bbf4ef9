package queue

import (
	"context"

	"github.com/glowedge/skincare-backend/internal/domain/routine"
)

// HandlerQueue supports setting a handler for job delivery.
type HandlerQueue interface {
	routine.JobQueue
	SetHandler(handler Handler)
}

// Handler executes jobs synchronously or in the background.
type Handler func(ctx context.Context, name string, payload map[string]any)

// ImmediateQueue calls the handler on a fresh goroutine as soon as a job is
// enqueued. It backs local runs without a Valkey instance.
type ImmediateQueue struct {
	handler Handler
}

// NewImmediateQueue constructs the queue.
func NewImmediateQueue(handler Handler) *ImmediateQueue {
	return &ImmediateQueue{handler: handler}
}

// SetHandler replaces the handler used for queued jobs.
func (q *ImmediateQueue) SetHandler(handler Handler) {
	q.handler = handler
}

// Enqueue invokes the handler asynchronously. The job's context is detached
// from the caller's cancellation so it survives the request that scheduled it.
func (q *ImmediateQueue) Enqueue(ctx context.Context, name string, payload any) error {
	typed, ok := payload.(map[string]any)
	if !ok {
		typed = map[string]any{}
	}
	if q.handler == nil {
		return nil
	}
	go q.handler(context.WithoutCancel(ctx), name, typed)
	return nil
}

var _ routine.JobQueue = (*ImmediateQueue)(nil)
var _ HandlerQueue = (*ImmediateQueue)(nil)
