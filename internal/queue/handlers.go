package queue

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// Mux builds the task multiplexer for the worker process. Every handler runs
// under a middleware that times the task and logs its outcome.
type Mux struct {
	inner *asynq.ServeMux
}

func NewMux() *Mux {
	m := asynq.NewServeMux()
	m.Use(logTask)
	return &Mux{inner: m}
}

func (m *Mux) Handle(taskType string, h asynq.Handler) {
	m.inner.Handle(taskType, h)
}

func (m *Mux) Handler() *asynq.ServeMux {
	return m.inner
}

func logTask(next asynq.Handler) asynq.Handler {
	return asynq.HandlerFunc(func(ctx context.Context, t *asynq.Task) error {
		start := time.Now()
		err := next.ProcessTask(ctx, t)
		if err != nil {
			slog.Error("task failed", "type", t.Type(), "duration_ms", time.Since(start).Milliseconds(), "error", err)
			return err
		}
		slog.Info("task done", "type", t.Type(), "duration_ms", time.Since(start).Milliseconds())
		return nil
	})
}
