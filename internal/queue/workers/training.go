package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/slmforge/trainbench/internal/queue"
	"github.com/slmforge/trainbench/internal/training"
)

type TrainingWorker struct {
	runner *training.Runner
}

func NewTrainingWorker(runner *training.Runner) *TrainingWorker {
	return &TrainingWorker{runner: runner}
}

func (w *TrainingWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.TrainingRunPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	id, err := uuid.Parse(payload.ExperimentID)
	if err != nil {
		return fmt.Errorf("invalid experiment id %q: %w", payload.ExperimentID, err)
	}

	slog.Info("running training experiment", "experiment_id", id)
	return w.runner.Run(ctx, id)
}
