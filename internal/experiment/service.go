// Package experiment creates training-job records and hands them to the
// background simulation. Status transitions happen out-of-band in the worker.
package experiment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/slmforge/trainbench/internal/apperr"
	"github.com/slmforge/trainbench/internal/config"
	"github.com/slmforge/trainbench/internal/metrics"
	"github.com/slmforge/trainbench/internal/models"
	"github.com/slmforge/trainbench/internal/queue"
)

type Service struct {
	db       *pgxpool.Pool
	queue    *queue.Client
	training config.TrainingConfig
}

func NewService(db *pgxpool.Pool, qc *queue.Client, training config.TrainingConfig) *Service {
	return &Service{db: db, queue: qc, training: training}
}

type CreateRequest struct {
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	Goal              string          `json:"goal"`
	BaseModelID       uuid.UUID       `json:"base_model_id"`
	TrainingDatasetID uuid.UUID       `json:"training_dataset_id"`
	EvalDatasetID     *uuid.UUID      `json:"eval_dataset_id,omitempty"`
	TrainingConfig    json.RawMessage `json:"training_config"`
}

const experimentColumns = `id, name, description, goal, base_model_id, training_dataset_id,
	eval_dataset_id, status, training_config, resulting_model_id, created_at`

func scanExperiment(row pgx.Row, e *models.Experiment) error {
	return row.Scan(&e.ID, &e.Name, &e.Description, &e.Goal, &e.BaseModelID, &e.TrainingDatasetID,
		&e.EvalDatasetID, &e.Status, &e.TrainingConfig, &e.ResultingModelID, &e.CreatedAt)
}

// Create validates the referenced ids, persists the experiment in state
// created, and schedules the asynchronous run. The caller gets the record
// back immediately; the state machine advances out-of-band.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Experiment, error) {
	if req.Name == "" {
		return nil, apperr.Validationf("name required")
	}

	if err := s.checkExists(ctx, "models", req.BaseModelID, "base model"); err != nil {
		return nil, err
	}
	if err := s.checkExists(ctx, "datasets", req.TrainingDatasetID, "training dataset"); err != nil {
		return nil, err
	}
	if req.EvalDatasetID != nil {
		if err := s.checkExists(ctx, "datasets", *req.EvalDatasetID, "evaluation dataset"); err != nil {
			return nil, err
		}
	}

	trainingConfig := req.TrainingConfig
	if trainingConfig == nil {
		trainingConfig = json.RawMessage(`{}`)
	}

	var exp models.Experiment
	err := scanExperiment(s.db.QueryRow(ctx,
		`INSERT INTO experiments (id, name, description, goal, base_model_id, training_dataset_id, eval_dataset_id, status, training_config)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+experimentColumns,
		uuid.New(), req.Name, req.Description, req.Goal, req.BaseModelID,
		req.TrainingDatasetID, req.EvalDatasetID, models.StatusCreated, trainingConfig,
	), &exp)
	if err != nil {
		return nil, fmt.Errorf("insert experiment: %w", err)
	}

	if err := s.queue.EnqueueTrainingRun(queue.TrainingRunPayload{
		ExperimentID: exp.ID.String(),
	}, s.training.StartDelay, s.training.RunDuration); err != nil {
		return nil, fmt.Errorf("enqueue training run: %w", err)
	}

	metrics.ExperimentsCreated.Inc()
	return &exp, nil
}

func (s *Service) checkExists(ctx context.Context, table string, id uuid.UUID, resource string) error {
	var exists bool
	// table is one of two package-internal constants, never caller input.
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM `+table+` WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check %s: %w", resource, err)
	}
	if !exists {
		return apperr.NotFound(resource)
	}
	return nil
}

func (s *Service) List(ctx context.Context) ([]models.Experiment, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+experimentColumns+` FROM experiments ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list experiments: %w", err)
	}
	defer rows.Close()

	var out []models.Experiment
	for rows.Next() {
		var e models.Experiment
		if err := scanExperiment(rows, &e); err != nil {
			return nil, fmt.Errorf("scan experiment: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Experiment, error) {
	var e models.Experiment
	err := scanExperiment(s.db.QueryRow(ctx,
		`SELECT `+experimentColumns+` FROM experiments WHERE id = $1`, id), &e)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("experiment")
	}
	if err != nil {
		return nil, fmt.Errorf("get experiment: %w", err)
	}
	return &e, nil
}
