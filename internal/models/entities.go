package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type DatasetType string

const (
	DatasetTypeTraining   DatasetType = "training"
	DatasetTypeEvaluation DatasetType = "evaluation"
)

// ParseDatasetType validates a raw dataset_type value.
func ParseDatasetType(s string) (DatasetType, bool) {
	switch DatasetType(s) {
	case DatasetTypeTraining, DatasetTypeEvaluation:
		return DatasetType(s), true
	}
	return "", false
}

type ModelType string

const (
	ModelTypeBase      ModelType = "base"
	ModelTypeFineTuned ModelType = "fine_tuned"
)

func ParseModelType(s string) (ModelType, bool) {
	switch ModelType(s) {
	case ModelTypeBase, ModelTypeFineTuned:
		return ModelType(s), true
	}
	return "", false
}

// Dataset is an uploaded training or evaluation file. Rows are created once
// and never mutated.
type Dataset struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	Name        string      `json:"name" db:"name"`
	Description string      `json:"description,omitempty" db:"description"`
	DatasetType DatasetType `json:"dataset_type" db:"dataset_type"`
	FilePath    string      `json:"file_path,omitempty" db:"file_path"`
	RowCount    int         `json:"row_count" db:"row_count"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
}

// Model is either a seeded base model or the output of a completed
// experiment. BaseModelID points to the parent for fine-tuned models.
type Model struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	Name            string          `json:"name" db:"name"`
	ModelType       ModelType       `json:"model_type" db:"model_type"`
	BaseModelID     *uuid.UUID      `json:"base_model_id,omitempty" db:"base_model_id"`
	Version         string          `json:"version,omitempty" db:"version"`
	Architecture    string          `json:"architecture,omitempty" db:"architecture"`
	ParametersCount *int64          `json:"parameters_count,omitempty" db:"parameters_count"`
	Description     string          `json:"description,omitempty" db:"description"`
	Metadata        json.RawMessage `json:"metadata,omitempty" db:"metadata"`
	IsLatestVersion bool            `json:"is_latest_version" db:"is_latest_version"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

// ModelDetail is the model plus the derived set of evaluation ids belonging
// to any experiment that produced this model. The relationship is not stored
// on the row; it is assembled at read time.
type ModelDetail struct {
	Model
	LinkedEvaluations []uuid.UUID `json:"linked_evaluations,omitempty"`
}

// Experiment is a single training-job record. Only the lifecycle runner
// mutates it after creation.
type Experiment struct {
	ID                uuid.UUID        `json:"id" db:"id"`
	Name              string           `json:"name" db:"name"`
	Description       string           `json:"description,omitempty" db:"description"`
	Goal              string           `json:"goal,omitempty" db:"goal"`
	BaseModelID       uuid.UUID        `json:"base_model_id" db:"base_model_id"`
	TrainingDatasetID uuid.UUID        `json:"training_dataset_id" db:"training_dataset_id"`
	EvalDatasetID     *uuid.UUID       `json:"eval_dataset_id,omitempty" db:"eval_dataset_id"`
	Status            ExperimentStatus `json:"status" db:"status"`
	TrainingConfig    json.RawMessage  `json:"training_config" db:"training_config"`
	ResultingModelID  *uuid.UUID       `json:"resulting_model_id,omitempty" db:"resulting_model_id"`
	CreatedAt         time.Time        `json:"created_at" db:"created_at"`
}

// Epochs extracts the configured epoch count from the training config blob,
// falling back to a default when absent or unparsable.
func (e *Experiment) Epochs() int {
	var cfg struct {
		Epochs int `json:"epochs"`
	}
	if err := json.Unmarshal(e.TrainingConfig, &cfg); err != nil || cfg.Epochs <= 0 {
		return DefaultEpochs
	}
	return cfg.Epochs
}

// DefaultEpochs is used when an experiment's training config carries no
// usable epoch count.
const DefaultEpochs = 10

// Evaluation holds the metrics produced by a completed experiment.
// Evaluations are immutable.
type Evaluation struct {
	ID                 uuid.UUID       `json:"id" db:"id"`
	ExperimentID       uuid.UUID       `json:"experiment_id" db:"experiment_id"`
	Metrics            json.RawMessage `json:"metrics,omitempty" db:"metrics"`
	LossCurve          json.RawMessage `json:"loss_curve,omitempty" db:"loss_curve"`
	TrainingStatistics json.RawMessage `json:"training_statistics,omitempty" db:"training_statistics"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
}

// Webhook is a registered callback for experiment lifecycle events.
type Webhook struct {
	ID        uuid.UUID `json:"id" db:"id"`
	URL       string    `json:"url" db:"url"`
	Secret    string    `json:"secret,omitempty" db:"secret"`
	Events    []string  `json:"events" db:"events"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

const (
	EventExperimentCompleted = "experiment.completed"
	EventExperimentFailed    = "experiment.failed"
)
