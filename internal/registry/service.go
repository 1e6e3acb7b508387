// Package registry is the model catalog: seeded base models plus the
// fine-tuned models produced by completed experiments.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/slmforge/trainbench/internal/apperr"
	"github.com/slmforge/trainbench/internal/models"
)

type Service struct {
	db *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

const modelColumns = `id, name, model_type, base_model_id, version, architecture,
	parameters_count, description, metadata, is_latest_version, created_at`

func scanModel(row pgx.Row, m *models.Model) error {
	return row.Scan(&m.ID, &m.Name, &m.ModelType, &m.BaseModelID, &m.Version, &m.Architecture,
		&m.ParametersCount, &m.Description, &m.Metadata, &m.IsLatestVersion, &m.CreatedAt)
}

// SeedBaseModels inserts the default pretrained models when the catalog holds
// no base models yet. Runs once at API startup.
func (s *Service) SeedBaseModels(ctx context.Context) error {
	var count int
	if err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM models WHERE model_type = $1`, models.ModelTypeBase,
	).Scan(&count); err != nil {
		return fmt.Errorf("count base models: %w", err)
	}
	if count > 0 {
		return nil
	}

	seeds := []struct {
		name   string
		params int64
		desc   string
	}{
		{"GPT-2 Small", 124_000_000, "Small GPT-2 model for fine-tuning"},
		{"GPT-2 Medium", 355_000_000, "Medium GPT-2 model for fine-tuning"},
		{"BERT Base", 110_000_000, "BERT base model for fine-tuning"},
	}

	for _, seed := range seeds {
		_, err := s.db.Exec(ctx,
			`INSERT INTO models (id, name, model_type, version, architecture, parameters_count, description, is_latest_version)
			 VALUES ($1, $2, $3, '1.0', 'transformer', $4, $5, true)`,
			uuid.New(), seed.name, models.ModelTypeBase, seed.params, seed.desc,
		)
		if err != nil {
			return fmt.Errorf("seed model %s: %w", seed.name, err)
		}
	}

	slog.Info("seeded base models", "count", len(seeds))
	return nil
}

// List returns all models, optionally filtered by type. An unknown filter
// value is a validation error; an empty filter means no filtering.
func (s *Service) List(ctx context.Context, modelType string) ([]models.Model, error) {
	query := `SELECT ` + modelColumns + ` FROM models ORDER BY created_at DESC`
	args := []any{}

	if modelType != "" {
		mt, ok := models.ParseModelType(modelType)
		if !ok {
			return nil, apperr.Validationf("model_type must be 'base' or 'fine_tuned'")
		}
		query = `SELECT ` + modelColumns + ` FROM models WHERE model_type = $1 ORDER BY created_at DESC`
		args = append(args, mt)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	defer rows.Close()

	var out []models.Model
	for rows.Next() {
		var m models.Model
		if err := scanModel(rows, &m); err != nil {
			return nil, fmt.Errorf("scan model: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Get returns a model plus the evaluation ids of any experiment that produced
// it. The linkage is derived through experiments.resulting_model_id, not
// stored on the model row.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.ModelDetail, error) {
	var detail models.ModelDetail
	err := scanModel(s.db.QueryRow(ctx,
		`SELECT `+modelColumns+` FROM models WHERE id = $1`, id), &detail.Model)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("model")
	}
	if err != nil {
		return nil, fmt.Errorf("get model: %w", err)
	}

	rows, err := s.db.Query(ctx,
		`SELECT e.id
		 FROM evaluations e
		 JOIN experiments x ON x.id = e.experiment_id
		 WHERE x.resulting_model_id = $1
		 ORDER BY e.created_at`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("list linked evaluations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var evalID uuid.UUID
		if err := rows.Scan(&evalID); err != nil {
			return nil, fmt.Errorf("scan evaluation id: %w", err)
		}
		detail.LinkedEvaluations = append(detail.LinkedEvaluations, evalID)
	}
	return &detail, rows.Err()
}

// RegisterFineTuned records the output model of a successful experiment.
func (s *Service) RegisterFineTuned(ctx context.Context, m models.Model) (*models.Model, error) {
	var out models.Model
	err := scanModel(s.db.QueryRow(ctx,
		`INSERT INTO models (id, name, model_type, base_model_id, version, architecture, parameters_count, description, metadata, is_latest_version)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, true)
		 RETURNING `+modelColumns,
		m.ID, m.Name, models.ModelTypeFineTuned, m.BaseModelID, m.Version, m.Architecture,
		m.ParametersCount, m.Description, m.Metadata,
	), &out)
	if err != nil {
		return nil, fmt.Errorf("register fine-tuned model: %w", err)
	}
	return &out, nil
}
