// Package evaluation serves the metrics produced by completed experiments.
package evaluation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/slmforge/trainbench/internal/apperr"
	"github.com/slmforge/trainbench/internal/cache"
	"github.com/slmforge/trainbench/internal/models"
)

// Evaluations never change after insert, so cached details need no
// invalidation; the TTL just bounds redis memory.
const detailTTL = time.Hour

type Service struct {
	db    *pgxpool.Pool
	cache *cache.Cache
}

func NewService(db *pgxpool.Pool, c *cache.Cache) *Service {
	return &Service{db: db, cache: c}
}

const evaluationColumns = "id, experiment_id, metrics, loss_curve, training_statistics, created_at"

func scanEvaluation(row pgx.Row, ev *models.Evaluation) error {
	return row.Scan(&ev.ID, &ev.ExperimentID, &ev.Metrics, &ev.LossCurve, &ev.TrainingStatistics, &ev.CreatedAt)
}

// List returns evaluations, optionally filtered by experiment id.
func (s *Service) List(ctx context.Context, experimentID *uuid.UUID) ([]models.Evaluation, error) {
	query := `SELECT ` + evaluationColumns + ` FROM evaluations ORDER BY created_at DESC`
	args := []any{}
	if experimentID != nil {
		query = `SELECT ` + evaluationColumns + ` FROM evaluations WHERE experiment_id = $1 ORDER BY created_at DESC`
		args = append(args, *experimentID)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	defer rows.Close()

	var out []models.Evaluation
	for rows.Next() {
		var ev models.Evaluation
		if err := scanEvaluation(rows, &ev); err != nil {
			return nil, fmt.Errorf("scan evaluation: %w", err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Evaluation, error) {
	key := "evaluation:" + id.String()

	if s.cache != nil {
		var cached models.Evaluation
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, cache.ErrMiss) {
			slog.Warn("evaluation cache read failed", "error", err)
		}
	}

	var ev models.Evaluation
	err := scanEvaluation(s.db.QueryRow(ctx,
		`SELECT `+evaluationColumns+` FROM evaluations WHERE id = $1`, id), &ev)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("evaluation")
	}
	if err != nil {
		return nil, fmt.Errorf("get evaluation: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, &ev, detailTTL); err != nil {
			slog.Warn("evaluation cache write failed", "error", err)
		}
	}
	return &ev, nil
}

// Insert records a new evaluation. Only the training runner calls this.
func (s *Service) Insert(ctx context.Context, ev models.Evaluation) (*models.Evaluation, error) {
	var out models.Evaluation
	err := scanEvaluation(s.db.QueryRow(ctx,
		`INSERT INTO evaluations (id, experiment_id, metrics, loss_curve, training_statistics)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+evaluationColumns,
		ev.ID, ev.ExperimentID, ev.Metrics, ev.LossCurve, ev.TrainingStatistics,
	), &out)
	if err != nil {
		return nil, fmt.Errorf("insert evaluation: %w", err)
	}
	return &out, nil
}
