package training

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/slmforge/trainbench/internal/config"
	"github.com/slmforge/trainbench/internal/evaluation"
	"github.com/slmforge/trainbench/internal/metrics"
	"github.com/slmforge/trainbench/internal/models"
	"github.com/slmforge/trainbench/internal/registry"
	"github.com/slmforge/trainbench/internal/webhook"
)

// Runner executes one simulated training run per task. It owns its
// experiment's mutations exclusively; all status flips are compare-and-set so
// a terminal state can never be overwritten. No caller waits on the outcome;
// results flow through the data store.
type Runner struct {
	db          *pgxpool.Pool
	registry    *registry.Service
	evaluations *evaluation.Service
	webhooks    *webhook.Service
	cfg         config.TrainingConfig
}

func NewRunner(db *pgxpool.Pool, reg *registry.Service, evals *evaluation.Service, hooks *webhook.Service, cfg config.TrainingConfig) *Runner {
	return &Runner{
		db:          db,
		registry:    reg,
		evaluations: evals,
		webhooks:    hooks,
		cfg:         cfg,
	}
}

// Run drives a single experiment from created to a terminal state. The task
// is scheduled with the start delay already elapsed, so the created ->
// running flip happens on entry; the run duration wait follows. Errors are
// never propagated: anything unexpected forces the experiment to failed and
// the task completes.
func (r *Runner) Run(ctx context.Context, experimentID uuid.UUID) error {
	exp, err := r.load(ctx, experimentID)
	if errors.Is(err, pgx.ErrNoRows) {
		// Deleted out from under the run; abort silently.
		slog.Info("experiment missing, aborting run", "experiment_id", experimentID)
		return nil
	}
	if err != nil {
		return r.forceFail(ctx, experimentID, err)
	}

	flipped, err := r.transition(ctx, experimentID, models.StatusCreated, models.StatusRunning)
	if err != nil {
		return r.forceFail(ctx, experimentID, err)
	}
	if !flipped {
		slog.Warn("experiment not in created state, skipping run",
			"experiment_id", experimentID, "status", exp.Status)
		return nil
	}

	select {
	case <-ctx.Done():
		return r.forceFail(ctx, experimentID, ctx.Err())
	case <-time.After(r.cfg.RunDuration):
	}

	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))

	if rng.Float64() < r.cfg.SuccessRate {
		if err := r.complete(ctx, exp, rng); err != nil {
			return r.forceFail(ctx, experimentID, err)
		}
	} else {
		if err := r.fail(ctx, exp); err != nil {
			return r.forceFail(ctx, experimentID, err)
		}
	}
	return nil
}

func (r *Runner) load(ctx context.Context, id uuid.UUID) (*models.Experiment, error) {
	var e models.Experiment
	err := r.db.QueryRow(ctx,
		`SELECT id, name, base_model_id, status, training_config FROM experiments WHERE id = $1`, id,
	).Scan(&e.ID, &e.Name, &e.BaseModelID, &e.Status, &e.TrainingConfig)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// transition performs a compare-and-set status flip. Returns false when the
// experiment was not in the expected state.
func (r *Runner) transition(ctx context.Context, id uuid.UUID, from, to models.ExperimentStatus) (bool, error) {
	if !from.CanTransitionTo(to) {
		return false, fmt.Errorf("illegal transition %s -> %s", from, to)
	}
	tag, err := r.db.Exec(ctx,
		`UPDATE experiments SET status = $1 WHERE id = $2 AND status = $3`, to, id, from)
	if err != nil {
		return false, fmt.Errorf("transition %s -> %s: %w", from, to, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *Runner) complete(ctx context.Context, exp *models.Experiment, rng *rand.Rand) error {
	model, err := r.registry.RegisterFineTuned(ctx, FineTunedModel(rng, exp))
	if err != nil {
		return err
	}

	curve := SynthesizeLossCurve(rng, exp.Epochs())
	metricsJSON, _ := json.Marshal(SynthesizeMetrics(rng))
	curveJSON, _ := json.Marshal(curve)
	statsJSON, _ := json.Marshal(SynthesizeStatistics(curve, r.cfg.RunDuration))

	eval, err := r.evaluations.Insert(ctx, models.Evaluation{
		ID:                 uuid.New(),
		ExperimentID:       exp.ID,
		Metrics:            metricsJSON,
		LossCurve:          curveJSON,
		TrainingStatistics: statsJSON,
	})
	if err != nil {
		return err
	}

	// No transaction spans the three writes; a crash here can leave an
	// experiment completed without a resulting model or vice versa. Readers
	// tolerate that per the consistency contract.
	tag, err := r.db.Exec(ctx,
		`UPDATE experiments SET status = $1, resulting_model_id = $2 WHERE id = $3 AND status = $4`,
		models.StatusCompleted, model.ID, exp.ID, models.StatusRunning)
	if err != nil {
		return fmt.Errorf("complete experiment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		slog.Warn("experiment left running state during run", "experiment_id", exp.ID)
		return nil
	}

	metrics.ExperimentsCompleted.Inc()
	slog.Info("training run completed",
		"experiment_id", exp.ID, "model_id", model.ID, "evaluation_id", eval.ID)

	r.notify(ctx, models.EventExperimentCompleted, exp, model.ID)
	return nil
}

func (r *Runner) fail(ctx context.Context, exp *models.Experiment) error {
	flipped, err := r.transition(ctx, exp.ID, models.StatusRunning, models.StatusFailed)
	if err != nil {
		return err
	}
	if flipped {
		metrics.ExperimentsFailed.Inc()
		slog.Info("training run failed", "experiment_id", exp.ID)
		r.notify(ctx, models.EventExperimentFailed, exp, uuid.Nil)
	}
	return nil
}

// forceFail handles unexpected errors: best-effort flip to failed, log, and
// swallow. A task retry here would duplicate side effects.
func (r *Runner) forceFail(ctx context.Context, id uuid.UUID, cause error) error {
	slog.Error("training run error, forcing failed status", "experiment_id", id, "error", cause)

	// The incoming context may already be cancelled; the flip still has to land.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx,
		`UPDATE experiments SET status = $1 WHERE id = $2 AND status IN ($3, $4)`,
		models.StatusFailed, id, models.StatusCreated, models.StatusRunning)
	if err != nil {
		slog.Error("failed to mark experiment failed", "experiment_id", id, "error", err)
		return nil
	}

	metrics.ExperimentsFailed.Inc()
	return nil
}

func (r *Runner) notify(ctx context.Context, event string, exp *models.Experiment, modelID uuid.UUID) {
	if r.webhooks == nil {
		return
	}
	payload := map[string]any{
		"event":         event,
		"experiment_id": exp.ID,
		"name":          exp.Name,
	}
	if modelID != uuid.Nil {
		payload["resulting_model_id"] = modelID
	}
	if err := r.webhooks.Notify(ctx, event, payload); err != nil {
		slog.Warn("webhook notify failed", "event", event, "error", err)
	}
}
