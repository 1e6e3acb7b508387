// Package training drives the simulated training runs. Synthesis produces
// plausible-looking fabricated results; nothing here trains anything.
package training

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/slmforge/trainbench/internal/models"
)

// Synthetic value ranges. Presentation-only constants; the only configurable
// simulation knobs are the delays and the success rate.
const (
	accuracyMin, accuracyMax     = 0.75, 0.95
	f1Min, f1Max                 = 0.70, 0.90
	perplexityMin, perplexityMax = 10.0, 50.0

	minParameters = 1_000_000
	maxParameters = 100_000_000

	lossStartMin, lossStartMax = 1.5, 2.5
	lossEndMin, lossEndMax     = 0.05, 0.20
	lossJitter                 = 0.05
	valNoiseMax                = 0.2
)

type Metrics struct {
	Accuracy   float64 `json:"accuracy"`
	F1         float64 `json:"f1"`
	Perplexity float64 `json:"perplexity"`
}

type LossCurve struct {
	Epochs    []int     `json:"epochs"`
	TrainLoss []float64 `json:"train_loss"`
	ValLoss   []float64 `json:"val_loss"`
}

type Statistics struct {
	TotalEpochs         int     `json:"total_epochs"`
	FinalTrainLoss      float64 `json:"final_train_loss"`
	FinalValLoss        float64 `json:"final_val_loss"`
	TrainingTimeSeconds float64 `json:"training_time_seconds"`
}

func SynthesizeMetrics(r *rand.Rand) Metrics {
	return Metrics{
		Accuracy:   round4(uniform(r, accuracyMin, accuracyMax)),
		F1:         round4(uniform(r, f1Min, f1Max)),
		Perplexity: round4(uniform(r, perplexityMin, perplexityMax)),
	}
}

// SynthesizeLossCurve generates one point per configured epoch. The training
// series trends downward with light jitter; the validation series is the
// training series plus independent non-negative noise.
func SynthesizeLossCurve(r *rand.Rand, epochs int) LossCurve {
	if epochs < 1 {
		epochs = 1
	}

	start := uniform(r, lossStartMin, lossStartMax)
	end := uniform(r, lossEndMin, lossEndMax)
	span := start - end

	curve := LossCurve{
		Epochs:    make([]int, epochs),
		TrainLoss: make([]float64, epochs),
		ValLoss:   make([]float64, epochs),
	}

	steps := float64(epochs - 1)
	if steps == 0 {
		steps = 1
	}

	for i := 0; i < epochs; i++ {
		base := start - span*float64(i)/steps
		jitter := (r.Float64() - 0.5) * lossJitter
		train := base + jitter
		if train < 0.01 {
			train = 0.01
		}
		curve.Epochs[i] = i + 1
		curve.TrainLoss[i] = round4(train)
		curve.ValLoss[i] = round4(train + r.Float64()*valNoiseMax)
	}
	return curve
}

func SynthesizeStatistics(curve LossCurve, runDuration time.Duration) Statistics {
	n := len(curve.TrainLoss)
	return Statistics{
		TotalEpochs:         n,
		FinalTrainLoss:      curve.TrainLoss[n-1],
		FinalValLoss:        curve.ValLoss[n-1],
		TrainingTimeSeconds: runDuration.Seconds(),
	}
}

// FineTunedModel builds the output model of a successful experiment, parented
// to the experiment's base model.
func FineTunedModel(r *rand.Rand, exp *models.Experiment) models.Model {
	params := minParameters + r.Int64N(maxParameters-minParameters+1)
	baseID := exp.BaseModelID
	return models.Model{
		ID:              uuid.New(),
		Name:            exp.Name + "_trained",
		ModelType:       models.ModelTypeFineTuned,
		BaseModelID:     &baseID,
		Version:         "1.0.0",
		Architecture:    "transformer",
		ParametersCount: &params,
		Description:     fmt.Sprintf("Fine-tuned model from experiment %s", exp.Name),
		IsLatestVersion: true,
	}
}

func uniform(r *rand.Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

func round4(v float64) float64 {
	return float64(int64(v*10000+0.5)) / 10000
}
