package training

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slmforge/trainbench/internal/models"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestSynthesizeMetricsRanges(t *testing.T) {
	r := testRand()
	for i := 0; i < 100; i++ {
		m := SynthesizeMetrics(r)
		assert.GreaterOrEqual(t, m.Accuracy, 0.75)
		assert.LessOrEqual(t, m.Accuracy, 0.95)
		assert.GreaterOrEqual(t, m.F1, 0.70)
		assert.LessOrEqual(t, m.F1, 0.90)
		assert.GreaterOrEqual(t, m.Perplexity, 10.0)
		assert.LessOrEqual(t, m.Perplexity, 50.0)
	}
}

func TestSynthesizeLossCurveLength(t *testing.T) {
	r := testRand()
	for _, epochs := range []int{1, 2, 10, 50} {
		curve := SynthesizeLossCurve(r, epochs)
		require.Len(t, curve.Epochs, epochs)
		require.Len(t, curve.TrainLoss, epochs)
		require.Len(t, curve.ValLoss, epochs)
		assert.Equal(t, 1, curve.Epochs[0])
		assert.Equal(t, epochs, curve.Epochs[epochs-1])
	}

	// Degenerate epoch counts still produce a single point.
	curve := SynthesizeLossCurve(r, 0)
	assert.Len(t, curve.TrainLoss, 1)
}

func TestSynthesizeLossCurveTrendsDownward(t *testing.T) {
	r := testRand()
	for i := 0; i < 50; i++ {
		curve := SynthesizeLossCurve(r, 20)
		assert.Greater(t, curve.TrainLoss[0], curve.TrainLoss[19])
		for j := range curve.TrainLoss {
			assert.GreaterOrEqual(t, curve.ValLoss[j], curve.TrainLoss[j],
				"validation loss carries non-negative noise on top of train loss")
			assert.Greater(t, curve.TrainLoss[j], 0.0)
		}
	}
}

func TestSynthesizeStatistics(t *testing.T) {
	r := testRand()
	curve := SynthesizeLossCurve(r, 5)
	stats := SynthesizeStatistics(curve, 30*time.Second)

	assert.Equal(t, 5, stats.TotalEpochs)
	assert.Equal(t, curve.TrainLoss[4], stats.FinalTrainLoss)
	assert.Equal(t, curve.ValLoss[4], stats.FinalValLoss)
	assert.Equal(t, 30.0, stats.TrainingTimeSeconds)
}

func TestFineTunedModel(t *testing.T) {
	r := testRand()
	exp := &models.Experiment{
		ID:          uuid.New(),
		Name:        "sentiment-v1",
		BaseModelID: uuid.New(),
	}

	for i := 0; i < 20; i++ {
		m := FineTunedModel(r, exp)
		assert.Equal(t, "sentiment-v1_trained", m.Name)
		assert.Equal(t, models.ModelTypeFineTuned, m.ModelType)
		require.NotNil(t, m.BaseModelID)
		assert.Equal(t, exp.BaseModelID, *m.BaseModelID)
		require.NotNil(t, m.ParametersCount)
		assert.GreaterOrEqual(t, *m.ParametersCount, int64(1_000_000))
		assert.LessOrEqual(t, *m.ParametersCount, int64(100_000_000))
		assert.True(t, m.IsLatestVersion)
	}
}
