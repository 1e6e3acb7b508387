package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to ExperimentStatus
		ok       bool
	}{
		{StatusCreated, StatusRunning, true},
		{StatusCreated, StatusCancelled, true},
		{StatusCreated, StatusCompleted, false},
		{StatusCreated, StatusFailed, false},
		{StatusRunning, StatusCompleted, true},
		{StatusRunning, StatusFailed, true},
		{StatusRunning, StatusCancelled, true},
		{StatusRunning, StatusCreated, false},
		{StatusCompleted, StatusRunning, false},
		{StatusFailed, StatusRunning, false},
		{StatusCancelled, StatusRunning, false},
		{StatusCompleted, StatusFailed, false},
	}

	for _, tt := range tests {
		got := tt.from.CanTransitionTo(tt.to)
		assert.Equal(t, tt.ok, got, "%s -> %s", tt.from, tt.to)
	}
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusCreated.Terminal())
	assert.False(t, StatusRunning.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusFailed.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, ExperimentStatus("bogus").Terminal())
}

func TestParseDatasetType(t *testing.T) {
	for _, valid := range []string{"training", "evaluation"} {
		_, ok := ParseDatasetType(valid)
		assert.True(t, ok, valid)
	}
	for _, invalid := range []string{"", "test", "TRAINING", "eval"} {
		_, ok := ParseDatasetType(invalid)
		assert.False(t, ok, invalid)
	}
}

func TestParseModelType(t *testing.T) {
	for _, valid := range []string{"base", "fine_tuned"} {
		_, ok := ParseModelType(valid)
		assert.True(t, ok, valid)
	}
	_, ok := ParseModelType("finetuned")
	assert.False(t, ok)
}

func TestExperimentEpochs(t *testing.T) {
	exp := &Experiment{TrainingConfig: []byte(`{"epochs": 5, "learning_rate": 0.001}`)}
	assert.Equal(t, 5, exp.Epochs())

	exp = &Experiment{TrainingConfig: []byte(`{"learning_rate": 0.001}`)}
	assert.Equal(t, DefaultEpochs, exp.Epochs())

	exp = &Experiment{TrainingConfig: []byte(`not json`)}
	assert.Equal(t, DefaultEpochs, exp.Epochs())

	exp = &Experiment{TrainingConfig: []byte(`{"epochs": -3}`)}
	assert.Equal(t, DefaultEpochs, exp.Epochs())
}
