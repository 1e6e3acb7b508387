package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/slmforge/trainbench/internal/config"
)

type Client struct {
	client *asynq.Client
}

func NewClient(cfg config.RedisConfig) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

func (c *Client) Close() error {
	return c.client.Close()
}

// EnqueueTrainingRun schedules a simulation task. The start delay is the
// window between experiment creation and the created -> running transition.
// Retries are disabled: a rerun after a partial success would duplicate the
// resulting model and evaluation.
func (c *Client) EnqueueTrainingRun(payload TrainingRunPayload, startDelay, runDuration time.Duration) error {
	return c.enqueue(TypeTrainingRun, payload,
		asynq.ProcessIn(startDelay),
		asynq.MaxRetry(0),
		asynq.Timeout(runDuration+5*time.Minute),
	)
}

func (c *Client) enqueue(taskType string, payload any, opts ...asynq.Option) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	task := asynq.NewTask(taskType, data)
	_, err = c.client.Enqueue(task, opts...)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", taskType, err)
	}
	return nil
}
