package queue

const (
	TypeTrainingRun = "training:run"
)

// TrainingRunPayload identifies the experiment a simulation task drives.
type TrainingRunPayload struct {
	ExperimentID string `json:"experiment_id"`
}
