package models

// ExperimentStatus is the experiment lifecycle state machine:
//
//	created -> running -> completed | failed
//
// cancelled is a terminal state reachable from any non-terminal state; no
// cancel operation is exposed yet, so the simulation never produces it.
type ExperimentStatus string

const (
	StatusCreated   ExperimentStatus = "created"
	StatusRunning   ExperimentStatus = "running"
	StatusCompleted ExperimentStatus = "completed"
	StatusFailed    ExperimentStatus = "failed"
	StatusCancelled ExperimentStatus = "cancelled"
)

var transitions = map[ExperimentStatus][]ExperimentStatus{
	StatusCreated: {StatusRunning, StatusCancelled},
	StatusRunning: {StatusCompleted, StatusFailed, StatusCancelled},
}

// Valid reports whether s is a known status value.
func (s ExperimentStatus) Valid() bool {
	switch s {
	case StatusCreated, StatusRunning, StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether the status admits no further transitions.
func (s ExperimentStatus) Terminal() bool {
	return s.Valid() && len(transitions[s]) == 0
}

// CanTransitionTo reports whether the move s -> to is legal.
func (s ExperimentStatus) CanTransitionTo(to ExperimentStatus) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}
