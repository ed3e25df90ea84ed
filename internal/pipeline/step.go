package pipeline

import (
	"context"
	"time"

	"matchprep/internal/config"
	"matchprep/internal/dataset"
	"matchprep/internal/scale"
)

// Step represents a single stage in the preparation pipeline
type Step interface {
	// ID returns the unique identifier for this step
	ID() string

	// Name returns the human-readable name for this step
	Name() string

	// Execute runs the step against the shared run state
	Execute(ctx context.Context, state *State) error
}

// State is the shared state of one pipeline run. Each step owns the tables it
// places here until the next step consumes them; the pipeline is strictly
// sequential, so no locking is needed.
type State struct {
	RunID string
	Mode  config.Mode

	// Prepared is the flat match record table, set by the aggregate step
	Prepared *dataset.Table

	// Result is the ready-to-train dataset, set by the scale step
	Result *scale.Result

	steps []*StepState
}

// StepStatus represents the current status of a step
type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusActive    StepStatus = "active"
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
)

// StepState records the runtime state of one step
type StepState struct {
	ID        string
	Name      string
	Status    StepStatus
	StartTime *time.Time
	EndTime   *time.Time
	Err       error
}

// NewStepState creates a pending step state
func NewStepState(id, name string) *StepState {
	return &StepState{
		ID:     id,
		Name:   name,
		Status: StepStatusPending,
	}
}

// Start marks the step as active and sets the start time
func (s *StepState) Start() {
	now := time.Now()
	s.StartTime = &now
	s.Status = StepStatusActive
}

// Complete marks the step as completed and sets the end time
func (s *StepState) Complete() {
	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusCompleted
}

// Fail marks the step as failed with the given error
func (s *StepState) Fail(err error) {
	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusFailed
	s.Err = err
}

// Duration returns the duration of the step execution
func (s *StepState) Duration() time.Duration {
	if s.StartTime == nil {
		return 0
	}
	if s.EndTime != nil {
		return s.EndTime.Sub(*s.StartTime)
	}
	return time.Since(*s.StartTime)
}

// Steps returns the per-step states of the run
func (s *State) Steps() []*StepState {
	return s.steps
}
