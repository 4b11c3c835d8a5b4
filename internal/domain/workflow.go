package domain

import "time"

type Workflow struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StepsJSON   string    `json:"stepsJson"`
	Created     time.Time `json:"created"`
}

// WorkflowRun is one append-only execution record. ResultJSON holds the
// ordered StepResult list exactly as produced by the interpreter.
type WorkflowRun struct {
	ID         int64     `json:"id"`
	WorkflowID int64     `json:"workflowId"`
	RunTS      time.Time `json:"runTs"`
	ResultJSON string    `json:"resultJson"`
}
