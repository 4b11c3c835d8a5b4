package domain

import "time"

// StepLogEntry is the sink for save_to_db steps: the step's payload
// serialized as JSON, keyed by the declared target name.
type StepLogEntry struct {
	ID      int64     `json:"id"`
	Target  string    `json:"target"`
	Data    string    `json:"data"`
	Created time.Time `json:"created"`
}
