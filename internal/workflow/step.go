package workflow

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Kind tags a step definition. Unknown kinds are kept as-is so a run can
// report them per step instead of failing the whole workflow.
type Kind string

const (
	KindHTTPPost       Kind = "http_post"
	KindAIGenerate     Kind = "ai_generate"
	KindSaveToDB       Kind = "save_to_db"
	KindWebhookTrigger Kind = "webhook_trigger"
)

// ErrMalformedSteps is returned when a steps document does not parse as
// a JSON array of step objects. It is a validation error, surfaced to
// the caller before anything is persisted.
var ErrMalformedSteps = errors.New("malformed steps")

type HTTPPostStep struct {
	URL     string          `json:"url"`
	Payload json.RawMessage `json:"payload"`
}

type AIGenerateStep struct {
	Prompt string `json:"prompt"`
}

type SaveToDBStep struct {
	Table string          `json:"table"`
	Data  json.RawMessage `json:"data"`
}

type WebhookTriggerStep struct {
	URL     string          `json:"url"`
	Payload json.RawMessage `json:"payload"`
}

// Step is a tagged variant: exactly one of the pointers is set for a
// known Kind, none for an unknown one.
type Step struct {
	Kind           Kind
	HTTPPost       *HTTPPostStep
	AIGenerate     *AIGenerateStep
	SaveToDB       *SaveToDBStep
	WebhookTrigger *WebhookTriggerStep
}

func (s *Step) UnmarshalJSON(data []byte) error {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	s.Kind = Kind(head.Type)
	switch s.Kind {
	case KindHTTPPost:
		v := &HTTPPostStep{}
		if err := json.Unmarshal(data, v); err != nil {
			return err
		}
		s.HTTPPost = v
	case KindAIGenerate:
		v := &AIGenerateStep{}
		if err := json.Unmarshal(data, v); err != nil {
			return err
		}
		s.AIGenerate = v
	case KindSaveToDB:
		v := &SaveToDBStep{}
		if err := json.Unmarshal(data, v); err != nil {
			return err
		}
		s.SaveToDB = v
	case KindWebhookTrigger:
		v := &WebhookTriggerStep{}
		if err := json.Unmarshal(data, v); err != nil {
			return err
		}
		s.WebhookTrigger = v
	}
	return nil
}

// ParseSteps validates and decodes a steps document. The input must be
// a JSON array; each element must be an object. Unknown step types pass
// validation, they fail at run time with a per-step error.
func ParseSteps(text string) ([]Step, error) {
	var steps []Step
	if err := json.Unmarshal([]byte(text), &steps); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSteps, err)
	}
	return steps, nil
}
