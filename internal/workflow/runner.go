package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/flowbenchhq/flowbench/internal/ai"
	"github.com/flowbenchhq/flowbench/internal/core"
	"github.com/flowbenchhq/flowbench/internal/domain"
)

const (
	// Per-step bound on outbound HTTP calls. A run's total duration is
	// bounded only by the sum of its steps' timeouts.
	httpStepTimeout = 10 * time.Second
	// Captured response bodies are truncated to this many characters.
	maxBodySnippet = 300

	systemInstruction = "You are a helpful assistant"
)

var ErrWorkflowNotFound = errors.New("workflow not found")

// WorkflowRepo defines the persistence methods the runner needs,
// matching repository.WorkflowRepository.
type WorkflowRepo interface {
	FindByID(id int64) (*domain.Workflow, error)
	SaveRun(run *domain.WorkflowRun) (int64, error)
}

// StepLogRepo matches repository.StepLogRepository.
type StepLogRepo interface {
	Save(entry *domain.StepLogEntry) (int64, error)
}

// Runner interprets a workflow's step list. Each step is isolated: a
// failing step records its error and the run continues with the next
// step. A run of N steps always produces exactly N results, appended as
// one run record whether or not any step succeeded.
type Runner struct {
	Workflows  WorkflowRepo
	StepLog    StepLogRepo
	AI         ai.Generator
	HTTPClient *http.Client
	Clock      core.Clock
}

func NewRunner(workflows WorkflowRepo, stepLog StepLogRepo, generator ai.Generator, clock core.Clock) *Runner {
	return &Runner{
		Workflows:  workflows,
		StepLog:    stepLog,
		AI:         generator,
		HTTPClient: &http.Client{Timeout: httpStepTimeout},
		Clock:      clock,
	}
}

// Run executes the workflow with the given id and appends the full
// ordered result list as one run record. The returned error covers
// lookup, step parsing and run persistence only; individual step
// failures live in the results.
func (r *Runner) Run(ctx context.Context, workflowID int64) ([]StepResult, error) {
	wf, err := r.Workflows.FindByID(workflowID)
	if err != nil {
		return nil, err
	}
	if wf == nil {
		return nil, ErrWorkflowNotFound
	}

	steps, err := ParseSteps(wf.StepsJSON)
	if err != nil {
		// Stored workflows are validated at creation, so this only fires
		// on rows written outside the application.
		return nil, err
	}

	slog.Info("Running workflow", "workflow_id", wf.ID, "steps", len(steps))
	results := make([]StepResult, 0, len(steps))
	for i, step := range steps {
		results = append(results, r.executeStep(ctx, i+1, step))
	}

	resultJSON, err := json.Marshal(results)
	if err != nil {
		return results, err
	}
	run := &domain.WorkflowRun{
		WorkflowID: wf.ID,
		RunTS:      r.Clock.Now().UTC(),
		ResultJSON: string(resultJSON),
	}
	if _, err := r.Workflows.SaveRun(run); err != nil {
		slog.Error("Failed to append run record", "workflow_id", wf.ID, "error", err)
		return results, err
	}
	return results, nil
}

// executeStep dispatches one step on its kind. Failures of any sort,
// panics included, are converted into the step's error field and never
// propagate past this boundary.
func (r *Runner) executeStep(ctx context.Context, index int, s Step) (res StepResult) {
	res = StepResult{Step: index, Type: string(s.Kind)}
	defer func() {
		if p := recover(); p != nil {
			slog.Error("Step panicked", "step", index, "type", s.Kind, "panic", p)
			res.Result = nil
			res.Error = strPtr(fmt.Sprintf("step panic: %v", p))
		}
	}()

	switch s.Kind {
	case KindHTTPPost:
		status, snippet, err := r.postJSON(ctx, s.HTTPPost.URL, s.HTTPPost.Payload)
		if err != nil {
			res.Error = strPtr(err.Error())
			return res
		}
		res.Result = HTTPResult{Status: status, Text: snippet}
	case KindAIGenerate:
		res.Result = r.AI.Generate(ctx, systemInstruction, s.AIGenerate.Prompt)
	case KindSaveToDB:
		target := s.SaveToDB.Table
		if target == "" {
			target = "steps"
		}
		data := s.SaveToDB.Data
		if len(data) == 0 {
			data = json.RawMessage("{}")
		}
		entry := &domain.StepLogEntry{
			Target:  target,
			Data:    string(data),
			Created: r.Clock.Now().UTC(),
		}
		if _, err := r.StepLog.Save(entry); err != nil {
			res.Error = strPtr(err.Error())
			return res
		}
		res.Result = fmt.Sprintf("Saved to %s.", target)
	case KindWebhookTrigger:
		// Same POST semantics as http_post; only the result format
		// differs (status-only string).
		status, _, err := r.postJSON(ctx, s.WebhookTrigger.URL, s.WebhookTrigger.Payload)
		if err != nil {
			res.Error = strPtr(err.Error())
			return res
		}
		res.Result = fmt.Sprintf("Webhook status %d", status)
	default:
		res.Error = strPtr("unknown step type")
	}
	return res
}

func (r *Runner) postJSON(ctx context.Context, url string, payload json.RawMessage) (int, string, error) {
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return 0, "", err
	}
	return resp.StatusCode, truncate(string(body), maxBodySnippet), nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func strPtr(s string) *string { return &s }
