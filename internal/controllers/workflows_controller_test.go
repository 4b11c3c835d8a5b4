package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/flowbenchhq/flowbench/internal/domain"
	"github.com/flowbenchhq/flowbench/internal/workflow"
)

// MockWorkflowStore implements WorkflowStore for testing
type MockWorkflowStore struct {
	SaveFunc                 func(wf *domain.Workflow) (int64, error)
	FindByIDFunc             func(id int64) (*domain.Workflow, error)
	FindAllFunc              func() (*[]domain.Workflow, error)
	FindRunsByWorkflowIDFunc func(workflowID int64) (*[]domain.WorkflowRun, error)
}

func (m *MockWorkflowStore) Save(wf *domain.Workflow) (int64, error) {
	if m.SaveFunc != nil {
		return m.SaveFunc(wf)
	}
	return 1, nil
}
func (m *MockWorkflowStore) FindByID(id int64) (*domain.Workflow, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(id)
	}
	return nil, nil
}
func (m *MockWorkflowStore) FindAll() (*[]domain.Workflow, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc()
	}
	return &[]domain.Workflow{}, nil
}
func (m *MockWorkflowStore) FindRunsByWorkflowID(workflowID int64) (*[]domain.WorkflowRun, error) {
	if m.FindRunsByWorkflowIDFunc != nil {
		return m.FindRunsByWorkflowIDFunc(workflowID)
	}
	return &[]domain.WorkflowRun{}, nil
}

// MockRunner implements WorkflowRunner for testing
type MockRunner struct {
	RunFunc func(ctx context.Context, workflowID int64) ([]workflow.StepResult, error)
}

func (m *MockRunner) Run(ctx context.Context, workflowID int64) ([]workflow.StepResult, error) {
	if m.RunFunc != nil {
		return m.RunFunc(ctx, workflowID)
	}
	return nil, nil
}

func TestWorkflowsController_CreateWorkflow(t *testing.T) {
	var saved *domain.Workflow
	store := &MockWorkflowStore{
		SaveFunc: func(wf *domain.Workflow) (int64, error) {
			saved = wf
			return 5, nil
		},
	}
	c := NewWorkflowsController(store, &MockRunner{}, &MockUserRepo{})

	body := `{"name": "ping", "steps": [{"type": "http_post", "url": "https://example.com"}]}`
	req := httptest.NewRequest("POST", "/api/workflows", strings.NewReader(body))
	w := httptest.NewRecorder()

	c.handleCreateWorkflow(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	if saved == nil || saved.Name != "ping" {
		t.Fatalf("Workflow not saved correctly: %+v", saved)
	}
	if _, err := workflow.ParseSteps(saved.StepsJSON); err != nil {
		t.Errorf("Persisted steps are not parseable: %v", err)
	}

	var resp domain.Workflow
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.ID != 5 {
		t.Errorf("Expected ID 5, got %d", resp.ID)
	}
}

func TestWorkflowsController_CreateWorkflow_StepsAsString(t *testing.T) {
	var saved *domain.Workflow
	store := &MockWorkflowStore{
		SaveFunc: func(wf *domain.Workflow) (int64, error) {
			saved = wf
			return 1, nil
		},
	}
	c := NewWorkflowsController(store, &MockRunner{}, &MockUserRepo{})

	// Form-driven clients post the textarea content as a JSON string.
	body := `{"name": "ping", "steps": "[{\"type\": \"ai_generate\", \"prompt\": \"hi\"}]"}`
	req := httptest.NewRequest("POST", "/api/workflows", strings.NewReader(body))
	w := httptest.NewRecorder()

	c.handleCreateWorkflow(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	steps, err := workflow.ParseSteps(saved.StepsJSON)
	if err != nil {
		t.Fatalf("Persisted steps are not parseable: %v", err)
	}
	if len(steps) != 1 || steps[0].Kind != workflow.KindAIGenerate {
		t.Errorf("Unexpected steps: %+v", steps)
	}
}

func TestWorkflowsController_CreateWorkflow_RejectsMalformedSteps(t *testing.T) {
	store := &MockWorkflowStore{
		SaveFunc: func(wf *domain.Workflow) (int64, error) {
			t.Error("Save must not be called for malformed steps")
			return 0, nil
		},
	}
	c := NewWorkflowsController(store, &MockRunner{}, &MockUserRepo{})

	for _, body := range []string{
		`{"name": "x", "steps": {"type": "http_post"}}`,
		`{"name": "x", "steps": "not json"}`,
		`{"name": "x"}`,
	} {
		req := httptest.NewRequest("POST", "/api/workflows", strings.NewReader(body))
		w := httptest.NewRecorder()
		c.handleCreateWorkflow(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Body %s: expected 400, got %d", body, w.Code)
		}
	}
}

func TestWorkflowsController_RunWorkflow(t *testing.T) {
	errText := "connection refused"
	runner := &MockRunner{
		RunFunc: func(ctx context.Context, workflowID int64) ([]workflow.StepResult, error) {
			if workflowID != 3 {
				t.Errorf("Expected workflow id 3, got %d", workflowID)
			}
			return []workflow.StepResult{
				{Step: 1, Type: "http_post", Result: workflow.HTTPResult{Status: 200, Text: "ok"}},
				{Step: 2, Type: "bogus", Error: &errText},
			}, nil
		},
	}
	c := NewWorkflowsController(&MockWorkflowStore{}, runner, &MockUserRepo{})

	req := httptest.NewRequest("POST", "/api/workflows/3/run", nil)
	req.SetPathValue("id", "3")
	w := httptest.NewRecorder()

	c.handleRunWorkflow(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var results []map[string]any
	if err := json.NewDecoder(w.Body).Decode(&results); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[1]["error"] != errText {
		t.Errorf("Expected error %q, got %v", errText, results[1]["error"])
	}
}

func TestWorkflowsController_RunWorkflow_NotFound(t *testing.T) {
	runner := &MockRunner{
		RunFunc: func(ctx context.Context, workflowID int64) ([]workflow.StepResult, error) {
			return nil, workflow.ErrWorkflowNotFound
		},
	}
	c := NewWorkflowsController(&MockWorkflowStore{}, runner, &MockUserRepo{})

	req := httptest.NewRequest("POST", "/api/workflows/99/run", nil)
	req.SetPathValue("id", "99")
	w := httptest.NewRecorder()

	c.handleRunWorkflow(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}

func TestWorkflowsController_GetWorkflow_NotFound(t *testing.T) {
	c := NewWorkflowsController(&MockWorkflowStore{}, &MockRunner{}, &MockUserRepo{})

	req := httptest.NewRequest("GET", "/api/workflows/8", nil)
	req.SetPathValue("id", "8")
	w := httptest.NewRecorder()

	c.handleGetWorkflow(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}

func TestWorkflowsController_ListRuns(t *testing.T) {
	store := &MockWorkflowStore{
		FindRunsByWorkflowIDFunc: func(workflowID int64) (*[]domain.WorkflowRun, error) {
			return &[]domain.WorkflowRun{
				{ID: 2, WorkflowID: workflowID, ResultJSON: "[]"},
				{ID: 1, WorkflowID: workflowID, ResultJSON: "[]"},
			}, nil
		},
	}
	c := NewWorkflowsController(store, &MockRunner{}, &MockUserRepo{})

	req := httptest.NewRequest("GET", "/api/workflows/1/runs", nil)
	req.SetPathValue("id", "1")
	w := httptest.NewRecorder()

	c.handleListRuns(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var runs []domain.WorkflowRun
	if err := json.NewDecoder(w.Body).Decode(&runs); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != 2 {
		t.Errorf("Unexpected runs: %+v", runs)
	}
}
