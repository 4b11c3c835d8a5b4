package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/flowbenchhq/flowbench/internal/domain"
	"github.com/flowbenchhq/flowbench/internal/workflow"
)

// WorkflowStore defines the persistence methods this controller needs,
// matching repository.WorkflowRepository.
type WorkflowStore interface {
	Save(wf *domain.Workflow) (int64, error)
	FindByID(id int64) (*domain.Workflow, error)
	FindAll() (*[]domain.Workflow, error)
	FindRunsByWorkflowID(workflowID int64) (*[]domain.WorkflowRun, error)
}

// WorkflowRunner matches workflow.Runner.
type WorkflowRunner interface {
	Run(ctx context.Context, workflowID int64) ([]workflow.StepResult, error)
}

type WorkflowsController struct {
	AuthController
	Workflows WorkflowStore
	Runner    WorkflowRunner
}

func NewWorkflowsController(workflows WorkflowStore, runner WorkflowRunner, userRepo UserRepo) *WorkflowsController {
	return &WorkflowsController{
		Workflows: workflows,
		Runner:    runner,
		AuthController: AuthController{
			UserRepo: userRepo,
		},
	}
}

// RegisterRoutes wires the HTTP routes for this controller.
func (c *WorkflowsController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/workflows", c.RequireAuth(c.handleCreateWorkflow))
	mux.HandleFunc("GET /api/workflows", c.RequireAuth(c.handleListWorkflows))
	mux.HandleFunc("GET /api/workflows/{id}", c.RequireAuth(c.handleGetWorkflow))
	mux.HandleFunc("POST /api/workflows/{id}/run", c.RequireAuth(c.handleRunWorkflow))
	mux.HandleFunc("GET /api/workflows/{id}/runs", c.RequireAuth(c.handleListRuns))
}

type createWorkflowRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Steps       json.RawMessage `json:"steps"`
}

// handleCreateWorkflow validates the steps document before anything is
// persisted; a malformed document is a 400, never a partial write.
func (c *WorkflowsController) handleCreateWorkflow(w http.ResponseWriter, r *http.Request) {
	var req createWorkflowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		writeJSONError(w, http.StatusBadRequest, "name is required")
		return
	}

	stepsText := stepsDocument(req.Steps)
	if _, err := workflow.ParseSteps(stepsText); err != nil {
		writeJSONError(w, http.StatusBadRequest, "steps must be a JSON array of step objects")
		return
	}

	wf := &domain.Workflow{
		Name:        req.Name,
		Description: req.Description,
		StepsJSON:   stepsText,
	}
	id, err := c.Workflows.Save(wf)
	if err != nil {
		slog.Error("Failed to create workflow", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to create workflow")
		return
	}
	wf.ID = id

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(wf)
}

// stepsDocument accepts the steps field either as an inline JSON array
// or as a JSON string holding the array text (form submissions post the
// textarea content as a string).
func stepsDocument(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString
	}
	return string(raw)
}

func (c *WorkflowsController) handleListWorkflows(w http.ResponseWriter, r *http.Request) {
	workflows, err := c.Workflows.FindAll()
	if err != nil {
		slog.Error("Failed to list workflows", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to list workflows")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(workflows)
}

func (c *WorkflowsController) handleGetWorkflow(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	wf, err := c.Workflows.FindByID(id)
	if err != nil {
		slog.Error("Failed to get workflow", "id", id, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to get workflow")
		return
	}
	if wf == nil {
		writeJSONError(w, http.StatusNotFound, "Workflow not found")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(wf)
}

func (c *WorkflowsController) handleRunWorkflow(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	results, err := c.Runner.Run(r.Context(), id)
	if err != nil {
		if errors.Is(err, workflow.ErrWorkflowNotFound) {
			writeJSONError(w, http.StatusNotFound, "Workflow not found")
			return
		}
		slog.Error("Workflow run failed", "id", id, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Workflow run failed")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}

func (c *WorkflowsController) handleListRuns(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	runs, err := c.Workflows.FindRunsByWorkflowID(id)
	if err != nil {
		slog.Error("Failed to list runs", "id", id, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to list runs")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(runs)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := r.PathValue("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
