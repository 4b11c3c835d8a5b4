package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/flowbenchhq/flowbench/internal/ai"
	"github.com/flowbenchhq/flowbench/internal/tools"
)

const (
	copywriterInstruction = "You are an expert ad copywriter."
	resumeInstruction     = "You are a resume writing and editing assistant."
	summarizerInstruction = "Summarize the following text in a concise way."
)

type ToolsController struct {
	AuthController
	AI ai.Generator
}

func NewToolsController(generator ai.Generator, userRepo UserRepo) *ToolsController {
	return &ToolsController{
		AI: generator,
		AuthController: AuthController{
			UserRepo: userRepo,
		},
	}
}

// RegisterRoutes wires the HTTP routes for this controller.
func (c *ToolsController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/tools/calculator", c.RequireAuth(c.handleCalculator))
	mux.HandleFunc("POST /api/tools/textutils", c.RequireAuth(c.handleTextUtils))
	mux.HandleFunc("POST /api/tools/resume", c.RequireAuth(c.handleResume))
	mux.HandleFunc("POST /api/tools/copywriter", c.RequireAuth(c.handleCopywriter))
	mux.HandleFunc("POST /api/tools/summarizer", c.RequireAuth(c.handleSummarizer))
}

type calculatorRequest struct {
	A  float64 `json:"a"`
	B  float64 `json:"b"`
	Op string  `json:"op"`
}

func (c *ToolsController) handleCalculator(w http.ResponseWriter, r *http.Request) {
	var req calculatorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	value, infinite, err := tools.Calculate(req.A, req.B, req.Op)
	if err != nil {
		if errors.Is(err, tools.ErrUnknownOperation) {
			writeJSONError(w, http.StatusBadRequest, "op must be one of add, sub, mul, div")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "Calculation failed")
		return
	}
	result := fmt.Sprintf("%g", value)
	if infinite {
		result = "Infinity"
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"result": result})
}

type textUtilsRequest struct {
	Text   string `json:"text"`
	Format string `json:"format"`
}

func (c *ToolsController) handleTextUtils(w http.ResponseWriter, r *http.Request) {
	var req textUtilsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	out, err := tools.FormatText(req.Text, req.Format)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "format must be one of upper, lower, slug")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"result": out})
}

type resumeRequest struct {
	Name    string `json:"name"`
	Role    string `json:"role"`
	Skills  string `json:"skills"`
	Bullets string `json:"bullets"`
	Polish  bool   `json:"polish"`
}

func (c *ToolsController) handleResume(w http.ResponseWriter, r *http.Request) {
	var req resumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	resume := tools.BuildResume(req.Name, req.Role, req.Skills, req.Bullets)
	if req.Polish {
		resume = c.AI.Generate(r.Context(), resumeInstruction, resume)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"result": resume})
}

type promptRequest struct {
	Prompt string `json:"prompt"`
}

func (c *ToolsController) handleCopywriter(w http.ResponseWriter, r *http.Request) {
	var req promptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	out := c.AI.Generate(r.Context(), copywriterInstruction, req.Prompt)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"result": out})
}

type summarizeRequest struct {
	Text string `json:"text"`
}

func (c *ToolsController) handleSummarizer(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	out := c.AI.Generate(r.Context(), summarizerInstruction, req.Text)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"result": out})
}
