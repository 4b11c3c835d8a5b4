package controllers

import (
	"encoding/csv"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/flowbenchhq/flowbench/internal/domain"
)

// LeadStore matches repository.LeadRepository.
type LeadStore interface {
	Save(lead *domain.Lead) (int64, error)
	FindAll() (*[]domain.Lead, error)
}

type LeadsController struct {
	AuthController
	Leads LeadStore
}

func NewLeadsController(leads LeadStore, userRepo UserRepo) *LeadsController {
	return &LeadsController{
		Leads: leads,
		AuthController: AuthController{
			UserRepo: userRepo,
		},
	}
}

// RegisterRoutes wires the HTTP routes for this controller. Capture is
// public (it backs the landing page form); listing and export are not.
func (c *LeadsController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/leads", c.handleCreateLead)
	mux.HandleFunc("GET /api/leads", c.RequireAuth(c.handleListLeads))
	mux.HandleFunc("GET /api/leads.csv", c.RequireAuth(c.handleExportCSV))
}

type createLeadRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (c *LeadsController) handleCreateLead(w http.ResponseWriter, r *http.Request) {
	var req createLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" {
		writeJSONError(w, http.StatusBadRequest, "name and email are required")
		return
	}
	lead := &domain.Lead{Name: req.Name, Email: req.Email, Message: req.Message}
	if _, err := c.Leads.Save(lead); err != nil {
		slog.Error("Failed to save lead", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to save lead")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(lead)
}

func (c *LeadsController) handleListLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := c.Leads.FindAll()
	if err != nil {
		slog.Error("Failed to list leads", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to list leads")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(leads)
}

func (c *LeadsController) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	leads, err := c.Leads.FindAll()
	if err != nil {
		slog.Error("Failed to export leads", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to export leads")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="leads.csv"`)
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"id", "name", "email", "message", "created"})
	if leads != nil {
		for _, l := range *leads {
			_ = cw.Write([]string{
				strconv.FormatInt(l.ID, 10),
				l.Name,
				l.Email,
				l.Message,
				l.Created.UTC().Format("2006-01-02 15:04:05"),
			})
		}
	}
	cw.Flush()
}
