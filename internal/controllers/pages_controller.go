package controllers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/flowbenchhq/flowbench/internal/domain"
	"github.com/flowbenchhq/flowbench/internal/repository"
	"github.com/flowbenchhq/flowbench/internal/tools"
)

// PageStore matches repository.PageRepository.
type PageStore interface {
	Save(page *domain.Page) (int64, error)
	FindBySlug(slug string) (*domain.Page, error)
	FindAll() (*[]domain.Page, error)
}

type PagesController struct {
	AuthController
	Pages PageStore
}

func NewPagesController(pages PageStore, userRepo UserRepo) *PagesController {
	return &PagesController{
		Pages: pages,
		AuthController: AuthController{
			UserRepo: userRepo,
		},
	}
}

// RegisterRoutes wires the HTTP routes for this controller.
func (c *PagesController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/pages", c.RequireAuth(c.handleCreatePage))
	mux.HandleFunc("GET /api/pages", c.RequireAuth(c.handleListPages))
}

type createPageRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Slug  string `json:"slug"`
}

func (c *PagesController) handleCreatePage(w http.ResponseWriter, r *http.Request) {
	var req createPageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Title == "" {
		writeJSONError(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.Slug == "" {
		req.Slug = tools.Slugify(req.Title)
	}
	if req.Slug == "" {
		writeJSONError(w, http.StatusBadRequest, "slug could not be derived from title")
		return
	}

	page := &domain.Page{Title: req.Title, Body: req.Body, Slug: req.Slug}
	if _, err := c.Pages.Save(page); err != nil {
		if repository.IsUniqueViolation(err) {
			writeJSONError(w, http.StatusConflict, "Slug already in use")
			return
		}
		slog.Error("Failed to create page", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to create page")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(page)
}

func (c *PagesController) handleListPages(w http.ResponseWriter, r *http.Request) {
	pages, err := c.Pages.FindAll()
	if err != nil {
		slog.Error("Failed to list pages", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to list pages")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(pages)
}
