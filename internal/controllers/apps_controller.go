package controllers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/flowbenchhq/flowbench/internal/domain"
	"github.com/flowbenchhq/flowbench/internal/storage"
)

// AppBundleStore matches repository.AppBundleRepository.
type AppBundleStore interface {
	Save(b *domain.AppBundle) (int64, error)
	FindAll() (*[]domain.AppBundle, error)
}

// AppsController accepts zip bundles, extracts them under a per-bundle
// directory and records the metadata. Bundles are never executed.
type AppsController struct {
	AuthController
	Bundles AppBundleStore
	AppsDir string
}

func NewAppsController(bundles AppBundleStore, appsDir string, userRepo UserRepo) *AppsController {
	return &AppsController{
		Bundles: bundles,
		AppsDir: appsDir,
		AuthController: AuthController{
			UserRepo: userRepo,
		},
	}
}

// RegisterRoutes wires the HTTP routes for this controller.
func (c *AppsController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/apps", c.RequireAuth(c.handleDeploy))
	mux.HandleFunc("GET /api/apps", c.RequireAuth(c.handleList))
}

func (c *AppsController) handleDeploy(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	name := r.FormValue("name")
	if name == "" {
		name = "MiniApp"
	}
	desc := r.FormValue("description")

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "No file selected")
		return
	}
	defer file.Close()
	if !strings.HasSuffix(strings.ToLower(header.Filename), ".zip") {
		writeJSONError(w, http.StatusBadRequest, "Please upload a .zip file")
		return
	}

	bundleKey := uuid.New().String()[:8]
	bundleDir := filepath.Join(c.AppsDir, bundleKey)
	if err := os.MkdirAll(bundleDir, 0o755); err != nil {
		slog.Error("Failed to create bundle dir", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to store bundle")
		return
	}

	zipPath := filepath.Join(bundleDir, filepath.Base(header.Filename))
	out, err := os.Create(zipPath)
	if err != nil {
		slog.Error("Failed to write bundle zip", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to store bundle")
		return
	}
	if _, err := io.Copy(out, file); err != nil {
		out.Close()
		slog.Error("Failed to write bundle zip", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to store bundle")
		return
	}
	out.Close()

	if err := storage.ExtractZip(zipPath, bundleDir); err != nil {
		// Unsafe or corrupt archives are the uploader's fault, clean up and reject.
		os.RemoveAll(bundleDir)
		writeJSONError(w, http.StatusBadRequest, "Error extracting zip: "+err.Error())
		return
	}

	bundle := &domain.AppBundle{
		BundleKey:   bundleKey,
		Name:        name,
		Description: desc,
		Filename:    filepath.Base(header.Filename),
	}
	if _, err := c.Bundles.Save(bundle); err != nil {
		slog.Error("Failed to save bundle metadata", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to save bundle")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(bundle)
}

func (c *AppsController) handleList(w http.ResponseWriter, r *http.Request) {
	bundles, err := c.Bundles.FindAll()
	if err != nil {
		slog.Error("Failed to list bundles", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to list bundles")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(bundles)
}
