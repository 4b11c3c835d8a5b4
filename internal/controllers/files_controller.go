package controllers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/flowbenchhq/flowbench/internal/storage"
)

const maxUploadSize = 16 << 20 // 16 MB

type FilesController struct {
	AuthController
	Store *storage.FileStore
}

func NewFilesController(store *storage.FileStore, userRepo UserRepo) *FilesController {
	return &FilesController{
		Store: store,
		AuthController: AuthController{
			UserRepo: userRepo,
		},
	}
}

// RegisterRoutes wires the HTTP routes for this controller. Downloads
// are public so uploaded assets can be linked from builder pages.
func (c *FilesController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/uploads", c.RequireAuth(c.handleUpload))
	mux.HandleFunc("GET /api/uploads", c.RequireAuth(c.handleList))
	mux.HandleFunc("GET /uploads/{name}", c.handleDownload)
}

func (c *FilesController) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "No file selected")
		return
	}
	defer file.Close()

	name, err := c.Store.Save(header.Filename, file)
	if err != nil {
		slog.Error("Failed to store upload", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to store upload")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"filename": name})
}

func (c *FilesController) handleList(w http.ResponseWriter, r *http.Request) {
	names, err := c.Store.List()
	if err != nil {
		slog.Error("Failed to list uploads", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to list uploads")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(names)
}

func (c *FilesController) handleDownload(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	f, err := c.Store.Open(name)
	if err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	defer f.Close()
	_, _ = io.Copy(w, f)
}
