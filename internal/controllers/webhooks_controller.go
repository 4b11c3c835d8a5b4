package controllers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/flowbenchhq/flowbench/internal/domain"
)

const maxWebhookBody = 1 << 20 // 1 MB

// WebhookEventStore matches repository.WebhookEventRepository.
type WebhookEventStore interface {
	Save(ev *domain.WebhookEvent) (int64, error)
	FindRecent(limit int) (*[]domain.WebhookEvent, error)
}

type WebhooksController struct {
	AuthController
	Events WebhookEventStore
}

func NewWebhooksController(events WebhookEventStore, userRepo UserRepo) *WebhooksController {
	return &WebhooksController{
		Events: events,
		AuthController: AuthController{
			UserRepo: userRepo,
		},
	}
}

// RegisterRoutes wires the HTTP routes for this controller. The inbound
// endpoint is public on purpose: external systems post to it without
// credentials. The event list is behind auth.
func (c *WebhooksController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/integrations/webhook/{name}", c.handleInbound)
	mux.HandleFunc("GET /api/webhooks", c.RequireAuth(c.handleRecent))
}

// handleInbound records any GET or POST, whatever the body holds.
// Logging never fails the caller on malformed input; only a storage
// error surfaces as a 500.
func (c *WebhooksController) handleInbound(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	name := r.PathValue("name")

	headerJSON, err := json.Marshal(r.Header)
	if err != nil {
		headerJSON = []byte("{}")
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		body = nil
	}

	ev := &domain.WebhookEvent{
		Name:    name,
		Method:  r.Method,
		Headers: string(headerJSON),
		Payload: string(body),
	}
	if _, err := c.Events.Save(ev); err != nil {
		slog.Error("Failed to record webhook", "name", name, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to record webhook")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok", "name": name})
}

func (c *WebhooksController) handleRecent(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	events, err := c.Events.FindRecent(limit)
	if err != nil {
		slog.Error("Failed to list webhook events", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to list webhook events")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(events)
}
