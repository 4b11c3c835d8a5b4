package sqllite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/flowbenchhq/flowbench/internal/ai"
	"github.com/flowbenchhq/flowbench/internal/auth"
	"github.com/flowbenchhq/flowbench/internal/core"
	"github.com/flowbenchhq/flowbench/internal/domain"
	"github.com/flowbenchhq/flowbench/internal/repository"
	"github.com/flowbenchhq/flowbench/internal/workflow"
)

func TestSqlLiteUserRegistrationAndLogin(t *testing.T) {
	db := setupTestDB(t)
	users := repository.NewUserRepository(db, core.NewRealClock())
	service := auth.NewService(users)

	u, err := service.Register("ada@example.com", "Ada", "secret", "free")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if u.ID == 0 {
		t.Fatal("Expected a generated user id")
	}

	if _, err := service.Register("ada@example.com", "Ada Again", "other", "free"); !errors.Is(err, auth.ErrUserExists) {
		t.Errorf("Duplicate registration: expected ErrUserExists, got %v", err)
	}

	got, err := service.Authenticate("ada@example.com", "secret")
	if err != nil || got == nil {
		t.Fatalf("Authenticate failed: user=%v err=%v", got, err)
	}
	if got, err := service.Authenticate("ada@example.com", "wrong"); err != nil || got != nil {
		t.Errorf("Wrong password: expected nil, nil, got user=%v err=%v", got, err)
	}
}

func TestSqlLiteWorkflowRunPersistsResults(t *testing.T) {
	db := setupTestDB(t)
	clock := core.NewRealClock()
	workflows := repository.NewWorkflowRepository(db, clock)
	stepLog := repository.NewStepLogRepository(db, clock)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "pong")
	}))
	defer ts.Close()

	stepsJSON := fmt.Sprintf(`[
		{"type": "http_post", "url": %q},
		{"type": "save_to_db", "table": "notes", "data": {"k": "v"}},
		{"type": "ai_generate", "prompt": "hello"},
		{"type": "nonsense"}
	]`, ts.URL)

	wf := &domain.Workflow{Name: "integration", StepsJSON: stepsJSON}
	id, err := workflows.Save(wf)
	if err != nil {
		t.Fatalf("Failed to save workflow: %v", err)
	}

	// Unconfigured AI client: ai_generate must fall back deterministically.
	runner := workflow.NewRunner(workflows, stepLog, &ai.Client{HTTPClient: http.DefaultClient}, clock)
	results, err := runner.Run(context.Background(), id)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("Expected 4 results, got %d", len(results))
	}
	if results[2].Result != ai.FallbackPayload {
		t.Errorf("ai_generate result = %v, want fallback payload", results[2].Result)
	}
	if results[3].Error == nil {
		t.Error("Unknown step type should record a per-step error")
	}

	runs, err := workflows.FindRunsByWorkflowID(id)
	if err != nil {
		t.Fatalf("FindRunsByWorkflowID failed: %v", err)
	}
	if len(*runs) != 1 {
		t.Fatalf("Expected 1 run record, got %d", len(*runs))
	}
	var decoded []map[string]any
	if err := json.Unmarshal([]byte((*runs)[0].ResultJSON), &decoded); err != nil {
		t.Fatalf("Run record is not valid JSON: %v", err)
	}
	if len(decoded) != 4 {
		t.Errorf("Run record has %d results, want 4", len(decoded))
	}

	entries, err := stepLog.FindByTarget("notes", 10)
	if err != nil {
		t.Fatalf("FindByTarget failed: %v", err)
	}
	if len(*entries) != 1 {
		t.Fatalf("Expected 1 step log entry, got %d", len(*entries))
	}
	if (*entries)[0].Data != `{"k": "v"}` {
		t.Errorf("Step log data = %q", (*entries)[0].Data)
	}

	// A second run appends, never overwrites.
	if _, err := runner.Run(context.Background(), id); err != nil {
		t.Fatalf("Second run failed: %v", err)
	}
	runs, err = workflows.FindRunsByWorkflowID(id)
	if err != nil {
		t.Fatalf("FindRunsByWorkflowID failed: %v", err)
	}
	if len(*runs) != 2 {
		t.Errorf("Expected 2 run records, got %d", len(*runs))
	}
}

func TestSqlLitePageSlugUnique(t *testing.T) {
	db := setupTestDB(t)
	pages := repository.NewPageRepository(db, core.NewRealClock())

	if _, err := pages.Save(&domain.Page{Title: "About", Body: "x", Slug: "about"}); err != nil {
		t.Fatalf("First save failed: %v", err)
	}
	_, err := pages.Save(&domain.Page{Title: "About 2", Body: "y", Slug: "about"})
	if err == nil {
		t.Fatal("Duplicate slug should fail")
	}
	if !repository.IsUniqueViolation(err) {
		t.Errorf("Expected unique violation, got %v", err)
	}

	page, err := pages.FindBySlug("about")
	if err != nil {
		t.Fatalf("FindBySlug failed: %v", err)
	}
	if page == nil || page.Title != "About" {
		t.Errorf("Unexpected page: %+v", page)
	}
	missing, err := pages.FindBySlug("nope")
	if err != nil || missing != nil {
		t.Errorf("Missing slug: expected nil, nil, got %v %v", missing, err)
	}
}

func TestSqlLiteLeadsAndWebhookEvents(t *testing.T) {
	db := setupTestDB(t)
	clock := core.NewRealClock()
	leads := repository.NewLeadRepository(db, clock)
	events := repository.NewWebhookEventRepository(db, clock)

	if _, err := leads.Save(&domain.Lead{Name: "Ada", Email: "ada@example.com", Message: "hi"}); err != nil {
		t.Fatalf("Lead save failed: %v", err)
	}
	all, err := leads.FindAll()
	if err != nil {
		t.Fatalf("Lead FindAll failed: %v", err)
	}
	if len(*all) != 1 || (*all)[0].Email != "ada@example.com" {
		t.Errorf("Unexpected leads: %+v", all)
	}

	for i := 0; i < 3; i++ {
		ev := &domain.WebhookEvent{Name: "github", Method: "POST", Headers: "{}", Payload: fmt.Sprintf(`{"n": %d}`, i)}
		if _, err := events.Save(ev); err != nil {
			t.Fatalf("Event save failed: %v", err)
		}
	}
	recent, err := events.FindRecent(2)
	if err != nil {
		t.Fatalf("FindRecent failed: %v", err)
	}
	if len(*recent) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(*recent))
	}
	if (*recent)[0].Payload != `{"n": 2}` {
		t.Errorf("Most recent event first, got %q", (*recent)[0].Payload)
	}
}
