package workflow

import (
	"errors"
	"testing"
)

func TestParseSteps_ValidArray(t *testing.T) {
	steps, err := ParseSteps(`[
		{"type": "http_post", "url": "https://example.com/hook", "payload": {"a": 1}},
		{"type": "ai_generate", "prompt": "write a haiku"},
		{"type": "save_to_db", "table": "notes", "data": {"k": "v"}},
		{"type": "webhook_trigger", "url": "https://example.com/wh"}
	]`)
	if err != nil {
		t.Fatalf("ParseSteps failed: %v", err)
	}
	if len(steps) != 4 {
		t.Fatalf("Expected 4 steps, got %d", len(steps))
	}
	if steps[0].Kind != KindHTTPPost || steps[0].HTTPPost == nil {
		t.Errorf("Step 0 not decoded as http_post: %+v", steps[0])
	}
	if steps[0].HTTPPost.URL != "https://example.com/hook" {
		t.Errorf("Unexpected url: %s", steps[0].HTTPPost.URL)
	}
	if steps[1].Kind != KindAIGenerate || steps[1].AIGenerate.Prompt != "write a haiku" {
		t.Errorf("Step 1 not decoded as ai_generate: %+v", steps[1])
	}
	if steps[2].Kind != KindSaveToDB || steps[2].SaveToDB.Table != "notes" {
		t.Errorf("Step 2 not decoded as save_to_db: %+v", steps[2])
	}
	if steps[3].Kind != KindWebhookTrigger || steps[3].WebhookTrigger == nil {
		t.Errorf("Step 3 not decoded as webhook_trigger: %+v", steps[3])
	}
}

func TestParseSteps_UnknownTypePassesValidation(t *testing.T) {
	steps, err := ParseSteps(`[{"type": "teleport", "to": "mars"}]`)
	if err != nil {
		t.Fatalf("ParseSteps failed: %v", err)
	}
	if len(steps) != 1 {
		t.Fatalf("Expected 1 step, got %d", len(steps))
	}
	if steps[0].Kind != "teleport" {
		t.Errorf("Expected kind teleport, got %q", steps[0].Kind)
	}
	if steps[0].HTTPPost != nil || steps[0].AIGenerate != nil || steps[0].SaveToDB != nil || steps[0].WebhookTrigger != nil {
		t.Errorf("Unknown step should have no variant set: %+v", steps[0])
	}
}

func TestParseSteps_Malformed(t *testing.T) {
	cases := []string{
		`not json`,
		`{"type": "http_post"}`,
		`"just a string"`,
		`[1, 2, 3]`,
		``,
	}
	for _, in := range cases {
		if _, err := ParseSteps(in); !errors.Is(err, ErrMalformedSteps) {
			t.Errorf("ParseSteps(%q) = %v, want ErrMalformedSteps", in, err)
		}
	}
}

func TestParseSteps_EmptyArray(t *testing.T) {
	steps, err := ParseSteps(`[]`)
	if err != nil {
		t.Fatalf("ParseSteps failed: %v", err)
	}
	if len(steps) != 0 {
		t.Errorf("Expected 0 steps, got %d", len(steps))
	}
}
