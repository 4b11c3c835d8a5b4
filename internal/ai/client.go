package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/flowbenchhq/flowbench/internal/config"
)

// FallbackPayload is returned whenever no backend is configured. It is a
// fixed constant so demo output is byte-for-byte reproducible across runs.
const FallbackPayload = `{"action":"echo","content":"AI backend not configured"}`

// Generator produces text for a (system instruction, user prompt) pair.
// Implementations never return an error to the caller; failures degrade
// to an error string or the fallback payload.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) string
}

// Client talks to an OpenAI-compatible chat completions endpoint.
// With no base URL or API key configured it answers with FallbackPayload
// without touching the network.
type Client struct {
	BaseURL    string
	APIKey     string
	Model      string
	HTTPClient *http.Client
}

func NewClient() *Client {
	return &Client{
		BaseURL:    config.GetSystemSettingString(config.AI_BASE_URL),
		APIKey:     config.GetSystemSettingString(config.AI_API_KEY),
		Model:      config.GetSystemSettingString(config.AI_MODEL),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *Client) Generate(ctx context.Context, systemPrompt, userPrompt string) string {
	if c.BaseURL == "" || c.APIKey == "" {
		return FallbackPayload
	}

	body, err := json.Marshal(chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Stream: false,
	})
	if err != nil {
		return fmt.Sprintf("[AI Error: %v]", err)
	}

	url := strings.TrimRight(c.BaseURL, "/") + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Sprintf("[AI Error: %v]", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Sprintf("[AI Error: %v]", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Sprintf("[AI Error: backend returned status %d]", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Sprintf("[AI Error: %v]", err)
	}
	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return fmt.Sprintf("[AI Error: %v]", err)
	}
	if len(parsed.Choices) == 0 {
		return "[AI Error: backend returned no choices]"
	}
	return parsed.Choices[0].Message.Content
}
