package domain

import "time"

// WebhookEvent is one inbound call captured by the webhook logger.
// Headers is the request header set serialized as JSON; Payload is the
// raw body (or form data serialized as JSON) as received.
type WebhookEvent struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	Method   string    `json:"method"`
	Headers  string    `json:"headers"`
	Payload  string    `json:"payload"`
	Received time.Time `json:"received"`
}
