package repository

import (
	"database/sql"

	"github.com/flowbenchhq/flowbench/internal/core"
	"github.com/flowbenchhq/flowbench/internal/domain"
)

// WebhookEventRepository persists inbound webhook calls.
type WebhookEventRepository struct {
	db    *sql.DB
	clock core.Clock
}

func NewWebhookEventRepository(db *sql.DB, clock core.Clock) *WebhookEventRepository {
	return &WebhookEventRepository{db: db, clock: clock}
}

// Save inserts a new webhook event and returns its generated id.
func (r *WebhookEventRepository) Save(ev *domain.WebhookEvent) (int64, error) {
	if ev.Received.IsZero() {
		ev.Received = r.clock.Now().UTC()
	}

	base := `
        INSERT INTO webhook_events (name, method, headers, payload, received)
        VALUES (` + placeholder(1) + `,` + placeholder(2) + `,` + placeholder(3) + `,` + placeholder(4) + `,` + placeholder(5) + `)
    `

	var id int64
	var err error
	if supportsReturning() {
		err = r.db.QueryRow(base+" RETURNING id", ev.Name, ev.Method, ev.Headers, ev.Payload, ev.Received).Scan(&id)
	} else {
		res, e := r.db.Exec(base, ev.Name, ev.Method, ev.Headers, ev.Payload, ev.Received)
		if e != nil {
			err = e
		} else {
			newID, e2 := res.LastInsertId()
			if e2 != nil {
				err = e2
			} else {
				id = newID
			}
		}
	}
	if err != nil {
		return 0, err
	}
	ev.ID = id
	return id, nil
}

// FindRecent returns the most recent events, newest first.
func (r *WebhookEventRepository) FindRecent(limit int) (*[]domain.WebhookEvent, error) {
	query := `
        SELECT id, name, method, headers, payload, received
        FROM webhook_events
        ORDER BY id DESC
        LIMIT ` + placeholder(1) + `
    `
	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]domain.WebhookEvent, 0)
	for rows.Next() {
		var ev domain.WebhookEvent
		if err := rows.Scan(&ev.ID, &ev.Name, &ev.Method, &ev.Headers, &ev.Payload, &ev.Received); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &events, nil
}
