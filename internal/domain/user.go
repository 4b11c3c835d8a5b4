package domain

import (
	"database/sql"
)

type User struct {
	ID            int64          `json:"id"`
	Email         string         `json:"email"`
	Name          string         `json:"name"`
	Password      string         `json:"-"`
	Plan          string         `json:"plan"`
	SessionID     sql.NullString `json:"sessionId"`
	SessionExpiry sql.NullTime   `json:"sessionExpiry"`
	Created       sql.NullTime   `json:"created"`
}
