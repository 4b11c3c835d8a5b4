package domain

import "time"

type Lead struct {
	ID      int64     `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Message string    `json:"message"`
	Created time.Time `json:"created"`
}
