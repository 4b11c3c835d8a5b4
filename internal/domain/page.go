package domain

import "time"

type Page struct {
	ID      int64     `json:"id"`
	Title   string    `json:"title"`
	Body    string    `json:"body"`
	Slug    string    `json:"slug"`
	Created time.Time `json:"created"`
}
