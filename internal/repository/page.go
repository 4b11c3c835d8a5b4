package repository

import (
	"database/sql"

	"github.com/flowbenchhq/flowbench/internal/core"
	"github.com/flowbenchhq/flowbench/internal/domain"
)

// PageRepository persists builder pages. Slugs are unique; a duplicate
// insert fails with the dialect's unique violation (see IsUniqueViolation).
type PageRepository struct {
	db    *sql.DB
	clock core.Clock
}

func NewPageRepository(db *sql.DB, clock core.Clock) *PageRepository {
	return &PageRepository{db: db, clock: clock}
}

// Save inserts a new page and returns its generated id.
func (r *PageRepository) Save(page *domain.Page) (int64, error) {
	if page.Created.IsZero() {
		page.Created = r.clock.Now().UTC()
	}

	base := `
        INSERT INTO pages (title, body, slug, created)
        VALUES (` + placeholder(1) + `,` + placeholder(2) + `,` + placeholder(3) + `,` + placeholder(4) + `)
    `

	var id int64
	var err error
	if supportsReturning() {
		err = r.db.QueryRow(base+" RETURNING id", page.Title, page.Body, page.Slug, page.Created).Scan(&id)
	} else {
		res, e := r.db.Exec(base, page.Title, page.Body, page.Slug, page.Created)
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
	page.ID = id
	return id, nil
}

// FindBySlug fetches a page by its slug. Returns (nil, nil) if not found.
func (r *PageRepository) FindBySlug(slug string) (*domain.Page, error) {
	query := `
        SELECT id, title, body, slug, created
        FROM pages
        WHERE slug = ` + placeholder(1) + `
        LIMIT 1
    `
	var p domain.Page
	err := r.db.QueryRow(query, slug).Scan(&p.ID, &p.Title, &p.Body, &p.Slug, &p.Created)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindAll returns all pages, newest first.
func (r *PageRepository) FindAll() (*[]domain.Page, error) {
	query := `
        SELECT id, title, body, slug, created
        FROM pages
        ORDER BY id DESC
    `
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pages := make([]domain.Page, 0)
	for rows.Next() {
		var p domain.Page
		if err := rows.Scan(&p.ID, &p.Title, &p.Body, &p.Slug, &p.Created); err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &pages, nil
}
