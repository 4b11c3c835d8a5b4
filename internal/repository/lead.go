package repository

import (
	"database/sql"

	"github.com/flowbenchhq/flowbench/internal/core"
	"github.com/flowbenchhq/flowbench/internal/domain"
)

// LeadRepository persists contact form submissions.
type LeadRepository struct {
	db    *sql.DB
	clock core.Clock
}

func NewLeadRepository(db *sql.DB, clock core.Clock) *LeadRepository {
	return &LeadRepository{db: db, clock: clock}
}

// Save inserts a new lead and returns its generated id.
func (r *LeadRepository) Save(lead *domain.Lead) (int64, error) {
	if lead.Created.IsZero() {
		lead.Created = r.clock.Now().UTC()
	}

	base := `
        INSERT INTO leads (name, email, message, created)
        VALUES (` + placeholder(1) + `,` + placeholder(2) + `,` + placeholder(3) + `,` + placeholder(4) + `)
    `

	var id int64
	var err error
	if supportsReturning() {
		err = r.db.QueryRow(base+" RETURNING id", lead.Name, lead.Email, lead.Message, lead.Created).Scan(&id)
	} else {
		res, e := r.db.Exec(base, lead.Name, lead.Email, lead.Message, lead.Created)
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
	lead.ID = id
	return id, nil
}

// FindAll returns all leads, newest first.
func (r *LeadRepository) FindAll() (*[]domain.Lead, error) {
	query := `
        SELECT id, name, email, message, created
        FROM leads
        ORDER BY id DESC
    `
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]domain.Lead, 0)
	for rows.Next() {
		var l domain.Lead
		if err := rows.Scan(&l.ID, &l.Name, &l.Email, &l.Message, &l.Created); err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &leads, nil
}
