package repository

import (
	"database/sql"

	"github.com/flowbenchhq/flowbench/internal/core"
	"github.com/flowbenchhq/flowbench/internal/domain"
)

// StepLogRepository persists save_to_db step payloads.
type StepLogRepository struct {
	db    *sql.DB
	clock core.Clock
}

func NewStepLogRepository(db *sql.DB, clock core.Clock) *StepLogRepository {
	return &StepLogRepository{db: db, clock: clock}
}

// Save inserts a new step log entry and returns its generated id.
func (r *StepLogRepository) Save(entry *domain.StepLogEntry) (int64, error) {
	if entry.Created.IsZero() {
		entry.Created = r.clock.Now().UTC()
	}

	base := `
        INSERT INTO step_log (target, data, created)
        VALUES (` + placeholder(1) + `,` + placeholder(2) + `,` + placeholder(3) + `)
    `

	var id int64
	var err error
	if supportsReturning() {
		err = r.db.QueryRow(base+" RETURNING id", entry.Target, entry.Data, entry.Created).Scan(&id)
	} else {
		res, e := r.db.Exec(base, entry.Target, entry.Data, entry.Created)
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
	entry.ID = id
	return id, nil
}

// FindByTarget returns entries for a given target name, newest first.
func (r *StepLogRepository) FindByTarget(target string, limit int) (*[]domain.StepLogEntry, error) {
	query := `
        SELECT id, target, data, created
        FROM step_log
        WHERE target = ` + placeholder(1) + `
        ORDER BY id DESC
        LIMIT ` + placeholder(2) + `
    `
	rows, err := r.db.Query(query, target, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]domain.StepLogEntry, 0)
	for rows.Next() {
		var e domain.StepLogEntry
		if err := rows.Scan(&e.ID, &e.Target, &e.Data, &e.Created); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &entries, nil
}
