package repository

import (
	"database/sql"

	"github.com/flowbenchhq/flowbench/internal/core"
	"github.com/flowbenchhq/flowbench/internal/domain"
)

// WorkflowRepository persists workflow definitions and their run log.
// Workflows are immutable once stored and runs are append-only; there
// are no update or delete methods by design.
type WorkflowRepository struct {
	db    *sql.DB
	clock core.Clock
}

func NewWorkflowRepository(db *sql.DB, clock core.Clock) *WorkflowRepository {
	return &WorkflowRepository{db: db, clock: clock}
}

// Save inserts a new workflow and returns its generated id. The steps
// document must already be validated by the caller.
func (r *WorkflowRepository) Save(wf *domain.Workflow) (int64, error) {
	if wf.Created.IsZero() {
		wf.Created = r.clock.Now().UTC()
	}

	base := `
        INSERT INTO workflows (name, description, steps_json, created)
        VALUES (` + placeholder(1) + `,` + placeholder(2) + `,` + placeholder(3) + `,` + placeholder(4) + `)
    `

	var id int64
	var err error
	if supportsReturning() {
		err = r.db.QueryRow(base+" RETURNING id", wf.Name, wf.Description, wf.StepsJSON, wf.Created).Scan(&id)
	} else {
		res, e := r.db.Exec(base, wf.Name, wf.Description, wf.StepsJSON, wf.Created)
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
	wf.ID = id
	return id, nil
}

// FindByID fetches a workflow by id. Returns (nil, nil) if not found.
func (r *WorkflowRepository) FindByID(id int64) (*domain.Workflow, error) {
	query := `
        SELECT id, name, description, steps_json, created
        FROM workflows
        WHERE id = ` + placeholder(1) + `
        LIMIT 1
    `
	var wf domain.Workflow
	err := r.db.QueryRow(query, id).Scan(
		&wf.ID,
		&wf.Name,
		&wf.Description,
		&wf.StepsJSON,
		&wf.Created,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &wf, nil
}

// FindAll returns all workflows, most recently created first.
func (r *WorkflowRepository) FindAll() (*[]domain.Workflow, error) {
	query := `
        SELECT id, name, description, steps_json, created
        FROM workflows
        ORDER BY created DESC, id DESC
    `
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workflows := make([]domain.Workflow, 0)
	for rows.Next() {
		var wf domain.Workflow
		if err := rows.Scan(&wf.ID, &wf.Name, &wf.Description, &wf.StepsJSON, &wf.Created); err != nil {
			return nil, err
		}
		workflows = append(workflows, wf)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &workflows, nil
}

// SaveRun appends one run record inside a transaction so a crash never
// leaves a partial record. Prior runs are never updated or deleted.
func (r *WorkflowRepository) SaveRun(run *domain.WorkflowRun) (int64, error) {
	if run.RunTS.IsZero() {
		run.RunTS = r.clock.Now().UTC()
	}

	tx, err := r.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	base := `
        INSERT INTO workflow_runs (workflow_id, run_ts, result_json)
        VALUES (` + placeholder(1) + `,` + placeholder(2) + `,` + placeholder(3) + `)
    `

	var id int64
	if supportsReturning() {
		if err := tx.QueryRow(base+" RETURNING id", run.WorkflowID, run.RunTS, run.ResultJSON).Scan(&id); err != nil {
			return 0, err
		}
	} else {
		res, err := tx.Exec(base, run.WorkflowID, run.RunTS, run.ResultJSON)
		if err != nil {
			return 0, err
		}
		id, err = res.LastInsertId()
		if err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	run.ID = id
	return id, nil
}

// FindRunsByWorkflowID returns the run history for a workflow, newest first.
func (r *WorkflowRepository) FindRunsByWorkflowID(workflowID int64) (*[]domain.WorkflowRun, error) {
	query := `
        SELECT id, workflow_id, run_ts, result_json
        FROM workflow_runs
        WHERE workflow_id = ` + placeholder(1) + `
        ORDER BY id DESC
    `
	rows, err := r.db.Query(query, workflowID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]domain.WorkflowRun, 0)
	for rows.Next() {
		var run domain.WorkflowRun
		if err := rows.Scan(&run.ID, &run.WorkflowID, &run.RunTS, &run.ResultJSON); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &runs, nil
}
