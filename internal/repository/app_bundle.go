package repository

import (
	"database/sql"

	"github.com/flowbenchhq/flowbench/internal/core"
	"github.com/flowbenchhq/flowbench/internal/domain"
)

// AppBundleRepository persists uploaded app bundle metadata.
type AppBundleRepository struct {
	db    *sql.DB
	clock core.Clock
}

func NewAppBundleRepository(db *sql.DB, clock core.Clock) *AppBundleRepository {
	return &AppBundleRepository{db: db, clock: clock}
}

// Save inserts a new bundle row and returns its generated id.
func (r *AppBundleRepository) Save(b *domain.AppBundle) (int64, error) {
	if b.Created.IsZero() {
		b.Created = r.clock.Now().UTC()
	}

	base := `
        INSERT INTO app_bundles (bundle_key, name, description, filename, created)
        VALUES (` + placeholder(1) + `,` + placeholder(2) + `,` + placeholder(3) + `,` + placeholder(4) + `,` + placeholder(5) + `)
    `

	var id int64
	var err error
	if supportsReturning() {
		err = r.db.QueryRow(base+" RETURNING id", b.BundleKey, b.Name, b.Description, b.Filename, b.Created).Scan(&id)
	} else {
		res, e := r.db.Exec(base, b.BundleKey, b.Name, b.Description, b.Filename, b.Created)
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
	b.ID = id
	return id, nil
}

// FindAll returns all bundles, newest first.
func (r *AppBundleRepository) FindAll() (*[]domain.AppBundle, error) {
	query := `
        SELECT id, bundle_key, name, description, filename, created
        FROM app_bundles
        ORDER BY id DESC
    `
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bundles := make([]domain.AppBundle, 0)
	for rows.Next() {
		var b domain.AppBundle
		if err := rows.Scan(&b.ID, &b.BundleKey, &b.Name, &b.Description, &b.Filename, &b.Created); err != nil {
			return nil, err
		}
		bundles = append(bundles, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &bundles, nil
}
