package portal

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/pgtype"
)

// Postgres reads the catalog from the classes and documents tables.
type Postgres struct {
	db    *sql.DB
	types *pgtype.Map
}

// NewPostgres creates a catalog backed by db (opened with the pgx driver).
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db, types: pgtype.NewMap()}
}

func (p *Postgres) Classes(ctx context.Context) ([]ClassInfo, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT grade, subjects, students, COALESCE(hours_per_day, $1)
		FROM classes
		ORDER BY grade
	`, defaultHoursPerDay)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ClassInfo
	for rows.Next() {
		var c ClassInfo
		if err := rows.Scan(&c.Grade, p.types.SQLScanner(&c.Subjects), &c.Students, &c.HoursPerDay); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (p *Postgres) Documents(ctx context.Context) ([]Document, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id::text, name, type, size, to_char(published_on, 'YYYY-MM-DD'), subject, grade, status, COALESCE(url, '')
		FROM documents
		ORDER BY published_on DESC, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.Name, &d.Type, &d.Size, &d.Date, &d.Subject, &d.Grade, &d.Status, &d.URL); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

const catalogSchema = `
CREATE TABLE IF NOT EXISTS classes (
	grade         INTEGER PRIMARY KEY,
	subjects      TEXT[]  NOT NULL DEFAULT '{}',
	students      INTEGER NOT NULL DEFAULT 0,
	hours_per_day INTEGER
);

CREATE TABLE IF NOT EXISTS documents (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	type         TEXT NOT NULL,
	size         TEXT NOT NULL DEFAULT '',
	published_on DATE NOT NULL DEFAULT CURRENT_DATE,
	subject      TEXT NOT NULL DEFAULT '',
	grade        TEXT NOT NULL DEFAULT '',
	status       TEXT NOT NULL DEFAULT 'Active',
	url          TEXT
);
`

// Migrate creates the catalog tables and seeds them from the built-in data
// when they are empty.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, catalogSchema); err != nil {
		return err
	}
	var n int
	if err := p.db.QueryRowContext(ctx, `SELECT count(*) FROM classes`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	classes, _ := Static{}.Classes(ctx)
	for _, c := range classes {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO classes (grade, subjects, students, hours_per_day) VALUES ($1, $2, $3, $4)`,
			c.Grade, c.Subjects, c.Students, c.HoursPerDay,
		); err != nil {
			return err
		}
	}
	docs, _ := Static{}.Documents(ctx)
	for _, d := range docs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO documents (id, name, type, size, published_on, subject, grade, status)
			VALUES ($1, $2, $3, $4, $5::date, $6, $7, $8)
			ON CONFLICT (id) DO NOTHING
		`, d.ID, d.Name, d.Type, d.Size, d.Date, d.Subject, d.Grade, d.Status); err != nil {
			return err
		}
	}
	return tx.Commit()
}
