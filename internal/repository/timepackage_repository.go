package repository

import (
	"context"
	"database/sql"

	"github.com/parketr3s/parke-tres/internal/model"
)

type TimePackageRepo struct{ DB *sql.DB }

func NewTimePackageRepo(db *sql.DB) *TimePackageRepo { return &TimePackageRepo{DB: db} }

const pkgColumns = "id,name,minutes,price_cents,description,popular,active,created_at,updated_at"

// Create inserts a new time package.
func (r *TimePackageRepo) Create(ctx context.Context, p model.TimePackage) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO time_packages (id,name,minutes,price_cents,description,popular,active) VALUES (?,?,?,?,?,?,?)",
		p.ID, p.Name, p.Minutes, p.PriceCents, p.Description, p.Popular, p.Active)
	return err
}

// GetByID fetches a package by id.
func (r *TimePackageRepo) GetByID(ctx context.Context, id string) (model.TimePackage, error) {
	return scanPackage(r.DB.QueryRowContext(ctx,
		"SELECT "+pkgColumns+" FROM time_packages WHERE id=? LIMIT 1", id))
}

// ListActive returns packages available for sale, cheapest first.
func (r *TimePackageRepo) ListActive(ctx context.Context) ([]model.TimePackage, error) {
	return r.list(ctx, "SELECT "+pkgColumns+" FROM time_packages WHERE active=1 ORDER BY price_cents")
}

// ListAll returns every package including deactivated ones.
func (r *TimePackageRepo) ListAll(ctx context.Context) ([]model.TimePackage, error) {
	return r.list(ctx, "SELECT "+pkgColumns+" FROM time_packages ORDER BY price_cents")
}

// Update rewrites the editable fields of a package.
func (r *TimePackageRepo) Update(ctx context.Context, p model.TimePackage) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE time_packages SET name=?, minutes=?, price_cents=?, description=?, popular=?, active=? WHERE id=?",
		p.Name, p.Minutes, p.PriceCents, p.Description, p.Popular, p.Active, p.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return err
}

// Delete removes a package. Packages already sold to visitors cannot be
// deleted; deactivate them instead. Returns ErrConflict in that case.
func (r *TimePackageRepo) Delete(ctx context.Context, id string) error {
	var n int
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM visitors WHERE package_id=?", id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	res, err := r.DB.ExecContext(ctx, "DELETE FROM time_packages WHERE id=?", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return err
}

func (r *TimePackageRepo) list(ctx context.Context, query string) ([]model.TimePackage, error) {
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.TimePackage
	for rows.Next() {
		var p model.TimePackage
		if err := rows.Scan(&p.ID, &p.Name, &p.Minutes, &p.PriceCents, &p.Description, &p.Popular, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPackage(row *sql.Row) (model.TimePackage, error) {
	var p model.TimePackage
	err := row.Scan(&p.ID, &p.Name, &p.Minutes, &p.PriceCents, &p.Description, &p.Popular, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
