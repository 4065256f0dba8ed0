package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/parketr3s/parke-tres/internal/model"
)

// SaleRow is one line of the sales report: the purchase joined with the
// visitor it created.
type SaleRow struct {
	Purchase       model.Purchase
	ChildName      string
	ChildAge       int
	GuardianName   string
	GuardianPhone  string
	PackageID      string
	TotalMinutes   int
	VisitorStatus  string
	SessionStarted *time.Time
}

type PurchaseRepo struct{ DB *sql.DB }

func NewPurchaseRepo(db *sql.DB) *PurchaseRepo { return &PurchaseRepo{DB: db} }

// Create inserts a completed sale.
func (r *PurchaseRepo) Create(ctx context.Context, p model.Purchase) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO purchases (id, visitor_id, amount_cents, payment_method, sold_by, status, created_at) VALUES (?,?,?,?,?,?,?)",
		p.ID, p.VisitorID, p.AmountCents, p.PaymentMethod, p.SoldBy, p.Status, p.CreatedAt.UTC())
	return err
}

// ListSales returns report rows for purchases created in [from, to),
// oldest first.
func (r *PurchaseRepo) ListSales(ctx context.Context, from, to time.Time) ([]SaleRow, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT p.id, p.visitor_id, p.amount_cents, p.payment_method, p.sold_by, p.status, p.created_at,
		       v.child_name, v.child_age, v.guardian_name, v.guardian_phone,
		       v.package_id, v.total_minutes, v.status, v.session_started
		FROM purchases p
		JOIN visitors v ON v.id = p.visitor_id
		WHERE p.created_at >= ? AND p.created_at < ?
		ORDER BY p.created_at, p.id`,
		from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SaleRow
	for rows.Next() {
		var s SaleRow
		var started sql.NullTime
		if err := rows.Scan(
			&s.Purchase.ID, &s.Purchase.VisitorID, &s.Purchase.AmountCents,
			&s.Purchase.PaymentMethod, &s.Purchase.SoldBy, &s.Purchase.Status, &s.Purchase.CreatedAt,
			&s.ChildName, &s.ChildAge, &s.GuardianName, &s.GuardianPhone,
			&s.PackageID, &s.TotalMinutes, &s.VisitorStatus, &started,
		); err != nil {
			return nil, err
		}
		if started.Valid {
			t := started.Time
			s.SessionStarted = &t
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Totals returns the sale count and revenue for purchases in [from, to).
func (r *PurchaseRepo) Totals(ctx context.Context, from, to time.Time) (count int, revenueCents int64, err error) {
	err = r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(amount_cents),0) FROM purchases WHERE created_at >= ? AND created_at < ? AND status=?",
		from.UTC(), to.UTC(), model.PurchaseCompleted).Scan(&count, &revenueCents)
	return
}
