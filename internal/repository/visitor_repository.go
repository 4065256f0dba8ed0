package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/parketr3s/parke-tres/internal/model"
)

// VisitorRepo persists visitor rows. The in-memory tracking store stays
// authoritative while the server runs; this repository provides the sale
// insert, the best-effort session write-through and the boot reload.
type VisitorRepo struct{ DB *sql.DB }

func NewVisitorRepo(db *sql.DB) *VisitorRepo { return &VisitorRepo{DB: db} }

// Create inserts the full visitor row at sale time.
func (r *VisitorRepo) Create(ctx context.Context, v model.Visitor) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO visitors
			(id, child_name, child_age, allergies, special_needs,
			 guardian_name, guardian_phone, guardian_email, guardian_relationship,
			 package_id, total_minutes, remaining_minutes, initial_minutes,
			 registration_date, status, qr_data, payment_method, sold_by,
			 whatsapp_sent_5min, speaker_activated_5min, recharges, alert_active,
			 consumed_seconds)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		v.ID, v.Child.Name, v.Child.Age, v.Child.Allergies, v.Child.SpecialNeeds,
		v.Guardian.Name, v.Guardian.Phone, v.Guardian.Email, v.Guardian.Relationship,
		v.PackageID, v.TotalMinutes, v.RemainingMinutes, v.InitialMinutes,
		v.RegistrationDate.UTC(), v.Status, v.QRData, v.PaymentMethod, v.SoldBy,
		v.WhatsAppSent5Min, v.SpeakerActivated5Min, v.Recharges, v.AlertActive,
		v.ConsumedSeconds)
	return err
}

// SaveSession writes the mutable session fields back to the row. It
// implements the tracking engine's SessionPersister. An unknown id is a
// no-op, matching the store contract.
func (r *VisitorRepo) SaveSession(ctx context.Context, v model.Visitor) error {
	var started, activeSince interface{}
	if v.SessionStarted != nil {
		started = v.SessionStarted.UTC()
	}
	if v.ActiveSince != nil {
		activeSince = v.ActiveSince.UTC()
	}
	_, err := r.DB.ExecContext(ctx, `
		UPDATE visitors SET
			total_minutes=?, remaining_minutes=?, status=?,
			session_started=?, active_since=?, consumed_seconds=?,
			whatsapp_sent_5min=?, speaker_activated_5min=?, recharges=?, alert_active=?
		WHERE id=?`,
		v.TotalMinutes, v.RemainingMinutes, v.Status,
		started, activeSince, v.ConsumedSeconds,
		v.WhatsAppSent5Min, v.SpeakerActivated5Min, v.Recharges, v.AlertActive,
		v.ID)
	return err
}

// ListUnfinished returns all visitors not yet FINISHED, ordered by
// registration, so the tracking store can be rebuilt after a restart.
func (r *VisitorRepo) ListUnfinished(ctx context.Context) ([]model.Visitor, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, child_name, child_age, allergies, special_needs,
		       guardian_name, guardian_phone, guardian_email, guardian_relationship,
		       package_id, total_minutes, remaining_minutes, initial_minutes,
		       registration_date, session_started, active_since, consumed_seconds,
		       status, qr_data, payment_method, sold_by,
		       whatsapp_sent_5min, speaker_activated_5min, recharges, alert_active
		FROM visitors WHERE status <> ? ORDER BY registration_date, id`,
		model.StatusFinished)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Visitor
	for rows.Next() {
		var v model.Visitor
		var started, activeSince sql.NullTime
		if err := rows.Scan(
			&v.ID, &v.Child.Name, &v.Child.Age, &v.Child.Allergies, &v.Child.SpecialNeeds,
			&v.Guardian.Name, &v.Guardian.Phone, &v.Guardian.Email, &v.Guardian.Relationship,
			&v.PackageID, &v.TotalMinutes, &v.RemainingMinutes, &v.InitialMinutes,
			&v.RegistrationDate, &started, &activeSince, &v.ConsumedSeconds,
			&v.Status, &v.QRData, &v.PaymentMethod, &v.SoldBy,
			&v.WhatsAppSent5Min, &v.SpeakerActivated5Min, &v.Recharges, &v.AlertActive,
		); err != nil {
			return nil, err
		}
		if started.Valid {
			t := started.Time
			v.SessionStarted = &t
		}
		if activeSince.Valid {
			t := activeSince.Time
			v.ActiveSince = &t
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// CountByStatus returns visitor counts grouped by status since the given
// instant, used by the daily summary.
func (r *VisitorRepo) CountByStatus(ctx context.Context, since time.Time) (map[string]int, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT status, COUNT(*) FROM visitors WHERE registration_date >= ? GROUP BY status", since.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[status] = n
	}
	return out, rows.Err()
}
