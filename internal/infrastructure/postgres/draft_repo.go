package postgres

import (
	"context"
	"time"

	"github.com/example/laundry-scheduler/internal/db"
	"github.com/example/laundry-scheduler/internal/domain/schedule"
	"github.com/example/laundry-scheduler/internal/internaltypes"
)

const (
	DraftStatusDraft     = "draft"
	DraftStatusSubmitted = "submitted"
)

// StoredDraft is a draft as persisted for the order-submission side.
type StoredDraft struct {
	SessionID   string
	Draft       schedule.OrderDraft
	Status      string
	SubmittedAt *time.Time
	UpdatedAt   time.Time
}

// DraftRepo persists the scheduling subset of order drafts.
type DraftRepo struct{ db *db.DB }

func NewDraftRepo(d *db.DB) *DraftRepo { return &DraftRepo{db: d} }

func dateArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(schedule.DateLayout)
}

// PublishDraft upserts the latest draft snapshot for a session. Submitted
// drafts are left untouched.
func (r *DraftRepo) PublishDraft(ctx context.Context, sessionID string, d schedule.OrderDraft) error {
	return r.db.Exec(ctx, `
INSERT INTO order_drafts(session_id,pickup_date,pickup_slot_id,pickup_slot_label,delivery_date,delivery_slot_id,delivery_slot_label,status)
VALUES ($1,$2::date,$3,$4,$5::date,$6,$7,'draft')
ON CONFLICT (session_id) DO UPDATE
SET pickup_date=EXCLUDED.pickup_date, pickup_slot_id=EXCLUDED.pickup_slot_id, pickup_slot_label=EXCLUDED.pickup_slot_label,
    delivery_date=EXCLUDED.delivery_date, delivery_slot_id=EXCLUDED.delivery_slot_id, delivery_slot_label=EXCLUDED.delivery_slot_label,
    updated_at=now()
WHERE order_drafts.status='draft'`,
		sessionID, dateArg(d.PickupDate), d.PickupSlotID, d.PickupSlotLabel, dateArg(d.DeliveryDate), d.DeliverySlotID, d.DeliverySlotLabel)
}

// MarkSubmitted flags the stored draft as handed to order submission.
func (r *DraftRepo) MarkSubmitted(ctx context.Context, sessionID string) error {
	n, err := r.db.ExecCount(ctx, `UPDATE order_drafts SET status='submitted', submitted_at=now(), updated_at=now() WHERE session_id=$1 AND status='draft'`, sessionID)
	if err != nil {
		return err
	}
	if n == 0 {
		return internaltypes.ErrNotFound
	}
	return nil
}

func (r *DraftRepo) Get(ctx context.Context, sessionID string) (StoredDraft, error) {
	var s StoredDraft
	err := r.db.QueryRow(ctx, `
SELECT session_id,pickup_date,pickup_slot_id,pickup_slot_label,delivery_date,delivery_slot_id,delivery_slot_label,status,submitted_at,updated_at
FROM order_drafts
WHERE session_id=$1`, sessionID).
		Scan(&s.SessionID, &s.Draft.PickupDate, &s.Draft.PickupSlotID, &s.Draft.PickupSlotLabel,
			&s.Draft.DeliveryDate, &s.Draft.DeliverySlotID, &s.Draft.DeliverySlotLabel, &s.Status, &s.SubmittedAt, &s.UpdatedAt)
	if err != nil {
		return StoredDraft{}, db.WrapNotFound(err)
	}
	return s, nil
}

func (r *DraftRepo) ListByStatus(ctx context.Context, status string, limit int) ([]StoredDraft, error) {
	rows, err := r.db.Query(ctx, `
SELECT session_id,pickup_date,pickup_slot_id,pickup_slot_label,delivery_date,delivery_slot_id,delivery_slot_label,status,submitted_at,updated_at
FROM order_drafts
WHERE status=$1
ORDER BY updated_at DESC
LIMIT $2`, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StoredDraft
	for rows.Next() {
		var s StoredDraft
		if err := rows.Scan(&s.SessionID, &s.Draft.PickupDate, &s.Draft.PickupSlotID, &s.Draft.PickupSlotLabel,
			&s.Draft.DeliveryDate, &s.Draft.DeliverySlotID, &s.Draft.DeliverySlotLabel, &s.Status, &s.SubmittedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
