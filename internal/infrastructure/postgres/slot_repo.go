package postgres

import (
	"context"

	"github.com/example/laundry-scheduler/internal/db"
	"github.com/example/laundry-scheduler/internal/domain/schedule"
	"github.com/example/laundry-scheduler/internal/internaltypes"
)

// SlotRepo is the time-slot catalogue source.
type SlotRepo struct{ db *db.DB }

func NewSlotRepo(d *db.DB) *SlotRepo { return &SlotRepo{db: d} }

func (r *SlotRepo) ListSlots(ctx context.Context) ([]schedule.TimeSlot, error) {
	rows, err := r.db.Query(ctx, `
SELECT id,label,start_time,end_time,enabled
FROM time_slots
ORDER BY start_time ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []schedule.TimeSlot
	for rows.Next() {
		var s schedule.TimeSlot
		if err := rows.Scan(&s.ID, &s.Label, &s.StartTime, &s.EndTime, &s.Enabled); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SlotRepo) Get(ctx context.Context, id string) (schedule.TimeSlot, error) {
	var s schedule.TimeSlot
	err := r.db.QueryRow(ctx, `SELECT id,label,start_time,end_time,enabled FROM time_slots WHERE id=$1`, id).
		Scan(&s.ID, &s.Label, &s.StartTime, &s.EndTime, &s.Enabled)
	if err != nil {
		return schedule.TimeSlot{}, db.WrapNotFound(err)
	}
	return s, nil
}

// Upsert stores s with its clock strings normalized to HH:MM.
func (r *SlotRepo) Upsert(ctx context.Context, s schedule.TimeSlot) error {
	return r.db.Exec(ctx, `
INSERT INTO time_slots(id,label,start_time,end_time,enabled)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (id) DO UPDATE
SET label=EXCLUDED.label, start_time=EXCLUDED.start_time, end_time=EXCLUDED.end_time, enabled=EXCLUDED.enabled, updated_at=now()`,
		s.ID, s.Label, schedule.NormalizeClock(s.StartTime), schedule.NormalizeClock(s.EndTime), s.Enabled)
}

func (r *SlotRepo) SetEnabled(ctx context.Context, id string, enabled bool) error {
	n, err := r.db.ExecCount(ctx, `UPDATE time_slots SET enabled=$2, updated_at=now() WHERE id=$1`, id, enabled)
	if err != nil {
		return err
	}
	if n == 0 {
		return internaltypes.ErrNotFound
	}
	return nil
}
