package usecases

import (
	"context"

	"github.com/example/laundry-scheduler/internal/domain/schedule"
)

// SlotSource supplies the raw time-slot catalogue.
type SlotSource interface {
	ListSlots(ctx context.Context) ([]schedule.TimeSlot, error)
}

// DraftPublisher receives draft snapshots for the surrounding order flow.
type DraftPublisher interface {
	PublishDraft(ctx context.Context, sessionID string, d schedule.OrderDraft) error
}

// DraftSubmitter hands a completed draft to order submission.
type DraftSubmitter interface {
	MarkSubmitted(ctx context.Context, sessionID string) error
}

// Notifier shows a message to the user.
type Notifier interface {
	Notify(msg string)
}
