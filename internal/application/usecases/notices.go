package usecases

import (
	"errors"
	"sync"

	"github.com/example/laundry-scheduler/internal/domain/schedule"
)

const (
	MsgSlotsUnavailable = "Time slots could not be loaded. Please try again later."
	MsgNoSlots          = "No time slots are available right now."
	MsgSlotTaken        = "The selected time slot is no longer available. Please choose another."
	MsgPickupDateFirst  = "Please select a pickup date first."
	MsgDeliveryTooEarly = "Delivery date must be after the pickup date."
	MsgDateInPast       = "Please choose today or a later date."
	MsgAlreadySubmitted = "This order has already been submitted."
)

// Notices buffers user-facing messages until the UI drains them.
type Notices struct {
	mu    sync.Mutex
	items []string
}

func (n *Notices) Notify(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, msg)
}

// Drain returns and clears the buffered messages.
func (n *Notices) Drain() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.items
	n.items = nil
	return out
}

func noticeFor(err error) string {
	switch {
	case errors.Is(err, schedule.ErrSlotNotOffered):
		return MsgSlotTaken
	case errors.Is(err, schedule.ErrPickupDateRequired):
		return MsgPickupDateFirst
	case errors.Is(err, schedule.ErrDeliveryDateInvalid):
		return MsgDeliveryTooEarly
	case errors.Is(err, schedule.ErrDateInPast):
		return MsgDateInPast
	default:
		return ""
	}
}
