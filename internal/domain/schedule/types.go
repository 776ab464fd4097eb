package schedule

import (
	"fmt"
	"strings"
	"time"
)

// Role selects which side of the order an availability query is for.
type Role string

const (
	RolePickup   Role = "pickup"
	RoleDelivery Role = "delivery"
)

func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RolePickup:
		return RolePickup, nil
	case RoleDelivery:
		return RoleDelivery, nil
	default:
		return "", fmt.Errorf("unknown role %q (want pickup or delivery)", s)
	}
}

// TimeSlot is a fixed daily window offered by the business.
// Enabled only governs same-day pickup.
type TimeSlot struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Enabled   bool   `json:"enabled"`
}

// OrderDraft is the scheduling subset of an order being built.
// Pointer fields are nil when unset; pointees are never mutated in place,
// so drafts may share them safely.
type OrderDraft struct {
	PickupDate      *time.Time
	PickupSlotID    *string
	PickupSlotLabel *string

	DeliveryDate      *time.Time
	DeliverySlotID    *string
	DeliverySlotLabel *string
}

func (d OrderDraft) clearPickupSlot() OrderDraft {
	d.PickupSlotID = nil
	d.PickupSlotLabel = nil
	return d
}

func (d OrderDraft) clearDeliverySlot() OrderDraft {
	d.DeliverySlotID = nil
	d.DeliverySlotLabel = nil
	return d
}

func (d OrderDraft) withPickupSlot(s TimeSlot) OrderDraft {
	id, label := s.ID, s.Label
	d.PickupSlotID = &id
	d.PickupSlotLabel = &label
	return d
}

func (d OrderDraft) withDeliverySlot(s TimeSlot) OrderDraft {
	id, label := s.ID, s.Label
	d.DeliverySlotID = &id
	d.DeliverySlotLabel = &label
	return d
}
