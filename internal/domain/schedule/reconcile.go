package schedule

import (
	"errors"
	"time"
)

var (
	ErrSlotNotOffered      = errors.New("time slot is not offered for the selected date")
	ErrPickupDateRequired  = errors.New("a pickup date must be selected first")
	ErrDeliveryDateInvalid = errors.New("delivery date must be after the pickup date")
	ErrDateInPast          = errors.New("date is in the past")
)

// The transitions below never modify their input. On error the input draft
// is returned as-is so callers can keep using it.

// SelectPickupDate sets the pickup date and derives next-day delivery.
// A nil date resets every scheduling field. Any change drops both slots.
func (e Engine) SelectPickupDate(d OrderDraft, date *time.Time) (OrderDraft, error) {
	if date == nil {
		return OrderDraft{}, nil
	}
	if !IsValidFutureDate(date, e.Calendar.Today()) {
		return d, ErrDateInPast
	}
	day := DateOf(*date)
	next := OrderDraft{
		PickupDate:   &day,
		DeliveryDate: AddDays(&day, 1),
	}
	return next, nil
}

// SelectPickupSlot records the pickup slot and tries to pick a matching
// delivery slot. Failing to find one still keeps the pickup selection.
func (e Engine) SelectPickupSlot(d OrderDraft, slotID string) (OrderDraft, error) {
	if d.PickupDate == nil {
		return d, ErrPickupDateRequired
	}
	slot, ok := findSlot(e.AvailableSlots(d.PickupDate, RolePickup, d), slotID)
	if !ok {
		return d, ErrSlotNotOffered
	}
	next := d.withPickupSlot(slot).clearDeliverySlot()

	candidates := e.AvailableSlots(next.DeliveryDate, RoleDelivery, next)
	if ds, ok := DeriveDeliverySlot(slot, candidates); ok {
		next = next.withDeliverySlot(ds)
	}
	return next, nil
}

// DeriveDeliverySlot prefers the same window as pickup, then the earliest
// candidate starting no earlier than pickup.
func DeriveDeliverySlot(pickup TimeSlot, candidates []TimeSlot) (TimeSlot, bool) {
	if s, ok := findSlot(candidates, pickup.ID); ok {
		return s, true
	}
	for _, s := range candidates {
		if IsTimeAfterOrEqual(s.StartTime, pickup.StartTime) {
			return s, true
		}
	}
	return TimeSlot{}, false
}

// SelectDeliveryDate overrides the derived delivery date. A nil date clears
// the delivery side only.
func (e Engine) SelectDeliveryDate(d OrderDraft, date *time.Time) (OrderDraft, error) {
	if date == nil {
		d.DeliveryDate = nil
		return d.clearDeliverySlot(), nil
	}
	if d.PickupDate == nil {
		return d, ErrPickupDateRequired
	}
	if !IsAfter(date, d.PickupDate) {
		return d, ErrDeliveryDateInvalid
	}
	day := DateOf(*date)
	d.DeliveryDate = &day
	return d.clearDeliverySlot(), nil
}

func (e Engine) SelectDeliverySlot(d OrderDraft, slotID string) (OrderDraft, error) {
	if d.PickupDate == nil {
		return d, ErrPickupDateRequired
	}
	slot, ok := findSlot(e.AvailableSlots(d.DeliveryDate, RoleDelivery, d), slotID)
	if !ok {
		return d, ErrSlotNotOffered
	}
	return d.withDeliverySlot(slot), nil
}
