package schedule

import "time"

// Engine bundles the slot catalogue and session calendar that every
// availability query and transition is evaluated against.
type Engine struct {
	Catalogue Catalogue
	Calendar  Calendar
}

func NewEngine(cat Catalogue, cal Calendar) Engine {
	return Engine{Catalogue: cat, Calendar: cal}
}

func all(TimeSlot) bool { return true }

// AvailableSlots returns, in catalogue order, the slots that may be offered
// for candidate under role given the current draft.
//
// The enabled flag only removes slots from same-day pickup. Delivery on the
// day after pickup cannot start before the pickup window did; once there is a
// full day of buffer every slot is offered again.
func (e Engine) AvailableSlots(candidate *time.Time, role Role, draft OrderDraft) []TimeSlot {
	if candidate == nil {
		return []TimeSlot{}
	}
	switch role {
	case RolePickup:
		today := e.Calendar.Today()
		switch {
		case SameDay(candidate, &today):
			return e.Catalogue.filter(func(s TimeSlot) bool { return s.Enabled })
		case IsBefore(candidate, &today):
			return []TimeSlot{}
		default:
			return e.Catalogue.filter(all)
		}
	case RoleDelivery:
		if draft.PickupDate == nil || draft.PickupSlotID == nil {
			return e.Catalogue.filter(all)
		}
		pickup, ok := e.Catalogue.Lookup(*draft.PickupSlotID)
		if !ok {
			return e.Catalogue.filter(all)
		}
		nextDay := AddDays(draft.PickupDate, 1)
		switch {
		case SameDay(candidate, nextDay):
			return e.Catalogue.filter(func(s TimeSlot) bool {
				return IsTimeAfterOrEqual(s.StartTime, pickup.StartTime)
			})
		case IsAfter(candidate, nextDay):
			return e.Catalogue.filter(all)
		default:
			// on or before the pickup day
			return []TimeSlot{}
		}
	default:
		return []TimeSlot{}
	}
}
