package schedule

const (
	MsgPickupDateMissing   = "Please select a pickup date"
	MsgPickupSlotMissing   = "Please select a pickup time slot"
	MsgDeliveryDateMissing = "Please select a delivery date"
	MsgDeliverySlotMissing = "Please select a delivery time slot"
)

// IsComplete reports whether the draft can be handed to order submission.
func IsComplete(d OrderDraft) bool {
	return d.PickupDate != nil && d.PickupSlotID != nil &&
		d.DeliveryDate != nil && d.DeliverySlotID != nil
}

// Errors lists one message per missing field, always in the order
// pickup date, pickup slot, delivery date, delivery slot.
func Errors(d OrderDraft) []string {
	var out []string
	if d.PickupDate == nil {
		out = append(out, MsgPickupDateMissing)
	}
	if d.PickupSlotID == nil {
		out = append(out, MsgPickupSlotMissing)
	}
	if d.DeliveryDate == nil {
		out = append(out, MsgDeliveryDateMissing)
	}
	if d.DeliverySlotID == nil {
		out = append(out, MsgDeliverySlotMissing)
	}
	return out
}
