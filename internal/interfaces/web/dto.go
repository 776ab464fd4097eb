package web

import (
	"time"

	"github.com/example/laundry-scheduler/internal/application/usecases"
	"github.com/example/laundry-scheduler/internal/domain/schedule"
)

type draftDTO struct {
	PickupDate        *string `json:"pickup_date"`
	PickupSlotID      *string `json:"pickup_slot_id"`
	PickupSlotLabel   *string `json:"pickup_slot_label"`
	DeliveryDate      *string `json:"delivery_date"`
	DeliverySlotID    *string `json:"delivery_slot_id"`
	DeliverySlotLabel *string `json:"delivery_slot_label"`
}

type catalogueDTO struct {
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

type stateDTO struct {
	SessionID string       `json:"session_id"`
	Draft     draftDTO     `json:"draft"`
	Complete  bool         `json:"complete"`
	Errors    []string     `json:"errors"`
	Catalogue catalogueDTO `json:"catalogue"`
	Submitted bool         `json:"submitted"`
	Notices   []string     `json:"notices"`
}

type slotsDTO struct {
	Date    string              `json:"date"`
	Role    schedule.Role       `json:"role"`
	Loading bool                `json:"loading"`
	Slots   []schedule.TimeSlot `json:"slots"`
}

type errorDTO struct {
	Error string    `json:"error"`
	State *stateDTO `json:"state,omitempty"`
}

type submitDTO struct {
	Submitted bool      `json:"submitted"`
	Errors    []string  `json:"errors,omitempty"`
	State     *stateDTO `json:"state,omitempty"`
}

type dateRequest struct {
	Date *string `json:"date"`
}

type slotRequest struct {
	SlotID string `json:"slot_id"`
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(schedule.DateLayout)
	return &s
}

func toDraftDTO(d schedule.OrderDraft) draftDTO {
	return draftDTO{
		PickupDate:        formatDate(d.PickupDate),
		PickupSlotID:      d.PickupSlotID,
		PickupSlotLabel:   d.PickupSlotLabel,
		DeliveryDate:      formatDate(d.DeliveryDate),
		DeliverySlotID:    d.DeliverySlotID,
		DeliverySlotLabel: d.DeliverySlotLabel,
	}
}

func toStateDTO(st usecases.State) stateDTO {
	out := stateDTO{
		SessionID: st.SessionID,
		Draft:     toDraftDTO(st.Draft),
		Complete:  st.Complete,
		Errors:    nonNil(st.Errors),
		Catalogue: catalogueDTO{Loading: st.CatalogueLoading},
		Submitted: st.Submitted,
		Notices:   nonNil(st.Notices),
	}
	if st.CatalogueError != nil {
		out.Catalogue.Error = usecases.MsgSlotsUnavailable
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
