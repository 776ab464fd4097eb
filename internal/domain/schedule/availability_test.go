package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testToday = time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

func testEngine(t *testing.T, slots ...TimeSlot) Engine {
	t.Helper()
	cat, rejected := NewCatalogue(slots)
	require.Empty(t, rejected)
	return NewEngine(cat, NewCalendar(testToday.Add(9*time.Hour), time.UTC))
}

func ids(slots []TimeSlot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.ID)
	}
	return out
}

func strp(s string) *string { return &s }

func mixedCatalogue() []TimeSlot {
	return []TimeSlot{
		{ID: "1", Label: "9:00 AM - 11:00 AM", StartTime: "9:00", EndTime: "11:00", Enabled: false},
		{ID: "2", Label: "11:00 AM - 1:00 PM", StartTime: "11:00", EndTime: "13:00", Enabled: true},
		{ID: "3", Label: "3:00 PM - 5:00 PM", StartTime: "15:00", EndTime: "17:00", Enabled: false},
		{ID: "4", Label: "6:00 PM - 8:00 PM", StartTime: "18:00", EndTime: "20:00", Enabled: true},
	}
}

func TestNewCatalogueSortsAndRejects(t *testing.T) {
	cat, rejected := NewCatalogue([]TimeSlot{
		{ID: "late", StartTime: "18:00", EndTime: "20:00"},
		{ID: "early", StartTime: "9", EndTime: "11:00"},
		{ID: "", StartTime: "10:00", EndTime: "11:00"},
		{ID: "backwards", StartTime: "13:00", EndTime: "12:00"},
		{ID: "garbage", StartTime: "noon", EndTime: "13:00"},
		{ID: "late", StartTime: "07:00", EndTime: "08:00"},
		{ID: "seconds", StartTime: "09:00:xx", EndTime: "10:00"},
	})
	assert.Equal(t, []string{"early", "late"}, ids(cat))
	assert.Equal(t, "09:00", cat[0].StartTime)
	assert.Len(t, rejected, 5)
}

func TestPickupAvailabilityToday(t *testing.T) {
	e := testEngine(t, mixedCatalogue()...)
	today := testToday
	got := e.AvailableSlots(&today, RolePickup, OrderDraft{})
	assert.Equal(t, []string{"2", "4"}, ids(got))
}

func TestPickupAvailabilityFutureIgnoresEnabled(t *testing.T) {
	e := testEngine(t, mixedCatalogue()...)
	for _, n := range []int{1, 2, 30} {
		got := e.AvailableSlots(AddDays(&testToday, n), RolePickup, OrderDraft{})
		assert.Equal(t, []string{"1", "2", "3", "4"}, ids(got))
	}
}

func TestPickupAvailabilityPastAndNil(t *testing.T) {
	e := testEngine(t, mixedCatalogue()...)
	assert.Empty(t, e.AvailableSlots(AddDays(&testToday, -1), RolePickup, OrderDraft{}))
	assert.Empty(t, e.AvailableSlots(nil, RolePickup, OrderDraft{}))
	assert.Empty(t, e.AvailableSlots(nil, RoleDelivery, OrderDraft{}))
}

func TestDeliveryAvailabilityNextDay(t *testing.T) {
	e := testEngine(t, mixedCatalogue()...)
	pickup := testToday
	draft := OrderDraft{PickupDate: &pickup, PickupSlotID: strp("2")}

	got := e.AvailableSlots(AddDays(&pickup, 1), RoleDelivery, draft)
	assert.Equal(t, []string{"2", "3", "4"}, ids(got), "disabled slots stay offered for delivery")
}

func TestDeliveryAvailabilityWithBuffer(t *testing.T) {
	e := testEngine(t, mixedCatalogue()...)
	pickup := testToday
	draft := OrderDraft{PickupDate: &pickup, PickupSlotID: strp("4")}

	got := e.AvailableSlots(AddDays(&pickup, 2), RoleDelivery, draft)
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(got))
}

func TestDeliveryAvailabilityWithoutPickupSlot(t *testing.T) {
	e := testEngine(t, mixedCatalogue()...)
	pickup := testToday
	draft := OrderDraft{PickupDate: &pickup}

	got := e.AvailableSlots(AddDays(&pickup, 1), RoleDelivery, draft)
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(got))
}

func TestDeliveryAvailabilityNotAfterPickup(t *testing.T) {
	e := testEngine(t, mixedCatalogue()...)
	pickup := *AddDays(&testToday, 3)
	draft := OrderDraft{PickupDate: &pickup, PickupSlotID: strp("1")}

	assert.Empty(t, e.AvailableSlots(&pickup, RoleDelivery, draft))
	assert.Empty(t, e.AvailableSlots(AddDays(&pickup, -1), RoleDelivery, draft))
}

func TestAvailabilityOnEmptyCatalogue(t *testing.T) {
	e := NewEngine(nil, NewCalendar(testToday, time.UTC))
	today := testToday
	assert.Empty(t, e.AvailableSlots(&today, RolePickup, OrderDraft{}))
	assert.Empty(t, e.AvailableSlots(AddDays(&today, 1), RoleDelivery, OrderDraft{}))
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole(" Pickup ")
	require.NoError(t, err)
	assert.Equal(t, RolePickup, r)

	r, err = ParseRole("delivery")
	require.NoError(t, err)
	assert.Equal(t, RoleDelivery, r)

	_, err = ParseRole("dropoff")
	assert.Error(t, err)
}
