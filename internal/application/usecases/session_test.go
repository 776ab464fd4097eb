package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/laundry-scheduler/internal/domain/schedule"
	"github.com/example/laundry-scheduler/internal/internaltypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestSession(t *testing.T, src *fakeSource, pub *fakePublisher, sub *fakeSubmitter) *Session {
	t.Helper()
	deps := SessionDeps{
		Source:   src,
		Location: time.UTC,
		Debounce: 50 * time.Millisecond,
		Now:      func() time.Time { return fixedNow },
		Log:      zap.NewNop(),
	}
	if pub != nil {
		deps.Publisher = pub
	}
	if sub != nil {
		deps.Submitter = sub
	}
	s := NewSession(context.Background(), "sess-1", deps)
	t.Cleanup(func() { s.Close(context.Background()) })
	return s
}

func waitLoaded(t *testing.T, s *Session) {
	t.Helper()
	select {
	case <-s.Catalogue().Done():
	case <-time.After(time.Second):
		t.Fatal("catalogue did not load")
	}
}

func TestSessionEndToEnd(t *testing.T) {
	pub := &fakePublisher{}
	s := newTestSession(t, &fakeSource{slots: twoSlots()}, pub, nil)
	waitLoaded(t, s)

	today := s.Calendar().Today()
	_, err := s.SelectPickupDate(&today)
	require.NoError(t, err)
	d, err := s.SelectPickupSlot("1")
	require.NoError(t, err)

	assert.Equal(t, "1", *d.PickupSlotID)
	assert.True(t, schedule.SameDay(d.DeliveryDate, schedule.AddDays(&today, 1)))
	require.NotNil(t, d.DeliverySlotID)
	assert.Equal(t, "1", *d.DeliverySlotID)

	st := s.State()
	assert.True(t, st.Complete)
	assert.Empty(t, st.Errors)
	assert.False(t, st.CatalogueLoading)

	// both transitions land in a single debounced publish of the final draft
	assert.Eventually(t, func() bool { return len(pub.Calls()) == 1 }, time.Second, 5*time.Millisecond)
	last := pub.Calls()[0]
	assert.Equal(t, "sess-1", last.sessionID)
	assert.Equal(t, d, last.draft)
}

func TestSessionDateSelectionWhileCatalogueLoading(t *testing.T) {
	src := &fakeSource{slots: twoSlots(), gate: make(chan struct{})}
	s := newTestSession(t, src, nil, nil)

	today := s.Calendar().Today()
	d, err := s.SelectPickupDate(&today)
	require.NoError(t, err)
	assert.NotNil(t, d.PickupDate)

	assert.Empty(t, s.AvailableSlots(&today, schedule.RolePickup))
	got, err := s.SelectPickupSlot("1")
	assert.ErrorIs(t, err, schedule.ErrSlotNotOffered)
	assert.Equal(t, d, got)

	st := s.State()
	assert.True(t, st.CatalogueLoading)
	assert.Equal(t, []string{MsgSlotTaken}, st.Notices)
	assert.Empty(t, s.State().Notices, "notices drain once")

	close(src.gate)
	waitLoaded(t, s)
	assert.Len(t, s.AvailableSlots(&today, schedule.RolePickup), 2)
	_, err = s.SelectPickupSlot("1")
	assert.NoError(t, err)
}

func TestSessionTransitionsSeeLatestDraft(t *testing.T) {
	s := newTestSession(t, &fakeSource{slots: twoSlots()}, nil, nil)
	waitLoaded(t, s)

	today := s.Calendar().Today()
	tomorrow := schedule.AddDays(&today, 1)

	_, err := s.SelectPickupDate(&today)
	require.NoError(t, err)
	_, err = s.SelectPickupSlot("2")
	require.NoError(t, err)
	// a rapid second date pick must clear the slot chosen a moment ago
	d, err := s.SelectPickupDate(tomorrow)
	require.NoError(t, err)
	assert.Nil(t, d.PickupSlotID)
	assert.Nil(t, d.DeliverySlotID)
	assert.Equal(t, d, s.Draft())
}

func TestSessionRejectedTransitionKeepsDraft(t *testing.T) {
	s := newTestSession(t, &fakeSource{slots: twoSlots()}, nil, nil)
	waitLoaded(t, s)

	today := s.Calendar().Today()
	before, err := s.SelectPickupDate(&today)
	require.NoError(t, err)

	_, err = s.SelectDeliveryDate(&today)
	assert.ErrorIs(t, err, schedule.ErrDeliveryDateInvalid)
	assert.Equal(t, before, s.Draft())

	_, err = s.SelectPickupDate(schedule.AddDays(&today, -1))
	assert.ErrorIs(t, err, schedule.ErrDateInPast)
	assert.Equal(t, []string{MsgDeliveryTooEarly, MsgDateInPast}, s.State().Notices)
}

func TestSessionCatalogueFailure(t *testing.T) {
	s := newTestSession(t, &fakeSource{err: assert.AnError}, nil, nil)
	waitLoaded(t, s)

	today := s.Calendar().Today()
	_, err := s.SelectPickupDate(&today)
	require.NoError(t, err)
	assert.Empty(t, s.AvailableSlots(&today, schedule.RolePickup))

	st := s.State()
	assert.Error(t, st.CatalogueError)
	assert.Contains(t, st.Notices, MsgSlotsUnavailable)
	assert.False(t, st.Complete)
}

func TestSessionSubmit(t *testing.T) {
	pub := &fakePublisher{}
	sub := &fakeSubmitter{}
	s := newTestSession(t, &fakeSource{slots: twoSlots()}, pub, sub)
	waitLoaded(t, s)

	msgs, err := s.Submit(context.Background())
	assert.ErrorIs(t, err, internaltypes.ErrDraftIncomplete)
	assert.Equal(t, schedule.Errors(schedule.OrderDraft{}), msgs)
	assert.Empty(t, sub.Submitted())

	today := s.Calendar().Today()
	_, err = s.SelectPickupDate(&today)
	require.NoError(t, err)
	d, err := s.SelectPickupSlot("2")
	require.NoError(t, err)

	msgs, err = s.Submit(context.Background())
	require.NoError(t, err)
	assert.Empty(t, msgs)
	assert.Equal(t, []string{"sess-1"}, sub.Submitted())

	calls := pub.Calls()
	require.NotEmpty(t, calls)
	assert.Equal(t, d, calls[len(calls)-1].draft)
}

func TestSessionClosedRejectsTransitions(t *testing.T) {
	pub := &fakePublisher{}
	s := newTestSession(t, &fakeSource{slots: twoSlots()}, pub, nil)
	waitLoaded(t, s)

	today := s.Calendar().Today()
	_, err := s.SelectPickupDate(&today)
	require.NoError(t, err)

	s.Close(context.Background())
	// pending publish was written on close
	require.Len(t, pub.Calls(), 1)

	_, err = s.SelectPickupDate(nil)
	assert.ErrorIs(t, err, internaltypes.ErrSessionClosed)
	assert.NotNil(t, s.Draft().PickupDate)
}

func TestSessionSubmitRefusesTransitionsDuringHandoff(t *testing.T) {
	pub := &fakePublisher{}
	sub := &fakeSubmitter{}
	s := NewSession(context.Background(), "sess-1", SessionDeps{
		Source:    &fakeSource{slots: twoSlots()},
		Publisher: pub,
		Submitter: sub,
		Location:  time.UTC,
		Debounce:  time.Hour,
		Now:       func() time.Time { return fixedNow },
		Log:       zap.NewNop(),
	})
	t.Cleanup(func() { s.Close(context.Background()) })
	waitLoaded(t, s)

	today := s.Calendar().Today()
	_, err := s.SelectPickupDate(&today)
	require.NoError(t, err)
	d, err := s.SelectPickupSlot("1")
	require.NoError(t, err)
	require.True(t, schedule.IsComplete(d))

	// a reset arriving while the draft is being written out
	var resetErr error
	pub.during = func() { _, resetErr = s.SelectPickupDate(nil) }

	msgs, err := s.Submit(context.Background())
	require.NoError(t, err)
	assert.Empty(t, msgs)
	assert.ErrorIs(t, resetErr, internaltypes.ErrDraftSubmitted)
	assert.Equal(t, []string{"sess-1"}, sub.Submitted())

	calls := pub.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, d, calls[0].draft)
	assert.True(t, schedule.IsComplete(calls[0].draft))
	assert.Equal(t, d, s.Draft())

	st := s.State()
	assert.True(t, st.Submitted)
	assert.Contains(t, st.Notices, MsgAlreadySubmitted)
}

func TestSessionAfterSubmit(t *testing.T) {
	sub := &fakeSubmitter{}
	s := newTestSession(t, &fakeSource{slots: twoSlots()}, &fakePublisher{}, sub)
	waitLoaded(t, s)

	today := s.Calendar().Today()
	_, err := s.SelectPickupDate(&today)
	require.NoError(t, err)
	d, err := s.SelectPickupSlot("1")
	require.NoError(t, err)
	_, err = s.Submit(context.Background())
	require.NoError(t, err)

	got, err := s.SelectDeliveryDate(nil)
	assert.ErrorIs(t, err, internaltypes.ErrDraftSubmitted)
	assert.Equal(t, d, got)

	_, err = s.Submit(context.Background())
	assert.ErrorIs(t, err, internaltypes.ErrDraftSubmitted)
	assert.Len(t, sub.Submitted(), 1)
}

func TestSessionFailedSubmitReopensDraft(t *testing.T) {
	pub := &fakePublisher{}
	sub := &fakeSubmitter{}
	s := newTestSession(t, &fakeSource{slots: twoSlots()}, pub, sub)
	waitLoaded(t, s)

	today := s.Calendar().Today()
	_, err := s.SelectPickupDate(&today)
	require.NoError(t, err)
	_, err = s.SelectPickupSlot("1")
	require.NoError(t, err)

	pub.setErr(errors.New("db down"))
	_, err = s.Submit(context.Background())
	require.Error(t, err)
	assert.Empty(t, sub.Submitted())
	assert.False(t, s.State().Submitted)

	_, err = s.SelectPickupSlot("2")
	require.NoError(t, err)

	pub.setErr(nil)
	_, err = s.Submit(context.Background())
	require.NoError(t, err)
	calls := pub.Calls()
	require.NotEmpty(t, calls)
	assert.Equal(t, "2", *calls[len(calls)-1].draft.PickupSlotID)
}
