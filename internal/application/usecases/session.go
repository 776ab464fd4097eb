package usecases

import (
	"context"
	"sync"
	"time"

	"github.com/example/laundry-scheduler/internal/domain/schedule"
	"github.com/example/laundry-scheduler/internal/internaltypes"
	"go.uber.org/zap"
)

const publishTimeout = 5 * time.Second

// SessionDeps are the collaborators shared by every scheduling session.
type SessionDeps struct {
	Source    SlotSource
	Publisher DraftPublisher // optional
	Submitter DraftSubmitter // optional
	Location  *time.Location
	Debounce  time.Duration
	Now       func() time.Time
	Log       *zap.Logger
}

func (d SessionDeps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// Session owns one user's order draft while they pick pickup and delivery
// windows. Transitions are applied one at a time against the latest draft;
// only publishing the draft outward is debounced.
type Session struct {
	ID string

	base      context.Context
	log       *zap.Logger
	calendar  schedule.Calendar
	catalogue *SlotCatalogue
	notices   *Notices
	publisher DraftPublisher
	submitter DraftSubmitter
	debounce  *Debouncer
	now       func() time.Time

	mu       sync.Mutex
	draft    schedule.OrderDraft
	version  uint64
	lastSeen  time.Time
	closed    bool
	submitted bool

	pubMu     sync.Mutex
	published uint64
}

// State is a read-only view of a session for the UI.
type State struct {
	SessionID        string
	Draft            schedule.OrderDraft
	Complete         bool
	Errors           []string
	CatalogueLoading bool
	CatalogueError   error
	Submitted        bool
	Notices          []string
}

// NewSession starts a session and begins loading its catalogue in the
// background. base bounds the catalogue fetch and every publish.
func NewSession(base context.Context, id string, deps SessionDeps) *Session {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	log := deps.Log.With(zap.String("session_id", id))
	notices := &Notices{}
	s := &Session{
		ID:        id,
		base:      base,
		log:       log,
		calendar:  schedule.NewCalendar(deps.now(), deps.Location),
		catalogue: NewSlotCatalogue(deps.Source, notices, log),
		notices:   notices,
		publisher: deps.Publisher,
		submitter: deps.Submitter,
		now:       deps.now,
		lastSeen:  deps.now(),
	}
	s.debounce = NewDebouncer(deps.Debounce, func() { s.publish(s.base) })
	go s.catalogue.Load(base)
	return s
}

func (s *Session) Calendar() schedule.Calendar { return s.calendar }

func (s *Session) Catalogue() *SlotCatalogue { return s.catalogue }

func (s *Session) engine() schedule.Engine {
	return schedule.NewEngine(s.catalogue.Slots(), s.calendar)
}

func (s *Session) Draft() schedule.OrderDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// AvailableSlots answers an availability query against the current draft.
func (s *Session) AvailableSlots(date *time.Time, role schedule.Role) []schedule.TimeSlot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.now()
	return s.engine().AvailableSlots(date, role, s.draft)
}

type transition func(e schedule.Engine, d schedule.OrderDraft) (schedule.OrderDraft, error)

// apply runs t against the latest draft. A rejected transition leaves the
// draft untouched and queues a notice for the user.
func (s *Session) apply(name string, t transition) (schedule.OrderDraft, error) {
	s.mu.Lock()
	if s.closed {
		d := s.draft
		s.mu.Unlock()
		return d, internaltypes.ErrSessionClosed
	}
	if s.submitted {
		d := s.draft
		s.mu.Unlock()
		s.notices.Notify(MsgAlreadySubmitted)
		return d, internaltypes.ErrDraftSubmitted
	}
	s.lastSeen = s.now()
	next, err := t(s.engine(), s.draft)
	if err != nil {
		d := s.draft
		s.mu.Unlock()
		s.log.Debug("session: transition rejected", zap.String("transition", name), zap.Error(err))
		if msg := noticeFor(err); msg != "" {
			s.notices.Notify(msg)
		}
		return d, err
	}
	s.draft = next
	s.version++
	s.mu.Unlock()

	s.debounce.Trigger()
	return next, nil
}

func (s *Session) SelectPickupDate(date *time.Time) (schedule.OrderDraft, error) {
	return s.apply("select_pickup_date", func(e schedule.Engine, d schedule.OrderDraft) (schedule.OrderDraft, error) {
		return e.SelectPickupDate(d, date)
	})
}

func (s *Session) SelectPickupSlot(slotID string) (schedule.OrderDraft, error) {
	return s.apply("select_pickup_slot", func(e schedule.Engine, d schedule.OrderDraft) (schedule.OrderDraft, error) {
		return e.SelectPickupSlot(d, slotID)
	})
}

func (s *Session) SelectDeliveryDate(date *time.Time) (schedule.OrderDraft, error) {
	return s.apply("select_delivery_date", func(e schedule.Engine, d schedule.OrderDraft) (schedule.OrderDraft, error) {
		return e.SelectDeliveryDate(d, date)
	})
}

func (s *Session) SelectDeliverySlot(slotID string) (schedule.OrderDraft, error) {
	return s.apply("select_delivery_slot", func(e schedule.Engine, d schedule.OrderDraft) (schedule.OrderDraft, error) {
		return e.SelectDeliverySlot(d, slotID)
	})
}

// State snapshots the session and drains pending notices.
func (s *Session) State() State {
	s.mu.Lock()
	d, submitted := s.draft, s.submitted
	s.lastSeen = s.now()
	s.mu.Unlock()
	return State{
		SessionID:        s.ID,
		Draft:            d,
		Complete:         schedule.IsComplete(d),
		Errors:           schedule.Errors(d),
		CatalogueLoading: s.catalogue.Loading(),
		CatalogueError:   s.catalogue.Err(),
		Submitted:        submitted,
		Notices:          s.notices.Drain(),
	}
}

// Submit hands a complete draft to order submission. An incomplete draft
// returns the validation messages with ErrDraftIncomplete. The draft that is
// validated is the one written out; transitions are refused from then on.
// If the handoff fails the session accepts transitions again.
func (s *Session) Submit(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return nil, internaltypes.ErrSessionClosed
	case s.submitted:
		s.mu.Unlock()
		return nil, internaltypes.ErrDraftSubmitted
	}
	d, v := s.draft, s.version
	if !schedule.IsComplete(d) {
		s.mu.Unlock()
		return schedule.Errors(d), internaltypes.ErrDraftIncomplete
	}
	s.submitted = true
	s.mu.Unlock()

	// transitions are refused now, so a pending publish carries exactly d
	s.debounce.Flush()
	if err := s.handoff(ctx, d, v); err != nil {
		s.mu.Lock()
		s.submitted = false
		s.mu.Unlock()
		return nil, err
	}
	s.log.Info("session: draft submitted", zap.Uint64("version", v))
	return nil, nil
}

func (s *Session) handoff(ctx context.Context, d schedule.OrderDraft, v uint64) error {
	if err := s.write(ctx, d, v); err != nil {
		return err
	}
	if s.submitter == nil {
		return nil
	}
	if err := s.submitter.MarkSubmitted(ctx, s.ID); err != nil {
		s.log.Error("session: submit failed", zap.Error(err))
		return err
	}
	return nil
}

// publish writes the latest draft if it has not been written yet.
func (s *Session) publish(ctx context.Context) error {
	s.mu.Lock()
	d, v := s.draft, s.version
	s.mu.Unlock()
	return s.write(ctx, d, v)
}

// write publishes snapshot d at version v unless a version at least as new
// has already gone out.
func (s *Session) write(ctx context.Context, d schedule.OrderDraft, v uint64) error {
	if s.publisher == nil {
		return nil
	}
	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	if v <= s.published {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := s.publisher.PublishDraft(ctx, s.ID, d); err != nil {
		s.log.Warn("session: publish draft failed", zap.Uint64("version", v), zap.Error(err))
		return err
	}
	s.published = v
	return nil
}

// Close stops accepting transitions and writes out any pending draft.
func (s *Session) Close(ctx context.Context) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.debounce.Stop()
	_ = s.publish(ctx)
}
