package usecases

import (
	"context"
	"sync"
	"time"

	"github.com/example/laundry-scheduler/internal/domain/schedule"
)

type fakeSource struct {
	mu    sync.Mutex
	slots []schedule.TimeSlot
	err   error
	gate  chan struct{}
	calls int
}

func (f *fakeSource) ListSlots(ctx context.Context) ([]schedule.TimeSlot, error) {
	f.mu.Lock()
	f.calls++
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.slots, f.err
}

func (f *fakeSource) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type published struct {
	sessionID string
	draft     schedule.OrderDraft
}

type fakePublisher struct {
	mu    sync.Mutex
	calls []published
	err   error
	// during runs after a draft is recorded, outside the lock
	during func()
}

func (f *fakePublisher) PublishDraft(_ context.Context, sessionID string, d schedule.OrderDraft) error {
	f.mu.Lock()
	if f.err != nil {
		err := f.err
		f.mu.Unlock()
		return err
	}
	f.calls = append(f.calls, published{sessionID: sessionID, draft: d})
	during := f.during
	f.mu.Unlock()
	if during != nil {
		during()
	}
	return nil
}

func (f *fakePublisher) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakePublisher) Calls() []published {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]published(nil), f.calls...)
}

type fakeSubmitter struct {
	mu        sync.Mutex
	submitted []string
}

func (f *fakeSubmitter) MarkSubmitted(_ context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, sessionID)
	return nil
}

func (f *fakeSubmitter) Submitted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.submitted...)
}

var fixedNow = time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)

func twoSlots() []schedule.TimeSlot {
	return []schedule.TimeSlot{
		{ID: "2", Label: "11:00 AM - 1:00 PM", StartTime: "11:00", EndTime: "13:00", Enabled: true},
		{ID: "1", Label: "9:00 AM - 11:00 AM", StartTime: "09:00", EndTime: "11:00", Enabled: true},
	}
}
