package usecases

import (
	"context"
	"sync"

	"github.com/example/laundry-scheduler/internal/domain/schedule"
	"go.uber.org/zap"
)

// SlotCatalogue loads the time-slot catalogue once and exposes it together
// with its loading and error state. Until loading finishes, and after a
// failed load, it reports an empty catalogue.
type SlotCatalogue struct {
	src    SlotSource
	notify Notifier
	log    *zap.Logger

	once sync.Once
	done chan struct{}

	mu      sync.RWMutex
	loading bool
	err     error
	slots   schedule.Catalogue
}

func NewSlotCatalogue(src SlotSource, notify Notifier, log *zap.Logger) *SlotCatalogue {
	return &SlotCatalogue{src: src, notify: notify, log: log, done: make(chan struct{}), loading: true}
}

// Load fetches the catalogue. Only the first call does any work; there is
// no automatic retry.
func (c *SlotCatalogue) Load(ctx context.Context) {
	c.once.Do(func() {
		defer close(c.done)

		raw, err := c.src.ListSlots(ctx)
		if err != nil {
			c.log.Warn("catalogue: load failed", zap.Error(err))
			c.finish(nil, err)
			c.notify.Notify(MsgSlotsUnavailable)
			return
		}

		cat, rejected := schedule.NewCatalogue(raw)
		for _, s := range rejected {
			c.log.Warn("catalogue: dropped invalid slot",
				zap.String("slot_id", s.ID),
				zap.String("start_time", s.StartTime),
				zap.String("end_time", s.EndTime),
			)
		}
		c.finish(cat, nil)
		if len(cat) == 0 {
			c.notify.Notify(MsgNoSlots)
		}
		c.log.Debug("catalogue: loaded", zap.Int("slots", len(cat)))
	})
}

func (c *SlotCatalogue) finish(cat schedule.Catalogue, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slots = cat
	c.err = err
	c.loading = false
}

func (c *SlotCatalogue) Slots() schedule.Catalogue {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.slots
}

func (c *SlotCatalogue) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

func (c *SlotCatalogue) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// Done is closed once Load has finished, successfully or not.
func (c *SlotCatalogue) Done() <-chan struct{} { return c.done }
